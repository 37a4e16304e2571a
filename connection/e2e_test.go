/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package connection_test

import (
	libcnn "github.com/nabbar/gotls/connection"
	liberr "github.com/nabbar/gotls/errors"
	libhsk "github.com/nabbar/gotls/handshake"
	libprv "github.com/nabbar/gotls/provider"
	libsui "github.com/nabbar/gotls/suite"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// sendAll / recvAll push a full buffer through. The in-memory transport
// never blocks on write.
func sendAll(c *libcnn.Connection, data []byte) {
	n, err := c.Send(data)
	Expect(err).ToNot(HaveOccurred())
	Expect(n).To(Equal(len(data)))
}

func recvAll(c *libcnn.Connection, want int) []byte {
	out := make([]byte, 0, want)
	buf := make([]byte, 4096)

	for len(out) < want {
		n, err := c.Recv(buf)
		Expect(err).ToNot(HaveOccurred())
		out = append(out, buf[:n]...)
	}

	return out
}

func serverConfig(chain, key string, mutate func(*libcnn.Config)) *libcnn.Config {
	cfg := &libcnn.Config{
		Certs: []libcnn.ConfigCert{{
			ChainPEM: chain,
			KeyPEM:   key,
		}},
	}

	if mutate != nil {
		mutate(cfg)
	}

	return cfg
}

func clientConfig(rootPEM string, mutate func(*libcnn.Config)) *libcnn.Config {
	cfg := &libcnn.Config{
		ServerName: "localhost",
		RootCAPEM:  []string{rootPEM},
	}

	if mutate != nil {
		mutate(cfg)
	}

	return cfg
}

var _ = Describe("End to end sessions", func() {
	var rsaChain, rsaKey string

	BeforeEach(func() {
		rsaChain, rsaKey = genRSACert()
	})

	Context("TLS 1.2 full handshake", func() {
		It("should complete with ECDHE-RSA AES-GCM and move 10 KiB both ways", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, func(c *libcnn.Config) {
				c.VersionMin = "1.2"
				c.VersionMax = "1.2"
			}))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.VersionMin = "1.2"
				c.VersionMax = "1.2"
				c.CipherList = []string{"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256"}
			}))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			Expect(cli.Version()).To(Equal(libsui.VersionTLS12))
			Expect(srv.Version()).To(Equal(libsui.VersionTLS12))
			Expect(cli.CipherSuite().IANA).To(Equal(uint16(0xC02F)))
			Expect(cli.PeerCertificate()).ToNot(BeNil())

			payload := make([]byte, 10*1024)
			for i := range payload {
				payload[i] = byte(i)
			}

			sendAll(cli, payload)
			Expect(recvAll(srv, len(payload))).To(Equal(payload))

			sendAll(srv, payload)
			Expect(recvAll(cli, len(payload))).To(Equal(payload))

			By("server initiates the shutdown")
			serr := srv.Shutdown()
			Expect(serr).To(HaveOccurred())
			Expect(libcnn.IsBlocked(serr)).To(BeTrue())

			_, rerr := cli.Recv(make([]byte, 16))
			Expect(rerr).To(HaveOccurred())
			Expect(rerr.IsCode(libcnn.ErrorClosed)).To(BeTrue())
			Expect(cli.CloseNotifyReceived()).To(BeTrue())

			Expect(cli.Shutdown()).ToNot(HaveOccurred())
			Expect(srv.Shutdown()).ToNot(HaveOccurred())

			Expect(cli.Closed()).To(BeTrue())
			Expect(srv.Closed()).To(BeTrue())
			Expect(srv.CloseNotifyReceived()).To(BeTrue())
		})

		It("should complete with a CBC suite", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, func(c *libcnn.Config) {
				c.VersionMin = "1.2"
				c.VersionMax = "1.2"
			}))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.VersionMin = "1.2"
				c.VersionMax = "1.2"
				c.CipherList = []string{"TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA"}
			}))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			sendAll(cli, []byte("cbc payload"))
			Expect(recvAll(srv, 11)).To(Equal([]byte("cbc payload")))
		})

		It("should complete with the plain RSA key exchange", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, func(c *libcnn.Config) {
				c.VersionMin = "1.2"
				c.VersionMax = "1.2"
			}))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.VersionMin = "1.2"
				c.VersionMax = "1.2"
				c.CipherList = []string{"TLS_RSA_WITH_AES_128_CBC_SHA256"}
			}))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			sendAll(srv, []byte("rsa kex"))
			Expect(recvAll(cli, 7)).To(Equal([]byte("rsa kex")))
		})

		It("should complete with the hybrid ECDHE plus KEM exchange", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, func(c *libcnn.Config) {
				c.VersionMin = "1.2"
				c.VersionMax = "1.2"
				c.CipherList = []string{"TLS_ECDHE_KYBER_RSA_WITH_AES_256_GCM_SHA384"}
			}))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.VersionMin = "1.2"
				c.VersionMax = "1.2"
				c.CipherList = []string{"TLS_ECDHE_KYBER_RSA_WITH_AES_256_GCM_SHA384"}
			}))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			Expect(cli.CipherSuite().Kex).To(Equal(libsui.KexECDHEKEM))

			sendAll(cli, []byte("post quantum"))
			Expect(recvAll(srv, 12)).To(Equal([]byte("post quantum")))
		})
	})

	Context("TLS 1.3", func() {
		It("should complete with X25519 and AES-128-GCM-SHA256", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, nil))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.CipherList = []string{"TLS_AES_128_GCM_SHA256"}
				c.CurveList = []string{"X25519"}
			}))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			Expect(cli.Version()).To(Equal(libsui.VersionTLS13))
			Expect(cli.CipherSuite().IANA).To(Equal(uint16(0x1301)))
			Expect(cli.CipherSuite().PRFHash).To(Equal(libprv.HashSHA256))

			sendAll(cli, []byte("over 1.3"))
			Expect(recvAll(srv, 8)).To(Equal([]byte("over 1.3")))

			sendAll(srv, []byte("and back"))
			Expect(recvAll(cli, 8)).To(Equal([]byte("and back")))
		})

		It("should negotiate ALPN and SNI", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, func(c *libcnn.Config) {
				c.Protocols = []string{"h2", "http/1.1"}
			}))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.Protocols = []string{"http/1.1", "h2"}
			}))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			Expect(cli.SelectedALPN()).To(Equal("h2"))
			Expect(srv.SelectedALPN()).To(Equal("h2"))
			Expect(srv.ServerName()).To(Equal("localhost"))
		})

		It("should honor a per-connection protocol override", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, func(c *libcnn.Config) {
				c.Protocols = []string{"h2", "http/1.1"}
			}))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.Protocols = []string{"h2"}
			}))
			Expect(err).ToNot(HaveOccurred())

			// the override narrows this one connection to http/1.1
			Expect(cli.SetProtocols([]string{"http/1.1"})).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			Expect(cli.SelectedALPN()).To(Equal("http/1.1"))
			Expect(srv.SelectedALPN()).To(Equal("http/1.1"))
		})

		It("should rotate keys on KeyUpdate and keep the stream alive", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, nil))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, nil))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			Expect(cli.RequestKeyUpdate(true)).ToNot(HaveOccurred())

			sendAll(cli, []byte("post rotate"))
			Expect(recvAll(srv, 11)).To(Equal([]byte("post rotate")))

			// the server answers the requested rotation on its next send
			sendAll(srv, []byte("rotated back"))
			Expect(recvAll(cli, 12)).To(Equal([]byte("rotated back")))
		})

		It("should authenticate the client when required", func() {
			cliChain, cliKey := genECDSACert()

			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, func(c *libcnn.Config) {
				c.RequireClientAuth = true
				c.RootCAPEM = []string{cliChain}
			}))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.Certs = []libcnn.ConfigCert{{
					ChainPEM: cliChain,
					KeyPEM:   cliKey,
				}}
			}))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			Expect(srv.PeerCertificate()).ToNot(BeNil())
		})
	})

	Context("TLS 1.3 PSK", func() {
		sharedSecret := make([]byte, 32)

		newPSK := func(id string) *libhsk.PSK {
			return &libhsk.PSK{
				Type:     libhsk.PSKExternal,
				Identity: []byte(id),
				Secret:   append([]byte(nil), sharedSecret...),
				HMAC:     libprv.HashSHA256,
			}
		}

		It("should complete psk-only and select the callback index", func() {
			srv, err := libcnn.New(libcnn.RoleServer, &libcnn.Config{
				CipherList: []string{"TLS_AES_128_GCM_SHA256"},
			})
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, &libcnn.Config{
				CipherList: []string{"TLS_AES_128_GCM_SHA256"},
				PSKMode:    "psk_ke",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(cli.AppendPSK(newPSK("one"))).ToNot(HaveOccurred())
			Expect(cli.AppendPSK(newPSK("two"))).ToNot(HaveOccurred())

			Expect(srv.AppendPSK(newPSK("one"))).ToNot(HaveOccurred())
			Expect(srv.AppendPSK(newPSK("two"))).ToNot(HaveOccurred())

			srv.SetPSKSelector(func(list *libhsk.OfferedPSKList) (int, error) {
				Expect(list.Len()).To(Equal(2))
				return 1, nil
			})

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			Expect(string(srv.SelectedPSKIdentity())).To(Equal("two"))
			Expect(string(cli.SelectedPSKIdentity())).To(Equal("two"))

			// no certificate flowed
			Expect(cli.PeerCertificate()).To(BeNil())

			sendAll(cli, []byte("psk data"))
			Expect(recvAll(srv, 8)).To(Equal([]byte("psk data")))
		})

		It("should resume a session from an issued ticket", func() {
			var mintedSecret []byte

			mint := func(secret []byte, _ uint16) ([]byte, error) {
				mintedSecret = append([]byte(nil), secret...)
				return []byte("ticket-0001"), nil
			}

			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, nil))
			Expect(err).ToNot(HaveOccurred())
			srv.SetTicketCallbacks(mint, nil)

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, nil))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			Expect(srv.IssueSessionTicket(3600)).ToNot(HaveOccurred())

			// the ticket arrives with the next read
			_, rerr := cli.Recv(make([]byte, 1))
			Expect(libcnn.IsBlocked(rerr)).To(BeTrue())

			state, serr := cli.ExportSession()
			Expect(serr).ToNot(HaveOccurred())

			// fresh pair resuming from the exported state
			srv2, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, nil))
			Expect(err).ToNot(HaveOccurred())

			Expect(srv2.AppendPSK(&libhsk.PSK{
				Type:     libhsk.PSKResumption,
				Identity: []byte("ticket-0001"),
				Secret:   mintedSecret,
				HMAC:     libprv.HashSHA256,
			})).ToNot(HaveOccurred())

			cli2, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, nil))
			Expect(err).ToNot(HaveOccurred())
			Expect(cli2.ResumeSession(state)).ToNot(HaveOccurred())

			wire(cli2, srv2)
			Expect(drive(cli2, srv2)).ToNot(HaveOccurred())

			Expect(cli2.SelectedPSKIdentity()).To(Equal([]byte("ticket-0001")))

			sendAll(cli2, []byte("resumed"))
			Expect(recvAll(srv2, 7)).To(Equal([]byte("resumed")))
		})
	})

	Context("TLS 1.2 session tickets", func() {
		It("should resume an abbreviated handshake from an opaque ticket", func() {
			type stored struct {
				master []byte
				suite  uint16
			}

			vault := map[string]stored{}

			mint := func(secret []byte, suite uint16) ([]byte, error) {
				vault["tkt-12"] = stored{
					master: append([]byte(nil), secret...),
					suite:  suite,
				}
				return []byte("tkt-12"), nil
			}

			accept := func(ticket []byte) ([]byte, uint16, bool) {
				st, ok := vault[string(ticket)]
				if !ok {
					return nil, 0, false
				}
				return st.master, st.suite, true
			}

			mkServer := func() *libcnn.Connection {
				srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, func(c *libcnn.Config) {
					c.VersionMin = "1.2"
					c.VersionMax = "1.2"
					c.SessionTickets = true
				}))
				Expect(err).ToNot(HaveOccurred())
				srv.SetTicketCallbacks(mint, accept)
				return srv
			}

			mkClient := func() *libcnn.Connection {
				cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
					c.VersionMin = "1.2"
					c.VersionMax = "1.2"
					c.SessionTickets = true
					c.CipherList = []string{"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256"}
				}))
				Expect(err).ToNot(HaveOccurred())
				return cli
			}

			srv := mkServer()
			cli := mkClient()

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			state, serr := cli.ExportSession()
			Expect(serr).ToNot(HaveOccurred())

			srv2 := mkServer()
			cli2 := mkClient()
			Expect(cli2.ResumeSession(state)).ToNot(HaveOccurred())

			wire(cli2, srv2)
			Expect(drive(cli2, srv2)).ToNot(HaveOccurred())

			Expect(cli2.Version()).To(Equal(libsui.VersionTLS12))

			sendAll(cli2, []byte("abbreviated"))
			Expect(recvAll(srv2, 11)).To(Equal([]byte("abbreviated")))
		})
	})

	Context("version downgrade", func() {
		It("should end in a protocol_version alert and a handshake failure on both sides", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, func(c *libcnn.Config) {
				c.VersionMin = "1.2"
				c.VersionMax = "1.3"
			}))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.VersionMin = "1.0"
				c.VersionMax = "1.1"
				c.CipherList = []string{"TLS_RSA_WITH_AES_128_CBC_SHA"}
			}))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)

			derr := drive(cli, srv)
			Expect(derr).To(HaveOccurred())

			le, ok := derr.(liberr.Error)
			Expect(ok).To(BeTrue())
			Expect(le.HasCode(libhsk.ErrorHandshakeFailure)).To(BeTrue())

			// the client eventually observes the fatal alert too
			cerr := cli.Handshake()
			Expect(cerr).To(HaveOccurred())
			Expect(cerr.HasCode(libhsk.ErrorHandshakeFailure) ||
				cerr.IsCode(libcnn.ErrorClosed)).To(BeTrue())
		})
	})

	Context("QUIC mode", func() {
		It("should write zero alert bytes on shutdown and reject inbound alerts", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, nil))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.QUIC = true
			}))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			// the non-QUIC peer emits a close_notify record
			serr := srv.Shutdown()
			Expect(libcnn.IsBlocked(serr)).To(BeTrue())

			// the QUIC endpoint treats the alert record as malformed
			_, rerr := cli.Recv(make([]byte, 8))
			Expect(rerr).To(HaveOccurred())

			// and its own shutdown stages no alert bytes at all
			Expect(cli.Shutdown()).ToNot(HaveOccurred())
			Expect(cli.PendingAlertBytes()).To(Equal(0))
			Expect(cli.Closed()).To(BeTrue())
		})
	})

	Context("certificate validation", func() {
		It("should fail the handshake against an expired server certificate", func() {
			expChain, expKey := genExpiredRSACert()

			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(expChain, expKey, nil))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(expChain, nil))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)

			derr := drive(cli, srv)
			Expect(derr).To(HaveOccurred())
		})

		It("should fail when the host name matches nothing in the chain", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, nil))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, func(c *libcnn.Config) {
				c.ServerName = "nomatch.invalid"
			}))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).To(HaveOccurred())
		})
	})

	Context("config binding", func() {
		It("should freeze the config on first attach", func() {
			cfg := serverConfig(rsaChain, rsaKey, nil)

			srv, err := libcnn.New(libcnn.RoleServer, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(srv).ToNot(BeNil())

			Expect(cfg.Frozen()).To(BeTrue())
			Expect(cfg.Refs()).To(Equal(1))

			merr := cfg.SetVersionBounds("1.2", "1.3")
			Expect(merr).To(HaveOccurred())
			Expect(merr.IsCode(libcnn.ErrorConfigFrozen)).To(BeTrue())
		})

		It("should reject an invalid configuration", func() {
			cfg := &libcnn.Config{
				VersionMin: "1.3",
				VersionMax: "1.2",
			}

			_, err := libcnn.New(libcnn.RoleClient, cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(libcnn.ErrorConfigInvalid)).To(BeTrue())
		})
	})

	Context("wipe", func() {
		It("should reset the connection for a fresh session", func() {
			srv, err := libcnn.New(libcnn.RoleServer, serverConfig(rsaChain, rsaKey, nil))
			Expect(err).ToNot(HaveOccurred())

			cli, err := libcnn.New(libcnn.RoleClient, clientConfig(rsaChain, nil))
			Expect(err).ToNot(HaveOccurred())

			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			Expect(cli.Wipe()).ToNot(HaveOccurred())
			Expect(srv.Wipe()).ToNot(HaveOccurred())

			// the same endpoints run a brand new session
			wire(cli, srv)
			Expect(drive(cli, srv)).ToNot(HaveOccurred())

			sendAll(cli, []byte("round two"))
			Expect(recvAll(srv, 9)).To(Equal([]byte("round two")))
		})
	})
})
