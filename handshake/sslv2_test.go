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

package handshake

import (
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SSLv2 ClientHello conversion", func() {
	It("should convert the legacy shape and run the shared negotiation", func() {
		c, err := NewConn(RoleServer, &Settings{
			VersionMin: libsui.VersionTLS10,
			VersionMax: libsui.VersionTLS12,
			Suites:     libsui.DefaultSuites(),
			Groups:     libsui.DefaultGroups(),
			Schemes:    libsui.DefaultSchemes(),
			Certs: []*CertChain{{
				KeyType: PKeyRSA,
			}},
		})
		Expect(err).To(BeNil())

		payload, serr := libstf.New(128)
		Expect(serr).To(BeNil())

		// two 3 byte cipher specs: one SSLv2-only, one TLS shaped
		Expect(payload.WriteUint16(6)).ToNot(HaveOccurred())
		// empty session id
		Expect(payload.WriteUint16(0)).ToNot(HaveOccurred())
		// 16 byte challenge
		Expect(payload.WriteUint16(16)).ToNot(HaveOccurred())

		// SSLv2-only spec, dropped by the conversion
		Expect(payload.WriteUint8(0x07)).ToNot(HaveOccurred())
		Expect(payload.WriteUint16(0x00C0)).ToNot(HaveOccurred())
		// TLS_RSA_WITH_AES_128_CBC_SHA
		Expect(payload.WriteUint8(0x00)).ToNot(HaveOccurred())
		Expect(payload.WriteUint16(libsui.RSAWithAES128CBCSHA.IANA)).ToNot(HaveOccurred())

		challenge := make([]byte, 16)
		for i := range challenge {
			challenge[i] = byte(i + 1)
		}
		Expect(payload.WriteBytes(challenge)).ToNot(HaveOccurred())

		Expect(c.FeedSSLv2ClientHello(payload.Written(), libsui.VersionTLS10)).ToNot(HaveOccurred())

		Expect(c.Version).To(Equal(libsui.VersionTLS10))
		Expect(c.Suite).To(Equal(libsui.RSAWithAES128CBCSHA))

		// the challenge right-aligns into the client random
		Expect(c.ClientRandom[libsui.RandomLen-16:]).To(Equal(challenge))
		for _, b := range c.ClientRandom[:libsui.RandomLen-16] {
			Expect(b).To(Equal(uint8(0)))
		}

		// the server speaks next
		Expect(c.State()).To(Equal(StateServerHello))
		Expect(c.IsWriter()).To(BeTrue())
	})

	It("should reject an oversized challenge", func() {
		c, err := NewConn(RoleServer, &Settings{
			VersionMin: libsui.VersionTLS10,
			VersionMax: libsui.VersionTLS12,
			Suites:     libsui.DefaultSuites(),
			Groups:     libsui.DefaultGroups(),
			Schemes:    libsui.DefaultSchemes(),
		})
		Expect(err).To(BeNil())

		payload, serr := libstf.New(64)
		Expect(serr).To(BeNil())

		Expect(payload.WriteUint16(0)).ToNot(HaveOccurred())
		Expect(payload.WriteUint16(0)).ToNot(HaveOccurred())
		Expect(payload.WriteUint16(64)).ToNot(HaveOccurred())
		Expect(payload.WriteBytes(make([]byte, 64))).ToNot(HaveOccurred())

		ferr := c.FeedSSLv2ClientHello(payload.Written(), libsui.VersionTLS10)
		Expect(ferr).To(HaveOccurred())
		Expect(ferr.IsCode(ErrorBadMessage)).To(BeTrue())
	})
})
