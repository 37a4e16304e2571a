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

package main

import (
	"context"
	"net"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	libcnn "github.com/nabbar/gotls/connection"
	liberr "github.com/nabbar/gotls/errors"
)

func newServerCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "accept connections and echo everything back",
		RunE: func(cc *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Validate once; every accepted connection shares the same
			// config, which freezes on the first attach.
			if cerr := cfg.Validate(); cerr != nil {
				return cerr
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			defer func() {
				_ = ln.Close()
			}()

			log.Info("listening", map[string]interface{}{"addr": addr})

			grp, _ := errgroup.WithContext(context.Background())
			grp.SetLimit(64)

			for {
				nc, err := ln.Accept()
				if err != nil {
					break
				}

				grp.Go(func() error {
					serveOne(cfg, nc)
					return nil
				})
			}

			return grp.Wait()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:8443", "listen address")

	return cmd
}

// serveOne echoes one connection until the peer shuts down.
func serveOne(cfg *libcnn.Config, nc net.Conn) {
	defer func() {
		_ = nc.Close()
	}()

	conn, cerr := libcnn.New(libcnn.RoleServer, cfg)
	if cerr != nil {
		log.Error("connection setup failed", map[string]interface{}{"err": cerr.StringError()})
		return
	}
	defer conn.Free()

	attach(conn, nc)

	if cerr = conn.Handshake(); cerr != nil {
		log.Warning("handshake failed", map[string]interface{}{"err": cerr.StringError()})
		return
	}

	log.Info("session up", map[string]interface{}{
		"version": conn.Version().String(),
		"suite":   conn.CipherSuite().Name,
		"sni":     conn.ServerName(),
	})

	buf := make([]byte, 16384)

	for {
		n, cerr := conn.Recv(buf)
		if cerr != nil {
			if !liberr.Is(cerr, libcnn.ErrorClosed) {
				log.Warning("receive failed", map[string]interface{}{"err": cerr.StringError()})
			}
			break
		}

		if _, cerr = conn.Send(buf[:n]); cerr != nil {
			log.Warning("send failed", map[string]interface{}{"err": cerr.StringError()})
			break
		}
	}

	if conn.CloseNotifyReceived() {
		_ = conn.Shutdown()
	}
}
