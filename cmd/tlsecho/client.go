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
	"bufio"
	"net"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	libcnn "github.com/nabbar/gotls/connection"
)

// attach wires a net.Conn as the transport callbacks.
func attach(c *libcnn.Connection, nc net.Conn) {
	c.SetIO(
		func(p []byte) (int, error) {
			return nc.Read(p)
		},
		func(p []byte) (int, error) {
			return nc.Write(p)
		},
	)
	c.SetLogger(logFct())
}

func newClientCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "client",
		Short: "connect, echo stdin lines through the server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			conn, cerr := libcnn.New(libcnn.RoleClient, cfg)
			if cerr != nil {
				return cerr
			}
			defer conn.Free()

			nc, err := net.Dial("tcp", addr)
			if err != nil {
				return err
			}
			defer func() {
				_ = nc.Close()
			}()

			attach(conn, nc)

			if cerr = conn.Handshake(); cerr != nil {
				return cerr
			}

			log.Info("handshake complete", map[string]interface{}{
				"version": conn.Version().String(),
				"suite":   conn.CipherSuite().Name,
			})

			sc := bufio.NewScanner(os.Stdin)
			buf := make([]byte, 4096)

			for sc.Scan() {
				line := sc.Bytes()

				if _, cerr = conn.Send(line); cerr != nil {
					return cerr
				}

				n, cerr := conn.Recv(buf)
				if cerr != nil {
					return cerr
				}

				color.Green("%s", string(buf[:n]))
			}

			return conn.Shutdown()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:8443", "server address")

	return cmd
}
