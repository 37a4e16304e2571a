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

// Package connection is the top of the TLS core: it binds a configuration
// to a session, pumps bytes between the transport callbacks and the record
// layer, owns the alert queues, and exposes the non-blocking
// handshake/send/recv/shutdown surface.
//
// Every operation returns immediately. A suspended operation reports
// ErrorIOBlockedRead or ErrorIOBlockedWrite and may be called again once
// the transport makes progress; any other error is terminal for the
// connection except transport failures on the application data path.
package connection

import (
	liberr "github.com/nabbar/gotls/errors"
	libhsk "github.com/nabbar/gotls/handshake"
	liblog "github.com/nabbar/gotls/logger"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// FuncRead reads transport bytes into p. A return of (0, nil) means the
// transport has nothing right now (the operation suspends); a non-nil
// error is a transport failure.
type FuncRead func(p []byte) (int, error)

// FuncWrite writes transport bytes from p. A return below len(p) with a
// nil error means the transport is full for now.
type FuncWrite func(p []byte) (int, error)

// Role re-exports the handshake roles.
const (
	RoleClient = libhsk.RoleClient
	RoleServer = libhsk.RoleServer
)

// New binds a validated config to a fresh connection. The config freezes
// on first attach and stays shared until every connection released it
// through Free.
func New(role libhsk.Role, cfg *Config) (*Connection, liberr.Error) {
	if cfg == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	set, store, err := cfg.buildSettings()
	if err != nil {
		return nil, err
	}

	cfg.attach()

	c := &Connection{
		role:  role,
		cfg:   cfg,
		set:   set,
		store: store,
		log:   liblog.Nop(),
	}

	if err = c.reset(); err != nil {
		cfg.release()
		return nil, err
	}

	return c, nil
}

// reset builds a fresh handshake core, reusing settings and trust store.
// The handshake works on a shallow copy of the settings so per-connection
// overrides never leak into the shared config.
func (c *Connection) reset() liberr.Error {
	set := *c.set

	hs, err := libhsk.NewConn(c.role, &set)
	if err != nil {
		return err
	}

	hs.Validator = c.buildValidator()
	hs.TicketReceived = c.captureTicket

	appIn, err := libstf.New(libsui.MaxFragmentLen)
	if err != nil {
		return err
	}

	c.hs = hs
	c.appIn = appIn
	c.hdrFill = 0
	c.hdrOK = false
	c.inFill = 0
	c.in = nil
	c.firstRecord = true
	c.sslv2 = false
	c.closeSent = false
	c.closeRecvd = false
	c.closed = false
	c.alertRead = [2]byte{}
	c.alertWrite = [2]byte{}
	c.alertReadPend = false
	c.alertWritePend = false

	return nil
}
