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

// Package logger provides a thin logging facade over logrus for the TLS core.
//
// The record and handshake layers stay silent; only the connection layer and
// the command line tools log. Components receive a FuncLog so the embedder
// controls the sink and level.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// FuncLog is the injection point handed to components that log. It returns
// the Logger to use, or nil to disable logging.
type FuncLog func() Logger

// Logger is the subset of logging used by this module.
type Logger interface {
	SetLevel(lvl Level)
	GetLevel() Level
	SetOutput(out io.Writer)

	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warning(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})

	Entry() *logrus.Entry
}

// New returns a Logger backed by a dedicated logrus instance.
func New() Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})

	return &lgr{
		log: l,
	}
}

// Nop returns a FuncLog that discards everything.
func Nop() FuncLog {
	return func() Logger {
		return nil
	}
}
