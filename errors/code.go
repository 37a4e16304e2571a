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

package errors

import (
	"runtime"
	"strconv"
	"strings"
)

// idMsgFct stores the mapping between error code blocks and their message
// functions. Registration happens in each package's init.
var idMsgFct = make(map[CodeError]Message)

// Message generates the message for a given error code.
type Message func(code CodeError) (message string)

// CodeError is a numeric error code. Codes are grouped in per-package blocks
// declared in modules.go.
type CodeError uint16

const (
	// UnknownError is the fallback code when no code applies.
	UnknownError CodeError = 0

	// UnknownMessage is the message associated with UnknownError.
	UnknownMessage = "unknown error"
)

// Uint16 returns the code as an uint16.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// String returns the code in decimal form.
func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

// GetMessage returns the registered message for the code, or UnknownMessage.
func (c CodeError) GetMessage() string {
	if c == UnknownError {
		return UnknownMessage
	}

	for i, f := range idMsgFct {
		if c < i {
			continue
		}
		if m := f(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error creates a new Error with this code, attaching the given parents.
func (c CodeError) Error(parent ...error) Error {
	var t runtime.Frame

	if pc := make([]uintptr, 1); runtime.Callers(2, pc) == 1 {
		f, _ := runtime.CallersFrames(pc).Next()
		t = f
	}

	e := &ers{
		c: c.Uint16(),
		e: c.GetMessage(),
		t: t,
	}
	e.Add(parent...)

	return e
}

// IfError creates a new Error only if at least one parent is non nil.
func (c CodeError) IfError(parent ...error) Error {
	for _, p := range parent {
		if p != nil {
			return c.Error(parent...)
		}
	}
	return nil
}

// RegisterIdFctMessage registers the message function for a code block. The
// minCode is the lowest code of the block.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	idMsgFct[minCode] = fct
}

// ExistInMapMessage checks if a message function covering the given code is
// already registered.
func ExistInMapMessage(code CodeError) bool {
	for i, f := range idMsgFct {
		if code < i {
			continue
		}
		if m := f(code); m != "" && !strings.EqualFold(m, UnknownMessage) {
			return true
		}
	}
	return false
}
