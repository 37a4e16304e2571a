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

// Package errors provides coded error handling for the TLS core.
//
// Every fallible operation in this module returns an Error carrying a
// numeric code. Codes are partitioned per package (see modules.go), and each
// package registers a message function for its block. Errors chain: a failing
// subcall is attached as parent of the caller's error, preserving the path an
// error took through the record, handshake and connection layers.
//
// The type is compatible with the standard library: errors.Is and errors.As
// traverse the parent chain through Unwrap.
//
// Example usage:
//
//	import liberr "github.com/nabbar/gotls/errors"
//
//	const ErrorParamsMissing liberr.CodeError = iota + liberr.MinPkgStuffer
//
//	if src == nil {
//	    return ErrorParamsMissing.Error(nil)
//	}
package errors

// FuncMap is a callback used when iterating over an error hierarchy.
// Return true to continue with the next error, false to stop.
type FuncMap func(e error) bool

// Error extends the standard error with a numeric code and a parent chain.
type Error interface {
	error

	// IsCode checks the error's own code, ignoring parents.
	IsCode(code CodeError) bool
	// HasCode checks the error's code and every parent code.
	HasCode(code CodeError) bool
	// GetCode returns the error's own code.
	GetCode() CodeError
	// GetParentCode returns the codes of all parents, depth first.
	GetParentCode() []CodeError

	// Add appends the given errors as parents.
	Add(parent ...error)
	// SetParent replaces the parent chain with the given errors.
	SetParent(parent ...error)
	// HasParent reports whether at least one parent is attached.
	HasParent() bool
	// GetParent returns the parent chain, including the main error when
	// withMainError is true.
	GetParent(withMainError bool) []error

	// Is implements the contract used by errors.Is.
	Is(err error) bool
	// IsError compares against another error by message, ignoring case.
	IsError(err error) bool
	// HasError reports whether err matches this error or any parent.
	HasError(err error) bool

	// Map applies fct to this error and each parent until fct returns false.
	Map(fct FuncMap) bool
	// ContainsString reports whether any message in the chain contains s.
	ContainsString(s string) bool

	// Code returns the error's own code as uint16.
	Code() uint16
	// CodeSlice returns all codes in the chain as uint16.
	CodeSlice() []uint16

	// GetError returns this error as a standard error.
	GetError() error
	// GetTrace returns the "file:line" of the error's creation point.
	GetTrace() string
	// StringError returns the full chain as one string.
	StringError() string

	// Unwrap exposes the parent chain to errors.Is / errors.As.
	Unwrap() []error
}

// Is reports whether err carries the given code, itself or in a parent.
func Is(err error, code CodeError) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(Error); ok {
		return e.HasCode(code)
	}
	return false
}
