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
	"strings"
)

type ers struct {
	c uint16
	e string
	p []Error
	t runtime.Frame
}

func (e *ers) is(err *ers) bool {
	if e == nil || err == nil {
		return false
	}

	if e.c != err.c {
		return false
	}

	return strings.EqualFold(e.e, err.e)
}

func (e *ers) Is(err error) bool {
	if err == nil {
		return false
	}

	if er, ok := err.(*ers); ok {
		return e.is(er)
	}

	return e.IsError(err)
}

func (e *ers) Add(parent ...error) {
	for _, v := range parent {
		if v == nil {
			continue
		}

		if er, ok := v.(*ers); ok {
			if e.is(er) {
				for _, erp := range er.p {
					e.Add(erp)
				}
			} else {
				e.p = append(e.p, er)
			}
		} else if err, ok := v.(Error); ok {
			e.p = append(e.p, err)
		} else {
			e.p = append(e.p, &ers{
				c: 0,
				e: v.Error(),
			})
		}
	}
}

func (e *ers) SetParent(parent ...error) {
	e.p = make([]Error, 0)
	e.Add(parent...)
}

func (e *ers) IsCode(code CodeError) bool {
	return e.c == code.Uint16()
}

func (e *ers) HasCode(code CodeError) bool {
	if e.IsCode(code) {
		return true
	}

	for _, p := range e.p {
		if p.HasCode(code) {
			return true
		}
	}

	return false
}

func (e *ers) GetCode() CodeError {
	return CodeError(e.c)
}

func (e *ers) GetParentCode() []CodeError {
	res := make([]CodeError, 0, len(e.p))

	for _, p := range e.p {
		res = append(res, p.GetCode())
		res = append(res, p.GetParentCode()...)
	}

	return res
}

func (e *ers) IsError(err error) bool {
	if err == nil {
		return false
	}

	return strings.EqualFold(e.e, err.Error())
}

func (e *ers) HasError(err error) bool {
	if e.IsError(err) {
		return true
	}

	for _, p := range e.p {
		if p.HasError(err) {
			return true
		}
	}

	return false
}

func (e *ers) HasParent() bool {
	return len(e.p) > 0
}

func (e *ers) GetParent(withMainError bool) []error {
	res := make([]error, 0, len(e.p)+1)

	if withMainError {
		res = append(res, e.GetError())
	}

	for _, p := range e.p {
		res = append(res, p.GetError())
		res = append(res, p.GetParent(false)...)
	}

	return res
}

func (e *ers) Map(fct FuncMap) bool {
	if !fct(e.GetError()) {
		return false
	}

	for _, p := range e.p {
		if !p.Map(fct) {
			return false
		}
	}

	return true
}

func (e *ers) ContainsString(s string) bool {
	ok := false

	e.Map(func(err error) bool {
		if strings.Contains(err.Error(), s) {
			ok = true
			return false
		}
		return true
	})

	return ok
}

func (e *ers) Code() uint16 {
	return e.c
}

func (e *ers) CodeSlice() []uint16 {
	res := []uint16{e.c}

	for _, p := range e.p {
		res = append(res, p.CodeSlice()...)
	}

	return res
}

func (e *ers) Error() string {
	return e.e
}

func (e *ers) StringError() string {
	res := make([]string, 0, len(e.p)+1)

	e.Map(func(err error) bool {
		res = append(res, err.Error())
		return true
	})

	return strings.Join(res, ", ")
}

func (e *ers) GetError() error {
	return &ers{
		c: e.c,
		e: e.e,
		t: e.t,
	}
}

func (e *ers) GetTrace() string {
	if e.t.File != "" {
		return e.t.File + ":" + CodeError(e.t.Line).String()
	}

	return ""
}

func (e *ers) Unwrap() []error {
	res := make([]error, 0, len(e.p))

	for _, p := range e.p {
		res = append(res, p)
	}

	return res
}
