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

package stuffer

import (
	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
)

// Stuffer is a blob with a read cursor r and a write cursor w,
// 0 <= r <= w <= len. The high water mark hw records the maximum w ever
// reached, so Wipe only has to zeroize bytes that were actually used.
type Stuffer struct {
	blob     *libblb.Blob
	r        int
	w        int
	hw       int
	growable bool
	tainted  bool
}

// Avail returns the number of readable bytes (w - r).
func (s *Stuffer) Avail() int {
	if s == nil {
		return 0
	}

	return s.w - s.r
}

// Space returns the number of writable bytes without growing.
func (s *Stuffer) Space() int {
	if s == nil {
		return 0
	}

	return s.blob.Len() - s.w
}

// Len returns the valid size of the underlying blob.
func (s *Stuffer) Len() int {
	if s == nil {
		return 0
	}

	return s.blob.Len()
}

// Tainted reports whether a raw pointer into the stuffer was handed out.
func (s *Stuffer) Tainted() bool {
	return s != nil && s.tainted
}

// ReadPos returns the read cursor.
func (s *Stuffer) ReadPos() int {
	return s.r
}

// WritePos returns the write cursor.
func (s *Stuffer) WritePos() int {
	return s.w
}

// ensure makes room for n more bytes at the write cursor, growing a
// growable untainted stuffer as needed.
func (s *Stuffer) ensure(n int) liberr.Error {
	if n < 0 {
		return ErrorOutOfBound.Error(nil)
	}

	if s.w+n <= s.blob.Len() {
		return nil
	}

	if !s.growable {
		return ErrorNoSpace.Error(nil)
	}

	if s.tainted {
		return ErrorSafety.Error(nil)
	}

	size := s.w + n
	if g := 2 * s.blob.Cap(); g > size {
		size = g
	}
	if size < minGrowth {
		size = minGrowth
	}

	return s.blob.Grow(size)
}

// ReadBytes copies the next len(dst) readable bytes into dst.
func (s *Stuffer) ReadBytes(dst []byte) liberr.Error {
	if s.Avail() < len(dst) {
		return ErrorOutOfData.Error(nil)
	}

	copy(dst, s.blob.Bytes()[s.r:s.r+len(dst)])
	s.r += len(dst)

	return nil
}

// ReadN allocates and returns the next n readable bytes.
func (s *Stuffer) ReadN(n int) ([]byte, liberr.Error) {
	if n < 0 {
		return nil, ErrorOutOfBound.Error(nil)
	}

	dst := make([]byte, n)
	if err := s.ReadBytes(dst); err != nil {
		return nil, err
	}

	return dst, nil
}

// WriteBytes appends src at the write cursor.
func (s *Stuffer) WriteBytes(src []byte) liberr.Error {
	if err := s.ensure(len(src)); err != nil {
		return err
	}

	copy(s.blob.Bytes()[s.w:s.w+len(src)], src)
	s.w += len(src)

	if s.w > s.hw {
		s.hw = s.w
	}

	return nil
}

// RawRead returns a borrowed slice over the next n readable bytes and
// advances the read cursor. The stuffer becomes tainted.
func (s *Stuffer) RawRead(n int) ([]byte, liberr.Error) {
	if n < 0 {
		return nil, ErrorOutOfBound.Error(nil)
	}

	if s.Avail() < n {
		return nil, ErrorOutOfData.Error(nil)
	}

	s.tainted = true
	res := s.blob.Bytes()[s.r : s.r+n]
	s.r += n

	return res, nil
}

// RawWrite returns a borrowed slice over the next n writable bytes and
// advances the write cursor. The stuffer becomes tainted.
func (s *Stuffer) RawWrite(n int) ([]byte, liberr.Error) {
	if err := s.ensure(n); err != nil {
		return nil, err
	}

	s.tainted = true
	res := s.blob.Bytes()[s.w : s.w+n]
	s.w += n

	if s.w > s.hw {
		s.hw = s.w
	}

	return res, nil
}

// SkipRead advances the read cursor by n.
func (s *Stuffer) SkipRead(n int) liberr.Error {
	if n < 0 {
		return ErrorOutOfBound.Error(nil)
	}

	if s.Avail() < n {
		return ErrorOutOfData.Error(nil)
	}

	s.r += n

	return nil
}

// SkipWrite advances the write cursor by n, exposing uninitialized bytes as
// readable. The bytes are zero on a fresh or wiped stuffer.
func (s *Stuffer) SkipWrite(n int) liberr.Error {
	if err := s.ensure(n); err != nil {
		return err
	}

	s.w += n

	if s.w > s.hw {
		s.hw = s.w
	}

	return nil
}

// Reread rewinds the read cursor to the start of the stuffer.
func (s *Stuffer) Reread() {
	s.r = 0
}

// Rewrite rewinds both cursors without zeroizing.
func (s *Stuffer) Rewrite() {
	s.r = 0
	s.w = 0
}

// Wipe rewinds both cursors and zeroizes every byte up to the high water
// mark. The taint is cleared: no borrowed slice survives a wipe by contract.
func (s *Stuffer) Wipe() {
	if s == nil {
		return
	}

	if s.hw > 0 {
		libblb.WipeBytes(s.blob.Bytes()[:s.hw])
	}

	s.r = 0
	s.w = 0
	s.hw = 0
	s.tainted = false
}

// WipeN rewinds the write cursor by n and zeroizes the freed range. The
// read cursor is clamped to the new write cursor.
func (s *Stuffer) WipeN(n int) liberr.Error {
	if n < 0 || n > s.w {
		return ErrorOutOfBound.Error(nil)
	}

	libblb.WipeBytes(s.blob.Bytes()[s.w-n : s.w])
	s.w -= n

	if s.r > s.w {
		s.r = s.w
	}

	return nil
}

// Copy moves n readable bytes from src to the write cursor of s.
func (s *Stuffer) Copy(src *Stuffer, n int) liberr.Error {
	if src == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	if src.Avail() < n {
		return ErrorOutOfData.Error(nil)
	}

	b := src.blob.Bytes()[src.r : src.r+n]
	if err := s.WriteBytes(b); err != nil {
		return err
	}

	src.r += n

	return nil
}

// Bytes returns the readable window without consuming it.
func (s *Stuffer) Bytes() []byte {
	if s == nil {
		return nil
	}

	return s.blob.Bytes()[s.r:s.w]
}

// Written returns every byte written so far, from the start of the stuffer
// to the write cursor, without consuming anything.
func (s *Stuffer) Written() []byte {
	if s == nil {
		return nil
	}

	return s.blob.Bytes()[:s.w]
}

// Free wipes the stuffer and releases its storage.
func (s *Stuffer) Free() {
	if s == nil {
		return
	}

	s.Wipe()
	s.blob.Free()
}
