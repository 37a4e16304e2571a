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

package provider

import (
	"crypto"
	"crypto/md5" // #nosec: TLS 1.0/1.1 PRF compatibility
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding"
	"hash"

	liberr "github.com/nabbar/gotls/errors"
)

// HashAlgo identifies a digest algorithm.
type HashAlgo uint8

const (
	HashNone HashAlgo = iota
	HashMD5
	HashSHA1
	HashSHA224
	HashSHA256
	HashSHA384
	HashSHA512
	// HashMD5SHA1 is the MD5 || SHA-1 composite used by the TLS 1.0/1.1
	// PRF and legacy RSA signatures.
	HashMD5SHA1
)

// Size returns the digest length in bytes.
func (a HashAlgo) Size() int {
	switch a {
	case HashMD5:
		return md5.Size
	case HashSHA1:
		return sha1.Size
	case HashSHA224:
		return sha256.Size224
	case HashSHA256:
		return sha256.Size
	case HashSHA384:
		return sha512.Size384
	case HashSHA512:
		return sha512.Size
	case HashMD5SHA1:
		return md5.Size + sha1.Size
	}

	return 0
}

// BlockSize returns the compression block length in bytes.
func (a HashAlgo) BlockSize() int {
	switch a {
	case HashMD5, HashSHA1, HashSHA224, HashSHA256, HashMD5SHA1:
		return 64
	case HashSHA384, HashSHA512:
		return 128
	}

	return 0
}

// Func returns the standard library constructor for the algorithm, nil for
// the composite.
func (a HashAlgo) Func() func() hash.Hash {
	switch a {
	case HashMD5:
		return md5.New
	case HashSHA1:
		return sha1.New
	case HashSHA224:
		return sha256.New224
	case HashSHA256:
		return sha256.New
	case HashSHA384:
		return sha512.New384
	case HashSHA512:
		return sha512.New
	}

	return nil
}

// Crypto returns the matching crypto.Hash, 0 for the composite.
func (a HashAlgo) Crypto() crypto.Hash {
	switch a {
	case HashMD5:
		return crypto.MD5
	case HashSHA1:
		return crypto.SHA1
	case HashSHA224:
		return crypto.SHA224
	case HashSHA256:
		return crypto.SHA256
	case HashSHA384:
		return crypto.SHA384
	case HashSHA512:
		return crypto.SHA512
	case HashMD5SHA1:
		return crypto.MD5SHA1
	}

	return 0
}

// String implements fmt.Stringer.
func (a HashAlgo) String() string {
	switch a {
	case HashMD5:
		return "md5"
	case HashSHA1:
		return "sha1"
	case HashSHA224:
		return "sha224"
	case HashSHA256:
		return "sha256"
	case HashSHA384:
		return "sha384"
	case HashSHA512:
		return "sha512"
	case HashMD5SHA1:
		return "md5sha1"
	}

	return "none"
}

// NewHash returns a running digest for the algorithm.
func NewHash(a HashAlgo) (Hash, liberr.Error) {
	if a == HashMD5SHA1 {
		return &cpsHash{
			m: md5.New(),
			s: sha1.New(),
		}, nil
	}

	if f := a.Func(); f != nil {
		return &stdHash{
			a: a,
			h: f(),
		}, nil
	}

	return nil, ErrorHashUnknown.Error(nil)
}

// stdHash wraps a standard library digest.
type stdHash struct {
	a HashAlgo
	h hash.Hash
}

func (s *stdHash) Update(b []byte) liberr.Error {
	// hash.Hash writes never fail
	_, _ = s.h.Write(b)
	return nil
}

func (s *stdHash) Digest(out []byte) liberr.Error {
	if len(out) != s.h.Size() {
		return ErrorParamsEmpty.Error(nil)
	}

	c, err := s.Copy()
	if err != nil {
		return err
	}

	sum := c.(*stdHash).h.Sum(nil)
	copy(out, sum)

	return nil
}

func (s *stdHash) Copy() (Hash, liberr.Error) {
	m, ok := s.h.(encoding.BinaryMarshaler)
	if !ok {
		return nil, ErrorHashState.Error(nil)
	}

	st, err := m.MarshalBinary()
	if err != nil {
		return nil, ErrorHashState.Error(err)
	}

	n := s.a.Func()()
	u, ok := n.(encoding.BinaryUnmarshaler)
	if !ok {
		return nil, ErrorHashState.Error(nil)
	}

	if err = u.UnmarshalBinary(st); err != nil {
		return nil, ErrorHashState.Error(err)
	}

	return &stdHash{
		a: s.a,
		h: n,
	}, nil
}

func (s *stdHash) Reset() {
	s.h.Reset()
}

func (s *stdHash) Size() int {
	return s.h.Size()
}

func (s *stdHash) BlockSize() int {
	return s.h.BlockSize()
}

func (s *stdHash) Algo() HashAlgo {
	return s.a
}

// cpsHash is the MD5 || SHA-1 composite.
type cpsHash struct {
	m hash.Hash
	s hash.Hash
}

func (c *cpsHash) Update(b []byte) liberr.Error {
	_, _ = c.m.Write(b)
	_, _ = c.s.Write(b)
	return nil
}

func (c *cpsHash) Digest(out []byte) liberr.Error {
	if len(out) != md5.Size+sha1.Size {
		return ErrorParamsEmpty.Error(nil)
	}

	cp, err := c.Copy()
	if err != nil {
		return err
	}

	o := cp.(*cpsHash)
	copy(out[:md5.Size], o.m.Sum(nil))
	copy(out[md5.Size:], o.s.Sum(nil))

	return nil
}

func (c *cpsHash) Copy() (Hash, liberr.Error) {
	cloneStd := func(src hash.Hash, mk func() hash.Hash) (hash.Hash, liberr.Error) {
		m, ok := src.(encoding.BinaryMarshaler)
		if !ok {
			return nil, ErrorHashState.Error(nil)
		}

		st, err := m.MarshalBinary()
		if err != nil {
			return nil, ErrorHashState.Error(err)
		}

		n := mk()
		if err = n.(encoding.BinaryUnmarshaler).UnmarshalBinary(st); err != nil {
			return nil, ErrorHashState.Error(err)
		}

		return n, nil
	}

	m, err := cloneStd(c.m, md5.New)
	if err != nil {
		return nil, err
	}

	s, err := cloneStd(c.s, sha1.New)
	if err != nil {
		return nil, err
	}

	return &cpsHash{
		m: m,
		s: s,
	}, nil
}

func (c *cpsHash) Reset() {
	c.m.Reset()
	c.s.Reset()
}

func (c *cpsHash) Size() int {
	return md5.Size + sha1.Size
}

func (c *cpsHash) BlockSize() int {
	return 64
}

func (c *cpsHash) Algo() HashAlgo {
	return HashMD5SHA1
}
