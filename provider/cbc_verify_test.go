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

package provider_test

import (
	liberr "github.com/nabbar/gotls/errors"
	libprv "github.com/nabbar/gotls/provider"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// countingHMAC wraps a real keyed MAC and counts the work done, so the
// single-control-flow property of the CBC verifier is observable without
// wall-clock measurements.
type countingHMAC struct {
	inner   libprv.HMAC
	updated int
	digests int
}

func (c *countingHMAC) Update(b []byte) liberr.Error {
	c.updated += len(b)
	return c.inner.Update(b)
}

func (c *countingHMAC) Digest(out []byte) liberr.Error {
	c.digests++
	return c.inner.Digest(out)
}

func (c *countingHMAC) Reset()         { c.inner.Reset() }
func (c *countingHMAC) Size() int      { return c.inner.Size() }
func (c *countingHMAC) BlockSize() int { return c.inner.BlockSize() }
func (c *countingHMAC) Wipe()          { c.inner.Wipe() }

func (c *countingHMAC) Copy() (libprv.HMAC, liberr.Error) {
	i, err := c.inner.Copy()
	if err != nil {
		return nil, err
	}

	return &countingHMAC{inner: i}, nil
}

// buildCBCRecord assembles content || MAC || padding || pad-length with a
// valid MAC over header || len(2) || content.
func buildCBCRecord(mac libprv.HMAC, header, content []byte, padLen int) []byte {
	m, err := mac.Copy()
	Expect(err).ToNot(HaveOccurred())

	Expect(m.Update(header)).ToNot(HaveOccurred())
	Expect(m.Update([]byte{byte(len(content) >> 8), byte(len(content))})).ToNot(HaveOccurred())
	Expect(m.Update(content)).ToNot(HaveOccurred())

	sum := make([]byte, m.Size())
	Expect(m.Digest(sum)).ToNot(HaveOccurred())

	out := make([]byte, 0, len(content)+len(sum)+padLen+1)
	out = append(out, content...)
	out = append(out, sum...)
	for i := 0; i <= padLen; i++ {
		out = append(out, byte(padLen))
	}

	return out
}

var _ = Describe("CBC verify", func() {
	var (
		mac    libprv.HMAC
		header = []byte{0, 0, 0, 0, 0, 0, 0, 1, 23, 3, 3}
	)

	BeforeEach(func() {
		var err liberr.Error
		mac, err = libprv.NewHMAC(libprv.HashSHA1, mkKey(20))
		Expect(err).ToNot(HaveOccurred())
	})

	It("should accept a well formed record and return the content length", func() {
		content := []byte("cbc protected content")
		rec := buildCBCRecord(mac, header, content, 7)

		m, err := mac.Copy()
		Expect(err).ToNot(HaveOccurred())

		n, verr := libprv.VerifyCBC(m, header, rec)
		Expect(verr).ToNot(HaveOccurred())
		Expect(n).To(Equal(len(content)))
	})

	It("should reject a flipped MAC byte with the same error as bad padding", func() {
		content := []byte("cbc protected content")

		badMAC := buildCBCRecord(mac, header, content, 7)
		badMAC[len(content)+3] ^= 0x01

		badPad := buildCBCRecord(mac, header, content, 7)
		badPad[len(badPad)-2] ^= 0x01

		for _, rec := range [][]byte{badMAC, badPad} {
			m, err := mac.Copy()
			Expect(err).ToNot(HaveOccurred())

			_, verr := libprv.VerifyCBC(m, header, rec)
			Expect(verr).To(HaveOccurred())
			Expect(verr.IsCode(libprv.ErrorDecrypt)).To(BeTrue())
		}
	})

	It("should hash the same number of bytes for bad MAC and bad padding", func() {
		// For every record size the verifier must do identical work on
		// the bad-MAC-good-padding path and the bad-padding path.
		for _, size := range []int{320, 336, 512, 1024, 4096, 16384} {
			content := make([]byte, size-mac.Size()-17)

			good := buildCBCRecord(mac, header, content, 16)

			badMAC := append([]byte(nil), good...)
			badMAC[len(content)] ^= 0x01

			badPad := append([]byte(nil), good...)
			badPad[len(badPad)-3] ^= 0x01

			counts := make([]int, 0, 2)
			digests := make([]int, 0, 2)

			for _, rec := range [][]byte{badMAC, badPad} {
				cm := &countingHMAC{}

				var err liberr.Error
				cm.inner, err = libprv.NewHMAC(libprv.HashSHA1, mkKey(20))
				Expect(err).ToNot(HaveOccurred())

				_, verr := libprv.VerifyCBC(cm, header, rec)
				Expect(verr).To(HaveOccurred())

				counts = append(counts, cm.updated)
				digests = append(digests, cm.digests)
			}

			Expect(counts[0]).To(Equal(counts[1]),
				"hashed byte count differs for record size %d", size)
			Expect(digests[0]).To(Equal(digests[1]))
		}
	})
})
