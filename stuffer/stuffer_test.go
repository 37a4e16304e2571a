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

package stuffer_test

import (
	libstf "github.com/nabbar/gotls/stuffer"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// checkInvariant asserts 0 <= r <= w <= len.
func checkInvariant(s *libstf.Stuffer) {
	Expect(s.ReadPos()).To(BeNumerically(">=", 0))
	Expect(s.ReadPos()).To(BeNumerically("<=", s.WritePos()))
	Expect(s.WritePos()).To(BeNumerically("<=", s.Len()))
}

var _ = Describe("Stuffer", func() {
	Context("integer accessors", func() {
		It("should round-trip every width in network order", func() {
			s, err := libstf.New(64)
			Expect(err).ToNot(HaveOccurred())

			Expect(s.WriteUint8(0xAB)).ToNot(HaveOccurred())
			Expect(s.WriteUint16(0x0102)).ToNot(HaveOccurred())
			Expect(s.WriteUint24(0x030405)).ToNot(HaveOccurred())
			Expect(s.WriteUint32(0x06070809)).ToNot(HaveOccurred())
			Expect(s.WriteUint64(0x0A0B0C0D0E0F1011)).ToNot(HaveOccurred())
			checkInvariant(s)

			v8, err := s.ReadUint8()
			Expect(err).ToNot(HaveOccurred())
			Expect(v8).To(Equal(uint8(0xAB)))

			v16, err := s.ReadUint16()
			Expect(err).ToNot(HaveOccurred())
			Expect(v16).To(Equal(uint16(0x0102)))

			v24, err := s.ReadUint24()
			Expect(err).ToNot(HaveOccurred())
			Expect(v24).To(Equal(uint32(0x030405)))

			v32, err := s.ReadUint32()
			Expect(err).ToNot(HaveOccurred())
			Expect(v32).To(Equal(uint32(0x06070809)))

			v64, err := s.ReadUint64()
			Expect(err).ToNot(HaveOccurred())
			Expect(v64).To(Equal(uint64(0x0A0B0C0D0E0F1011)))

			checkInvariant(s)
		})

		It("should fail reads past the write cursor with out-of-data", func() {
			s := libstf.FromBytes([]byte{1, 2})

			_, err := s.ReadUint32()
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(libstf.ErrorOutOfData)).To(BeTrue())
		})
	})

	Context("growth", func() {
		It("should grow a growable stuffer on demand", func() {
			s, err := libstf.New(0)
			Expect(err).ToNot(HaveOccurred())

			big := make([]byte, 3000)
			Expect(s.WriteBytes(big)).ToNot(HaveOccurred())
			Expect(s.Avail()).To(Equal(3000))
			checkInvariant(s)
		})

		It("should refuse to overrun a fixed stuffer", func() {
			s, err := libstf.NewFixed(4)
			Expect(err).ToNot(HaveOccurred())

			Expect(s.WriteUint32(1)).ToNot(HaveOccurred())

			werr := s.WriteUint8(1)
			Expect(werr).To(HaveOccurred())
			Expect(werr.IsCode(libstf.ErrorNoSpace)).To(BeTrue())
		})

		It("should refuse to grow once tainted", func() {
			s, err := libstf.New(8)
			Expect(err).ToNot(HaveOccurred())

			_, err = s.RawWrite(4)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Tainted()).To(BeTrue())

			werr := s.WriteBytes(make([]byte, 128))
			Expect(werr).To(HaveOccurred())
			Expect(werr.IsCode(libstf.ErrorSafety)).To(BeTrue())
		})
	})

	Context("wipe", func() {
		It("should zeroize up to the high water mark and clear the taint", func() {
			s, err := libstf.New(32)
			Expect(err).ToNot(HaveOccurred())

			Expect(s.WriteBytes([]byte{0xFF, 0xFF, 0xFF, 0xFF})).ToNot(HaveOccurred())
			raw, err := s.RawRead(2)
			Expect(err).ToNot(HaveOccurred())
			Expect(raw).To(Equal([]byte{0xFF, 0xFF}))

			s.Wipe()
			Expect(s.Avail()).To(Equal(0))
			Expect(s.Tainted()).To(BeFalse())

			// previously used backing bytes are zero again
			Expect(s.SkipWrite(4)).ToNot(HaveOccurred())
			got := make([]byte, 4)
			Expect(s.ReadBytes(got)).ToNot(HaveOccurred())
			Expect(got).To(Equal([]byte{0, 0, 0, 0}))
		})

		It("should rewind and zeroize only the freed range on WipeN", func() {
			s, err := libstf.New(16)
			Expect(err).ToNot(HaveOccurred())

			Expect(s.WriteBytes([]byte{1, 2, 3, 4})).ToNot(HaveOccurred())
			Expect(s.WipeN(2)).ToNot(HaveOccurred())
			Expect(s.Avail()).To(Equal(2))

			got := make([]byte, 2)
			Expect(s.ReadBytes(got)).To(BeNil())
			Expect(got).To(Equal([]byte{1, 2}))
		})
	})

	Context("reservation", func() {
		It("should patch a reserved uint16 with the vector size", func() {
			s, err := libstf.New(32)
			Expect(err).ToNot(HaveOccurred())

			res, err := s.ReserveUint16()
			Expect(err).ToNot(HaveOccurred())

			Expect(s.WriteBytes([]byte{9, 9, 9})).ToNot(HaveOccurred())
			Expect(s.WriteVectorSize(res)).ToNot(HaveOccurred())

			l, err := s.ReadUint16()
			Expect(err).ToNot(HaveOccurred())
			Expect(l).To(Equal(uint16(3)))
		})

		It("should patch a reserved uint24 with the vector size", func() {
			s, err := libstf.New(32)
			Expect(err).ToNot(HaveOccurred())

			res, err := s.ReserveUint24()
			Expect(err).ToNot(HaveOccurred())

			Expect(s.WriteBytes(make([]byte, 5))).ToNot(HaveOccurred())
			Expect(s.WriteVectorSize(res)).ToNot(HaveOccurred())

			l, err := s.ReadUint24()
			Expect(err).ToNot(HaveOccurred())
			Expect(l).To(Equal(uint32(5)))
		})
	})

	Context("hexadecimal", func() {
		It("should decode valid hex pairs", func() {
			out, err := libstf.HexToBytes("deadBEEF00")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00}))
		})

		It("should reject a non-hex character", func() {
			_, err := libstf.HexToBytes("zz")
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(libstf.ErrorBadHex)).To(BeTrue())
		})

		It("should reject an odd length input", func() {
			_, err := libstf.HexToBytes("abc")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("copy", func() {
		It("should move bytes between stuffers", func() {
			src := libstf.FromBytes([]byte{1, 2, 3, 4, 5})

			dst, err := libstf.New(8)
			Expect(err).ToNot(HaveOccurred())

			Expect(dst.Copy(src, 3)).ToNot(HaveOccurred())
			Expect(dst.Bytes()).To(Equal([]byte{1, 2, 3}))
			Expect(src.Avail()).To(Equal(2))
		})
	})
})
