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

package prf_test

import (
	"encoding/hex"

	libprf "github.com/nabbar/gotls/prf"
	libprv "github.com/nabbar/gotls/provider"
	libstf "github.com/nabbar/gotls/stuffer"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func unhex(s string) []byte {
	out, err := libstf.HexToBytes(s)
	Expect(err).ToNot(HaveOccurred())

	return out
}

var _ = Describe("TLS 1.2 PRF", func() {
	It("should match the published P_SHA256 test vector", func() {
		secret := unhex("9bbe436ba940f017b17652849a71db35")
		seed := unhex("a0ba9f936cda311827a6f796ffd5198c")

		out, err := libprf.PRF(libprv.HashSHA256, secret, "test label", seed, 100)
		Expect(err).ToNot(HaveOccurred())

		Expect(hex.EncodeToString(out)).To(Equal(
			"e3f229ba727be17b8d122620557cd453c2aab21d07c3d495329b52d4e61edb5a" +
				"6b301791e90d35c9c9a46b4e14baf9af0fa022f7077def17abfd3797c0564bab" +
				"4fbc91666e9def9b97fce34f796789baa48082d122ee42c5a72e5a5110fff701" +
				"87347b66"))
	})

	It("should derive a 48 byte master secret", func() {
		pms := unhex("0303aabbccddeeff00112233445566778899aabbccddeeff0011223344556677" +
			"8899aabbccddeeff0011223344556677")

		cr := make([]byte, 32)
		sr := make([]byte, 32)
		for i := range cr {
			cr[i] = byte(i)
			sr[i] = byte(32 + i)
		}

		ms, err := libprf.MasterSecret(libprv.HashSHA256, pms, cr, sr)
		Expect(err).ToNot(HaveOccurred())
		Expect(ms).To(HaveLen(48))

		// the key expansion reverses the random order
		block, err := libprf.KeyBlock(libprv.HashSHA256, ms, sr, cr, 104)
		Expect(err).ToNot(HaveOccurred())
		Expect(block).To(HaveLen(104))

		swapped, err := libprf.KeyBlock(libprv.HashSHA256, ms, cr, sr, 104)
		Expect(err).ToNot(HaveOccurred())
		Expect(swapped).ToNot(Equal(block))
	})

	It("should split the secret for the TLS 1.0 composite PRF", func() {
		secret := unhex("0102030405060708090a0b0c0d0e0f10")

		out, err := libprf.PRF(libprv.HashMD5SHA1, secret, "key expansion", []byte("seed"), 64)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(HaveLen(64))

		again, err := libprf.PRF(libprv.HashMD5SHA1, secret, "key expansion", []byte("seed"), 64)
		Expect(err).ToNot(HaveOccurred())
		Expect(again).To(Equal(out))

		other, err := libprf.PRF(libprv.HashMD5SHA1, secret, "master secret", []byte("seed"), 64)
		Expect(err).ToNot(HaveOccurred())
		Expect(other).ToNot(Equal(out))
	})

	It("should produce 12 byte finished data that differs per side", func() {
		master := make([]byte, 48)
		th := make([]byte, 32)

		cf, err := libprf.FinishedData(libprv.HashSHA256, master, true, th)
		Expect(err).ToNot(HaveOccurred())
		Expect(cf).To(HaveLen(12))

		sf, err := libprf.FinishedData(libprv.HashSHA256, master, false, th)
		Expect(err).ToNot(HaveOccurred())
		Expect(sf).To(HaveLen(12))

		Expect(cf).ToNot(Equal(sf))
	})
})
