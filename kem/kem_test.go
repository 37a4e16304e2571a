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

package kem_test

import (
	libkem "github.com/nabbar/gotls/kem"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func exercise(k libkem.KEM) {
	pub, priv, err := k.Keypair()
	Expect(err).ToNot(HaveOccurred())
	Expect(pub).To(HaveLen(k.PublicKeySize()))

	ct, ss, err := k.Encapsulate(pub)
	Expect(err).ToNot(HaveOccurred())
	Expect(ct).To(HaveLen(k.CiphertextSize()))
	Expect(ss).To(HaveLen(k.SharedSecretSize()))

	got, err := priv.Decapsulate(ct)
	Expect(err).ToNot(HaveOccurred())
	Expect(got).To(Equal(ss))

	// implicit rejection: a corrupted ciphertext decapsulates without
	// error to a different value
	bad := append([]byte(nil), ct...)
	bad[0] ^= 0x01

	rej, err := priv.Decapsulate(bad)
	Expect(err).ToNot(HaveOccurred())
	Expect(rej).To(HaveLen(k.SharedSecretSize()))
	Expect(rej).ToNot(Equal(ss))

	// size checks are the only refusals
	_, err = priv.Decapsulate(ct[:len(ct)-1])
	Expect(err).To(HaveOccurred())
	Expect(err.IsCode(libkem.ErrorBadSize)).To(BeTrue())

	priv.Wipe()
}

var _ = Describe("KEM bridge", func() {
	It("should run the full cycle with Kyber768", func() {
		exercise(libkem.Kyber768())
	})

	It("should run the full cycle with the test KEM", func() {
		exercise(libkem.XORKEM{})
	})

	It("should concatenate the hybrid premaster classical part first", func() {
		out := libkem.ConcatSecrets([]byte{1, 2}, []byte{3, 4})
		Expect(out).To(Equal([]byte{1, 2, 3, 4}))
	})
})
