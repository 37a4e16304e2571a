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

package suite_test

import (
	libprv "github.com/nabbar/gotls/provider"
	libsui "github.com/nabbar/gotls/suite"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Protocol tables", func() {
	It("should resolve suites by code point and by name", func() {
		s := libsui.Lookup(0x1301)
		Expect(s).ToNot(BeNil())
		Expect(s.Name).To(Equal("TLS_AES_128_GCM_SHA256"))
		Expect(s.IsTLS13()).To(BeTrue())
		Expect(s.PRFHash).To(Equal(libprv.HashSHA256))

		Expect(libsui.LookupByName("TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384").IANA).To(Equal(uint16(0xC030)))
		Expect(libsui.Lookup(0x0000)).To(BeNil())
	})

	It("should carry coherent record geometry per suite", func() {
		for _, s := range libsui.DefaultSuites() {
			desc := s.Cipher()
			Expect(desc.IsAvailable()).To(BeTrue(), s.Name)
			Expect(desc.KeyLen()).To(BeNumerically(">", 0), s.Name)

			if s.IsTLS13() {
				Expect(s.NonceMode).To(Equal(libsui.NonceImplicitXOR), s.Name)
				Expect(desc.RecordIVLen()).To(Equal(0), s.Name)
			}

			if s.NonceMode == libsui.NonceExplicit {
				Expect(desc.RecordIVLen()).To(Equal(8), s.Name)
				Expect(desc.FixedIVLen()).To(Equal(4), s.Name)
			}
		}
	})

	It("should resolve signature schemes and their version windows", func() {
		s := libsui.LookupScheme(0x0804)
		Expect(s).ToNot(BeNil())
		Expect(s.Name).To(Equal("rsa_pss_rsae_sha256"))
		Expect(s.UsableWith(libsui.VersionTLS13)).To(BeTrue())

		legacy := libsui.LookupScheme(0x0401)
		Expect(legacy).ToNot(BeNil())
		Expect(legacy.UsableWith(libsui.VersionTLS13)).To(BeFalse())
		Expect(legacy.UsableWith(libsui.VersionTLS12)).To(BeTrue())
	})

	It("should keep X25519 first in the default groups", func() {
		groups := libsui.DefaultGroups()
		Expect(groups[0]).To(Equal(libsui.GroupX25519))

		for _, g := range groups {
			Expect(g.Curve()).ToNot(BeNil(), g.String())
		}
	})

	It("should parse configuration names", func() {
		Expect(libsui.ParseVersion("1.3")).To(Equal(libsui.VersionTLS13))
		Expect(libsui.ParseVersion("bogus")).To(Equal(libsui.Version(0)))
		Expect(libsui.ParseGroup("X25519")).To(Equal(libsui.GroupX25519))
	})

	It("should expose the hello retry magic random", func() {
		Expect(libsui.HelloRetryRandom[0]).To(Equal(uint8(0xCF)))
		Expect(libsui.HelloRetryRandom).To(HaveLen(32))
	})
})
