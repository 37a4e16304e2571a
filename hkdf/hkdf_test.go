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

package hkdf_test

import (
	"encoding/hex"

	libhkd "github.com/nabbar/gotls/hkdf"
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

// extract-and-expand vectors: RFC 5869 for SHA-256 and SHA-1, the Kullo
// extension set for SHA-512.
type hkdfVector struct {
	algo libprv.HashAlgo
	ikm  string
	salt string
	info string
	prk  string
	okm  string
}

var hkdfVectors = []hkdfVector{
	{
		algo: libprv.HashSHA256,
		ikm:  "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b",
		salt: "000102030405060708090a0b0c",
		info: "f0f1f2f3f4f5f6f7f8f9",
		prk:  "077709362c2e32df0ddc3f0dc47bba6390b6c73bb50f9c3122ec844ad7c2b3e5",
		okm: "3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf" +
			"34007208d5b887185865",
	},
	{
		algo: libprv.HashSHA256,
		ikm: "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f" +
			"202122232425262728292a2b2c2d2e2f303132333435363738393a3b3c3d3e3f" +
			"404142434445464748494a4b4c4d4e4f",
		salt: "606162636465666768696a6b6c6d6e6f707172737475767778797a7b7c7d7e7f" +
			"808182838485868788898a8b8c8d8e8f909192939495969798999a9b9c9d9e9f" +
			"a0a1a2a3a4a5a6a7a8a9aaabacadaeaf",
		info: "b0b1b2b3b4b5b6b7b8b9babbbcbdbebfc0c1c2c3c4c5c6c7c8c9cacbcccdcecf" +
			"d0d1d2d3d4d5d6d7d8d9dadbdcdddedfe0e1e2e3e4e5e6e7e8e9eaebecedeeef" +
			"f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff",
		prk: "06a6b88c5853361a06104c9ceb35b45cef760014904671014a193f40c15fc244",
		okm: "b11e398dc80327a1c8e7f78c596a49344f012eda2d4efad8a050cc4c19afa97c" +
			"59045a99cac7827271cb41c65e590e09da3275600c2f09b8367793a9aca3db71" +
			"cc30c58179ec3e87c14c01d5c1f3434f1d87",
	},
	{
		algo: libprv.HashSHA1,
		ikm:  "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b",
		salt: "",
		info: "",
		prk:  "da8c8a73c7fa77288ec6f5e7c297786aa0d32d01",
		okm: "0ac1af7002b3d761d1e55298da9d0506b9ae52057220a306e07b6b87e8df21d0" +
			"ea00033de03984d34918",
	},
	{
		algo: libprv.HashSHA1,
		ikm:  "0b0b0b0b0b0b0b0b0b0b0b",
		salt: "000102030405060708090a0b0c",
		info: "f0f1f2f3f4f5f6f7f8f9",
		prk:  "9b6c18c432a7bf8f0e71c8eb88f4b30baa2ba243",
		okm: "085a01ea1b10f36933068b56efa5ad81a4f14b822f5b091568a9cdd4f155fda2" +
			"c22e422478d305f3f896",
	},
	{
		algo: libprv.HashSHA512,
		ikm:  "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b",
		salt: "000102030405060708090a0b0c",
		info: "f0f1f2f3f4f5f6f7f8f9",
		prk: "665799823737ded04a88e47e54a5890bb2c3d247c7a4254a8e61350723590a26" +
			"c36238127d8661b88cf80ef802d57e2f7cebcf1e00e083848be19929c61b4237",
		okm: "832390086cda71fb47625bb5ceb168e4c8e26a1a16ed34d9fc7fe92c14815793" +
			"38da362cb8d9f925d7cb",
	},
	{
		algo: libprv.HashSHA512,
		ikm:  "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b",
		salt: "",
		info: "",
		prk: "fd200c4987ac491313bd4a2a13287121247239e11c9ef82802044b66ef357e5b" +
			"194498d0682611382348572a7b1611de54764094286320578a863f36562b0df6",
		okm: "f5fa02b18298a72a8c23898a8703472c6eb179dc204c03425c970e3b164bf90f" +
			"ff22d04836d0e2343bac",
	},
}

var _ = Describe("HKDF", func() {
	It("should match the extract and expand vectors", func() {
		for i, v := range hkdfVectors {
			var salt []byte
			if v.salt != "" {
				salt = unhex(v.salt)
			}

			prk, err := libhkd.Extract(v.algo, salt, unhex(v.ikm))
			Expect(err).ToNot(HaveOccurred(), "vector %d", i)
			Expect(hex.EncodeToString(prk)).To(Equal(v.prk), "vector %d", i)

			var info []byte
			if v.info != "" {
				info = unhex(v.info)
			}

			okm, err := libhkd.Expand(v.algo, prk, info, len(v.okm)/2)
			Expect(err).ToNot(HaveOccurred(), "vector %d", i)
			Expect(hex.EncodeToString(okm)).To(Equal(v.okm), "vector %d", i)
		}
	})

	It("should run SHA-384 deterministically through extract and expand", func() {
		prk, err := libhkd.Extract(libprv.HashSHA384, []byte("salt"), []byte("input key material"))
		Expect(err).ToNot(HaveOccurred())
		Expect(prk).To(HaveLen(48))

		a, err := libhkd.Expand(libprv.HashSHA384, prk, []byte("info"), 42)
		Expect(err).ToNot(HaveOccurred())

		b, err := libhkd.Expand(libprv.HashSHA384, prk, []byte("info"), 42)
		Expect(err).ToNot(HaveOccurred())
		Expect(b).To(Equal(a))

		other, err := libhkd.Expand(libprv.HashSHA384, prk, []byte("oth"), 42)
		Expect(err).ToNot(HaveOccurred())
		Expect(other).ToNot(Equal(a))
	})

	It("should cap expand at 255 blocks", func() {
		prk, err := libhkd.Extract(libprv.HashSHA256, nil, []byte("x"))
		Expect(err).ToNot(HaveOccurred())

		_, eerr := libhkd.Expand(libprv.HashSHA256, prk, nil, 255*32+1)
		Expect(eerr).To(HaveOccurred())
	})
})

var _ = Describe("TLS 1.3 key schedule", func() {
	It("should derive the RFC 8446 label set with suite hash lengths", func() {
		for _, algo := range []libprv.HashAlgo{libprv.HashSHA256, libprv.HashSHA384} {
			sched := libhkd.NewSchedule(algo)

			Expect(sched.DeriveEarly(nil)).ToNot(HaveOccurred())
			Expect(sched.DeriveHandshake([]byte("shared secret"))).ToNot(HaveOccurred())

			th := make([]byte, algo.Size())

			cs, err := sched.Secret(libhkd.LabelClientHandshake, th)
			Expect(err).ToNot(HaveOccurred())
			Expect(cs).To(HaveLen(algo.Size()))

			ss, err := sched.Secret(libhkd.LabelServerHandshake, th)
			Expect(err).ToNot(HaveOccurred())
			Expect(ss).ToNot(Equal(cs))

			Expect(sched.DeriveMaster()).ToNot(HaveOccurred())

			for _, label := range []string{
				libhkd.LabelClientApp,
				libhkd.LabelServerApp,
				libhkd.LabelExporterMaster,
				libhkd.LabelResumptionMast,
			} {
				sec, err := sched.Secret(label, th)
				Expect(err).ToNot(HaveOccurred())
				Expect(sec).To(HaveLen(algo.Size()))
			}

			key, iv, err := libhkd.TrafficKeyIV(algo, cs, 16, 12)
			Expect(err).ToNot(HaveOccurred())
			Expect(key).To(HaveLen(16))
			Expect(iv).To(HaveLen(12))

			fk, err := libhkd.FinishedKey(algo, cs)
			Expect(err).ToNot(HaveOccurred())
			Expect(fk).To(HaveLen(algo.Size()))

			next, err := libhkd.NextTrafficSecret(algo, cs)
			Expect(err).ToNot(HaveOccurred())
			Expect(next).ToNot(Equal(cs))
		}
	})

	It("should refuse schedule stages out of order", func() {
		sched := libhkd.NewSchedule(libprv.HashSHA256)

		err := sched.DeriveHandshake(nil)
		Expect(err).To(HaveOccurred())
		Expect(err.IsCode(libhkd.ErrorSchedule)).To(BeTrue())

		Expect(sched.DeriveEarly(nil)).ToNot(HaveOccurred())

		err = sched.DeriveMaster()
		Expect(err).To(HaveOccurred())
	})

	It("should derive distinct external and resumption binder keys", func() {
		psk := []byte("0123456789abcdef0123456789abcdef")

		one := libhkd.NewSchedule(libprv.HashSHA256)
		Expect(one.DeriveEarly(psk)).ToNot(HaveOccurred())
		ext, err := one.BinderKey(true)
		Expect(err).ToNot(HaveOccurred())

		two := libhkd.NewSchedule(libprv.HashSHA256)
		Expect(two.DeriveEarly(psk)).ToNot(HaveOccurred())
		res, err := two.BinderKey(false)
		Expect(err).ToNot(HaveOccurred())

		Expect(ext).ToNot(Equal(res))
	})
})
