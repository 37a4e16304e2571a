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

package handshake

import (
	liberr "github.com/nabbar/gotls/errors"
	libprv "github.com/nabbar/gotls/provider"
	libsui "github.com/nabbar/gotls/suite"
)

// Transcript keeps one running hash per digest the negotiation may still
// need. Before the cipher suite is known every candidate digest runs;
// afterwards Select drops all but the suite hash.
type Transcript struct {
	hashes map[libprv.HashAlgo]libprv.Hash
	chosen libprv.HashAlgo
}

// transcriptAlgos are the digests any supported suite may require.
var transcriptAlgos = []libprv.HashAlgo{
	libprv.HashSHA256,
	libprv.HashSHA384,
}

// NewTranscript starts running hashes for every candidate digest.
func NewTranscript() (*Transcript, liberr.Error) {
	t := &Transcript{
		hashes: make(map[libprv.HashAlgo]libprv.Hash, len(transcriptAlgos)),
	}

	for _, a := range transcriptAlgos {
		h, err := libprv.NewHash(a)
		if err != nil {
			return nil, err
		}
		t.hashes[a] = h
	}

	return t, nil
}

// Update feeds handshake bytes into every live hash.
func (t *Transcript) Update(b []byte) liberr.Error {
	for _, h := range t.hashes {
		if err := h.Update(b); err != nil {
			return err
		}
	}

	return nil
}

// Select drops every digest but the suite hash.
func (t *Transcript) Select(algo libprv.HashAlgo) {
	t.chosen = algo

	for a := range t.hashes {
		if a != algo {
			delete(t.hashes, a)
		}
	}
}

// Hash returns the current digest for the given algorithm.
func (t *Transcript) Hash(algo libprv.HashAlgo) ([]byte, liberr.Error) {
	h, ok := t.hashes[algo]
	if !ok {
		return nil, ErrorState.Error(nil)
	}

	out := make([]byte, h.Size())
	if err := h.Digest(out); err != nil {
		return nil, err
	}

	return out, nil
}

// Current returns the digest of the selected suite hash.
func (t *Transcript) Current() ([]byte, liberr.Error) {
	if t.chosen == libprv.HashNone {
		return nil, ErrorState.Error(nil)
	}

	return t.Hash(t.chosen)
}

// Snapshot returns an independent copy of every live hash. Handlers that
// need the transcript as it stood before the current message (Finished,
// CertificateVerify, PSK binders) work from a snapshot.
func (t *Transcript) Snapshot() (*Transcript, liberr.Error) {
	n := &Transcript{
		hashes: make(map[libprv.HashAlgo]libprv.Hash, len(t.hashes)),
		chosen: t.chosen,
	}

	for a, h := range t.hashes {
		cp, err := h.Copy()
		if err != nil {
			return nil, err
		}
		n.hashes[a] = cp
	}

	return n, nil
}

// SumWith returns the digest for algo after appending extra bytes to a
// copy of its state. The transcript itself is unchanged.
func (t *Transcript) SumWith(algo libprv.HashAlgo, extra []byte) ([]byte, liberr.Error) {
	h, ok := t.hashes[algo]
	if !ok {
		return nil, ErrorState.Error(nil)
	}

	cp, err := h.Copy()
	if err != nil {
		return nil, err
	}

	if err = cp.Update(extra); err != nil {
		return nil, err
	}

	out := make([]byte, cp.Size())
	if err = cp.Digest(out); err != nil {
		return nil, err
	}

	return out, nil
}

// ReplaceWithMessageHash implements the HelloRetryRequest transcript reset
// (RFC 8446 section 4.4.1): the ClientHello1 hash is replaced by a
// synthetic message_hash message.
func (t *Transcript) ReplaceWithMessageHash() liberr.Error {
	for a, h := range t.hashes {
		sum := make([]byte, h.Size())
		if err := h.Digest(sum); err != nil {
			return err
		}

		n, err := libprv.NewHash(a)
		if err != nil {
			return err
		}

		synthetic := []byte{uint8(libsui.TypeMessageHash), 0, 0, uint8(len(sum))}
		if err = n.Update(synthetic); err != nil {
			return err
		}
		if err = n.Update(sum); err != nil {
			return err
		}

		t.hashes[a] = n
	}

	return nil
}
