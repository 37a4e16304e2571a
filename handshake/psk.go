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
	"crypto/subtle"

	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
	libhkd "github.com/nabbar/gotls/hkdf"
	libprv "github.com/nabbar/gotls/provider"
)

// PSKType separates externally provisioned keys from resumption keys.
type PSKType uint8

const (
	PSKExternal PSKType = iota
	PSKResumption
)

// PSKKeMode is the psk_key_exchange_modes value.
type PSKKeMode uint8

const (
	PSKModeUnknown PSKKeMode = 0
	// PSKKe is psk-only key establishment.
	PSKKe PSKKeMode = 1
	// PSKDheKe combines the PSK with an (EC)DHE exchange.
	PSKDheKe PSKKeMode = 2
)

// PSK is one pre-shared key. Appended PSKs keep their insertion order; a
// selection is an index into that order.
type PSK struct {
	Type     PSKType
	Identity []byte
	Secret   []byte
	HMAC     libprv.HashAlgo

	// Resumption bookkeeping.
	TicketAgeAdd    uint32
	TicketIssueTime uint64

	// EarlySecret caches the extract of Secret once computed.
	EarlySecret []byte

	// MaxEarlyData advertises early data willingness on tickets.
	MaxEarlyData uint32
}

// Wipe zeroizes the key material.
func (p *PSK) Wipe() {
	if p == nil {
		return
	}

	libblb.WipeBytes(p.Secret)
	libblb.WipeBytes(p.EarlySecret)
	p.Secret = nil
	p.EarlySecret = nil
}

// PSKParams is the connection's PSK block.
type PSKParams struct {
	List []*PSK

	ChosenIdx int
	Chosen    *PSK

	KEMode PSKKeMode

	// BinderListSize is the encoded size of the binder list. The handshake
	// does not set it: the partial transcript is bounded with the count the
	// Conn keeps itself. Wipe resets it to zero.
	BinderListSize int
}

// Append adds a PSK preserving insertion order.
func (p *PSKParams) Append(psk *PSK) liberr.Error {
	if psk == nil || len(psk.Identity) == 0 || len(psk.Secret) == 0 {
		return ErrorParamsEmpty.Error(nil)
	}

	if psk.HMAC == libprv.HashNone {
		psk.HMAC = libprv.HashSHA256
	}

	p.List = append(p.List, psk)

	return nil
}

// Wipe zeroizes every key.
func (p *PSKParams) Wipe() {
	if p == nil {
		return
	}

	for _, k := range p.List {
		k.Wipe()
	}

	p.List = nil
	p.Chosen = nil
	p.ChosenIdx = 0
	p.BinderListSize = 0
}

// OfferedPSK is one identity observed in a ClientHello.
type OfferedPSK struct {
	Identity      []byte
	ObfuscatedAge uint32
}

// OfferedPSKList iterates the identities a ClientHello offered, in wire
// order. Handed to the selection callback.
type OfferedPSKList struct {
	items []OfferedPSK
	next  int
}

// HasNext reports whether another identity is available.
func (l *OfferedPSKList) HasNext() bool {
	return l != nil && l.next < len(l.items)
}

// Next returns the next identity.
func (l *OfferedPSKList) Next() (OfferedPSK, liberr.Error) {
	if !l.HasNext() {
		return OfferedPSK{}, ErrorParamsEmpty.Error(nil)
	}

	it := l.items[l.next]
	l.next++

	return it, nil
}

// Reset rewinds the iterator.
func (l *OfferedPSKList) Reset() {
	l.next = 0
}

// Len returns the number of offered identities.
func (l *OfferedPSKList) Len() int {
	return len(l.items)
}

// Get returns the identity at a wire index.
func (l *OfferedPSKList) Get(idx int) (OfferedPSK, liberr.Error) {
	if idx < 0 || idx >= len(l.items) {
		return OfferedPSK{}, ErrorParamsEmpty.Error(nil)
	}

	return l.items[idx], nil
}

// PSKSelector picks an offered identity; the returned index is the wire
// index. A negative index rejects every offer.
type PSKSelector func(list *OfferedPSKList) (int, error)

// binderFor computes the binder of one PSK over the hash of the partial
// ClientHello (everything before the binder list).
func binderFor(psk *PSK, partialHash []byte) ([]byte, liberr.Error) {
	sched := libhkd.NewSchedule(psk.HMAC)
	defer sched.Wipe()

	if err := sched.DeriveEarly(psk.Secret); err != nil {
		return nil, err
	}

	fk, err := sched.BinderKey(psk.Type == PSKExternal)
	if err != nil {
		return nil, err
	}
	defer libblb.WipeBytes(fk)

	mac, err := libprv.NewHMAC(psk.HMAC, fk)
	if err != nil {
		return nil, err
	}
	defer mac.Wipe()

	if err = mac.Update(partialHash); err != nil {
		return nil, err
	}

	out := make([]byte, mac.Size())
	if err = mac.Digest(out); err != nil {
		return nil, err
	}

	return out, nil
}

// verifyBinder checks a wire binder against the selected PSK in constant
// time.
func verifyBinder(psk *PSK, partialHash, wire []byte) liberr.Error {
	want, err := binderFor(psk, partialHash)
	if err != nil {
		return err
	}
	defer libblb.WipeBytes(want)

	if subtle.ConstantTimeCompare(want, wire) != 1 {
		return ErrorBinderMismatch.Error(nil)
	}

	return nil
}
