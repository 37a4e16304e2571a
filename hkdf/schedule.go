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

package hkdf

import (
	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
	libprv "github.com/nabbar/gotls/provider"
)

// RFC 8446 section 7 labels.
const (
	LabelDerived         = "derived"
	LabelExternalBinder  = "ext binder"
	LabelResumptionBind  = "res binder"
	LabelClientEarly     = "c e traffic"
	LabelClientHandshake = "c hs traffic"
	LabelServerHandshake = "s hs traffic"
	LabelClientApp       = "c ap traffic"
	LabelServerApp       = "s ap traffic"
	LabelExporterMaster  = "exp master"
	LabelResumptionMast  = "res master"
	LabelFinished        = "finished"
	LabelKey             = "key"
	LabelIV              = "iv"
	LabelTrafficUpdate   = "traffic upd"
	LabelResumption      = "resumption"
)

// stage tracks the extract chain position.
type stage uint8

const (
	stageNone stage = iota
	stageEarly
	stageHandshake
	stageMaster
)

// Schedule drives the TLS 1.3 secret chain Early -> Handshake -> Master.
// Each stage extracts from a derivation of its predecessor and new input
// keying material: the PSK (or zeros), the (EC)DHE shared secret, zeros.
type Schedule struct {
	algo    libprv.HashAlgo
	stage   stage
	current []byte
}

// NewSchedule returns an empty schedule for the suite hash.
func NewSchedule(algo libprv.HashAlgo) *Schedule {
	return &Schedule{
		algo: algo,
	}
}

// Algo returns the schedule hash.
func (s *Schedule) Algo() libprv.HashAlgo {
	return s.algo
}

// advance runs one extract step of the chain.
func (s *Schedule) advance(ikm []byte, next stage) liberr.Error {
	salt := []byte(nil)

	if s.stage != stageNone {
		eh, err := emptyHash(s.algo)
		if err != nil {
			return err
		}

		salt, err = DeriveSecret(s.algo, s.current, LabelDerived, eh)
		if err != nil {
			return err
		}

		libblb.WipeBytes(s.current)
	}

	if ikm == nil {
		ikm = make([]byte, s.algo.Size())
	}

	sec, err := Extract(s.algo, salt, ikm)
	if err != nil {
		return err
	}

	s.current = sec
	s.stage = next

	return nil
}

// DeriveEarly installs the early secret from the PSK, or from zeros when no
// PSK is in play.
func (s *Schedule) DeriveEarly(psk []byte) liberr.Error {
	if s.stage != stageNone {
		return ErrorSchedule.Error(nil)
	}

	return s.advance(psk, stageEarly)
}

// DeriveHandshake installs the handshake secret from the (EC)DHE shared
// secret.
func (s *Schedule) DeriveHandshake(ecdhe []byte) liberr.Error {
	if s.stage != stageEarly {
		return ErrorSchedule.Error(nil)
	}

	return s.advance(ecdhe, stageHandshake)
}

// DeriveMaster installs the master secret.
func (s *Schedule) DeriveMaster() liberr.Error {
	if s.stage != stageHandshake {
		return ErrorSchedule.Error(nil)
	}

	return s.advance(nil, stageMaster)
}

// Secret derives a labeled secret from the current chain position and the
// given transcript hash.
func (s *Schedule) Secret(label string, transcriptHash []byte) ([]byte, liberr.Error) {
	if s.stage == stageNone {
		return nil, ErrorSchedule.Error(nil)
	}

	return DeriveSecret(s.algo, s.current, label, transcriptHash)
}

// BinderKey derives the PSK binder key from the early secret and returns
// the finished key expanded from it, the key the binder HMAC uses. The
// label depends on whether the PSK is external or a resumption PSK.
func (s *Schedule) BinderKey(external bool) ([]byte, liberr.Error) {
	if s.stage != stageEarly {
		return nil, ErrorSchedule.Error(nil)
	}

	label := LabelResumptionBind
	if external {
		label = LabelExternalBinder
	}

	eh, err := emptyHash(s.algo)
	if err != nil {
		return nil, err
	}

	base, err := DeriveSecret(s.algo, s.current, label, eh)
	if err != nil {
		return nil, err
	}

	return FinishedKey(s.algo, base)
}

// Wipe zeroizes the chain secret.
func (s *Schedule) Wipe() {
	libblb.WipeBytes(s.current)
	s.current = nil
	s.stage = stageNone
}

// FinishedKey derives the finished key of a base secret.
func FinishedKey(algo libprv.HashAlgo, baseSecret []byte) ([]byte, liberr.Error) {
	return ExpandLabel(algo, baseSecret, LabelFinished, nil, algo.Size())
}

// TrafficKeyIV derives the record key and IV of a traffic secret.
func TrafficKeyIV(algo libprv.HashAlgo, trafficSecret []byte, keyLen, ivLen int) (key, iv []byte, err liberr.Error) {
	if key, err = ExpandLabel(algo, trafficSecret, LabelKey, nil, keyLen); err != nil {
		return nil, nil, err
	}

	if iv, err = ExpandLabel(algo, trafficSecret, LabelIV, nil, ivLen); err != nil {
		return nil, nil, err
	}

	return key, iv, nil
}

// NextTrafficSecret computes the KeyUpdate successor of a traffic secret.
func NextTrafficSecret(algo libprv.HashAlgo, trafficSecret []byte) ([]byte, liberr.Error) {
	return ExpandLabel(algo, trafficSecret, LabelTrafficUpdate, nil, algo.Size())
}

// ResumptionPSK derives a ticket PSK from the resumption master secret and
// the ticket nonce.
func ResumptionPSK(algo libprv.HashAlgo, resumptionMaster, nonce []byte) ([]byte, liberr.Error) {
	return ExpandLabel(algo, resumptionMaster, LabelResumption, nonce, algo.Size())
}
