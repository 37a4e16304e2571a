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

package connection

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync/atomic"

	libval "github.com/go-playground/validator/v10"

	liberr "github.com/nabbar/gotls/errors"
	libhsk "github.com/nabbar/gotls/handshake"
	libsui "github.com/nabbar/gotls/suite"
	libxvl "github.com/nabbar/gotls/validator"
)

// ConfigCert is one identity: a PEM chain and its PEM private key, with an
// optional DER OCSP staple.
type ConfigCert struct {
	ChainPEM string `mapstructure:"chainPem" json:"chainPem" yaml:"chainPem" toml:"chainPem" validate:"required"`
	KeyPEM   string `mapstructure:"keyPem" json:"keyPem" yaml:"keyPem" toml:"keyPem" validate:"required"`
	OCSP     []byte `mapstructure:"ocsp" json:"ocsp,omitempty" yaml:"ocsp,omitempty" toml:"ocsp,omitempty"`
}

// Config binds one or more connections to a common parameter set. Once
// attached to a connection the config is reference-immutable: every
// mutation fails. Reference counting tracks the sharing.
type Config struct {
	VersionMin string `mapstructure:"versionMin" json:"versionMin" yaml:"versionMin" toml:"versionMin" validate:"omitempty,oneof=1.0 1.1 1.2 1.3"`
	VersionMax string `mapstructure:"versionMax" json:"versionMax" yaml:"versionMax" toml:"versionMax" validate:"omitempty,oneof=1.0 1.1 1.2 1.3"`

	CipherList []string `mapstructure:"cipherList" json:"cipherList" yaml:"cipherList" toml:"cipherList"`
	CurveList  []string `mapstructure:"curveList" json:"curveList" yaml:"curveList" toml:"curveList" validate:"omitempty,dive,oneof=X25519 P256 P384 P521"`

	Certs []ConfigCert `mapstructure:"certs" json:"certs" yaml:"certs" toml:"certs" validate:"omitempty,dive"`

	RootCAPEM  []string `mapstructure:"rootCA" json:"rootCA" yaml:"rootCA" toml:"rootCA"`
	ServerName string   `mapstructure:"serverName" json:"serverName" yaml:"serverName" toml:"serverName"`

	Protocols []string `mapstructure:"protocols" json:"protocols" yaml:"protocols" toml:"protocols" validate:"omitempty,dive,min=1,max=255"`

	RequireClientAuth  bool `mapstructure:"requireClientAuth" json:"requireClientAuth" yaml:"requireClientAuth" toml:"requireClientAuth"`
	OCSPStapling       bool `mapstructure:"ocspStapling" json:"ocspStapling" yaml:"ocspStapling" toml:"ocspStapling"`
	SessionTickets     bool `mapstructure:"sessionTickets" json:"sessionTickets" yaml:"sessionTickets" toml:"sessionTickets"`
	InsecureSkipVerify bool `mapstructure:"insecureSkipVerify" json:"insecureSkipVerify" yaml:"insecureSkipVerify" toml:"insecureSkipVerify"`
	IgnoreWarningAlert bool `mapstructure:"ignoreWarningAlert" json:"ignoreWarningAlert" yaml:"ignoreWarningAlert" toml:"ignoreWarningAlert"`
	QUIC               bool `mapstructure:"quic" json:"quic" yaml:"quic" toml:"quic"`

	// PSKMode restricts the advertised psk_key_exchange_modes.
	PSKMode string `mapstructure:"pskMode" json:"pskMode" yaml:"pskMode" toml:"pskMode" validate:"omitempty,oneof=psk_ke psk_dhe_ke both"`

	MaxFragment int `mapstructure:"maxFragment" json:"maxFragment" yaml:"maxFragment" toml:"maxFragment" validate:"omitempty,min=64,max=16384"`

	frozen atomic.Bool
	refs   atomic.Int32
}

// Validate checks the configuration constraints.
func (c *Config) Validate() liberr.Error {
	err := ErrorConfigInvalid.Error(nil)

	if er := libval.New().Struct(c); er != nil {
		if e, ok := er.(*libval.InvalidValidationError); ok {
			err.Add(e)
		}

		if es, ok := er.(libval.ValidationErrors); ok {
			for _, e := range es {
				//nolint goerr113
				err.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.StructNamespace(), e.ActualTag()))
			}
		}
	}

	if c.VersionMin != "" && c.VersionMax != "" {
		if libsui.ParseVersion(c.VersionMin) > libsui.ParseVersion(c.VersionMax) {
			//nolint goerr113
			err.Add(fmt.Errorf("versionMin '%s' is above versionMax '%s'", c.VersionMin, c.VersionMax))
		}
	}

	for _, name := range c.CipherList {
		if libsui.LookupByName(name) == nil {
			//nolint goerr113
			err.Add(fmt.Errorf("unknown cipher suite '%s'", name))
		}
	}

	if err.HasParent() {
		return err
	}

	return nil
}

// Frozen reports whether the config is attached and immutable.
func (c *Config) Frozen() bool {
	return c.frozen.Load()
}

// Refs returns the number of connections sharing the config.
func (c *Config) Refs() int {
	return int(c.refs.Load())
}

// attach freezes the config and takes a reference.
func (c *Config) attach() {
	c.frozen.Store(true)
	c.refs.Add(1)
}

// release drops one reference.
func (c *Config) release() {
	c.refs.Add(-1)
}

// checkMutable guards the setter surface.
func (c *Config) checkMutable() liberr.Error {
	if c.Frozen() {
		return ErrorConfigFrozen.Error(nil)
	}

	return nil
}

// SetVersionBounds mutates the version range; fails once attached.
func (c *Config) SetVersionBounds(min, max string) liberr.Error {
	if err := c.checkMutable(); err != nil {
		return err
	}

	c.VersionMin = min
	c.VersionMax = max

	return nil
}

// AddCert appends one identity; fails once attached.
func (c *Config) AddCert(cert ConfigCert) liberr.Error {
	if err := c.checkMutable(); err != nil {
		return err
	}

	c.Certs = append(c.Certs, cert)

	return nil
}

// parsePEMChain decodes every certificate block of a PEM bundle.
func parsePEMChain(data string) ([][]byte, *x509.Certificate, liberr.Error) {
	var (
		ders [][]byte
		leaf *x509.Certificate
	)

	rest := []byte(data)
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		c, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, nil, ErrorConfigInvalid.Error(err)
		}

		if leaf == nil {
			leaf = c
		}

		ders = append(ders, block.Bytes)
	}

	if len(ders) == 0 {
		return nil, nil, ErrorConfigInvalid.Error(nil)
	}

	return ders, leaf, nil
}

// parsePEMKey decodes a private key in PKCS#8, PKCS#1 or SEC1 form.
func parsePEMKey(data string) (crypto.Signer, liberr.Error) {
	block, _ := pem.Decode([]byte(data))
	if block == nil {
		return nil, ErrorConfigInvalid.Error(nil)
	}

	if k, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		if s, ok := k.(crypto.Signer); ok {
			return s, nil
		}
		return nil, ErrorConfigInvalid.Error(nil)
	}

	if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return k, nil
	}

	if k, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return k, nil
	}

	return nil, ErrorConfigInvalid.Error(nil)
}

// keyTypeFor classifies a signer for the auth selection.
func keyTypeFor(key crypto.Signer) libhsk.PKeyType {
	switch key.Public().(type) {
	case *rsa.PublicKey:
		return libhsk.PKeyRSA
	case *ecdsa.PublicKey:
		return libhsk.PKeyECDSA
	case ed25519.PublicKey:
		return libhsk.PKeyEd25519
	}

	return libhsk.PKeyUnknown
}

// buildSettings distills the config into the handshake preference
// snapshot and the trust store.
func (c *Config) buildSettings() (*libhsk.Settings, *libxvl.TrustStore, liberr.Error) {
	set := &libhsk.Settings{
		VersionMin:           libsui.VersionTLS12,
		VersionMax:           libsui.VersionTLS13,
		ServerName:           c.ServerName,
		RequireClientAuth:    c.RequireClientAuth,
		OCSPStapling:         c.OCSPStapling,
		SessionTickets:       c.SessionTickets,
		TreatWarningsAsFatal: !c.IgnoreWarningAlert,
		QUIC:                 c.QUIC,
		MaxFragment:          c.MaxFragment,
	}

	if v := libsui.ParseVersion(c.VersionMin); v != 0 {
		set.VersionMin = v
	}
	if v := libsui.ParseVersion(c.VersionMax); v != 0 {
		set.VersionMax = v
	}

	if len(c.CipherList) > 0 {
		for _, name := range c.CipherList {
			if s := libsui.LookupByName(name); s != nil {
				set.Suites = append(set.Suites, s)
			}
		}
	} else {
		set.Suites = libsui.DefaultSuites()
	}

	if len(c.CurveList) > 0 {
		for _, name := range c.CurveList {
			if g := libsui.ParseGroup(name); g != 0 {
				set.Groups = append(set.Groups, g)
			}
		}
	} else {
		set.Groups = libsui.DefaultGroups()
	}

	set.Schemes = libsui.DefaultSchemes()

	switch c.PSKMode {
	case "psk_ke":
		set.PSKModes = []libhsk.PSKKeMode{libhsk.PSKKe}
	case "psk_dhe_ke":
		set.PSKModes = []libhsk.PSKKeMode{libhsk.PSKDheKe}
	}

	for _, p := range c.Protocols {
		set.Protocols = append(set.Protocols, []byte(p))
	}

	for i := range c.Certs {
		ders, leaf, err := parsePEMChain(c.Certs[i].ChainPEM)
		if err != nil {
			return nil, nil, err
		}

		key, err := parsePEMKey(c.Certs[i].KeyPEM)
		if err != nil {
			return nil, nil, err
		}

		set.Certs = append(set.Certs, &libhsk.CertChain{
			ChainDER:     ders,
			Key:          key,
			KeyType:      keyTypeFor(key),
			Leaf:         leaf,
			OCSPResponse: c.Certs[i].OCSP,
		})
	}

	store := libxvl.NewTrustStore()
	for _, ca := range c.RootCAPEM {
		if err := store.AddPEM([]byte(ca)); err != nil {
			return nil, nil, err
		}
	}

	return set, store, nil
}
