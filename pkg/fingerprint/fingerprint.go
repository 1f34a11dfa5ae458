// Package fingerprint turns article titles into deduplication keys.
package fingerprint

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/mr-tron/base58/base58"
	"github.com/multiformats/go-multihash"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/sha256"
)

var ErrEmptyTitle = errors.New("empty title")

// Result is the fingerprint of one title together with the normalized form
// that was hashed.
type Result struct {
	Fingerprint string
	Normalized  string
}

type Option func(*Hasher)

// WithUTF8 hashes the UTF-8 bytes of the normalized title instead of its
// characters, which admits titles with characters above U+00FF.
func WithUTF8(enable bool) Option {
	return func(h *Hasher) {
		h.encodeUTF8 = enable
	}
}

type Hasher struct {
	encodeUTF8 bool
}

func New(opts ...Option) *Hasher {
	h := &Hasher{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Normalize trims surrounding white space and lowercases the title.
func Normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Fingerprint normalizes title and returns its digest. Titles that normalize
// to the empty string are rejected.
func (h *Hasher) Fingerprint(title string) (Result, error) {
	norm := Normalize(title)
	if norm == "" {
		return Result{}, ErrEmptyTitle
	}

	var (
		fp  string
		err error
	)
	if h.encodeUTF8 {
		fp = sha256.DigestBytes([]byte(norm))
	} else {
		fp, err = sha256.Digest(norm)
		if err != nil {
			return Result{}, err
		}
	}
	return Result{Fingerprint: fp, Normalized: norm}, nil
}

// Multihash returns the base58 encoded sha2-256 multihash of the title
// fingerprint.
func (h *Hasher) Multihash(title string) (string, error) {
	res, err := h.Fingerprint(title)
	if err != nil {
		return "", err
	}
	return EncodeMultihash(res.Fingerprint)
}

// EncodeMultihash wraps a hex fingerprint in a sha2-256 multihash and encodes
// it with base58.
func EncodeMultihash(fp string) (string, error) {
	sum, err := hex.DecodeString(fp)
	if err != nil {
		return "", err
	}
	mh, err := multihash.Encode(sum, multihash.SHA2_256)
	if err != nil {
		return "", err
	}
	return base58.Encode(mh), nil
}
