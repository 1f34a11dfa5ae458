// Package sha256 is a self-contained SHA-256 engine used to fingerprint
// article titles. The round constants and initial hash words are derived from
// the first 64 primes at package initialization.
package sha256

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// digest represents the partial evaluation of a checksum.
type digest struct {
	h   [8]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

var _ hash.Hash = (*digest)(nil)

// New returns a streaming hash.Hash computing the SHA-256 checksum.
func New() hash.Hash {
	d := new(digest)
	d.Reset()
	return d
}

func (d *digest) Reset() {
	d.h = initState
	d.nx = 0
	d.len = 0
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (int, error) {
	nn := len(p)
	d.len += uint64(nn)
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			block(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		block(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return nn, nil
}

// Sum appends the current digest to in. The running state is left untouched
// so callers can keep writing.
func (d *digest) Sum(in []byte) []byte {
	dd := *d
	sum := dd.checkSum()
	return append(in, sum[:]...)
}

func (d *digest) checkSum() [Size]byte {
	var tmp [BlockSize + 8]byte
	tmp[0] = 0x80
	n := padLen(d.len)
	binary.BigEndian.PutUint64(tmp[n:], d.len<<3)
	d.Write(tmp[:n+8])

	if d.nx != 0 {
		panic("sha256: partial block after padding")
	}
	return encode(&d.h)
}

// padLen returns how many bytes (0x80 then zeros) follow a message of
// length n so that the result is congruent to 56 modulo 64.
func padLen(n uint64) int {
	rem := int(n % BlockSize)
	if rem < 56 {
		return 56 - rem
	}
	return BlockSize + 56 - rem
}

// Pad returns message extended with the 0x80 marker, zero fill and the
// 64-bit big-endian bit length. The result is always a whole number of blocks.
func Pad(message []byte) []byte {
	n := padLen(uint64(len(message)))
	out := make([]byte, len(message)+n+8)
	copy(out, message)
	out[len(message)] = 0x80
	binary.BigEndian.PutUint64(out[len(out)-8:], uint64(len(message))<<3)
	return out
}

// BlockCount reports how many 64-byte blocks a message of n bytes occupies
// once padded.
func BlockCount(n int) int {
	return (n + padLen(uint64(n)) + 8) / BlockSize
}

// Sum256 returns the SHA-256 checksum of data.
func Sum256(data []byte) [Size]byte {
	h := initState
	block(&h, Pad(data))
	return encode(&h)
}

// DigestBytes returns the lowercase hex SHA-256 digest of data.
func DigestBytes(data []byte) string {
	sum := Sum256(data)
	return hex.EncodeToString(sum[:])
}

func encode(h *[8]uint32) (out [Size]byte) {
	for i, s := range h {
		binary.BigEndian.PutUint32(out[i*4:], s)
	}
	return out
}
