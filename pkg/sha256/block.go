package sha256

import (
	"encoding/binary"
	"math/bits"
)

func sigma0(x uint32) uint32 {
	return bits.RotateLeft32(x, -7) ^ bits.RotateLeft32(x, -18) ^ (x >> 3)
}

func sigma1(x uint32) uint32 {
	return bits.RotateLeft32(x, -17) ^ bits.RotateLeft32(x, -19) ^ (x >> 10)
}

func bigSigma0(x uint32) uint32 {
	return bits.RotateLeft32(x, -2) ^ bits.RotateLeft32(x, -13) ^ bits.RotateLeft32(x, -22)
}

func bigSigma1(x uint32) uint32 {
	return bits.RotateLeft32(x, -6) ^ bits.RotateLeft32(x, -11) ^ bits.RotateLeft32(x, -25)
}

func ch(x, y, z uint32) uint32 { return (x & y) ^ (^x & z) }

func maj(x, y, z uint32) uint32 { return (x & y) ^ (x & z) ^ (y & z) }

// schedule expands one 64-byte block into the 64-word message schedule.
func schedule(w *[64]uint32, p []byte) {
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(p[i*4:])
	}
	for i := 16; i < 64; i++ {
		w[i] = w[i-16] + sigma0(w[i-15]) + w[i-7] + sigma1(w[i-2])
	}
}

// block runs the compression function over every whole block in p.
// len(p) must be a multiple of BlockSize.
func block(h *[8]uint32, p []byte) {
	var w [64]uint32
	for len(p) >= BlockSize {
		schedule(&w, p[:BlockSize])

		a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
		for i := 0; i < 64; i++ {
			t1 := hh + bigSigma1(e) + ch(e, f, g) + roundK[i] + w[i]
			t2 := bigSigma0(a) + maj(a, b, c)
			hh = g
			g = f
			f = e
			e = d + t1
			d = c
			c = b
			b = a
			a = t1 + t2
		}

		h[0] += a
		h[1] += b
		h[2] += c
		h[3] += d
		h[4] += e
		h[5] += f
		h[6] += g
		h[7] += hh

		p = p[BlockSize:]
	}
}
