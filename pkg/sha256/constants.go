package sha256

import "math"

const (
	// Size is the size of a digest in bytes.
	Size = 32
	// BlockSize is the block size of the compression function in bytes.
	BlockSize = 64

	numPrimes = 64
	frac32    = 1 << 32
)

// initState and roundK are derived from the first 64 primes when the package
// is initialized and never written again.
var (
	initState [8]uint32
	roundK    [64]uint32
)

func init() {
	initState, roundK = deriveConstants()
}

// deriveConstants computes the initial hash words (square roots of the first
// 8 primes) and the round constants (cube roots of the first 64 primes).
func deriveConstants() (iv [8]uint32, k [64]uint32) {
	for i, p := range firstPrimes(numPrimes) {
		if i < len(iv) {
			iv[i] = fracBits(math.Sqrt(float64(p)))
		}
		k[i] = fracBits(math.Cbrt(float64(p)))
	}
	return iv, k
}

// fracBits returns the first 32 bits of the fractional part of x.
func fracBits(x float64) uint32 {
	return uint32((x - math.Floor(x)) * frac32)
}

// firstPrimes returns the first n primes using a sieve of Eratosthenes,
// doubling the sieve bound until enough primes are found.
func firstPrimes(n int) []int {
	limit := 2
	for {
		limit *= 2
		composite := make([]bool, limit+1)
		primes := make([]int, 0, n)
		for i := 2; i <= limit && len(primes) < n; i++ {
			if composite[i] {
				continue
			}
			primes = append(primes, i)
			for j := i * i; j <= limit; j += i {
				composite[j] = true
			}
		}
		if len(primes) == n {
			return primes
		}
	}
}
