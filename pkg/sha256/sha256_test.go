package sha256

import (
	stdsha256 "crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestDigestKnownAnswers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq", "248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1"},
		{"The quick brown fox jumps over the lazy dog", "d7a8fbb307d7809469ca9abcb0082e4f8d5651e46d3cdb762d02d0bf37c9e592"},
		{strings.Repeat("a", 1000000), "cdc76e5c9914fb9281a1c7e284d73e67f1809a48a497200e046d39ccc7112cd0"},
	}
	for _, tt := range tests {
		got, err := Digest(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input length %d", len(tt.in))
	}
}

func TestDigestMatchesStdlib(t *testing.T) {
	buf := make([]byte, 300)
	for i := range buf {
		buf[i] = byte(i*7 + 3)
	}
	for n := 0; n <= len(buf); n++ {
		want := stdsha256.Sum256(buf[:n])
		assert.Equal(t, want, Sum256(buf[:n]), "length %d", n)
	}
}

func TestDigestShapeAndDeterminism(t *testing.T) {
	for _, in := range []string{"", "x", "Breaking: markets rally", strings.Repeat("\xff", 130)} {
		a, err := Digest(in)
		require.NoError(t, err)
		b, err := Digest(in)
		require.NoError(t, err)
		assert.Regexp(t, hexDigest, a)
		assert.Equal(t, a, b)
	}
}

func TestDigestLatin1Characters(t *testing.T) {
	got, err := Digest("café")
	require.NoError(t, err)

	// é is U+00E9 and must be hashed as the single byte 0xe9, not as UTF-8.
	want := stdsha256.Sum256([]byte{'c', 'a', 'f', 0xe9})
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestDigestRejectsWideCharacters(t *testing.T) {
	for _, in := range []string{"ā", "price in €", "日本", "emoji 🚀", string([]byte{0xff, 0xfe})} {
		got, err := Digest(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrInvalidInputEncoding), in)
		assert.Empty(t, got)
	}

	_, err := Digest("abĀc")
	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, 2, encErr.Offset)
	assert.Equal(t, rune(0x100), encErr.Char)
	assert.Contains(t, err.Error(), "U+0100")
}

func TestDigestAvalanche(t *testing.T) {
	base := "The quick brown fox jumps over the lazy dog"
	a, err := Digest(base)
	require.NoError(t, err)

	for i := 0; i < len(base); i++ {
		changed := []byte(base)
		changed[i] ^= 0x01
		b, err := Digest(string(changed))
		require.NoError(t, err)

		diff := 0
		for j := range a {
			if a[j] != b[j] {
				diff++
			}
		}
		assert.Greater(t, diff, 40, "flipping byte %d changed only %d hex characters", i, diff)
	}
}

func TestPadBoundaries(t *testing.T) {
	tests := []struct {
		n      int
		blocks int
	}{
		{0, 1}, {1, 1}, {55, 1}, {56, 2}, {57, 2}, {63, 2}, {64, 2}, {119, 2}, {120, 3},
	}
	for _, tt := range tests {
		msg := []byte(strings.Repeat("z", tt.n))
		padded := Pad(msg)

		assert.Equal(t, tt.blocks, BlockCount(tt.n), "n=%d", tt.n)
		assert.Len(t, padded, tt.blocks*BlockSize, "n=%d", tt.n)
		assert.Equal(t, msg, padded[:tt.n])
		assert.Equal(t, byte(0x80), padded[tt.n])
		for _, b := range padded[tt.n+1 : len(padded)-8] {
			assert.Zero(t, b)
		}

		var bitLen uint64
		for _, b := range padded[len(padded)-8:] {
			bitLen = bitLen<<8 | uint64(b)
		}
		assert.Equal(t, uint64(tt.n)*8, bitLen)

		want := stdsha256.Sum256(msg)
		assert.Equal(t, want, Sum256(msg), "n=%d", tt.n)
	}
}

func TestStreamingWrites(t *testing.T) {
	data := []byte(strings.Repeat("streaming digest check ", 40))
	want := stdsha256.Sum256(data)

	for _, chunk := range []int{1, 3, 55, 63, 64, 65, 200} {
		h := New()
		for off := 0; off < len(data); off += chunk {
			end := off + chunk
			if end > len(data) {
				end = len(data)
			}
			n, err := h.Write(data[off:end])
			require.NoError(t, err)
			require.Equal(t, end-off, n)
		}
		assert.Equal(t, want[:], h.Sum(nil), "chunk %d", chunk)
	}
}

func TestSumKeepsRunningState(t *testing.T) {
	h := New()
	_, _ = io.WriteString(h, "head")
	first := h.Sum(nil)
	_, _ = io.WriteString(h, "tail")

	want := stdsha256.Sum256([]byte("head"))
	assert.Equal(t, want[:], first)
	want = stdsha256.Sum256([]byte("headtail"))
	assert.Equal(t, want[:], h.Sum(nil))

	h.Reset()
	want = stdsha256.Sum256(nil)
	assert.Equal(t, want[:], h.Sum(nil))
	assert.Equal(t, Size, h.Size())
	assert.Equal(t, BlockSize, h.BlockSize())
}

func TestConcurrentDigests(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got, err := Digest("abc")
				if err != nil || got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
					t.Errorf("concurrent digest mismatch: %q %v", got, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
