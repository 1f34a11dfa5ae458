package sha256

import (
	"errors"
	"fmt"
)

// ErrInvalidInputEncoding is returned when a message holds a character that
// does not fit in a single byte.
var ErrInvalidInputEncoding = errors.New("invalid input encoding")

// EncodingError reports the first out-of-range character of a message.
type EncodingError struct {
	Offset int // byte offset in the Go string
	Char   rune
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: character %U at offset %d is outside the single-byte range",
		ErrInvalidInputEncoding, e.Char, e.Offset)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrInvalidInputEncoding
}

// Latin1 converts message to one byte per character. Invalid UTF-8 decodes to
// U+FFFD and is rejected like any other character above 255.
func Latin1(message string) ([]byte, error) {
	out := make([]byte, 0, len(message))
	for i, r := range message {
		if r > 0xff {
			return nil, &EncodingError{Offset: i, Char: r}
		}
		out = append(out, byte(r))
	}
	return out, nil
}

// Digest returns the 64 character lowercase hex SHA-256 digest of message.
// Every character must be in the range 0-255; otherwise the returned error
// matches ErrInvalidInputEncoding and no digest is produced.
func Digest(message string) (string, error) {
	b, err := Latin1(message)
	if err != nil {
		return "", err
	}
	return DigestBytes(b), nil
}
