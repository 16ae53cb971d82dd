package statement

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decode returns the statement as UTF-8 text. Polish bank exports that are
// not valid UTF-8 are Windows-1250 encoded.
func Decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, err := charmap.Windows1250.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
