package index

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	cerrors "github.com/handiism/covercluster/internal/errors"
)

// Encoding names reported in Catalog.Encoding.
const (
	EncodingUTF8   = "utf-8"
	EncodingCP1252 = "cp1252"
	EncodingLatin1 = "latin-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoder is one step of the fallback chain.
type decoder struct {
	name   string
	decode func([]byte) (string, error)
}

// decoders is tried in order. The strictest charset goes first so that a
// file which happens to be valid in a looser one is never misread.
var decoders = []decoder{
	{EncodingUTF8, decodeUTF8},
	{EncodingCP1252, decodeCP1252},
	{EncodingLatin1, decodeLatin1},
}

// Decode converts raw index bytes to text.
//
// UTF-8 is attempted first, then Windows code page 1252, then Latin-1. The
// name of the encoding that succeeded is returned alongside the text. Latin-1
// assigns a character to every byte, so in practice Decode only fails if that
// decoder itself errors; the failure is reported as DECODE_FAILURE.
//
// Example:
//
//	text, enc, err := Decode([]byte("Album Index:\n  Caf\xe9: 3\n"))
//	// text contains "Café", enc == "cp1252"
func Decode(data []byte) (string, string, error) {
	var errs []error
	for _, d := range decoders {
		text, err := d.decode(data)
		if err == nil {
			return text, d.name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
	}
	return "", "", cerrors.Wrap(cerrors.ErrCodeDecodeFailure, errors.Join(errs...), "index is not valid in any supported encoding")
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("invalid UTF-8 sequence")
	}
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}

// cp1252Undefined marks the five bytes code page 1252 leaves unassigned.
// charmap.Windows1252 maps them to C1 controls; a strict decoder rejects them.
var cp1252Undefined = [256]bool{0x81: true, 0x8D: true, 0x8F: true, 0x90: true, 0x9D: true}

func decodeCP1252(data []byte) (string, error) {
	for i, b := range data {
		if cp1252Undefined[b] {
			return "", fmt.Errorf("byte 0x%02X at offset %d is undefined", b, i)
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decodeLatin1(data []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
