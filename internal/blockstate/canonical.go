package blockstate

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/statemig/internal/tag"
)

// ErrInvalidUTF8 is returned by Check for a name, property name or string
// value that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Encode writes s with keys ordered by UTF-16 code units and no HTML
// escaping. Strings are written byte for byte, so Parse(Encode(s)) equals s
// for any s that passes Check.
func Encode(s State) []byte {
	return encode(s, false)
}

// MarshalCanonical encodes s as RFC 8785 canonical JSON: the Encode layout
// with every string NFC normalised. It is the hash input, not a storage
// format: states that differ only in normalisation encode identically.
func MarshalCanonical(s State) []byte {
	return encode(s, true)
}

// Check reports whether every string in s is valid UTF-8.
func Check(s State) error {
	if !utf8.ValidString(s.Name) {
		return fmt.Errorf("block state name %q: %w", s.Name, ErrInvalidUTF8)
	}
	for k, v := range s.Properties {
		if !utf8.ValidString(k) {
			return fmt.Errorf("block state %s: property name %q: %w", s.Name, k, ErrInvalidUTF8)
		}
		if str, ok := v.(tag.String); ok && !utf8.ValidString(string(str)) {
			return fmt.Errorf("block state %s: property %q: %w", s.Name, k, ErrInvalidUTF8)
		}
	}
	return nil
}

func encode(s State, nfc bool) []byte {
	var buf bytes.Buffer
	w := stringWriter(nfc)
	buf.WriteString(`{"name":`)
	w(&buf, s.Name)
	buf.WriteString(`,"states":{`)

	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)

	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		w(&buf, k)
		buf.WriteByte(':')
		writeTag(&buf, s.Properties[k], w)
	}
	buf.WriteString("}}")
	return buf.Bytes()
}

// Hash returns the hex sha256 of the canonical encoding of s.
func Hash(s State) string {
	sum := sha256.Sum256(MarshalCanonical(s))
	return hex.EncodeToString(sum[:])
}

func stringWriter(nfc bool) func(*bytes.Buffer, string) {
	if nfc {
		return func(buf *bytes.Buffer, s string) { writeString(buf, norm.NFC.String(s)) }
	}
	return writeString
}

func writeTag(buf *bytes.Buffer, v tag.Value, w func(*bytes.Buffer, string)) {
	buf.WriteString(`{"type":`)
	w(buf, string(v.Type()))
	buf.WriteString(`,"value":`)
	switch val := v.(type) {
	case tag.Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case tag.Byte:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case tag.String:
		w(buf, string(val))
	default:
		panic(fmt.Sprintf("blockstate: unknown tag.Value %T", v))
	}
	buf.WriteByte('}')
}

// writeString writes an RFC 8785 string literal.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// compareUTF16 orders strings by UTF-16 code units as RFC 8785 requires.
// Byte-wise comparison differs for characters outside the BMP.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
