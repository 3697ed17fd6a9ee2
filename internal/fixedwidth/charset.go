package fixedwidth

import (
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Charset maps a configured charset name to a decoder. "" and "utf-8" return
// nil (no conversion).
func Charset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}
	return nil, errors.Errorf("fixedwidth: unsupported charset %q", name)
}
