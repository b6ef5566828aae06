package parser

import (
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps an upstream body so that it is always decoded as UTF-8.
//
// The encoding is taken from the charset parameter of contentType when present
// (e.g. "application/json; charset=ISO-8859-1"), then from a byte order mark.
// Bodies that are already UTF-8 pass through unchanged.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}
