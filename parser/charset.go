package parser

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// detectCharset guesses the encoding of data, defaulting to utf-8.
func detectCharset(data []byte) string {
	if utf8.Valid(data) {
		return "utf-8"
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// decode returns a utf-8 reader over data and the charset it was read as.
func decode(data []byte) (io.Reader, string) {
	cs := detectCharset(data)
	if cs == "utf-8" {
		return bytes.NewReader(data), cs
	}
	r, err := charset.NewReader(bytes.NewReader(data), "text/html; charset="+cs)
	if err != nil {
		log.WithField("charset", cs).WithError(err).Warn("[PARSE]: falling back to raw bytes")
		return bytes.NewReader(data), "utf-8"
	}
	return r, cs
}
