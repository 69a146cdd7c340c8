package vcs

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// decoder turns VCS text output into valid UTF-8
type decoder struct {
	enc encoding.Encoding
}

func newDecoder(name string) (decoder, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return decoder{}, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return decoder{}, err
	}
	return decoder{enc: enc}, nil
}

func (d decoder) String(b []byte) string {
	if d.enc != nil {
		if decoded, err := d.enc.NewDecoder().Bytes(b); err == nil {
			b = decoded
		}
	}
	return strings.ToValidUTF8(string(b), "�")
}

func (d decoder) Lines(b []byte) []string {
	s := strings.ReplaceAll(d.String(b), "\r\n", "\n")
	return strings.Split(s, "\n")
}
