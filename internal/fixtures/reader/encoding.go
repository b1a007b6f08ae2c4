package reader

import (
	"bytes"
	"fmt"

	"github.com/vvka-141/dbseed/pkg/dbseed"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textDecoder converts fixture file bytes into UTF-8.
type textDecoder struct {
	name string
	enc  encoding.Encoding
}

// newTextDecoder resolves a WHATWG encoding label such as "utf8", "latin1" or "windows-1251".
func newTextDecoder(label string) (*textDecoder, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", dbseed.ErrInvalidArgument, label)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported encoding %q: %v", dbseed.ErrInvalidArgument, label, err)
	}
	return &textDecoder{name: name, enc: enc}, nil
}

func (d *textDecoder) decode(content []byte) ([]byte, error) {
	if d.name == dbseed.DefaultEncoding {
		return bytes.TrimPrefix(content, utf8BOM), nil
	}
	decoded, err := d.enc.NewDecoder().Bytes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s text: %w", d.name, err)
	}
	return decoded, nil
}
