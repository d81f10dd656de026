// Package codec selects the JSON implementation used on the wire.
//
// The server encodes responses and decodes request bodies through a Codec.
// The codec is chosen by its stable name in the service configuration.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCodec is returned by ByName for names outside Names.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Names lists the built-in codec names accepted by ByName.
var Names = []string{"go-json", "json"}

// ByName returns the wire codec registered under name. Names are matched
// exactly; there is no implicit default.
func ByName(name string) (Codec, error) {
	switch name {
	case "go-json":
		return GoJSON{}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("%w %q: want one of %s", ErrUnknownCodec, name, strings.Join(Names, ", "))
	}
}

// MustMarshal is a helper for tests and benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
