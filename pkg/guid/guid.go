// Package guid provides the 128-bit identifiers used for top-level persisted
// objects such as stages and assets.
package guid

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Size is the number of bytes in a GUID.
const Size = 16

var ErrInvalidGUID = errors.New("invalid guid")

// GUID is a random 16-byte identifier. Its text form is lowercase hex with
// dashes after bytes 4, 6, 8 and 10.
type GUID [Size]byte

// Nil is the all-zero GUID.
var Nil GUID

// New returns a random GUID.
func New() GUID {
	return GUID(uuid.New())
}

// Parse decodes the canonical dashed text form.
func Parse(s string) (GUID, error) {
	if len(s) != 36 {
		return Nil, eris.Wrapf(ErrInvalidGUID, "%q: want 36 characters, got %d", s, len(s))
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, eris.Wrapf(ErrInvalidGUID, "%q: %v", s, err)
	}
	return GUID(u), nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests and constants.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g GUID) String() string {
	return uuid.UUID(g).String()
}

func (g GUID) IsNil() bool {
	return g == Nil
}

func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *GUID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// KeyWriter is the part of a serialization context Write needs.
type KeyWriter interface {
	WriteString(key, value string) error
}

// KeyReader is the part of a serialization context Read needs.
type KeyReader interface {
	ReadString(key string) (string, error)
}

// Write stores g's text form under key.
func Write(w KeyWriter, key string, g GUID) error {
	return w.WriteString(key, g.String())
}

// Read loads a GUID stored under key. Malformed text is ErrInvalidGUID.
func Read(r KeyReader, key string) (GUID, error) {
	text, err := r.ReadString(key)
	if err != nil {
		return Nil, eris.Wrapf(err, "guid %q", key)
	}
	return Parse(text)
}
