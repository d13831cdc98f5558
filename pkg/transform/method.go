package transform

import (
	"fmt"
	"strings"
)

// Method selects the per-pixel mapping
type Method int

const (
	// Additive adds the key to every channel modulo 256
	Additive Method = iota + 1
	// Bitwise XORs every channel with the key
	Bitwise
	// Permute rotates the channels R->G->B->R; it takes no key
	Permute
)

// methodNames maps accepted identifiers onto methods; the short names are the
// ones the desktop tool used (add, xor, swap)
var methodNames = map[string]Method{
	"additive": Additive,
	"add":      Additive,
	"bitwise":  Bitwise,
	"xor":      Bitwise,
	"permute":  Permute,
	"swap":     Permute,
}

// ParseMethod resolves a case-insensitive method name
func ParseMethod(name string) (Method, error) {
	if m, ok := methodNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return 0, &UnsupportedMethodError{Name: name}
}

func (m Method) String() string {
	switch m {
	case Additive:
		return "additive"
	case Bitwise:
		return "bitwise"
	case Permute:
		return "permute"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ShortName is the identifier the desktop tool used (add, xor, swap)
func (m Method) ShortName() string {
	switch m {
	case Additive:
		return "add"
	case Bitwise:
		return "xor"
	case Permute:
		return "swap"
	default:
		return m.String()
	}
}

// Keyed reports whether the method consumes a key
func (m Method) Keyed() bool {
	return m == Additive || m == Bitwise
}

// Valid reports whether m is one of the known methods
func (m Method) Valid() bool {
	return m >= Additive && m <= Permute
}

// Direction picks the forward (encrypt) or inverse (decrypt) half of a method
type Direction int

const (
	Forward Direction = iota
	Inverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Inverse:
		return "inverse"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Verb is the user facing name of the direction
func (d Direction) Verb() string {
	if d == Inverse {
		return "decrypt"
	}
	return "encrypt"
}
