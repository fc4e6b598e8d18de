package fir

import "fmt"

type EncodeErrorKind uint8

const (
	// UnsupportedConstruct: the tree holds a node or expression the format
	// cannot represent.
	UnsupportedConstruct EncodeErrorKind = iota + 1
	// PayloadTooLarge: a string, count or the whole blob exceeds its limit.
	PayloadTooLarge
)

func (k EncodeErrorKind) String() string {
	switch k {
	case UnsupportedConstruct:
		return "UnsupportedConstruct"
	case PayloadTooLarge:
		return "PayloadTooLarge"
	default:
		return "Unknown"
	}
}

// EncodeError is always terminal: no blob is produced alongside it.
type EncodeError struct {
	Kind   EncodeErrorKind
	Detail string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode: %s: %s", e.Kind, e.Detail)
}

// DecodeError describes a malformed blob.
type DecodeError struct {
	Offset int
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: at byte %d: %s", e.Offset, e.Detail)
}
