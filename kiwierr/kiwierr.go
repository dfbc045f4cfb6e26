// Package kiwierr defines the closed error taxonomy shared by every Kiwi
// component: the tokenizer, the compiler, the binary schema codec, and the
// runtime value codec. Every error that crosses a package boundary is a
// *kiwierr.Error carrying one of the Kind values below, so callers can
// switch on Kind instead of matching error strings.
package kiwierr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is a closed, stable discriminant for every error Kiwi can produce.
// New values are only ever appended; existing values never change meaning.
type Kind int

const (
	Unknown Kind = iota

	// Parse errors.
	UnexpectedToken
	UnexpectedEOF
	InvalidIdentifier
	UnknownBuiltin

	// Validation errors.
	DuplicateName
	DuplicateFieldID
	DuplicateEnumValue
	UnknownType
	StructFieldHasID
	EnumFieldMissingID
	MessageFieldMissingID
	RecursiveStruct

	// Codec errors.
	Truncated
	InvalidUTF8
	VarintOverflow
	TypeMismatch
	UnknownField
	MissingStructField
	UnknownEnumVariant

	// Schema binary errors.
	MalformedSchema
)

var kindNames = map[Kind]string{
	Unknown:             "unknown",
	UnexpectedToken:      "unexpected_token",
	UnexpectedEOF:        "unexpected_eof",
	InvalidIdentifier:    "invalid_identifier",
	UnknownBuiltin:       "unknown_builtin",
	DuplicateName:        "duplicate_name",
	DuplicateFieldID:     "duplicate_field_id",
	DuplicateEnumValue:   "duplicate_enum_value",
	UnknownType:          "unknown_type",
	StructFieldHasID:     "struct_field_has_id",
	EnumFieldMissingID:   "enum_field_missing_id",
	MessageFieldMissingID: "message_field_missing_id",
	RecursiveStruct:      "recursive_struct",
	Truncated:            "truncated",
	InvalidUTF8:          "invalid_utf8",
	VarintOverflow:       "varint_overflow",
	TypeMismatch:         "type_mismatch",
	UnknownField:         "unknown_field",
	MissingStructField:   "missing_struct_field",
	UnknownEnumVariant:   "unknown_enum_variant",
	MalformedSchema:      "malformed_schema",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Position locates a parse error within schema source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is the concrete type behind every error Kiwi returns. It carries a
// Kind for programmatic matching, a human message, and optional context: a
// source Position for parse/validation errors, or a byte Offset for codec
// errors. The cause chain (via Unwrap) retains a stack trace from the point
// the error was first raised.
type Error struct {
	Kind    Kind
	Message string
	Pos     *Position
	Offset  int // -1 when not applicable
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Pos != nil:
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Message)
	case e.Offset >= 0:
		return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// ErrorKind returns the Kind of err, or Unknown if err carries none.
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err's Kind equals kind. Comparison is by Kind identity
// rather than by message text.
func Is(err error, kind Kind) bool {
	return ErrorKind(err) == kind
}

// New builds an Error of the given kind with no positional context.
func New(kind Kind, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: kind, Message: msg, Offset: -1, cause: errors.WithStack(errors.New(msg))}
}

// AtPosition builds a parse/validation Error located at a source position.
func AtPosition(kind Kind, pos Position, format string, args ...interface{}) *Error {
	e := New(kind, format, args...)
	e.Pos = &pos
	return e
}

// AtOffset builds a codec/schema-binary Error located at a byte offset.
func AtOffset(kind Kind, offset int, format string, args ...interface{}) *Error {
	e := New(kind, format, args...)
	e.Offset = offset
	return e
}
