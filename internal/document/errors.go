package document

import (
	"errors"
	"fmt"
	"strings"

	"strings-toolkit/internal/entity"
)

var (
	ErrUnexpectedEntity = errors.New("unexpected entity")
	ErrUnexpectedEOF    = errors.New("unexpected end of file")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrKeyNotFound      = errors.New("key not found")
)

// StructureError reports a grammar violation or a reference to a key that
// does not fit the document.
type StructureError struct {
	Err      error
	Line     int
	Entity   entity.Entity
	Expected string
	// Keys lists the offending keys in encoded form.
	Keys []string
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

func (e *StructureError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnexpectedEntity):
		if e.Line > 0 {
			return fmt.Sprintf("%s %s at line %d", e.Err, e.Entity, e.Line)
		}
		return fmt.Sprintf("%s %s", e.Err, e.Entity)
	case errors.Is(e.Err, ErrUnexpectedEOF):
		return fmt.Sprintf("%s: expected %s", e.Err, e.Expected)
	default:
		quoted := make([]string, len(e.Keys))
		for i, k := range e.Keys {
			quoted[i] = `"` + k + `"`
		}
		return fmt.Sprintf("%s: %s", e.Err, strings.Join(quoted, ", "))
	}
}

func unexpected(e entity.Entity) error {
	return &StructureError{Err: ErrUnexpectedEntity, Line: e.Line(), Entity: e}
}

func unexpectedEOF(expected string) error {
	return &StructureError{Err: ErrUnexpectedEOF, Expected: expected}
}

func keyNotFound(key string) error {
	return &StructureError{Err: ErrKeyNotFound, Keys: []string{key}}
}

func duplicateKeys(keys ...string) error {
	return &StructureError{Err: ErrDuplicateKey, Keys: keys}
}
