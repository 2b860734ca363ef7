package parser

import (
	"fmt"

	"github.com/foltheorem/folprove/pkg/fol/token"
)

// SyntaxError is a user-facing parse error: malformed FOL source text.
// It always carries the offending token's position.
type SyntaxError struct {
	Pos token.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func syntaxErrorf(pos token.Position, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
