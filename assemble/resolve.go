package assemble

import (
	"fmt"
	"strings"

	"github.com/joy-lang/joy/lexer"
	"github.com/joy-lang/joy/symtab"
)

// resolveArgument resolves a raw VALUE token to its final word, trying
// each rule in order (definition substitution once, label lookup, char
// literal, integer literal). Both Pass1 (data directive
// elements) and Pass2 (instruction arguments) share this logic; Pass1
// only sees labels defined earlier in source order, since data records
// are emitted with a fully resolved word rather than deferred.
func resolveArgument(raw string, pos Position, symbols *symtab.Table) (uint32, *Error) {
	resolved := raw
	if v, ok := symbols.Lookup(resolved); ok {
		resolved = v
	}

	if strings.HasPrefix(resolved, "@") {
		v, ok := symbols.Lookup(resolved)
		if !ok {
			suggestions := symbols.NearestLabels(strings.TrimPrefix(resolved, "@"))
			err := NewError(pos, ErrorUndefinedLabel, fmt.Sprintf("undefined label %q", resolved))
			err.Suggestions = suggestions
			return 0, err
		}
		resolved = v
	}

	if len(resolved) >= 2 && resolved[0] == '\'' && resolved[len(resolved)-1] == '\'' {
		r, err := lexer.ParseCharLiteral(resolved)
		if err != nil {
			return 0, NewError(pos, ErrorBadCharLiteral, err.Error())
		}
		return uint32(r), nil
	}

	v, err := lexer.ParseIntegerLiteral(resolved)
	if err != nil {
		return 0, NewError(pos, ErrorBadIntegerLiteral, err.Error())
	}
	return v, nil
}
