// Package cssvalue inspects user-supplied CSS font-family values before they
// reach a style block.
package cssvalue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/speedata/css/scanner"
)

// Sentinel errors for value checks.
var (
	ErrEmpty  = errors.New("empty font-family value")
	ErrUnsafe = errors.New("font-family value would end the declaration")
	ErrSyntax = errors.New("malformed font-family value")
)

// declarationBreakers are delimiters that close the declaration or the rule.
const declarationBreakers = ";{}<>!"

// Families splits a font-family list into its family names, in order.
// Quoted names are unquoted; unquoted multi-word names are joined with a
// single space. Values containing a delimiter that would end the
// declaration, or a closing style tag, are rejected with ErrUnsafe.
func Families(value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, ErrEmpty
	}
	if strings.Contains(strings.ToLower(value), "</style") {
		return nil, fmt.Errorf("%w: contains </style>", ErrUnsafe)
	}

	var (
		families []string
		words    []string
	)
	flush := func() error {
		if len(words) == 0 {
			return fmt.Errorf("%w: empty family name in %q", ErrSyntax, value)
		}
		families = append(families, strings.Join(words, " "))
		words = words[:0]
		return nil
	}

	s := scanner.New(value)
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.EOF:
			if err := flush(); err != nil {
				return nil, err
			}
			return families, nil
		case scanner.Error:
			return nil, fmt.Errorf("%w: %s", ErrSyntax, tok.Value)
		case scanner.S:
			continue
		case scanner.Delim:
			switch {
			case tok.Value == ",":
				if err := flush(); err != nil {
					return nil, err
				}
			case strings.Contains(declarationBreakers, tok.Value):
				return nil, fmt.Errorf("%w: %q", ErrUnsafe, tok.Value)
			default:
				words = append(words, tok.Value)
			}
		case scanner.String:
			words = append(words, strings.Trim(tok.Value, `"'`))
		default:
			words = append(words, tok.Value)
		}
	}
}

// Check reports whether value is safe to place in a font-family declaration.
func Check(value string) error {
	_, err := Families(value)
	return err
}

// Primary returns the first family of value, or "" when value is invalid.
func Primary(value string) string {
	families, err := Families(value)
	if err != nil {
		return ""
	}
	return families[0]
}
