package calculator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	// tokIncrement and tokDecrement are "++" and "--" written without
	// whitespace between the signs. They lex as a single token and are never
	// valid in an arithmetic expression, so "-1++2" fails while "-1+ +2"
	// evaluates to 1.
	tokIncrement
	tokDecrement
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokIncrement:
		return "'++'"
	case tokDecrement:
		return "'--'"
	default:
		return "token"
	}
}

type token struct {
	kind  tokenKind
	value float64
	pos   int
}

// tokenize splits a validated expression into tokens.
func tokenize(expr string) ([]token, error) {
	var tokens []token

	for i := 0; i < len(expr); {
		c := expr[i]

		switch {
		case c < utf8.RuneSelf && isSpace(rune(c)):
			i++
		case isDigit(c) || c == '.':
			tok, next, err := scanNumber(expr, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
		case c == '+' || c == '-':
			kind := tokPlus
			if c == '-' {
				kind = tokMinus
			}
			if i+1 < len(expr) && expr[i+1] == c {
				if c == '+' {
					kind = tokIncrement
				} else {
					kind = tokDecrement
				}
				tokens = append(tokens, token{kind: kind, pos: i})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: kind, pos: i})
			i++
		case c == '*':
			tokens = append(tokens, token{kind: tokStar, pos: i})
			i++
		case c == '/':
			tokens = append(tokens, token{kind: tokSlash, pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, pos: i})
			i++
		default:
			// Non-ASCII whitespace passes validation; skip it whole.
			r, size := utf8.DecodeRuneInString(expr[i:])
			if !isSpace(r) {
				return nil, fmt.Errorf("unexpected character %q at %d", r, i)
			}
			i += size
		}
	}

	return append(tokens, token{kind: tokEOF, pos: len(expr)}), nil
}

// scanNumber reads a decimal literal starting at start. Integer parts with a
// redundant leading zero ("05", "00.5") are rejected like legacy octal
// literals in strict-mode ECMAScript.
func scanNumber(expr string, start int) (token, int, error) {
	i := start
	for i < len(expr) && isDigit(expr[i]) {
		i++
	}
	intPart := expr[start:i]

	fracDigits := 0
	if i < len(expr) && expr[i] == '.' {
		i++
		for i < len(expr) && isDigit(expr[i]) {
			i++
			fracDigits++
		}
	}

	if intPart == "" && fracDigits == 0 {
		return token{}, 0, fmt.Errorf("lone decimal point at %d", start)
	}
	if len(intPart) > 1 && intPart[0] == '0' {
		return token{}, 0, fmt.Errorf("leading zero in literal %q", expr[start:i])
	}

	text := expr[start:i]
	if strings.HasPrefix(text, ".") {
		text = "0" + text
	}
	text = strings.TrimSuffix(text, ".")

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// ErrRange: the literal overflows to ±Inf.
		return token{}, 0, fmt.Errorf("parse literal %q: %w", text, err)
	}

	return token{kind: tokNumber, value: v, pos: start}, i, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
