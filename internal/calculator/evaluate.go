package calculator

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional decimal digits kept in results.
const Precision = 12

var (
	// epsilon is the gap between 1 and the next float64, added before
	// rounding so representation noise such as 0.1+0.2 lands on 0.3.
	epsilon = decimal.NewFromFloat(math.Nextafter(1, 2) - 1)
	// halfUnit is half of the last kept digit; floor(x + halfUnit) rounds
	// half toward positive infinity.
	halfUnit = decimal.New(5, -(Precision + 1))
)

// Evaluate normalizes, validates and computes raw. Failures are always an
// *EvalError; successful results are finite and rounded to Precision digits.
func Evaluate(raw string) (float64, error) {
	expr := Normalize(raw)

	if err := Validate(expr); err != nil {
		return 0, err
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return 0, &EvalError{Kind: KindEvaluation, Err: err}
	}

	v, err := evalTokens(tokens)
	if err != nil {
		return 0, &EvalError{Kind: KindEvaluation, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &EvalError{Kind: KindEvaluation, Err: fmt.Errorf("result not finite: %g", v)}
	}

	return Round(v), nil
}

// Normalize replaces every '%' with "/100". The substitution is textual, so
// "50%%" becomes "50/100/100".
func Normalize(raw string) string {
	return strings.ReplaceAll(raw, "%", "/100")
}

// Validate applies the character whitelist and the operator-sequence rule to
// a normalized expression. It does not check that the expression parses.
func Validate(expr string) error {
	for i, r := range expr {
		if !allowedRune(r) {
			return &EvalError{
				Kind: KindCharacterSet,
				Err:  fmt.Errorf("character %q at %d not allowed", r, i),
			}
		}
	}

	compact := strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, expr)

	if run := operatorRun(compact); run != "" && !hasLeadingNegative(expr) {
		return &EvalError{
			Kind: KindOperatorSequence,
			Err:  fmt.Errorf("consecutive operators %q", run),
		}
	}

	return nil
}

// Round rounds v to Precision fractional digits after adding epsilon.
func Round(v float64) float64 {
	d := decimal.NewFromFloat(v).Add(epsilon).Add(halfUnit).RoundFloor(Precision)
	f, _ := d.Float64()
	if f == 0 {
		// Drop negative zero.
		return 0
	}
	return f
}

func allowedRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case isOperator(r):
		return true
	case r == '(' || r == ')' || r == '.':
		return true
	default:
		return isSpace(r)
	}
}

// isSpace reports whether r is whitespace in the ECMAScript sense: the
// Unicode White_Space set plus U+FEFF, without U+0085 (NEL).
func isSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}

func isOperator(r rune) bool {
	return r == '+' || r == '-' || r == '*' || r == '/'
}

// operatorRun returns the first run of two or more operator characters in s.
func operatorRun(s string) string {
	start := -1
	for i, r := range s {
		if isOperator(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= 2 {
			return s[start:i]
		}
		start = -1
	}
	if start >= 0 && len(s)-start >= 2 {
		return s[start:]
	}
	return ""
}

// hasLeadingNegative reports whether the trimmed expression starts with '-'
// directly followed by a digit. When it does, operator runs anywhere else in
// the expression are tolerated at validation time.
func hasLeadingNegative(expr string) bool {
	trimmed := strings.TrimFunc(expr, isSpace)
	return len(trimmed) >= 2 && trimmed[0] == '-' && isDigit(trimmed[1])
}
