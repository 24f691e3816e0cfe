package calculator

import (
	"errors"
	"fmt"
	"math"
)

var errDivisionByZero = errors.New("division by zero")

// maxDepth bounds nesting of parentheses and unary signs.
const maxDepth = 256

// parser is a recursive-descent evaluator over the grammar
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
//
// Values are computed while parsing; there is no intermediate tree.
type parser struct {
	tokens []token
	pos    int
	depth  int
}

func evalTokens(tokens []token) (float64, error) {
	p := &parser{tokens: tokens}

	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return 0, fmt.Errorf("unexpected %s at %d", tok.kind, tok.pos)
	}

	return v, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}

	for {
		op := p.peek()
		if op.kind != tokPlus && op.kind != tokMinus {
			return left, nil
		}
		p.next()

		right, err := p.term()
		if err != nil {
			return 0, err
		}

		if op.kind == tokPlus {
			left += right
		} else {
			left -= right
		}
		if err := checkFinite(left, op); err != nil {
			return 0, err
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}

	for {
		op := p.peek()
		if op.kind != tokStar && op.kind != tokSlash {
			return left, nil
		}
		p.next()

		right, err := p.unary()
		if err != nil {
			return 0, err
		}

		if op.kind == tokStar {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("%w at %d", errDivisionByZero, op.pos)
			}
			left /= right
		}
		if err := checkFinite(left, op); err != nil {
			return 0, err
		}
	}
}

func (p *parser) unary() (float64, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return 0, fmt.Errorf("expression nested deeper than %d", maxDepth)
	}

	switch p.peek().kind {
	case tokPlus:
		p.next()
		return p.unary()
	case tokMinus:
		p.next()
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	default:
		return p.primary()
	}
}

func (p *parser) primary() (float64, error) {
	tok := p.next()

	switch tok.kind {
	case tokNumber:
		return tok.value, nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return 0, fmt.Errorf("expected ')' at %d, found %s", closing.pos, closing.kind)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("unexpected %s at %d", tok.kind, tok.pos)
	}
}

func checkFinite(v float64, op token) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("non-finite value after %s at %d", op.kind, op.pos)
	}
	return nil
}
