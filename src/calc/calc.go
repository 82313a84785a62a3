// Package calc implements the calculator tool. Its contract is "always
// returns text, never fails": the result string is shown to the end user
// as-is, so every parse or evaluation problem becomes an "Error ..." line
// instead of an error value.
package calc

import (
	"fmt"
	"strconv"
	"strings"
)

// Evaluate computes an arithmetic expression and renders the result.
//
// Two forms are supported: the "<number>% of <number>" shorthand, and
// general arithmetic restricted to numeric literals, + - * /, and
// parentheses. Identifiers and calls are rejected by the grammar, which
// is the point: the calculator must never execute anything.
func Evaluate(expression string) string {
	expr := strings.TrimSpace(expression)

	if strings.Contains(expr, "%") {
		if out, ok := evalPercent(expr); ok {
			return out
		}
	}

	value, err := evalArithmetic(expr)
	if err != nil {
		return fmt.Sprintf("Error calculating: %v", err)
	}
	return fmt.Sprintf("%s = %s", expr, formatNumber(value))
}

// evalPercent handles "X% of Y".
func evalPercent(expr string) (string, bool) {
	left, right, found := strings.Cut(expr, " of ")
	if !found {
		return "", false
	}
	percentStr := strings.TrimSpace(strings.ReplaceAll(left, "%", ""))
	amountStr := strings.TrimSpace(right)

	percent, err := strconv.ParseFloat(percentStr, 64)
	if err != nil {
		return "", false
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return "", false
	}

	result := percent / 100 * amount
	return fmt.Sprintf("%s%% of %s = %s",
		formatNumber(percent), formatNumber(amount), formatNumber(result)), true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// evalArithmetic is a recursive-descent evaluator over the grammar
//
//	expr   := term (('+'|'-') term)*
//	term   := factor (('*'|'/') factor)*
//	factor := number | '(' expr ')' | ('+'|'-') factor
func evalArithmetic(expr string) (float64, error) {
	p := &parser{input: expr}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected %q at position %d", p.input[p.pos], p.pos)
	}
	return value, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() (byte, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) parseExpr() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return value, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			value += rhs
		} else {
			value -= rhs
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	value, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return value, nil
		}
		p.pos++
		rhs, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			value *= rhs
		} else {
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			value /= rhs
		}
	}
}

func (p *parser) parseFactor() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	switch {
	case c == '(':
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if c, ok := p.peek(); !ok || c != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil
	case c == '+':
		p.pos++
		return p.parseFactor()
	case c == '-':
		p.pos++
		value, err := p.parseFactor()
		return -value, err
	default:
		return p.parseNumber()
	}
}

func (p *parser) parseNumber() (float64, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected a number at position %d", start)
	}
	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return value, nil
}
