package parser

import (
	"strconv"

	"github.com/vira-language/vira/internal/ast"
	"github.com/vira-language/vira/internal/diagnostics"
	"github.com/vira-language/vira/internal/token"
)

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// parseExpression climbs the precedence ladder: additive < multiplicative <
// unary < primary, all binary operators left-associative.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errorf(diagnostics.ErrP003, p.curToken,
			"expression too complex: recursion depth limit exceeded")
		return nil
	}

	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		p.nextToken()
		left = p.parseBinary(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	// Parsing the right side at the operator's own precedence keeps
	// same-level operators left-associative.
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseUnary handles `-x`, which desugars to `0 - x` at parse time; the
// bytecode has no negate instruction. It recurses on itself for `--x`
// chains, so it counts against the depth limit like parseExpression does.
func (p *Parser) parseUnary() ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errorf(diagnostics.ErrP003, p.curToken,
			"expression too complex: recursion depth limit exceeded")
		return nil
	}

	if p.curTokenIs(token.MINUS) {
		tok := p.curToken
		p.nextToken()
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		return &ast.BinaryExpression{
			Token:    tok,
			Operator: "-",
			Left:     &ast.NumberLiteral{Token: tok, Value: 0},
			Right:    right,
		}
	}
	return p.parsePrimary()
}

// primary := NUMBER | STRING | IDENT ('(' argList? ')')? | '(' expr ')'
func (p *Parser) parsePrimary() ast.Expression {
	switch p.curToken.Type {
	case token.NUMBER:
		return p.parseNumberLiteral()

	case token.STRING:
		return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}

	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			return p.parseCallExpression()
		}
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	case token.LPAREN:
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return expr

	default:
		p.errorf(diagnostics.ErrP001, p.curToken,
			"unexpected %s in expression", describeToken(p.curToken))
		return nil
	}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := &ast.NumberLiteral{Token: p.curToken}
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(diagnostics.ErrP001, p.curToken,
			"invalid number literal %q", p.curToken.Literal)
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseCallExpression() ast.Expression {
	expr := &ast.CallExpression{Token: p.curToken, Callee: p.curToken.Literal}

	p.nextToken() // (
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return expr
	}

	for {
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		expr.Arguments = append(expr.Arguments, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken() // ,
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}
