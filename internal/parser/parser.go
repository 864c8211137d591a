// Package parser builds the AST from the filtered token stream by recursive
// descent with a fixed operator-precedence ladder.
package parser

import (
	"github.com/vira-language/vira/internal/ast"
	"github.com/vira-language/vira/internal/diagnostics"
	"github.com/vira-language/vira/internal/pipeline"
	"github.com/vira-language/vira/internal/token"
)

// Operator precedence, low to high.
const (
	LOWEST = iota
	SUM     // + -
	PRODUCT // * /
	PREFIX  // unary -
)

// MaxRecursionDepth bounds expression nesting to keep deeply pathological
// input from exhausting the goroutine stack.
const MaxRecursionDepth = 1000

var precedences = map[token.TokenType]int{
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
}

type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	ctx   *pipeline.PipelineContext
	depth int

	// failed is set after the first diagnostic; the parser stops rather
	// than build a best-effort partial tree.
	failed bool
}

// New creates a parser over a token stream terminated by EOF. Diagnostics
// are appended to ctx.Errors.
func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{tokens: tokens, ctx: ctx}
	p.curToken = p.tokenAt(0)
	p.peekToken = p.tokenAt(1)
	return p
}

func (p *Parser) tokenAt(i int) token.Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1]
	}
	return token.Token{Type: token.EOF, Line: 1, Column: 1}
}

func (p *Parser) nextToken() {
	p.pos++
	p.curToken = p.peekToken
	p.peekToken = p.tokenAt(p.pos + 1)
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances when the next token has the expected type and records
// a missing-token diagnostic otherwise.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.ErrP002, p.peekToken,
		"expected %s, got %s", string(t), describeToken(p.peekToken))
	return false
}

func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	p.failed = true
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.Newf(code, tok, format, args...))
}

func describeToken(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.NUMBER, token.STRING, token.IDENT:
		return string(tok.Type) + " " + `"` + tok.Literal + `"`
	default:
		return `"` + tok.Literal + `"`
	}
}

// ParseProgram parses the whole token stream. On any syntax error it records
// the diagnostic and returns nil; a partial tree is never produced.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{File: p.ctx.FilePath}

	for !p.curTokenIs(token.EOF) && !p.failed {
		stmt := p.parseStatement()
		if p.failed {
			return nil
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}
	if p.failed {
		return nil
	}
	return program
}
