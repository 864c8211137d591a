package parser

import (
	"github.com/vira-language/vira/internal/ast"
	"github.com/vira-language/vira/internal/diagnostics"
	"github.com/vira-language/vira/internal/token"
)

// parseStatement dispatches on the current token. The caller advances past
// the statement's final token (the terminating ';' or '}').
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseVarDeclaration()
	case token.DEF:
		return p.parseFunctionDeclaration()
	case token.IMPORT_MARKER:
		return p.parseImportStatement()
	case token.WRITE:
		return p.parseWriteStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// varDecl := 'let' IDENT ('=' expr)? ';'
func (p *Parser) parseVarDeclaration() *ast.VarDeclaration {
	stmt := &ast.VarDeclaration{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken() // =
		p.nextToken()
		stmt.Init = p.parseExpression(LOWEST)
		if stmt.Init == nil {
			return nil
		}
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// funcDef := 'def' IDENT '(' (IDENT (',' IDENT)*)? ')' '{' statement* '}'
func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	stmt := &ast.FunctionDeclaration{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Parameters = p.parseParameterList()
	if p.failed {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.errorf(diagnostics.ErrP002, p.peekToken, "expected } before end of input")
			return nil
		}
		p.nextToken()
		body := p.parseStatement()
		if p.failed {
			return nil
		}
		stmt.Body = append(stmt.Body, body)
	}
	p.nextToken() // }

	return stmt
}

func (p *Parser) parseParameterList() []*ast.Identifier {
	var params []*ast.Identifier

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken() // ,
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

// importStmt := import-marker ';'
func (p *Parser) parseImportStatement() *ast.ImportStatement {
	stmt := &ast.ImportStatement{Token: p.curToken, Library: p.curToken.Literal}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// writeStmt := 'write' expr ';'
func (p *Parser) parseWriteStatement() *ast.WriteStatement {
	stmt := &ast.WriteStatement{Token: p.curToken}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// exprStmt := expr ';'
func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}
