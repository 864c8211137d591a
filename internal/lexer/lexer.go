// Package lexer converts Vira source text into a stream of positioned tokens.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/vira-language/vira/internal/diagnostics"
	"github.com/vira-language/vira/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	errs []*diagnostics.Error
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Errors returns the lexical diagnostics collected so far.
func (l *Lexer) Errors() []*diagnostics.Error {
	return l.errs
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken scans and returns the next token. Comments are returned as
// COMMENT tokens; callers that feed the parser filter them out (Tokenize).
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	switch l.ch {
	case '=':
		tok := newToken(token.ASSIGN, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case '+':
		tok := newToken(token.PLUS, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case '-':
		tok := newToken(token.MINUS, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case '*':
		tok := newToken(token.ASTERISK, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case '/':
		tok := newToken(token.SLASH, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case '(':
		tok := newToken(token.LPAREN, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case ')':
		tok := newToken(token.RPAREN, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case '{':
		tok := newToken(token.LBRACE, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case '}':
		tok := newToken(token.RBRACE, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case ';':
		tok := newToken(token.SEMICOLON, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case ',':
		tok := newToken(token.COMMA, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case ':':
		return l.readColonOrImportMarker()
	case '<':
		return l.readComment()
	case '"':
		return l.readString()
	case 0:
		return token.Token{Type: token.EOF, Line: l.line, Column: l.column}
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}
		tok := newToken(token.ILLEGAL, l.ch, l.line, l.column)
		l.errs = append(l.errs, diagnostics.Newf(diagnostics.ErrL002, tok,
			"unrecognized character %q", string(l.ch)))
		l.readChar()
		return tok
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[position:l.position]
	return token.Token{
		Type:    token.LookupIdent(literal),
		Literal: literal,
		Line:    startLine,
		Column:  startCol,
	}
}

func (l *Lexer) readNumber() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return token.Token{
		Type:    token.NUMBER,
		Literal: l.input[position:l.position],
		Line:    startLine,
		Column:  startCol,
	}
}

// readString scans a `"`-delimited string. A backslash escapes the following
// character literally; there are no named escape sequences. Hitting the end
// of input before the closing quote is a lexical failure.
func (l *Lexer) readString() token.Token {
	startLine, startCol := l.line, l.column
	var out []rune

	l.readChar() // skip opening "
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				break
			}
		}
		out = append(out, l.ch)
		l.readChar()
	}

	tok := token.Token{
		Type:    token.STRING,
		Literal: string(out),
		Line:    startLine,
		Column:  startCol,
	}
	if l.ch != '"' {
		tok.Type = token.ILLEGAL
		l.errs = append(l.errs, diagnostics.New(diagnostics.ErrL001, tok,
			"unterminated string literal"))
		return tok
	}
	l.readChar() // skip closing "
	return tok
}

// readComment consumes `<` through end of line. The comment text is kept in
// the token literal for tooling, but Tokenize drops the token entirely.
func (l *Lexer) readComment() token.Token {
	startLine, startCol := l.line, l.column
	l.readChar() // skip <
	position := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return token.Token{
		Type:    token.COMMENT,
		Literal: l.input[position:l.position],
		Line:    startLine,
		Column:  startCol,
	}
}

// readColonOrImportMarker scans `:name:` as a single import marker carrying
// the library name. The name starts with a letter (underscore is not
// allowed as the first character) and continues with letters, digits, or
// underscores. A colon not matching that pattern is a plain COLON and
// consumes only the colon itself.
func (l *Lexer) readColonOrImportMarker() token.Token {
	startLine, startCol := l.line, l.column

	if isAlpha(l.peekChar()) {
		// Look ahead without consuming: the marker only exists if the
		// identifier run is closed by a second colon.
		end := l.readPosition
		for end < len(l.input) {
			r, w := utf8.DecodeRuneInString(l.input[end:])
			if !isLetter(r) && !isDigit(r) {
				break
			}
			end += w
		}
		if end < len(l.input) && l.input[end] == ':' {
			lib := l.input[l.readPosition:end]
			l.readChar() // skip opening :
			for l.position < end {
				l.readChar()
			}
			l.readChar() // skip closing :
			return token.Token{
				Type:    token.IMPORT_MARKER,
				Literal: lib,
				Line:    startLine,
				Column:  startCol,
			}
		}
	}

	tok := newToken(token.COLON, l.ch, startLine, startCol)
	l.readChar()
	return tok
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

// isAlpha is isLetter without the underscore.
func isAlpha(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Line: line, Column: col}
}

// Tokenize drains the lexer over src, filters out comments, and returns the
// token stream the parser consumes (terminated by EOF) along with any
// lexical diagnostics. ILLEGAL tokens are excluded from the stream; they are
// surfaced through the diagnostics only.
func Tokenize(src string) ([]token.Token, []*diagnostics.Error) {
	l := New(src)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		switch tok.Type {
		case token.COMMENT, token.ILLEGAL:
			// dropped from the stream
		case token.EOF:
			tokens = append(tokens, tok)
			return tokens, l.Errors()
		default:
			tokens = append(tokens, tok)
		}
	}
}
