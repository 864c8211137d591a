// Package token defines the lexical token kinds of the Vira language.
package token

type TokenType string

type Token struct {
	Type    TokenType
	Literal string // token text; for IMPORT_MARKER the library name, for STRING the unescaped content
	Line    int    // 1-based line of the token's first character
	Column  int    // 1-based column of the token's first character
}

const (
	EOF     TokenType = "EOF"
	ILLEGAL TokenType = "ILLEGAL"
	COMMENT TokenType = "COMMENT"

	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	COLON    TokenType = ":"

	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	SEMICOLON TokenType = ";"
	COMMA     TokenType = ","

	LET   TokenType = "LET"
	DEF   TokenType = "DEF"
	WRITE TokenType = "WRITE"

	// IMPORT_MARKER is a whole `:name:` import marker; Literal holds the
	// library name without the colons.
	IMPORT_MARKER TokenType = "IMPORT_MARKER"
)

var keywords = map[string]TokenType{
	"let":   LET,
	"def":   DEF,
	"write": WRITE,
}

// LookupIdent reclassifies keyword spellings; every other identifier stays IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
