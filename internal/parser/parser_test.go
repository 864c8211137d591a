package parser

import (
	"strings"
	"testing"

	"github.com/vira-language/vira/internal/ast"
	"github.com/vira-language/vira/internal/lexer"
	"github.com/vira-language/vira/internal/pipeline"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := &pipeline.PipelineContext{Source: input}
	tokens, errs := lexer.Tokenize(input)
	if len(errs) > 0 {
		t.Fatalf("lexer error: %s", errs[0])
	}
	program := New(tokens, ctx).ParseProgram()
	if program == nil {
		t.Fatalf("parse failed: %s", ctx.Errors[0])
	}
	return program
}

func parseError(t *testing.T, input string) string {
	t.Helper()
	ctx := &pipeline.PipelineContext{Source: input}
	tokens, errs := lexer.Tokenize(input)
	if len(errs) > 0 {
		t.Fatalf("lexer error: %s", errs[0])
	}
	if program := New(tokens, ctx).ParseProgram(); program != nil {
		t.Fatalf("expected parse failure for %q", input)
	}
	if len(ctx.Errors) == 0 {
		t.Fatalf("nil program but no diagnostics for %q", input)
	}
	return string(ctx.Errors[0].Code) + " " + ctx.Errors[0].Message
}

func TestParseVarDeclaration(t *testing.T) {
	program := parse(t, `let x = 5;`)
	if len(program.Statements) != 1 {
		t.Fatalf("statements = %d, want 1", len(program.Statements))
	}
	decl, ok := program.Statements[0].(*ast.VarDeclaration)
	if !ok {
		t.Fatalf("statement is %T, want *ast.VarDeclaration", program.Statements[0])
	}
	if decl.Name.Value != "x" {
		t.Errorf("name = %q, want x", decl.Name.Value)
	}
	num, ok := decl.Init.(*ast.NumberLiteral)
	if !ok || num.Value != 5 {
		t.Errorf("init = %#v, want NumberLiteral 5", decl.Init)
	}
}

func TestParseVarDeclarationWithoutInit(t *testing.T) {
	program := parse(t, `let x;`)
	decl := program.Statements[0].(*ast.VarDeclaration)
	if decl.Init != nil {
		t.Errorf("init = %#v, want nil", decl.Init)
	}
}

func TestParsePrecedence(t *testing.T) {
	// 2 + 3 * 4 groups as 2 + (3 * 4)
	program := parse(t, `2 + 3 * 4;`)
	expr := program.Statements[0].(*ast.ExpressionStatement).Expression
	add, ok := expr.(*ast.BinaryExpression)
	if !ok || add.Operator != "+" {
		t.Fatalf("root = %#v, want + expression", expr)
	}
	mul, ok := add.Right.(*ast.BinaryExpression)
	if !ok || mul.Operator != "*" {
		t.Fatalf("right = %#v, want * expression", add.Right)
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	// 10 - 2 - 3 groups as (10 - 2) - 3
	program := parse(t, `10 - 2 - 3;`)
	expr := program.Statements[0].(*ast.ExpressionStatement).Expression
	outer := expr.(*ast.BinaryExpression)
	inner, ok := outer.Left.(*ast.BinaryExpression)
	if !ok || inner.Operator != "-" {
		t.Fatalf("left = %#v, want - expression", outer.Left)
	}
	if lit, ok := outer.Right.(*ast.NumberLiteral); !ok || lit.Value != 3 {
		t.Fatalf("right = %#v, want 3", outer.Right)
	}
}

func TestParseUnaryMinusDesugarsToSubtraction(t *testing.T) {
	program := parse(t, `write -5;`)
	stmt := program.Statements[0].(*ast.WriteStatement)
	sub, ok := stmt.Value.(*ast.BinaryExpression)
	if !ok || sub.Operator != "-" {
		t.Fatalf("value = %#v, want - expression", stmt.Value)
	}
	if zero, ok := sub.Left.(*ast.NumberLiteral); !ok || zero.Value != 0 {
		t.Fatalf("left = %#v, want 0", sub.Left)
	}
	if five, ok := sub.Right.(*ast.NumberLiteral); !ok || five.Value != 5 {
		t.Fatalf("right = %#v, want 5", sub.Right)
	}
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	program := parse(t, `(2 + 3) * 4;`)
	expr := program.Statements[0].(*ast.ExpressionStatement).Expression
	mul := expr.(*ast.BinaryExpression)
	if mul.Operator != "*" {
		t.Fatalf("root operator = %q, want *", mul.Operator)
	}
	if add, ok := mul.Left.(*ast.BinaryExpression); !ok || add.Operator != "+" {
		t.Fatalf("left = %#v, want + expression", mul.Left)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	program := parse(t, `def add(a, b) { a + b; }`)
	fn, ok := program.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("statement is %T, want *ast.FunctionDeclaration", program.Statements[0])
	}
	if fn.Name.Value != "add" {
		t.Errorf("name = %q, want add", fn.Name.Value)
	}
	if len(fn.Parameters) != 2 || fn.Parameters[0].Value != "a" || fn.Parameters[1].Value != "b" {
		t.Errorf("parameters = %#v, want [a b]", fn.Parameters)
	}
	if len(fn.Body) != 1 {
		t.Errorf("body statements = %d, want 1", len(fn.Body))
	}
}

func TestParseFunctionWithoutParameters(t *testing.T) {
	program := parse(t, `def f() { write 1; }`)
	fn := program.Statements[0].(*ast.FunctionDeclaration)
	if len(fn.Parameters) != 0 {
		t.Errorf("parameters = %#v, want none", fn.Parameters)
	}
}

func TestParseCallExpression(t *testing.T) {
	program := parse(t, `add(1, 2 * 3);`)
	call, ok := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expression is not a call")
	}
	if call.Callee != "add" {
		t.Errorf("callee = %q, want add", call.Callee)
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("arguments = %d, want 2", len(call.Arguments))
	}
	if _, ok := call.Arguments[1].(*ast.BinaryExpression); !ok {
		t.Errorf("second argument = %#v, want binary expression", call.Arguments[1])
	}
}

func TestParseCallWithoutArguments(t *testing.T) {
	program := parse(t, `ping();`)
	call := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	if len(call.Arguments) != 0 {
		t.Errorf("arguments = %d, want 0", len(call.Arguments))
	}
}

func TestParseImportStatement(t *testing.T) {
	program := parse(t, `:std:;`)
	imp, ok := program.Statements[0].(*ast.ImportStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ImportStatement", program.Statements[0])
	}
	if imp.Library != "std" {
		t.Errorf("library = %q, want std", imp.Library)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		wantCode string
	}{
		{`let = 5;`, "P002"},
		{`let x = 5`, "P002"},
		{`write ;`, "P001"},
		{`def f( { }`, "P002"},
		{`def f() { write 1;`, "P002"},
		{`1 + ;`, "P001"},
		{`(1 + 2;`, "P002"},
	}
	for _, tt := range tests {
		got := parseError(t, tt.input)
		if !strings.HasPrefix(got, tt.wantCode) {
			t.Errorf("input %q: diagnostic %q, want code %s", tt.input, got, tt.wantCode)
		}
	}
}

func TestParseStopsAtFirstError(t *testing.T) {
	ctx := &pipeline.PipelineContext{}
	tokens, _ := lexer.Tokenize(`let = 1; let = 2;`)
	if program := New(tokens, ctx).ParseProgram(); program != nil {
		t.Fatal("expected nil program")
	}
	if len(ctx.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(ctx.Errors))
	}
}

func TestParseDeeplyNestedExpressionFails(t *testing.T) {
	depth := MaxRecursionDepth + 10
	input := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";"
	got := parseError(t, input)
	if !strings.HasPrefix(got, "P003") {
		t.Errorf("diagnostic %q, want code P003", got)
	}
}

func TestParseDeepUnaryChainFails(t *testing.T) {
	input := strings.Repeat("-", MaxRecursionDepth+10) + "5;"
	got := parseError(t, input)
	if !strings.HasPrefix(got, "P003") {
		t.Errorf("diagnostic %q, want code P003", got)
	}
}

func TestParseModerateUnaryChainSucceeds(t *testing.T) {
	// Well under the limit; the guard must not reject ordinary nesting.
	program := parse(t, strings.Repeat("-", 50)+"5;")
	if len(program.Statements) != 1 {
		t.Fatalf("statements = %d, want 1", len(program.Statements))
	}
}
