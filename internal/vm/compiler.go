package vm

import (
	"sort"

	"github.com/vira-language/vira/internal/ast"
	"github.com/vira-language/vira/internal/config"
	"github.com/vira-language/vira/internal/diagnostics"
	"github.com/vira-language/vira/internal/token"
)

// Compiler translates a parsed program into a bytecode Program in a single
// pass. It performs no constant folding and no dead-code elimination; the
// instruction stream mirrors the source statement by statement.
type Compiler struct {
	cfg *config.Config

	// declared maps every name bound by a let statement or function
	// parameter to the token that first bound it. Bindings still
	// resolve at runtime; the table exists for diagnostics and
	// tooling over the compiled unit.
	declared map[string]token.Token

	errs []*diagnostics.Error
}

func NewCompiler(cfg *config.Config) *Compiler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Compiler{
		cfg:      cfg,
		declared: make(map[string]token.Token),
	}
}

func (c *Compiler) Errors() []*diagnostics.Error { return c.errs }

func (c *Compiler) declare(name string, tok token.Token) {
	if _, ok := c.declared[name]; !ok {
		c.declared[name] = tok
	}
}

// DeclaredNames returns every variable and parameter name the compiled
// program binds, sorted.
func (c *Compiler) DeclaredNames() []string {
	names := make([]string, 0, len(c.declared))
	for name := range c.declared {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeclarationSite returns the token that first bound name.
func (c *Compiler) DeclarationSite(name string) (token.Token, bool) {
	tok, ok := c.declared[name]
	return tok, ok
}

// Compile translates the program. On any error it returns nil together
// with the collected diagnostics; a partially compiled artifact is never
// produced.
func (c *Compiler) Compile(program *ast.Program) (*Program, []*diagnostics.Error) {
	p := &Program{}
	main := &stream{}

	for _, stmt := range program.Statements {
		if fn, ok := stmt.(*ast.FunctionDeclaration); ok {
			c.compileFunction(p, fn)
			continue
		}
		c.compileStatement(main, stmt)
	}
	main.emitOp(OP_HALT)

	if len(c.errs) > 0 {
		return nil, c.errs
	}
	p.Main = main.code
	return p, nil
}

func (c *Compiler) compileFunction(p *Program, fn *ast.FunctionDeclaration) {
	if p.Lookup(fn.Name.Value) != nil {
		c.errs = append(c.errs, diagnostics.Newf(diagnostics.ErrC003, fn.Name.Token,
			"function %q is already defined", fn.Name.Value))
		return
	}

	compiled := &Function{Name: fn.Name.Value}
	for _, param := range fn.Parameters {
		compiled.Params = append(compiled.Params, param.Value)
		c.declare(param.Value, param.Token)
	}

	body := &stream{}
	for i, stmt := range fn.Body {
		// The value of a final expression statement becomes the
		// return value: its discard is skipped.
		if es, ok := stmt.(*ast.ExpressionStatement); ok && i == len(fn.Body)-1 {
			c.compileExpression(body, es.Expression)
			continue
		}
		c.compileStatement(body, stmt)
	}

	// A body with no trailing expression returns 0.
	if len(fn.Body) == 0 {
		body.emitNum(0)
	} else if _, ok := fn.Body[len(fn.Body)-1].(*ast.ExpressionStatement); !ok {
		body.emitNum(0)
	}
	body.emitOp(OP_RET)

	compiled.Code = body.code
	p.Functions = append(p.Functions, compiled)
}

func (c *Compiler) compileStatement(s *stream, stmt ast.Statement) {
	switch st := stmt.(type) {
	case *ast.VarDeclaration:
		if st.Init != nil {
			c.compileExpression(s, st.Init)
		} else {
			s.emitNum(0)
		}
		s.emitStr(OP_STORE, st.Name.Value)
		c.declare(st.Name.Value, st.Name.Token)

	case *ast.WriteStatement:
		c.compileExpression(s, st.Value)
		s.emitOp(OP_WRITE)

	case *ast.ExpressionStatement:
		c.compileExpression(s, st.Expression)
		// Statement expressions leave a value; discard it so the
		// stack stays flat across statements.
		s.emitOp(OP_POP)

	case *ast.ImportStatement:
		if !c.cfg.ImportAllowed(st.Library) {
			c.errs = append(c.errs, diagnostics.Newf(diagnostics.ErrC002, st.Token,
				"unknown import library %q (allowed: %v)",
				st.Library, c.cfg.Imports.Allowed))
		}
		// Valid imports only grant a capability; they emit nothing.

	case *ast.FunctionDeclaration:
		c.errs = append(c.errs, diagnostics.Newf(diagnostics.ErrC001, st.Token,
			"function definitions are only allowed at the top level"))

	default:
		c.errs = append(c.errs, diagnostics.Newf(diagnostics.ErrC001, stmt.GetToken(),
			"cannot compile statement %T", stmt))
	}
}

func (c *Compiler) compileExpression(s *stream, expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		s.emitNum(e.Value)

	case *ast.StringLiteral:
		s.emitStr(OP_PUSH_STR, e.Value)

	case *ast.Identifier:
		s.emitStr(OP_LOAD, e.Value)

	case *ast.BinaryExpression:
		c.compileExpression(s, e.Left)
		c.compileExpression(s, e.Right)
		switch e.Operator {
		case "+":
			s.emitOp(OP_ADD)
		case "-":
			s.emitOp(OP_SUB)
		case "*":
			s.emitOp(OP_MUL)
		case "/":
			s.emitOp(OP_DIV)
		default:
			c.errs = append(c.errs, diagnostics.Newf(diagnostics.ErrC001, e.Token,
				"unsupported operator %q", e.Operator))
		}

	case *ast.CallExpression:
		// Arguments are pushed left to right, so the callee's frame
		// receives them in declaration order.
		for _, arg := range e.Arguments {
			c.compileExpression(s, arg)
		}
		s.emitCallNamed(e.Callee, len(e.Arguments))

	default:
		c.errs = append(c.errs, diagnostics.Newf(diagnostics.ErrC001, expr.GetToken(),
			"cannot compile expression %T", expr))
	}
}
