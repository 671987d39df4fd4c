package parser

import (
	"testing"

	"github.com/dr8co/vmask/ast"
	"github.com/dr8co/vmask/lexer"
)

func parseAndCheck(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser has %d errors: %v", len(errs), errs)
	}
	return program
}

func TestVarStatements(t *testing.T) {
	tests := []struct {
		input         string
		expectedIdent string
	}{
		{"var x = 5;", "x"},
		{"var y = true;", "y"},
		{"var total = x + y;", "total"},
	}

	for _, tt := range tests {
		program := parseAndCheck(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("expected 1 statement, got %d", len(program.Statements))
		}
		stmt, ok := program.Statements[0].(*ast.VarStatement)
		if !ok {
			t.Fatalf("expected *ast.VarStatement, got %T", program.Statements[0])
		}
		if stmt.Name.Value != tt.expectedIdent {
			t.Errorf("want name %q, got %q", tt.expectedIdent, stmt.Name.Value)
		}
	}
}

func TestReturnStatement(t *testing.T) {
	program := parseAndCheck(t, "return 5 + 5;")
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected *ast.ReturnStatement, got %T", program.Statements[0])
	}
	if stmt.TokenLiteral() != "return" {
		t.Errorf("want token literal %q, got %q", "return", stmt.TokenLiteral())
	}
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"a + b - c;", "((a + b) - c)"},
		{"!-a;", "(!(-a))"},
		{"a === b && c !== d;", "((a === b) && (c !== d))"},
	}

	for _, tt := range tests {
		program := parseAndCheck(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("input %q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		exprStmt, ok := program.Statements[0].(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("input %q: expected *ast.ExpressionStatement, got %T", tt.input, program.Statements[0])
		}
		if got := exprStmt.Expression.String(); got != tt.expected {
			t.Errorf("input %q: want %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestIfStatementParsesConsequenceAndAlternative(t *testing.T) {
	program := parseAndCheck(t, `
		if (x < y) {
			x;
		} else {
			y;
		}
	`)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", program.Statements[0])
	}
	if len(stmt.Consequence.Statements) != 1 {
		t.Errorf("expected 1 consequence statement, got %d", len(stmt.Consequence.Statements))
	}
	if stmt.Alternative == nil {
		t.Fatal("expected a non-nil alternative")
	}
}

func TestFunctionLiteralParsesParametersAndBody(t *testing.T) {
	program := parseAndCheck(t, "function add(a, b) { return a + b; }")
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	decl, ok := program.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclaration, got %T", program.Statements[0])
	}
	if len(decl.Function.Parameters) != 2 {
		t.Fatalf("want 2 parameters, got %d", len(decl.Function.Parameters))
	}
	if decl.Function.Parameters[0].Value != "a" || decl.Function.Parameters[1].Value != "b" {
		t.Errorf("unexpected parameter names: %v", decl.Function.Parameters)
	}
}

func TestParserRecordsErrorsForMalformedInput(t *testing.T) {
	l := lexer.New("var = 5;")
	p := New(l)
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one parser error for a missing identifier")
	}
}
