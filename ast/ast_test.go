package ast

import (
	"testing"

	"github.com/dr8co/vmask/token"
)

func TestProgramStringConcatenatesStatements(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&VarStatement{
				Token: token.Token{Type: token.VAR, Literal: "var"},
				Name:  &Identifier{Token: token.Token{Type: token.IDENT, Literal: "x"}, Value: "x"},
				Value: &NumberLiteral{Token: token.Token{Type: token.NUMBER, Literal: "5"}, Value: 5},
			},
			&VarStatement{
				Token: token.Token{Type: token.VAR, Literal: "var"},
				Name:  &Identifier{Token: token.Token{Type: token.IDENT, Literal: "y"}, Value: "y"},
			},
		},
	}

	want := "var x = 5;var y;"
	if got := program.String(); got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestProgramTokenLiteralUsesFirstStatement(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&VarStatement{Token: token.Token{Type: token.VAR, Literal: "var"}},
		},
	}
	if got := program.TokenLiteral(); got != "var" {
		t.Errorf("want %q, got %q", "var", got)
	}
}

func TestEmptyProgramTokenLiteralIsEmpty(t *testing.T) {
	program := &Program{}
	if got := program.TokenLiteral(); got != "" {
		t.Errorf("want empty string, got %q", got)
	}
}
