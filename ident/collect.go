package ident

import (
	"github.com/dr8co/vmask/ast"
	"github.com/dr8co/vmask/runtime"
)

// Collect walks program once, recording every identifier it declares or
// references, and returns a Names manager with those identifiers (plus the
// host-intrinsic table) reserved, so subsequent Fresh calls can never
// collide with anything the source program or the runtime already binds.
func Collect(program *ast.Program) *Names {
	n := NewNames()
	for _, b := range runtime.Builtins {
		n.Reserve(b.Name)
	}
	for _, stmt := range program.Statements {
		walkStatement(stmt, n)
	}
	return n
}

func walkStatement(s ast.Statement, n *Names) {
	switch s := s.(type) {
	case *ast.VarStatement:
		n.Reserve(s.Name.Value)
		walkExpression(s.Value, n)
	case *ast.FunctionDeclaration:
		walkExpression(s.Function, n)
	case *ast.ReturnStatement:
		walkExpression(s.ReturnValue, n)
	case *ast.ThrowStatement:
		walkExpression(s.Value, n)
	case *ast.ExpressionStatement:
		walkExpression(s.Expression, n)
	case *ast.BlockStatement:
		for _, inner := range s.Statements {
			walkStatement(inner, n)
		}
	case *ast.IfStatement:
		walkExpression(s.Condition, n)
		walkStatement(s.Consequence, n)
		if s.Alternative != nil {
			walkStatement(s.Alternative, n)
		}
	case *ast.WhileStatement:
		walkExpression(s.Condition, n)
		walkStatement(s.Body, n)
	case *ast.ForStatement:
		if s.Init != nil {
			walkStatement(s.Init, n)
		}
		walkExpression(s.Test, n)
		walkExpression(s.Update, n)
		walkStatement(s.Body, n)
	case *ast.SwitchStatement:
		walkExpression(s.Discriminant, n)
		for _, c := range s.Cases {
			walkExpression(c.Test, n)
			for _, inner := range c.Statements {
				walkStatement(inner, n)
			}
		}
	case *ast.TryStatement:
		walkStatement(s.Block, n)
		if s.Catch != nil {
			if s.Catch.Param != nil {
				n.Reserve(s.Catch.Param.Value)
			}
			walkStatement(s.Catch.Body, n)
		}
		if s.Finally != nil {
			walkStatement(s.Finally, n)
		}
	}
}

func walkExpression(e ast.Expression, n *Names) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case *ast.Identifier:
		n.Reserve(e.Value)
	case *ast.PrefixExpression:
		walkExpression(e.Right, n)
	case *ast.InfixExpression:
		walkExpression(e.Left, n)
		walkExpression(e.Right, n)
	case *ast.LogicalExpression:
		walkExpression(e.Left, n)
		walkExpression(e.Right, n)
	case *ast.ConditionalExpression:
		walkExpression(e.Test, n)
		walkExpression(e.Consequent, n)
		walkExpression(e.Alternate, n)
	case *ast.AssignmentExpression:
		walkExpression(e.Target, n)
		walkExpression(e.Value, n)
	case *ast.MemberExpression:
		walkExpression(e.Object, n)
		if e.Computed {
			walkExpression(e.Property, n)
		}
	case *ast.CallExpression:
		walkExpression(e.Function, n)
		for _, a := range e.Arguments {
			walkExpression(a, n)
		}
	case *ast.NewExpression:
		walkExpression(e.Callee, n)
		for _, a := range e.Arguments {
			walkExpression(a, n)
		}
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			walkExpression(el, n)
		}
	case *ast.ObjectLiteral:
		for _, p := range e.Properties {
			walkExpression(p.Value, n)
		}
	case *ast.FunctionLiteral:
		if e.Name != "" {
			n.Reserve(e.Name)
		}
		for _, p := range e.Parameters {
			n.Reserve(p.Value)
		}
		walkStatement(e.Body, n)
	}
}
