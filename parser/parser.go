// Package parser implements the syntactic analyzer for the input language.
//
// The parser takes a stream of tokens from the lexer and constructs an
// Abstract Syntax Tree (AST) describing the program's structure. It is a
// Pratt (precedence-climbing) recursive-descent parser: each token type that
// can start an expression registers a prefix parse function, and each token
// type that can continue one registers an infix parse function keyed by its
// binding precedence.
package parser

import (
	"fmt"
	"strconv"

	"github.com/dr8co/vmask/ast"
	"github.com/dr8co/vmask/lexer"
	"github.com/dr8co/vmask/token"
)

// Operator precedence levels, lowest to highest binding power.
const (
	Lowest int = iota
	Assignment
	Conditional
	NullishCoalesce
	LogicalOr
	LogicalAnd
	BitwiseOr
	BitwiseXor
	BitwiseAnd
	Equality
	Relational
	Shift
	Additive
	Multiplicative
	Unary
	Call
	Index
	Member
)

var precedences = map[token.Type]int{
	token.ASSIGN:     Assignment,
	token.QUESTION:   Conditional,
	token.NULLISH:    NullishCoalesce,
	token.OR:         LogicalOr,
	token.AND:        LogicalAnd,
	token.PIPE:       BitwiseOr,
	token.CARET:      BitwiseXor,
	token.AMP:        BitwiseAnd,
	token.EQ:         Equality,
	token.NOT_EQ:     Equality,
	token.SEQ:        Equality,
	token.SNEQ:       Equality,
	token.LT:         Relational,
	token.GT:         Relational,
	token.LTE:        Relational,
	token.GTE:        Relational,
	token.IN:         Relational,
	token.INSTANCEOF: Relational,
	token.SHL:        Shift,
	token.SHR:        Shift,
	token.USHR:       Shift,
	token.PLUS:       Additive,
	token.MINUS:      Additive,
	token.ASTERISK:   Multiplicative,
	token.SLASH:      Multiplicative,
	token.PERCENT:    Multiplicative,
	token.LPAREN:     Call,
	token.LBRACKET:   Index,
	token.DOT:        Member,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser builds an AST from a stream of tokens produced by a [lexer.Lexer].
type Parser struct {
	l      *lexer.Lexer
	errors []string

	currentToken token.Token
	peekToken    token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser reading from l and primes the first two tokens.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.UNDEFINED, p.parseUndefinedLiteral)
	p.registerPrefix(token.THIS, p.parseThisExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.PLUS, p.parsePrefixExpression)
	p.registerPrefix(token.TILDE, p.parsePrefixExpression)
	p.registerPrefix(token.TYPEOF, p.parsePrefixExpression)
	p.registerPrefix(token.VOID, p.parsePrefixExpression)
	p.registerPrefix(token.DELETE, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrArrow)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(token.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(token.NEW, p.parseNewExpression)

	p.infixParseFns = make(map[token.Type]infixParseFn)
	for _, t := range []token.Type{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR, token.USHR,
		token.EQ, token.NOT_EQ, token.SEQ, token.SNEQ,
		token.LT, token.GT, token.LTE, token.GTE, token.IN, token.INSTANCEOF,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	p.registerInfix(token.AND, p.parseLogicalExpression)
	p.registerInfix(token.OR, p.parseLogicalExpression)
	p.registerInfix(token.NULLISH, p.parseLogicalExpression)
	p.registerInfix(token.ASSIGN, p.parseAssignmentExpression)
	p.registerInfix(token.QUESTION, p.parseConditionalExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)

	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) {
	p.prefixParseFns[t] = fn
}

func (p *Parser) registerInfix(t token.Type, fn infixParseFn) {
	p.infixParseFns[t] = fn
}

// Errors returns the list of parse errors accumulated so far.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) peekError(t token.Type) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) noPrefixParseFnError(t token.Type) {
	msg := fmt.Sprintf("no prefix parse function for %s found", t)
	p.errors = append(p.errors, msg)
}

func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) currentTokenIs(t token.Type) bool {
	return p.currentToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return Lowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.currentToken.Type]; ok {
		return pr
	}
	return Lowest
}

// skipSemicolon consumes a single optional trailing semicolon.
func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// ParseProgram parses the whole input and returns the root [ast.Program] node.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.currentTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.currentToken.Type {
	case token.VAR:
		return p.parseVarStatement()
	case token.FUNCTION:
		return p.parseFunctionDeclaration()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVarStatement() *ast.VarStatement {
	stmt := &ast.VarStatement{Token: p.currentToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.currentToken, Value: p.currentToken.Literal}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(Assignment)
	}

	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	tok := p.currentToken
	fn := p.parseFunctionLiteral().(*ast.FunctionLiteral)
	return &ast.FunctionDeclaration{Token: tok, Function: fn}
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.currentToken}

	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(Lowest)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	stmt := &ast.BreakStatement{Token: p.currentToken}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	stmt := &ast.ContinueStatement{Token: p.currentToken}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	stmt := &ast.ThrowStatement{Token: p.currentToken}
	p.nextToken()
	stmt.Value = p.parseExpression(Lowest)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.currentToken}
	stmt.Expression = p.parseExpression(Lowest)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.currentToken, Statements: []ast.Statement{}}

	p.nextToken()
	for !p.currentTokenIs(token.RBRACE) && !p.currentTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	return block
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.currentToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(Lowest)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		switch {
		case p.peekTokenIs(token.IF):
			p.nextToken()
			stmt.Alternative = p.parseIfStatement()
		case p.expectPeek(token.LBRACE):
			stmt.Alternative = p.parseBlockStatement()
		}
	}

	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.currentToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(Lowest)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	return stmt
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{Token: p.currentToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	p.nextToken()
	if !p.currentTokenIs(token.SEMICOLON) {
		if p.currentTokenIs(token.VAR) {
			stmt.Init = p.parseVarStatement()
		} else {
			stmt.Init = p.parseExpressionStatement()
		}
	} else {
		p.nextToken()
	}
	// parseVarStatement/parseExpressionStatement consume up to and including
	// the semicolon; advance to the first token of the test clause.
	if p.currentTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	if !p.currentTokenIs(token.SEMICOLON) {
		stmt.Test = p.parseExpression(Lowest)
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()

	if !p.currentTokenIs(token.RPAREN) {
		stmt.Update = p.parseExpression(Lowest)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Token: p.currentToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Discriminant = p.parseExpression(Lowest)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.currentTokenIs(token.RBRACE) && !p.currentTokenIs(token.EOF) {
		c := ast.SwitchCase{}
		switch {
		case p.currentTokenIs(token.CASE):
			p.nextToken()
			c.Test = p.parseExpression(Lowest)
			if !p.expectPeek(token.COLON) {
				return nil
			}
		case p.currentTokenIs(token.DEFAULT):
			if !p.expectPeek(token.COLON) {
				return nil
			}
		default:
			p.errors = append(p.errors, fmt.Sprintf("expected case or default, got %s", p.currentToken.Type))
			return nil
		}
		p.nextToken()

		for !p.currentTokenIs(token.CASE) && !p.currentTokenIs(token.DEFAULT) &&
			!p.currentTokenIs(token.RBRACE) && !p.currentTokenIs(token.EOF) {
			s := p.parseStatement()
			if s != nil {
				c.Statements = append(c.Statements, s)
			}
			p.nextToken()
		}

		stmt.Cases = append(stmt.Cases, c)
	}

	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	stmt := &ast.TryStatement{Token: p.currentToken}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Block = p.parseBlockStatement()

	if p.peekTokenIs(token.CATCH) {
		p.nextToken()
		clause := &ast.CatchClause{}
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			clause.Param = &ast.Identifier{Token: p.currentToken, Value: p.currentToken.Literal}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		clause.Body = p.parseBlockStatement()
		stmt.Catch = clause
	}

	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Finally = p.parseBlockStatement()
	}

	return stmt
}

// parseExpression is the core Pratt loop: parse a prefix (primary) term, then
// repeatedly fold in infix operators whose precedence exceeds the caller's
// floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.currentToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.currentToken.Type)
		return nil
	}
	leftExp := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.currentToken, Value: p.currentToken.Literal}
}

func (p *Parser) parseThisExpression() ast.Expression {
	return &ast.ThisExpression{Token: p.currentToken}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := &ast.NumberLiteral{Token: p.currentToken}

	value, err := strconv.ParseFloat(p.currentToken.Literal, 64)
	if err != nil {
		msg := fmt.Sprintf("could not parse %q as a number", p.currentToken.Literal)
		p.errors = append(p.errors, msg)
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.currentToken, Value: p.currentToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.currentToken, Value: p.currentTokenIs(token.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.currentToken}
}

func (p *Parser) parseUndefinedLiteral() ast.Expression {
	return &ast.UndefinedLiteral{Token: p.currentToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.currentToken, Operator: p.currentToken.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(Unary)
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.currentToken,
		Operator: p.currentToken.Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	expr := &ast.LogicalExpression{
		Token:    p.currentToken,
		Operator: p.currentToken.Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	expr := &ast.AssignmentExpression{Token: p.currentToken, Target: left}
	p.nextToken()
	expr.Value = p.parseExpression(Assignment - 1)
	return expr
}

func (p *Parser) parseConditionalExpression(test ast.Expression) ast.Expression {
	expr := &ast.ConditionalExpression{Token: p.currentToken, Test: test}
	p.nextToken()
	expr.Consequent = p.parseExpression(Lowest)

	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	expr.Alternate = p.parseExpression(Conditional - 1)

	return expr
}

func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	expr := &ast.MemberExpression{Token: p.currentToken, Object: object, Computed: false}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.Property = &ast.Identifier{Token: p.currentToken, Value: p.currentToken.Literal}
	return expr
}

func (p *Parser) parseIndexExpression(object ast.Expression) ast.Expression {
	expr := &ast.MemberExpression{Token: p.currentToken, Object: object, Computed: true}
	p.nextToken()
	expr.Property = p.parseExpression(Lowest)

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(Lowest)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseGroupedOrArrow disambiguates a parenthesized expression from an arrow
// function's parameter list by scanning ahead for a matching `)` followed by
// `=>`, without permanently consuming tokens (the lexer has no rewind, so the
// lookahead re-lexes from a saved copy instead).
func (p *Parser) parseGroupedOrArrow() ast.Expression {
	if p.isArrowParams() {
		return p.parseArrowFunction()
	}
	return p.parseGroupedExpression()
}

// isArrowParams peeks past the current `(` to see whether the parenthesized
// group is followed by `=>`, using a throwaway lexer copy so the real parser
// state is untouched.
func (p *Parser) isArrowParams() bool {
	depth := 1 // the current `(` is already open
	lookahead := *p.l
	tok := p.peekToken
	for {
		switch tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				next := lookahead.NextToken()
				return next.Type == token.ARROW
			}
		case token.EOF:
			return false
		}
		tok = lookahead.NextToken()
	}
}

func (p *Parser) parseArrowFunction() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.currentToken, Arrow: true}
	fn.Parameters = p.parseFunctionParameters()

	if !p.expectPeek(token.ARROW) {
		return nil
	}

	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		fn.Body = p.parseBlockStatement()
	} else {
		p.nextToken()
		expr := p.parseExpression(Assignment)
		fn.Body = &ast.BlockStatement{
			Token:      fn.Token,
			Statements: []ast.Statement{&ast.ReturnStatement{Token: fn.Token, ReturnValue: expr}},
		}
	}

	return fn
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.currentToken}
	arr.Elements = p.parseExpressionList(token.RBRACKET)
	return arr
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.currentToken}

	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()

		var key ast.Expression
		switch p.currentToken.Type {
		case token.STRING:
			key = &ast.StringLiteral{Token: p.currentToken, Value: p.currentToken.Literal}
		case token.IDENT:
			key = &ast.Identifier{Token: p.currentToken, Value: p.currentToken.Literal}
		default:
			p.errors = append(p.errors, fmt.Sprintf("unexpected token %s in object literal key", p.currentToken.Type))
			return nil
		}

		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(Assignment)

		obj.Properties = append(obj.Properties, ast.ObjectProperty{Key: key, Value: value})

		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return obj
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.currentToken}

	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		fn.Name = p.currentToken.Literal
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fn.Parameters = p.parseFunctionParameters()

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()

	return fn
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	identifiers := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers
	}

	p.nextToken()
	identifiers = append(identifiers, &ast.Identifier{Token: p.currentToken, Value: p.currentToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		identifiers = append(identifiers, &ast.Identifier{Token: p.currentToken, Value: p.currentToken.Literal})
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return identifiers
}

// parseNewExpression parses `new Callee(args...)`. The callee is parsed at a
// precedence above Call so that a member-access chain (`new a.b.C(...)`) is
// captured without swallowing the constructor's own argument list, which is
// then parsed separately.
func (p *Parser) parseNewExpression() ast.Expression {
	expr := &ast.NewExpression{Token: p.currentToken}
	p.nextToken()

	expr.Callee = p.parseExpression(Call + 1)

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		expr.Arguments = p.parseExpressionList(token.RPAREN)
	}
	return expr
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.currentToken, Function: function}
	expr.Arguments = p.parseExpressionList(token.RPAREN)
	return expr
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(Assignment))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(Assignment))
	}

	if !p.expectPeek(end) {
		return nil
	}

	return list
}
