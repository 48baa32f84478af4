// Package parser implements the syntactic analyzer for the Word
// programming language.
//
// The parser takes a stream of tokens from the lexer and constructs an
// Abstract Syntax Tree (AST) that represents the structure of the program.
// Statements are parsed by recursive descent, dispatching on the leading
// keyword; expressions use Pratt parsing (precedence climbing), exactly the
// structure the teacher's Monkey parser uses for its (smaller) expression
// grammar.
//
// The lexer and this parser are outside THE CORE's specified scope (spec.md
// §1): they exist only to hand the Semantic Analyzer something to annotate.
package parser

import (
	"fmt"
	"strconv"

	"github.com/wordlang/wordc/ast"
	"github.com/wordlang/wordc/lexer"
	"github.com/wordlang/wordc/token"
	"github.com/wordlang/wordc/types"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	Lowest
	Or          // or
	And         // and
	Equals      // = !=
	LessGreater // < > <= >=
	Sum         // + -
	Product     // * / mod
	Power       // ^
	Prefix      // -x, not x
	Index       // x[i]
)

var precedences = map[token.Type]int{
	token.OR:       Or,
	token.AND:      And,
	token.EQ:       Equals,
	token.NOT_EQ:   Equals,
	token.LT:       LessGreater,
	token.GT:       LessGreater,
	token.LTE:      LessGreater,
	token.GTE:      LessGreater,
	token.PLUS:     Sum,
	token.MINUS:    Sum,
	token.ASTERISK: Product,
	token.SLASH:    Product,
	token.MOD:      Product,
	token.CARET:    Power,
	token.LBRACKET: Index,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser builds an *ast.Program from a token stream.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	currentToken token.Token
	peekToken    token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a new Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifierOrCall)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE_KW, p.parseBoolean)
	p.registerPrefix(token.FALSE_KW, p.parseBoolean)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.NOT, p.parseUnaryExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)
	p.registerPrefix(token.BETWEEN, p.parseBetweenExpression)

	p.infixParseFns = make(map[token.Type]infixParseFn)
	for _, t := range []token.Type{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.MOD, token.CARET,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE,
		token.AND, token.OR,
	} {
		p.registerInfix(t, p.parseBinaryExpression)
	}
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixParseFns[t] = fn }

// Errors returns the syntax errors accumulated while parsing.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) pos() ast.Pos { return ast.Pos{Line: p.currentToken.Line, Column: p.currentToken.Column} }

func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) currentTokenIs(t token.Type) bool { return p.currentToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool     { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: expected next token to be %s, got %s instead",
		p.peekToken.Line, p.peekToken.Column, t, p.peekToken.Type))
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: "+format, append([]any{p.currentToken.Line, p.currentToken.Column}, args...)...))
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

// ParseProgram parses a complete Word program and returns its AST.
// Check [Parser.Errors] afterward to see whether parsing succeeded.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.currentTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.currentToken.Type {
	case token.SET:
		return p.parseVariableDecl(false)
	case token.MAKE:
		return p.parseVariableDecl(true)
	case token.CHANGE:
		return p.parseAssignStatement()
	case token.DEFINE:
		return p.parseFunctionDecl()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.REPEAT:
		return p.parseRepeatStatement()
	case token.FOR:
		return p.parseForEachStatement()
	case token.GIVE:
		return p.parseReturnStatement()
	case token.STOP:
		return &ast.BreakStatement{Position: p.pos()}
	case token.SKIP:
		return &ast.ContinueStatement{Position: p.pos()}
	case token.DISPLAY:
		return p.parseDisplayStatement()
	case token.ASK:
		return p.parseAskStatement()
	case token.READ:
		return p.parseReadStatement()
	case token.SECURE, token.SAFE:
		return p.parseSecureZoneStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlock parses statements until `end`, `else`, or EOF.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Position: p.pos()}
	p.nextToken()
	for !p.currentTokenIs(token.END) && !p.currentTokenIs(token.ELSE) && !p.currentTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseVariableDecl(isConst bool) ast.Statement {
	pos := p.pos()
	if isConst {
		if !p.expectPeek(token.CONSTANT) {
			return nil
		}
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.currentToken.Literal

	var init ast.Expression
	if isConst {
		if !p.expectPeek(token.BE) {
			return nil
		}
		p.nextToken()
		init = p.parseExpression(Lowest)
	} else if p.peekTokenIs(token.TO) {
		p.nextToken()
		p.nextToken()
		init = p.parseExpression(Lowest)
	}
	return &ast.VariableDecl{Position: pos, Name: name, IsConst: isConst, Initializer: init}
}

func (p *Parser) parseAssignStatement() ast.Statement {
	pos := p.pos()
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	var target ast.Expression = &ast.Identifier{ExprBase: ast.ExprBase{Position: p.pos()}, Name: p.currentToken.Literal}
	if p.peekTokenIs(token.AT) {
		p.nextToken()
		p.nextToken()
		idx := p.parseExpression(Lowest)
		target = &ast.IndexExpression{Array: target, Index: idx}
	}
	if !p.expectPeek(token.TO) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(Lowest)
	return &ast.AssignStatement{Position: pos, Target: target, Value: value}
}

// parseParameter parses a single function parameter, with an optional
// `as <type>` annotation; an unannotated parameter is typed Unknown, which
// types.Compatible treats as a universal absorber.
func (p *Parser) parseParameter() *ast.Parameter {
	param := &ast.Parameter{Position: p.pos(), Name: p.currentToken.Literal, Type: types.T(types.Unknown)}
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		p.nextToken()
		param.Type = typeKeywordToType(p.currentToken.Type)
	}
	return param
}

func typeKeywordToType(t token.Type) types.Type {
	switch t {
	case token.NUMBER_TY:
		return types.T(types.Number)
	case token.DECIMAL_TY:
		return types.T(types.Decimal)
	case token.TEXT_TY:
		return types.T(types.Text)
	case token.FLAG_TY:
		return types.T(types.Flag)
	case token.LIST_TY:
		return types.T(types.List)
	default:
		return types.T(types.Nothing)
	}
}

func (p *Parser) parseFunctionDecl() ast.Statement {
	pos := p.pos()
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.currentToken.Literal
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	var params []*ast.Parameter
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		params = append(params, p.parseParameter())
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			params = append(params, p.parseParameter())
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	returnType := types.T(types.Nothing)
	if p.peekTokenIs(token.RETURNS) {
		p.nextToken()
		p.nextToken()
		returnType = typeKeywordToType(p.currentToken.Type)
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseBlock()
	if !p.currentTokenIs(token.END) {
		p.errorf("expected `end` to close function %q", name)
	}
	return &ast.FunctionDecl{Position: pos, Name: name, Parameters: params, ReturnType: returnType, Body: body}
}

func (p *Parser) parseIfStatement() ast.Statement {
	pos := p.pos()
	p.nextToken()
	cond := p.parseExpression(Lowest)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	cons := p.parseBlock()

	var alt *ast.Block
	if p.currentTokenIs(token.ELSE) {
		if !p.expectPeek(token.COLON) {
			return nil
		}
		alt = p.parseBlock()
	}
	if !p.currentTokenIs(token.END) {
		p.errorf("expected `end` to close if statement")
	}
	return &ast.IfStatement{Position: pos, Condition: cond, Consequence: cons, Alternative: alt}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	pos := p.pos()
	p.nextToken()
	cond := p.parseExpression(Lowest)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseBlock()
	if !p.currentTokenIs(token.END) {
		p.errorf("expected `end` to close while loop")
	}
	return &ast.WhileStatement{Position: pos, Condition: cond, Body: body}
}

func (p *Parser) parseRepeatStatement() ast.Statement {
	pos := p.pos()
	p.nextToken()
	count := p.parseExpression(Lowest)
	if !p.expectPeek(token.TIMES) {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseBlock()
	if !p.currentTokenIs(token.END) {
		p.errorf("expected `end` to close repeat loop")
	}
	return &ast.RepeatStatement{Position: pos, Count: count, Body: body}
}

func (p *Parser) parseForEachStatement() ast.Statement {
	pos := p.pos()
	if !p.expectPeek(token.EACH) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	iterName := p.currentToken.Literal
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	iterable := p.parseExpression(Lowest)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseBlock()
	if !p.currentTokenIs(token.END) {
		p.errorf("expected `end` to close for-each loop")
	}
	return &ast.ForEachStatement{Position: pos, IteratorName: iterName, Iterable: iterable, Body: body}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	pos := p.pos()
	if !p.expectPeek(token.BACK) {
		return nil
	}
	var value ast.Expression
	if !p.peekTokenIs(token.EOF) && !isBlockEnd(p.peekToken.Type) {
		p.nextToken()
		value = p.parseExpression(Lowest)
	}
	return &ast.ReturnStatement{Position: pos, Value: value}
}

func isBlockEnd(t token.Type) bool {
	return t == token.END || t == token.ELSE
}

func (p *Parser) parseDisplayStatement() ast.Statement {
	pos := p.pos()
	p.nextToken()
	val := p.parseExpression(Lowest)
	return &ast.DisplayStatement{Position: pos, Value: val}
}

func (p *Parser) parseAskStatement() ast.Statement {
	pos := p.pos()
	p.nextToken()
	prompt := p.parseExpression(Lowest)
	if !p.expectPeek(token.INTO) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	target := &ast.Identifier{ExprBase: ast.ExprBase{Position: p.pos()}, Name: p.currentToken.Literal}
	return &ast.AskStatement{Position: pos, Prompt: prompt, Target: target}
}

func (p *Parser) parseReadStatement() ast.Statement {
	pos := p.pos()
	if !p.expectPeek(token.INTO) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	target := &ast.Identifier{ExprBase: ast.ExprBase{Position: p.pos()}, Name: p.currentToken.Literal}
	return &ast.ReadStatement{Position: pos, Target: target}
}

func (p *Parser) parseSecureZoneStatement() ast.Statement {
	pos := p.pos()
	if !p.expectPeek(token.ZONE) {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	body := p.parseBlock()
	if !p.currentTokenIs(token.END) {
		p.errorf("expected `end` to close secure zone")
	}
	return &ast.SecureZoneStatement{Position: pos, Body: body}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	pos := p.pos()
	expr := p.parseExpression(Lowest)
	return &ast.ExpressionStatement{Position: pos, Expr: expr}
}

// ---- expressions ----

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.currentToken.Type]
	if prefix == nil {
		p.errorf("no prefix parse function for %s found", p.currentToken.Type)
		return nil
	}
	left := prefix()

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifierOrCall() ast.Expression {
	pos := p.pos()
	name := p.currentToken.Literal
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args := p.parseExpressionList(token.RPAREN)
		return &ast.CallExpression{ExprBase: ast.ExprBase{Position: pos}, Function: name, Arguments: args}
	}
	return &ast.Identifier{ExprBase: ast.ExprBase{Position: pos}, Name: name}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	pos := p.pos()
	v, err := strconv.ParseInt(p.currentToken.Literal, 10, 64)
	if err != nil {
		p.errorf("could not parse %q as an integer", p.currentToken.Literal)
		return nil
	}
	return &ast.IntegerLiteral{ExprBase: ast.ExprBase{Position: pos}, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	pos := p.pos()
	v, err := strconv.ParseFloat(p.currentToken.Literal, 64)
	if err != nil {
		p.errorf("could not parse %q as a decimal", p.currentToken.Literal)
		return nil
	}
	return &ast.FloatLiteral{ExprBase: ast.ExprBase{Position: pos}, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{ExprBase: ast.ExprBase{Position: p.pos()}, Value: p.currentToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BoolLiteral{ExprBase: ast.ExprBase{Position: p.pos()}, Value: p.currentTokenIs(token.TRUE_KW)}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	pos := p.pos()
	op := types.Neg
	if p.currentTokenIs(token.NOT) {
		op = types.Not
	}
	p.nextToken()
	operand := p.parseExpression(Prefix)
	return &ast.UnaryExpression{ExprBase: ast.ExprBase{Position: pos}, Operator: op, Operand: operand}
}

var tokenToOperator = map[token.Type]types.Operator{
	token.PLUS: types.Add, token.MINUS: types.Sub, token.ASTERISK: types.Mul,
	token.SLASH: types.Div, token.MOD: types.Mod, token.CARET: types.Pow,
	token.EQ: types.Eq, token.NOT_EQ: types.Neq, token.LT: types.Lt,
	token.GT: types.Gt, token.LTE: types.Lte, token.GTE: types.Gte,
	token.AND: types.And, token.OR: types.Or,
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	pos := p.pos()
	op := tokenToOperator[p.currentToken.Type]
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpression{ExprBase: ast.ExprBase{Position: pos}, Operator: op, Left: left, Right: right}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(Lowest)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseListLiteral() ast.Expression {
	pos := p.pos()
	elems := p.parseExpressionList(token.RBRACKET)
	return &ast.ListLiteral{ExprBase: ast.ExprBase{Position: pos}, Elements: elems}
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(Lowest))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(Lowest))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	p.nextToken()
	idx := p.parseExpression(Lowest)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.IndexExpression{ExprBase: ast.ExprBase{Position: p.pos()}, Array: left, Index: idx}
}

func (p *Parser) parseBetweenExpression() ast.Expression {
	pos := p.pos()
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	x := p.parseExpression(Lowest)
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.nextToken()
	lo := p.parseExpression(Lowest)
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.nextToken()
	hi := p.parseExpression(Lowest)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.TernaryBetween{ExprBase: ast.ExprBase{Position: pos}, X: x, Low: lo, High: hi}
}
