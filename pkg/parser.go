package clc

import (
	"errors"
	"fmt"
	"strings"
)

// UnexpectedTokenError reports a grammar mismatch at the current
// look-ahead: Expected names the class (or classes, joined by " or ") the
// grammar required; Actual is the token that was actually seen.
type UnexpectedTokenError struct {
	Expected string
	Actual   string
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("clc: unexpected token: expected %s, got %s", e.Expected, e.Actual)
}

// wrapLexerError wraps an error surfaced by the lexer so a caller can still
// reach it with errors.Is/errors.As, without introducing a dedicated
// wrapper type for it.
func wrapLexerError(err error) error {
	return fmt.Errorf("lexer error: %w", err)
}

// RecursiveDescentParser realizes the grammar over a Tokenizer with one
// token of look-ahead and no backtracking: every production decision is
// made on the current peeked token (or an exact keyword match). The first
// UnexpectedTokenError encountered aborts the parse; the tree built so far
// is discarded.
type RecursiveDescentParser struct {
	lexer Tokenizer
}

// NewParser builds a parser consuming tokens from lexer.
func NewParser(lexer Tokenizer) *RecursiveDescentParser {
	return &RecursiveDescentParser{lexer: lexer}
}

// eat consumes the next token if its class matches, building a leaf node.
func (p *RecursiveDescentParser) eat(class TokenClass) (*ParseNode, error) {
	ti, err := p.lexer.Peek()
	if err != nil {
		return nil, p.unexpectedFromErr(class.String(), err)
	}

	if !ti.Token.Is(class) {
		return nil, &UnexpectedTokenError{Expected: class.String(), Actual: ti.Token.String()}
	}

	if _, err := p.lexer.Next(); err != nil {
		return nil, wrapLexerError(err)
	}

	value, hasValue := ti.Token.ExtractValue()

	return &ParseNode{
		Kind:     LeafKind(class),
		Value:    value,
		HasValue: hasValue,
		Loc:      Location{Line: ti.Line, Column: ti.Column},
	}, nil
}

// eatAnyOf tries eat against each class in order, returning the first
// success. On total failure it reports every expected class joined by
// " or ".
func (p *RecursiveDescentParser) eatAnyOf(classes ...TokenClass) (*ParseNode, error) {
	for _, class := range classes {
		if node, err := p.eat(class); err == nil {
			return node, nil
		}
	}

	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.String()
	}

	actual := "Unknown"
	if ti, err := p.lexer.Peek(); err == nil {
		actual = ti.Token.String()
	}

	return nil, &UnexpectedTokenError{Expected: strings.Join(names, " or "), Actual: actual}
}

// eatExact consumes the next token only if it equals token exactly,
// including payload — used for keyword lexemes like "fn" or "return".
func (p *RecursiveDescentParser) eatExact(token Token) (*ParseNode, error) {
	ti, err := p.lexer.Peek()
	if err != nil {
		return nil, p.unexpectedFromErr(token.String(), err)
	}

	if !ti.Token.Equals(token) {
		return nil, &UnexpectedTokenError{Expected: token.String(), Actual: ti.Token.String()}
	}

	if _, err := p.lexer.Next(); err != nil {
		return nil, wrapLexerError(err)
	}

	value, hasValue := ti.Token.ExtractValue()

	return &ParseNode{
		Kind:     LeafKind(ti.Token.Class()),
		Value:    value,
		HasValue: hasValue,
		Loc:      Location{Line: ti.Line, Column: ti.Column},
	}, nil
}

func (p *RecursiveDescentParser) unexpectedFromErr(expected string, err error) error {
	if errors.Is(err, ErrEndOfFile) {
		return &UnexpectedTokenError{Expected: expected, Actual: "EndOfFile"}
	}

	return wrapLexerError(err)
}

// isNext is a non-consuming predicate: true iff the look-ahead token is in
// class.
func (p *RecursiveDescentParser) isNext(class TokenClass) bool {
	ti, err := p.lexer.Peek()
	if err != nil {
		return false
	}

	return ti.Token.Is(class)
}

// isNextExact is a non-consuming predicate checking full equality,
// including payload.
func (p *RecursiveDescentParser) isNextExact(token Token) bool {
	ti, err := p.lexer.Peek()
	if err != nil {
		return false
	}

	return ti.Token.Equals(token)
}

func (p *RecursiveDescentParser) isNextAnyOf(classes ...TokenClass) bool {
	for _, c := range classes {
		if p.isNext(c) {
			return true
		}
	}

	return false
}

func (p *RecursiveDescentParser) isNextExactAnyOf(tokens ...Token) bool {
	for _, t := range tokens {
		if p.isNextExact(t) {
			return true
		}
	}

	return false
}

// parseExpression realizes:
//
//	Expression := '(' Expression ')' Suffix?
//	            | (Identifier|Boolean|Number|Literal) Suffix?
//	Suffix      := Operator(++) | Operator Expression
func (p *RecursiveDescentParser) parseExpression() (*ParseNode, error) {
	expression := NewParseNode(NodeExpression, Location{Line: 1, Column: 1})

	if p.isNext(ClassLparen) {
		lparen, err := p.eat(ClassLparen)
		if err != nil {
			return nil, err
		}

		expression.Loc = lparen.Loc
		expression.AddChild(lparen)

		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		expression.AddChild(inner)

		rparen, err := p.eat(ClassRparen)
		if err != nil {
			return nil, err
		}

		expression.AddChild(rparen)
	} else {
		operand, err := p.eatAnyOf(ClassIdentifier, ClassBoolean, ClassNumber, ClassLiteral)
		if err != nil {
			return nil, err
		}

		expression.AddChild(operand)
	}

	switch {
	case p.isNextExact(Token{Kind: KindOperator, Op: OpIncrement}):
		op, err := p.eat(ClassOperator)
		if err != nil {
			return nil, err
		}

		expression.AddChild(op)
	case p.isNext(ClassOperator):
		op, err := p.eat(ClassOperator)
		if err != nil {
			return nil, err
		}

		expression.AddChild(op)

		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		expression.AddChild(rhs)
	}

	return expression, nil
}

// parseBlock realizes Block := '{' Statement* '}'.
func (p *RecursiveDescentParser) parseBlock() (*ParseNode, error) {
	block := NewParseNode(NodeBlock, Location{Line: 1, Column: 1})

	lcurly, err := p.eat(ClassLCurly)
	if err != nil {
		return nil, err
	}

	block.AddChild(lcurly)

	for !p.isNext(ClassRCurly) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		block.AddChild(stmt)
	}

	rcurly, err := p.eat(ClassRCurly)
	if err != nil {
		return nil, err
	}

	block.AddChild(rcurly)

	return block, nil
}

// parseControlFlowBlock realizes ControlFlowBlock := '(' Expression ')' Block.
func (p *RecursiveDescentParser) parseControlFlowBlock() (*ParseNode, error) {
	block := NewParseNode(NodeControlFlowBlock, Location{Line: 1, Column: 1})

	lparen, err := p.eat(ClassLparen)
	if err != nil {
		return nil, err
	}

	block.AddChild(lparen)

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	block.AddChild(expr)

	rparen, err := p.eat(ClassRparen)
	if err != nil {
		return nil, err
	}

	block.AddChild(rparen)

	inner, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	block.AddChild(inner)

	return block, nil
}

// parseForLoopStatement realizes:
//
//	ForLoopStatement := 'for' '(' AssignmentStatement Expression ';' Expression ')' Block
func (p *RecursiveDescentParser) parseForLoopStatement() (*ParseNode, error) {
	statement := NewParseNode(NodeForLoopStatement, Location{Line: 1, Column: 1})

	kw, err := p.eat(ClassKeyword)
	if err != nil {
		return nil, err
	}

	statement.AddChild(kw)

	lparen, err := p.eat(ClassLparen)
	if err != nil {
		return nil, err
	}

	statement.AddChild(lparen)

	assignment, err := p.parseAssignmentStatement()
	if err != nil {
		return nil, err
	}

	statement.AddChild(assignment)

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	statement.AddChild(cond)

	semi, err := p.eat(ClassSemi)
	if err != nil {
		return nil, err
	}

	statement.AddChild(semi)

	step, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	statement.AddChild(step)

	rparen, err := p.eat(ClassRparen)
	if err != nil {
		return nil, err
	}

	statement.AddChild(rparen)

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	statement.AddChild(body)

	return statement, nil
}

// parseConditionStatement realizes ConditionStatement := Keyword ControlFlowBlock.
func (p *RecursiveDescentParser) parseConditionStatement() (*ParseNode, error) {
	statement := NewParseNode(NodeConditionStatement, Location{Line: 1, Column: 1})

	kw, err := p.eat(ClassKeyword)
	if err != nil {
		return nil, err
	}

	statement.AddChild(kw)

	block, err := p.parseControlFlowBlock()
	if err != nil {
		return nil, err
	}

	statement.AddChild(block)

	return statement, nil
}

// parseAssignmentStatement realizes:
//
//	AssignmentStatement := Keyword Identifier '=' Expression+ ';'
//
// "Expression+" is realized by consuming expressions until the next token
// is a Semi, since the right-recursive Expression grammar does not absorb
// a run of operands on its own.
func (p *RecursiveDescentParser) parseAssignmentStatement() (*ParseNode, error) {
	statement := NewParseNode(NodeAssignmentStatement, Location{Line: 1, Column: 1})

	kw, err := p.eat(ClassKeyword)
	if err != nil {
		return nil, err
	}

	statement.AddChild(kw)

	ident, err := p.eat(ClassIdentifier)
	if err != nil {
		return nil, err
	}

	statement.AddChild(ident)

	assign, err := p.eat(ClassAssignment)
	if err != nil {
		return nil, err
	}

	statement.AddChild(assign)

	for !p.isNext(ClassSemi) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		statement.AddChild(expr)
	}

	semi, err := p.eat(ClassSemi)
	if err != nil {
		return nil, err
	}

	statement.AddChild(semi)

	return statement, nil
}

// parseArgument realizes Argument := Keyword Identifier.
func (p *RecursiveDescentParser) parseArgument() (*ParseNode, error) {
	argument := NewParseNode(NodeArgument, Location{Line: 1, Column: 1})

	kw, err := p.eat(ClassKeyword)
	if err != nil {
		return nil, err
	}

	argument.AddChild(kw)

	ident, err := p.eat(ClassIdentifier)
	if err != nil {
		return nil, err
	}

	argument.AddChild(ident)

	return argument, nil
}

// parseArguments realizes Arguments := '(' Argument* ')'.
func (p *RecursiveDescentParser) parseArguments() (*ParseNode, error) {
	arguments := NewParseNode(NodeArguments, Location{Line: 1, Column: 1})

	lparen, err := p.eat(ClassLparen)
	if err != nil {
		return nil, err
	}

	arguments.AddChild(lparen)

	for !p.isNext(ClassRparen) {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}

		arguments.AddChild(arg)
	}

	rparen, err := p.eat(ClassRparen)
	if err != nil {
		return nil, err
	}

	arguments.AddChild(rparen)

	return arguments, nil
}

// parseFunctionDefinition realizes:
//
//	FunctionDefinition := 'fn' Identifier Arguments '->' Keyword Block
func (p *RecursiveDescentParser) parseFunctionDefinition() (*ParseNode, error) {
	statement := NewParseNode(NodeFunctionDefinition, Location{Line: 1, Column: 1})

	fn, err := p.eatExact(Token{Kind: KindKeyword, Value: "fn"})
	if err != nil {
		return nil, err
	}

	statement.AddChild(fn)

	ident, err := p.eat(ClassIdentifier)
	if err != nil {
		return nil, err
	}

	statement.AddChild(ident)

	arguments, err := p.parseArguments()
	if err != nil {
		return nil, err
	}

	statement.AddChild(arguments)

	arrow, err := p.eatExact(Token{Kind: KindOperator, Op: OpPointer})
	if err != nil {
		return nil, err
	}

	statement.AddChild(arrow)

	returnType, err := p.eat(ClassKeyword)
	if err != nil {
		return nil, err
	}

	statement.AddChild(returnType)

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	statement.AddChild(body)

	return statement, nil
}

// parseReturnStatement realizes ReturnStatement := 'return' Expression* ';'.
func (p *RecursiveDescentParser) parseReturnStatement() (*ParseNode, error) {
	statement := NewParseNode(NodeReturnStatement, Location{Line: 1, Column: 1})

	kw, err := p.eatExact(Token{Kind: KindKeyword, Value: "return"})
	if err != nil {
		return nil, err
	}

	statement.AddChild(kw)

	for !p.isNext(ClassSemi) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		statement.AddChild(expr)
	}

	semi, err := p.eat(ClassSemi)
	if err != nil {
		return nil, err
	}

	statement.AddChild(semi)

	return statement, nil
}

// parseKeywordStatement dispatches on the exact leading keyword:
//
//	KeywordStatement := ConditionStatement  when next is `if` or `while`
//	                  | ForLoopStatement    when next is `for`
//	                  | FunctionDefinition  when next is `fn`
//	                  | ReturnStatement     when next is `return`
//	                  | AssignmentStatement otherwise
func (p *RecursiveDescentParser) parseKeywordStatement() (*ParseNode, error) {
	switch {
	case p.isNextExactAnyOf(
		Token{Kind: KindKeyword, Value: "if"},
		Token{Kind: KindKeyword, Value: "while"},
	):
		return p.parseConditionStatement()
	case p.isNextExact(Token{Kind: KindKeyword, Value: "for"}):
		return p.parseForLoopStatement()
	case p.isNextExact(Token{Kind: KindKeyword, Value: "fn"}):
		return p.parseFunctionDefinition()
	case p.isNextExact(Token{Kind: KindKeyword, Value: "return"}):
		return p.parseReturnStatement()
	default:
		return p.parseAssignmentStatement()
	}
}

// parseFunctionCallStatement realizes:
//
//	FunctionCallStatement := Identifier '(' Expression ')' ';'
func (p *RecursiveDescentParser) parseFunctionCallStatement() (*ParseNode, error) {
	statement := NewParseNode(NodeFunctionCall, Location{Line: 1, Column: 1})

	ident, err := p.eat(ClassIdentifier)
	if err != nil {
		return nil, err
	}

	statement.AddChild(ident)

	lparen, err := p.eat(ClassLparen)
	if err != nil {
		return nil, err
	}

	statement.AddChild(lparen)

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	statement.AddChild(expr)

	rparen, err := p.eat(ClassRparen)
	if err != nil {
		return nil, err
	}

	statement.AddChild(rparen)

	semi, err := p.eat(ClassSemi)
	if err != nil {
		return nil, err
	}

	statement.AddChild(semi)

	return statement, nil
}

// parseStatement realizes Statement := KeywordStatement | FunctionCallStatement,
// dispatching on whether the look-ahead token is a Keyword.
func (p *RecursiveDescentParser) parseStatement() (*ParseNode, error) {
	if p.isNext(ClassKeyword) {
		return p.parseKeywordStatement()
	}

	return p.parseFunctionCallStatement()
}

// parseProgram realizes Program := Statement*, consuming statements until
// the lexer reports end-of-file.
func (p *RecursiveDescentParser) parseProgram() (*ParseNode, error) {
	root := NewParseNode(NodeProgram, Location{Line: 1, Column: 1})

	for {
		if _, err := p.lexer.Peek(); err != nil {
			if errors.Is(err, ErrEndOfFile) {
				break
			}

			return nil, wrapLexerError(err)
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		root.AddChild(stmt)
	}

	return root, nil
}

// Parse runs the parser to completion, returning the root Program node or
// the first error encountered. On failure the tree built so far is
// discarded.
func (p *RecursiveDescentParser) Parse() (*ParseNode, error) {
	return p.parseProgram()
}
