// Package parser turns a token stream into a first-order logic formula
// tree via recursive descent with operator precedence.
package parser

import (
	"io"

	"github.com/foltheorem/folprove/pkg/fol/ast"
	"github.com/foltheorem/folprove/pkg/fol/lexer"
	"github.com/foltheorem/folprove/pkg/fol/token"
)

// precedence, high to low: unary (!, forall, exists) = 3; & = 2; | = 1;
// ->, <-> = 0. Binary connectives are left-associative.
const (
	precUnary   = 3
	precAnd     = 2
	precOr      = 1
	precArrow   = 0
	precDummy   = -1 // below everything: used as the outermost call's "parent op"
)

func binaryPrecedence(op string) (int, bool) {
	switch op {
	case token.And:
		return precAnd, true
	case token.Or:
		return precOr, true
	case token.Implies, token.Iff:
		return precArrow, true
	default:
		return 0, false
	}
}

// Parse parses a single FOL formula from src. Trailing input after a
// complete, non-parenthesized formula is an error.
func Parse(src string) (ast.Formula, error) {
	return parse(lexer.New(src))
}

// ParseReader parses a single FOL formula from a streamed source.
func ParseReader(r io.Reader) (ast.Formula, error) {
	return parse(lexer.NewFromReader(r))
}

func parse(l *lexer.Lexer) (ast.Formula, error) {
	f, err := parseFormula(l, precDummy, false, false)
	if err != nil {
		if err == io.EOF {
			return nil, syntaxErrorf(token.Position{Line: 1, Column: 1}, "unexpected end of expression")
		}
		return nil, err
	}
	tok, err := l.Peek()
	if err != nil && err != io.EOF {
		return nil, err
	}
	if err == nil && tok.Kind != token.EOF {
		return nil, syntaxErrorf(tok.Pos, "unexpected trailing %s %q", tok.Kind, tok.Text)
	}
	return f, nil
}

// parseFormula parses a formula, given the precedence of the enclosing
// operator context (parentPrec), whether we are inside a parenthesized
// subexpression, and whether that subexpression is the top-level
// parenthesization that should consume its own closing bracket.
func parseFormula(l *lexer.Lexer, parentPrec int, parenthesized, topLevelParen bool) (ast.Formula, error) {
	left, err := parseOperand(l)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := l.Peek()
		if err != nil {
			if err == io.EOF {
				return left, nil
			}
			return nil, err
		}
		switch {
		case tok.Kind == token.EOF:
			return left, nil
		case tok.Kind == token.BRACKET && tok.Text == ")":
			if parenthesized {
				if topLevelParen {
					if _, err := l.Next(); err != nil {
						return nil, err
					}
				}
				return left, nil
			}
			return nil, syntaxErrorf(tok.Pos, "unexpected closing bracket")
		case tok.Kind == token.OPERATOR:
			prec, ok := binaryPrecedence(tok.Text)
			if !ok {
				return nil, syntaxErrorf(tok.Pos, "expected a binary operator, got %q", tok.Text)
			}
			if parentPrec >= prec {
				return left, nil
			}
			if _, err := l.Next(); err != nil {
				return nil, err
			}
			right, err := parseFormula(l, prec, parenthesized, false)
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{Op: connectiveOp(tok.Text), Left: left, Right: right}
		default:
			return nil, syntaxErrorf(tok.Pos, "expected an operator, got %s %q", tok.Kind, tok.Text)
		}
	}
}

func connectiveOp(text string) ast.ConnectiveOp {
	switch text {
	case token.And:
		return ast.And
	case token.Or:
		return ast.Or
	case token.Implies:
		return ast.Implies
	default:
		return ast.Iff
	}
}

// parseOperand parses a single operand of a binary-connective
// expression: a parenthesized formula, a relation, a negation, or a
// quantified formula.
func parseOperand(l *lexer.Lexer) (ast.Formula, error) {
	tok, err := l.Next()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.Kind == token.EOF:
		return nil, syntaxErrorf(tok.Pos, "unexpected end of expression")
	case tok.Kind == token.BRACKET && tok.Text == "(":
		return parseFormula(l, precDummy, true, true)
	case tok.Kind == token.IDENTIFIER:
		return parseRelation(tok.Text, l)
	case tok.Kind == token.OPERATOR && tok.Text == token.Not:
		arg, err := parseOperand(l)
		if err != nil {
			return nil, err
		}
		return &ast.Not{Arg: arg}, nil
	case tok.Kind == token.OPERATOR && (tok.Text == token.Forall || tok.Text == token.Exists):
		varTok, err := l.Next()
		if err != nil {
			if err == io.EOF {
				return nil, syntaxErrorf(tok.Pos, "expected bound variable after %q", tok.Text)
			}
			return nil, err
		}
		if varTok.Kind != token.IDENTIFIER {
			return nil, syntaxErrorf(varTok.Pos, "expected variable after quantifier, got %s %q", varTok.Kind, varTok.Text)
		}
		if !ast.IsVariableName(varTok.Text) {
			return nil, syntaxErrorf(varTok.Pos, "bound variable %q cannot begin with an uppercase letter or digit", varTok.Text)
		}
		arg, err := parseOperand(l)
		if err != nil {
			return nil, err
		}
		kind := ast.Forall
		if tok.Text == token.Exists {
			kind = ast.Exists
		}
		return &ast.Quantifier{Kind: kind, Var: varTok.Text, Arg: arg}, nil
	default:
		return nil, syntaxErrorf(tok.Pos, "unexpected %s %q while parsing formula", tok.Kind, tok.Text)
	}
}

// parseRelation parses a relation's argument list; name is the already
// consumed leading identifier.
func parseRelation(name string, l *lexer.Lexer) (*ast.Relation, error) {
	args, err := parseArgList(name, l)
	if err != nil {
		return nil, err
	}
	return &ast.Relation{Name: name, Args: args}, nil
}

// parseArgList parses "(" [term ("," term)*] ")" with optional commas,
// shared between relations and functions.
func parseArgList(name string, l *lexer.Lexer) ([]ast.Term, error) {
	open, err := l.Next()
	if err != nil {
		return nil, err
	}
	if open.Kind != token.BRACKET || open.Text != "(" {
		return nil, syntaxErrorf(open.Pos, "expected '(' after %q", name)
	}
	var terms []ast.Term
	for {
		tok, err := l.Next()
		if err != nil {
			if err == io.EOF {
				return nil, syntaxErrorf(open.Pos, "unclosed argument list for %q", name)
			}
			return nil, err
		}
		if tok.Kind == token.BRACKET && tok.Text == ")" {
			return terms, nil
		}
		switch tok.Kind {
		case token.IDENTIFIER:
			term, err := parseTerm(tok.Text, l)
			if err != nil {
				return nil, err
			}
			terms = append(terms, term)
		case token.COMMA:
			// commas are optional separators
		default:
			return nil, syntaxErrorf(tok.Pos, "unexpected %s %q in argument list for %q", tok.Kind, tok.Text, name)
		}
	}
}

// parseTerm parses a term whose leading identifier (name) has already
// been consumed: a function if followed by "(", otherwise a constant
// (uppercase/digit leading) or a variable (lowercase leading).
func parseTerm(name string, l *lexer.Lexer) (ast.Term, error) {
	tok, err := l.Peek()
	if err != nil {
		if err == io.EOF {
			return nil, syntaxErrorf(token.Position{}, "unexpected end of expression while parsing term %q", name)
		}
		return nil, err
	}
	switch {
	case tok.Kind == token.COMMA || (tok.Kind == token.BRACKET && tok.Text == ")"):
		if ast.IsVariableName(name) {
			return &ast.Variable{Name: name}, nil
		}
		return &ast.Constant{Name: name}, nil
	case tok.Kind == token.BRACKET && tok.Text == "(":
		args, err := parseArgList(name, l)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, syntaxErrorf(tok.Pos, "function %q of arity 0 should be a constant instead", name)
		}
		return &ast.Function{Name: name, Args: args}, nil
	default:
		return nil, syntaxErrorf(tok.Pos, "unexpected %s %q while parsing term %q", tok.Kind, tok.Text, name)
	}
}
