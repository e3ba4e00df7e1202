// Package query implements a small boolean query DSL compiling to a
// restrict.Restrict tree (SUPPLEMENTED FEATURES #3, grounded on
// original_source/src/restrict/parse/{dep,pkg}.rs): field comparisons
// joined by "and"/"or"/"not" with parenthesized grouping, as a
// user-typed companion to the positional glob parser.
//
// Grammar: expr := or ; or := and ("or" and)* ; and := unary ("and" unary)* ;
// unary := "not" unary | atom ; atom := "(" expr ")" | field op value .
package query

import (
	"fmt"
	"strings"

	"github.com/pkgcraft/go-pkgcraft/internal/perr"
	"github.com/pkgcraft/go-pkgcraft/internal/restrict"
)

var stringFields = map[string]restrict.StringField{
	"category": restrict.FieldCategory, "cat": restrict.FieldCategory,
	"package": restrict.FieldPackage, "pkg": restrict.FieldPackage,
	"slot":    restrict.FieldSlot,
	"subslot": restrict.FieldSubslot,
	"repo":    restrict.FieldRepo,
}

var setFields = map[string]restrict.SetField{
	"iuse":     restrict.FieldIUSE,
	"keywords": restrict.FieldKeywords,
	"homepage": restrict.FieldHomepage,
	"inherit":  restrict.FieldInherit,
}

type parser struct {
	toks []string
	pos  int
	orig string
}

// Compile parses s into a restriction tree.
func Compile(s string) (restrict.Restrict, error) {
	p := &parser{toks: tokenize(s), orig: s}
	r, err := p.parseOr()
	if err != nil {
		return restrict.Restrict{}, err
	}
	if p.pos != len(p.toks) {
		return restrict.Restrict{}, perr.New(perr.KindQuery, s, 0, "unexpected trailing input")
	}
	return r, nil
}

func tokenize(s string) []string {
	var toks []string
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '(' || c == ')':
			toks = append(toks, string(c))
			i++
		case c == '!' && i+1 < len(s) && s[i+1] == '=':
			toks = append(toks, "!=")
			i += 2
		case c == '^' && i+1 < len(s) && s[i+1] == '=':
			toks = append(toks, "^=")
			i += 2
		case c == '$' && i+1 < len(s) && s[i+1] == '=':
			toks = append(toks, "$=")
			i += 2
		case c == '=' || c == '~':
			toks = append(toks, string(c))
			i++
		default:
			j := i
			for j < len(s) && !strings.ContainsRune(" \t\n()=!~", rune(s[j])) {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		}
	}
	return toks
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) parseOr() (restrict.Restrict, error) {
	left, err := p.parseAnd()
	if err != nil {
		return restrict.Restrict{}, err
	}
	children := []restrict.Restrict{left}
	for strings.EqualFold(p.peek(), "or") {
		p.pos++
		next, err := p.parseAnd()
		if err != nil {
			return restrict.Restrict{}, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return restrict.Or(children...), nil
}

func (p *parser) parseAnd() (restrict.Restrict, error) {
	left, err := p.parseUnary()
	if err != nil {
		return restrict.Restrict{}, err
	}
	children := []restrict.Restrict{left}
	for strings.EqualFold(p.peek(), "and") {
		p.pos++
		next, err := p.parseUnary()
		if err != nil {
			return restrict.Restrict{}, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return restrict.And(children...), nil
}

func (p *parser) parseUnary() (restrict.Restrict, error) {
	if strings.EqualFold(p.peek(), "not") {
		p.pos++
		child, err := p.parseUnary()
		if err != nil {
			return restrict.Restrict{}, err
		}
		return restrict.Not(child), nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (restrict.Restrict, error) {
	if p.peek() == "(" {
		p.pos++
		r, err := p.parseOr()
		if err != nil {
			return restrict.Restrict{}, err
		}
		if p.peek() != ")" {
			return restrict.Restrict{}, perr.New(perr.KindQuery, p.orig, 0, "missing closing ')'")
		}
		p.pos++
		return r, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (restrict.Restrict, error) {
	if p.pos+2 >= len(p.toks) {
		return restrict.Restrict{}, perr.New(perr.KindQuery, p.orig, 0, "expected 'field op value'")
	}
	fieldTok := strings.ToLower(p.toks[p.pos])
	opTok := p.toks[p.pos+1]
	valueTok := p.toks[p.pos+2]
	p.pos += 3

	if field, ok := stringFields[fieldTok]; ok {
		switch opTok {
		case "=":
			return restrict.Equal(field, valueTok), nil
		case "!=":
			return restrict.Not(restrict.Equal(field, valueTok)), nil
		case "^=":
			return restrict.Prefix(field, valueTok), nil
		case "$=":
			return restrict.Suffix(field, valueTok), nil
		case "~":
			return restrict.Regex(field, valueTok)
		default:
			return restrict.Restrict{}, perr.New(perr.KindQuery, p.orig, 0, fmt.Sprintf("unknown operator %q", opTok))
		}
	}

	if field, ok := setFields[fieldTok]; ok {
		switch opTok {
		case "=":
			return restrict.Contains(field, valueTok), nil
		case "!=":
			return restrict.Not(restrict.Contains(field, valueTok)), nil
		default:
			return restrict.Restrict{}, perr.New(perr.KindQuery, p.orig, 0, "set fields only support '=' and '!='")
		}
	}

	return restrict.Restrict{}, perr.New(perr.KindQuery, p.orig, 0, fmt.Sprintf("unknown field %q", fieldTok))
}
