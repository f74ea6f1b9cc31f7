// This file is part of hackvm - https://github.com/db47h/hackvm
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package asm

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/hackvm/hack"
	"github.com/pkg/errors"
)

const maxErrors = 10

// first variable address
const varBase = 16

var predefined = map[string]hack.Cell{
	"SP":     hack.SP,
	"LCL":    hack.LCL,
	"ARG":    hack.ARG,
	"THIS":   hack.THIS,
	"THAT":   hack.THAT,
	"SCREEN": hack.Screen,
	"KBD":    hack.KBD,
}

func init() {
	for i := 0; i < 16; i++ {
		predefined["R"+strconv.Itoa(i)] = hack.Cell(i)
	}
}

func isSymbolRune(ch byte, i int) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch == '.' || ch == '$' || ch == ':' ||
		i > 0 && ch >= '0' && ch <= '9'
}

func isSymbol(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isSymbolRune(s[i], i) {
			return false
		}
	}
	return true
}

type labelSite struct {
	pos     scanner.Position
	address int
}

// instruction waiting for pass 2
type pending struct {
	pos  scanner.Position
	text string
}

type parser struct {
	code    []pending
	labels  map[string]labelSite
	vars    map[string]hack.Cell
	nextVar hack.Cell
	errs    ErrAsm
}

func newParser() *parser {
	return &parser{
		labels:  make(map[string]labelSite),
		vars:    make(map[string]hack.Cell),
		nextVar: varBase,
	}
}

func (p *parser) error(pos scanner.Position, msg string) {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, ErrAsmEntry{pos, msg})
	}
}

// stripComment removes a trailing // comment and surrounding blanks. It
// returns the offset of the first non blank character.
func stripComment(s string) (string, int) {
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	t := strings.TrimLeft(s, " \t")
	return strings.TrimRight(t, " \t\r"), len(s) - len(t)
}

// pass1 reads the source, records label definitions and collects
// instructions.
func (p *parser) pass1(name string, r io.Reader) error {
	s := bufio.NewScanner(r)
	offset := 0
	for line := 1; s.Scan(); line++ {
		raw := s.Text()
		t, col := stripComment(raw)
		pos := scanner.Position{Filename: name, Offset: offset + col, Line: line, Column: col + 1}
		offset += len(raw) + 1
		if t == "" {
			continue
		}
		if t[0] != '(' {
			p.code = append(p.code, pending{pos, t})
			continue
		}
		if t[len(t)-1] != ')' {
			p.error(pos, "Missing closing parenthesis in label definition: "+t)
			continue
		}
		n := strings.TrimSpace(t[1 : len(t)-1])
		if !isSymbol(n) {
			p.error(pos, "Invalid label name: "+n)
			continue
		}
		if _, ok := predefined[n]; ok {
			p.error(pos, "Label redefinition: "+n+" is a predefined symbol")
			continue
		}
		if l, ok := p.labels[n]; ok {
			p.error(pos, "Label redefinition: "+n+", previous definition here: "+l.pos.String())
			continue
		}
		p.labels[n] = labelSite{pos, len(p.code)}
	}
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "read failed")
	}
	if len(p.code) > hack.ROMSize {
		p.error(scanner.Position{Filename: name}, "Program too large: "+strconv.Itoa(len(p.code))+" instructions")
	}
	return nil
}

func (p *parser) symbol(s string) hack.Cell {
	if v, ok := predefined[s]; ok {
		return v
	}
	if l, ok := p.labels[s]; ok {
		return hack.Cell(l.address)
	}
	if v, ok := p.vars[s]; ok {
		return v
	}
	v := p.nextVar
	p.vars[s] = v
	p.nextVar++
	return v
}

func (p *parser) aInstruction(pos scanner.Position, s string) hack.Cell {
	if s == "" {
		p.error(pos, "Missing value in A-instruction")
		return 0
	}
	if s[0] >= '0' && s[0] <= '9' {
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil || n > hack.ROMSize-1 {
			p.error(pos, "Invalid constant: "+s)
			return 0
		}
		return hack.Cell(n)
	}
	if !isSymbol(s) {
		p.error(pos, "Invalid symbol: "+s)
		return 0
	}
	return p.symbol(s)
}

// canonical dest: letters in A, M, D order, no duplicates.
func dest(s string) (hack.Cell, bool) {
	var bits hack.Cell
	for i := 0; i < len(s); i++ {
		var b hack.Cell
		switch s[i] {
		case 'A':
			b = 4
		case 'D':
			b = 2
		case 'M':
			b = 1
		default:
			return 0, false
		}
		if bits&b != 0 {
			return 0, false
		}
		bits |= b
	}
	return bits, true
}

func comp(s string) (hack.Cell, bool) {
	if c, ok := hack.Comp(s); ok {
		return c, true
	}
	// commutative forms
	if len(s) == 3 && (s[1] == '+' || s[1] == '&' || s[1] == '|') {
		return hack.Comp(string([]byte{s[2], s[1], s[0]}))
	}
	return 0, false
}

func (p *parser) cInstruction(pos scanner.Position, s string) hack.Cell {
	s = strings.Join(strings.Fields(s), "")
	var d, j hack.Cell
	var ok bool
	if i := strings.IndexByte(s, '='); i >= 0 {
		if d, ok = dest(s[:i]); !ok || i == 0 {
			p.error(pos, "Invalid destination: "+s[:i])
			return 0
		}
		s = s[i+1:]
	}
	if i := strings.IndexByte(s, ';'); i >= 0 {
		if j, ok = hack.Jump(s[i+1:]); !ok || i == len(s)-1 {
			p.error(pos, "Invalid jump: "+s[i+1:])
			return 0
		}
		s = s[:i]
	}
	c, ok := comp(s)
	if !ok {
		p.error(pos, "Invalid computation: "+s)
		return 0
	}
	return hack.Encode(c, d, j)
}

// pass2 encodes instructions and resolves symbols.
func (p *parser) pass2() []hack.Cell {
	img := make([]hack.Cell, len(p.code))
	for addr, ins := range p.code {
		if ins.text[0] == '@' {
			img[addr] = p.aInstruction(ins.pos, strings.TrimSpace(ins.text[1:]))
		} else {
			img[addr] = p.cInstruction(ins.pos, ins.text)
		}
	}
	return img
}

// Parse does the parsing and compiling.
func (p *parser) Parse(name string, r io.Reader) (*Program, error) {
	if err := p.pass1(name, r); err != nil {
		return nil, err
	}
	img := p.pass2()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	prog := &Program{
		Code:    img,
		Symbols: make(map[string]hack.Cell, len(p.labels)+len(p.vars)),
		Lines:   make([]int, len(p.code)),
	}
	for n, l := range p.labels {
		prog.Symbols[n] = hack.Cell(l.address)
	}
	for n, v := range p.vars {
		prog.Symbols[n] = v
	}
	for k, ins := range p.code {
		prog.Lines[k] = ins.pos.Line
	}
	return prog, nil
}
