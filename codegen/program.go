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

package codegen

import (
	"bytes"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/internal/errw"
	"github.com/db47h/hackvm/vmcode"
	"github.com/pkg/errors"
)

// Option interface
type Option func(*Program) error

// ScopedLabels enables the qualification of VM labels with the name of the
// enclosing function: label LOOP in function Main.main becomes Main.main$LOOP.
// This is the default. When disabled, labels are global to the program.
func ScopedLabels(enable bool) Option {
	return func(p *Program) error { p.scoped = enable; return nil }
}

// Comments enables the output of each VM command as an assembly comment
// before its translation.
func Comments(enable bool) Option {
	return func(p *Program) error { p.comments = enable; return nil }
}

// StackBase sets the initial value of SP used by Bootstrap. The default is
// 256.
func StackBase(base int) Option {
	return func(p *Program) error {
		if base < tempBase+8 || base >= hack.RAMSize {
			return errors.Errorf("invalid stack base %d", base)
		}
		p.stackBase = base
		return nil
	}
}

// Entry sets the name of the function called by Bootstrap. The default is
// Sys.init.
func Entry(name string) Option {
	return func(p *Program) error {
		if !vmcode.IsSymbol(name) || vmcode.IsPredefined(name) {
			return errors.Errorf("invalid entry point %q", name)
		}
		p.entry = name
		return nil
	}
}

// FuncInfo describes a function defined in a unit.
type FuncInfo struct {
	Name   string
	Locals int
	Calls  []string // called functions, in order of first call
}

// UnitInfo describes a translated unit.
type UnitInfo struct {
	Name      string
	Lines     int                 // number of VM instructions
	Size      int                 // number of assembly bytes generated
	Counts    map[vmcode.Kind]int // instruction count per kind
	Functions []FuncInfo
}

type site struct {
	unit string
	line int
	text string
}

func (s site) String() string {
	return s.unit + ":" + strconv.Itoa(s.line)
}

// names of the labels minted for comparisons and return addresses
var generated = regexp.MustCompile(`^((EQ|GT|LT)_(TRUE|END)|RETURN_.+)_[0-9]+$`)

func lookup(prog, unit map[string]site, name string) (site, bool) {
	if s, ok := unit[name]; ok {
		return s, true
	}
	s, ok := prog[name]
	return s, ok
}

type jump struct {
	site
	target string
}

// Program is a VM program being translated to Hack assembly.
type Program struct {
	buf       bytes.Buffer
	ctr       Counter
	scoped    bool
	comments  bool
	stackBase int
	entry     string

	labels  map[string]site // function names and labels
	funcs   map[string]site
	statics map[string]site // first use
	jumps   []jump
	calls  map[string]site // first call site
	units  []UnitInfo
}

// New returns a new empty program.
//
// Options will be set by calling SetOptions.
func New(opts ...Option) (*Program, error) {
	p := &Program{
		scoped:    true,
		stackBase: 256,
		entry:     "Sys.init",
		labels:    make(map[string]site),
		funcs:     make(map[string]site),
		statics:   make(map[string]site),
		calls:     make(map[string]site),
	}
	if err := p.SetOptions(opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// SetOptions sets the provided options.
func (p *Program) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) newWriter(unit string, out *bytes.Buffer) *Writer {
	w := NewWriter(unit, &p.ctr, out)
	w.scoped = p.scoped
	w.comments = p.comments
	return w
}

// Bootstrap writes the bootstrap code: SP is set to the stack base and the
// entry function called. It should be called before translating any unit.
func (p *Program) Bootstrap() {
	p.newWriter("", &p.buf).bootstrap(p.stackBase, p.entry)
	if _, ok := p.calls[p.entry]; !ok {
		p.calls[p.entry] = site{text: "call " + p.entry + " 0"}
	}
}

// TranslateUnit translates the given lines of the named unit and appends the
// result to the program.
//
// Function names, labels and static variables share the assembler's symbol
// table: a name defined twice fails with ErrDuplicateFunction or
// ErrDuplicateLabel, a label or function name colliding with a static
// variable or with the form of the generated labels (EQ_TRUE_n, RETURN_f_n...)
// fails with ErrReservedSymbol.
//
// Translation stops at the first error, in which case the program is left
// untouched and the returned error is an *Error.
func (p *Program) TranslateUnit(name string, lines []vmcode.Line) error {
	if !vmcode.IsSymbol(name) {
		return &Error{Unit: name, Err: errors.Errorf("invalid unit name %q", name)}
	}
	for _, u := range p.units {
		if u.Name == name {
			return &Error{Unit: name, Err: errors.Errorf("unit %s already translated", name)}
		}
	}

	// ids are committed along with the output
	ctr := p.ctr
	var buf bytes.Buffer
	w := p.newWriter(name, &buf)
	w.ctr = &ctr

	labels := make(map[string]site)
	funcs := make(map[string]site)
	statics := make(map[string]site)
	calls := make(map[string]site)
	var jumps []jump
	info := UnitInfo{Name: name, Counts: make(map[vmcode.Kind]int)}
	var fn *FuncInfo

	// function names, labels, static variables and the labels generated by
	// the writer share the assembler's label namespace.
	define := func(lbl string, s site) error {
		if generated.MatchString(lbl) {
			return errors.Wrapf(ErrReservedSymbol, "%s has the form of a generated label", lbl)
		}
		if prev, ok := lookup(p.statics, statics, lbl); ok {
			return errors.Wrapf(ErrReservedSymbol, "%s is a static variable used at %v", lbl, prev)
		}
		if prev, ok := lookup(p.labels, labels, lbl); ok {
			hint := ""
			if !p.scoped {
				hint = " (scoped labels are disabled)"
			}
			return errors.Wrapf(ErrDuplicateLabel, "%s already defined at %v%s", lbl, prev, hint)
		}
		labels[lbl] = s
		return nil
	}

	for _, l := range lines {
		cmd, err := vmcode.Classify(l.Text)
		if err != nil {
			return &Error{Unit: name, Line: l.Num, Text: l.Text, Err: err}
		}
		s := site{name, l.Num, l.Text}
		switch cmd.Kind {
		case vmcode.Function:
			if prev, ok := lookup(p.funcs, funcs, cmd.Arg1); ok {
				return &Error{name, l.Num, l.Text, errors.Wrapf(ErrDuplicateFunction, "%s already defined at %v", cmd.Arg1, prev)}
			}
			if err = define(cmd.Arg1, s); err != nil {
				return &Error{name, l.Num, l.Text, err}
			}
			funcs[cmd.Arg1] = s
			info.Functions = append(info.Functions, FuncInfo{Name: cmd.Arg1, Locals: cmd.Arg2})
			fn = &info.Functions[len(info.Functions)-1]
		case vmcode.Label:
			if err = define(w.Label(cmd.Arg1), s); err != nil {
				return &Error{name, l.Num, l.Text, err}
			}
		case vmcode.Goto, vmcode.IfGoto:
			jumps = append(jumps, jump{s, w.Label(cmd.Arg1)})
		case vmcode.Push, vmcode.Pop:
			if cmd.Segment != vmcode.Static {
				break
			}
			v := w.static(cmd.Arg2)
			if prev, ok := lookup(p.labels, labels, v); ok {
				return &Error{name, l.Num, l.Text, errors.Wrapf(ErrReservedSymbol, "static variable %s already defined as a label at %v", v, prev)}
			}
			if _, ok := statics[v]; !ok {
				statics[v] = s
			}
		case vmcode.Call:
			if _, ok := calls[cmd.Arg1]; !ok {
				calls[cmd.Arg1] = s
			}
			if fn != nil && !contains(fn.Calls, cmd.Arg1) {
				fn.Calls = append(fn.Calls, cmd.Arg1)
			}
		}
		w.Write(cmd)
		info.Counts[cmd.Kind]++
		info.Lines++
	}

	// commit
	info.Size = buf.Len()
	p.buf.Write(buf.Bytes())
	p.ctr = ctr
	for k, v := range labels {
		p.labels[k] = v
	}
	for k, v := range funcs {
		p.funcs[k] = v
	}
	for k, v := range statics {
		p.statics[k] = v
	}
	for k, v := range calls {
		if _, ok := p.calls[k]; !ok {
			p.calls[k] = v
		}
	}
	p.jumps = append(p.jumps, jumps...)
	p.units = append(p.units, info)
	return nil
}

func contains(a []string, s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

// Check verifies that the target of every goto and if-goto is defined. It
// returns an *Error wrapping ErrUndefinedLabel for the first undefined target.
func (p *Program) Check() error {
	for _, j := range p.jumps {
		if _, ok := p.labels[j.target]; !ok {
			return &Error{j.unit, j.line, j.text, errors.Wrapf(ErrUndefinedLabel, "%s", j.target)}
		}
	}
	return nil
}

// UndefinedFunctions returns the sorted names of functions that are called
// but not defined in any of the translated units.
func (p *Program) UndefinedFunctions() []string {
	var u []string
	for f := range p.calls {
		if _, ok := p.funcs[f]; !ok {
			u = append(u, f)
		}
	}
	sort.Strings(u)
	return u
}

// Units returns information about the translated units, in translation order.
func (p *Program) Units() []UnitInfo {
	return p.units
}

// Bytes returns the generated assembly. The slice is valid until the next
// modification of the program.
func (p *Program) Bytes() []byte {
	return p.buf.Bytes()
}

// String returns the generated assembly as a string.
func (p *Program) String() string {
	return p.buf.String()
}

// Len returns the size in bytes of the generated assembly.
func (p *Program) Len() int {
	return p.buf.Len()
}

// WriteTo writes the generated assembly to w. It implements io.WriterTo.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	ew := errw.New(w)
	ew.Write(p.buf.Bytes())
	return ew.N, ew.Err
}
