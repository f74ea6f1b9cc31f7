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

package vmcode

import (
	"strconv"
	"strings"
)

// MaxIndex is the largest index or literal accepted in an instruction. It is
// also the largest value a Hack A-instruction can load.
const MaxIndex = 1<<15 - 1

// MaxArgs is the largest argument count of a call. The calling sequence loads
// nArgs+5 with an A-instruction.
const MaxArgs = MaxIndex - 5

// keyword -> kind, for 2 and 3 token forms
var keywords = map[string]Kind{
	"push":     Push,
	"pop":      Pop,
	"label":    Label,
	"goto":     Goto,
	"if-goto":  IfGoto,
	"function": Function,
	"call":     Call,
}

var opIndex = make(map[string]Op)
var segmentIndex = make(map[string]Segment)

// symbols predefined by the Hack assembler
var predefined = map[string]bool{
	"SP":     true,
	"LCL":    true,
	"ARG":    true,
	"THIS":   true,
	"THAT":   true,
	"SCREEN": true,
	"KBD":    true,
}

func init() {
	for i := 0; i < 16; i++ {
		predefined["R"+strconv.Itoa(i)] = true
	}
	for i, v := range ops {
		opIndex[v] = Op(i)
	}
	for i, v := range segments {
		segmentIndex[v] = Segment(i)
	}
}

// Classify splits line at white space and returns the corresponding Command.
//
// The number of tokens selects the command shape: one token for arithmetic
// commands and return, two for label, goto and if-goto, three for push, pop,
// function and call. Any other combination of keyword and arity fails with
// ErrMalformedInstruction. Bad indices and symbols fail with
// ErrInvalidArgument and unknown segment names with ErrUnknownSegment.
func Classify(line string) (Command, error) {
	f := strings.Fields(line)
	switch len(f) {
	case 1:
		if f[0] == "return" {
			return Command{Kind: Return}, nil
		}
		if op, ok := opIndex[f[0]]; ok {
			return Command{Kind: Arithmetic, Op: op}, nil
		}
		if _, ok := keywords[f[0]]; ok {
			return Command{}, syntaxError(line, ErrMalformedInstruction, "missing arguments for "+f[0])
		}
		return Command{}, syntaxError(line, ErrMalformedInstruction, "unknown command "+strconv.Quote(f[0]))
	case 2:
		k, ok := keywords[f[0]]
		if !ok {
			return Command{}, unknown(line, f[0])
		}
		switch k {
		case Label, Goto, IfGoto:
		default:
			return Command{}, syntaxError(line, ErrMalformedInstruction, f[0]+" expects 2 arguments")
		}
		if err := symbol(line, "label", f[1]); err != nil {
			return Command{}, err
		}
		return Command{Kind: k, Arg1: f[1]}, nil
	case 3:
		k, ok := keywords[f[0]]
		if !ok {
			return Command{}, unknown(line, f[0])
		}
		switch k {
		case Push, Pop, Function, Call:
		default:
			return Command{}, syntaxError(line, ErrMalformedInstruction, f[0]+" expects 1 argument")
		}
		n, err := index(line, f[2])
		if err != nil {
			return Command{}, err
		}
		if k == Push || k == Pop {
			return memoryAccess(line, k, f[1], n)
		}
		if err := symbol(line, "function", f[1]); err != nil {
			return Command{}, err
		}
		if k == Call && n > MaxArgs {
			return Command{}, syntaxError(line, ErrInvalidArgument, "argument count out of range [0, "+strconv.Itoa(MaxArgs)+"]")
		}
		return Command{Kind: k, Arg1: f[1], Arg2: n}, nil
	case 0:
		return Command{}, syntaxError(line, ErrMalformedInstruction, "empty instruction")
	default:
		return Command{}, syntaxError(line, ErrMalformedInstruction, "too many tokens")
	}
}

func unknown(line, kw string) error {
	if _, ok := opIndex[kw]; ok || kw == "return" {
		return syntaxError(line, ErrMalformedInstruction, kw+" takes no arguments")
	}
	return syntaxError(line, ErrMalformedInstruction, "unknown command "+strconv.Quote(kw))
}

func index(line, s string) (int, error) {
	// ParseUint accepts neither signs nor blanks.
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n > MaxIndex {
		return 0, syntaxError(line, ErrInvalidArgument, "index "+strconv.Quote(s)+" is not an integer in range [0, 32767]")
	}
	return int(n), nil
}

func symbol(line, what, s string) error {
	if !IsSymbol(s) {
		return syntaxError(line, ErrInvalidArgument, "invalid "+what+" name "+strconv.Quote(s))
	}
	if predefined[s] {
		return syntaxError(line, ErrInvalidArgument, strconv.Quote(s)+" is a predefined symbol")
	}
	return nil
}

func memoryAccess(line string, k Kind, seg string, n int) (Command, error) {
	s, ok := segmentIndex[seg]
	if !ok {
		return Command{}, syntaxError(line, ErrUnknownSegment, strconv.Quote(seg))
	}
	switch s {
	case Constant:
		if k == Pop {
			return Command{}, syntaxError(line, ErrInvalidArgument, "cannot pop to the constant segment")
		}
	case Temp:
		if n > 7 {
			return Command{}, syntaxError(line, ErrInvalidArgument, "temp index out of range [0, 7]")
		}
	case Pointer:
		if n > 1 {
			return Command{}, syntaxError(line, ErrInvalidArgument, "pointer index must be 0 or 1")
		}
	}
	return Command{Kind: k, Segment: s, Arg1: seg, Arg2: n}, nil
}

// IsSymbol returns true if s is a valid Hack assembly symbol: a non empty
// sequence of letters, digits, '_', '.', '$' and ':' that does not start with a
// digit.
func IsSymbol(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '.', c == '$', c == ':':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// IsPredefined returns true if s is one of the symbols predefined by the Hack
// assembler: SP, LCL, ARG, THIS, THAT, R0 to R15, SCREEN and KBD. They cannot
// be used as label or function names.
func IsPredefined(s string) bool {
	return predefined[s]
}
