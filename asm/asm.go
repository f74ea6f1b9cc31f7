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
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/internal/errw"
)

// ErrAsmEntry is a single assembly error along with its position in the
// source.
type ErrAsmEntry struct {
	Pos scanner.Position
	Msg string
}

func (e ErrAsmEntry) String() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrAsm is the error type returned by Assemble. It holds up to 10 entries.
type ErrAsm []ErrAsmEntry

func (e ErrAsm) Error() string {
	s := make([]string, len(e))
	for i := range e {
		s[i] = e[i].String()
	}
	return strings.Join(s, "\n")
}

// Program is an assembled Hack program.
type Program struct {
	Code    []hack.Cell          // machine code
	Symbols map[string]hack.Cell // labels and variables, predefined symbols excluded
	Lines   []int                // source line of each instruction
}

// Parse assembles Hack assembly read from the supplied io.Reader and returns
// the resulting program along with its symbol table.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, is either a read error or an ErrAsm value.
func Parse(name string, r io.Reader) (*Program, error) {
	return newParser().Parse(name, r)
}

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting machine code and error if any. See Parse.
func Assemble(name string, r io.Reader) ([]hack.Cell, error) {
	p, err := Parse(name, r)
	if err != nil {
		return nil, err
	}
	return p.Code, nil
}

// Disassemble writes a disassembly of the instruction at position pc in the
// given slice to the specified io.Writer and returns the position of the next
// instruction and any write error.
//
// C-instructions whose computation bits do not match any mnemonic are written
// as a raw ".dat" value.
func Disassemble(i []hack.Cell, pc int, w io.Writer) (next int, err error) {
	ew := errw.New(w)
	ins := i[pc]
	if !hack.IsC(ins) {
		io.WriteString(ew, "@"+strconv.Itoa(int(ins)))
		return pc + 1, ew.Err
	}
	comp, dest, jump := hack.Decode(ins)
	if comp == "" {
		fmt.Fprintf(ew, ".dat %016b", uint16(ins))
		return pc + 1, ew.Err
	}
	if dest != "" {
		io.WriteString(ew, dest+"=")
	}
	io.WriteString(ew, comp)
	if jump != "" {
		io.WriteString(ew, ";"+jump)
	}
	return pc + 1, ew.Err
}

// DisassembleAll writes a disassembly of all cells in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// first cell (i[0]). It will return any write error.
func DisassembleAll(i []hack.Cell, base int, w io.Writer) error {
	ew := errw.New(w)
	for pc := 0; pc < len(i); {
		fmt.Fprintf(ew, "% 10d\t", base+pc)
		pc, _ = Disassemble(i, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
