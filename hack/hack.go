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

package hack

import (
	"io"
	"strconv"

	"github.com/db47h/hackvm/internal/errw"
	"github.com/pkg/errors"
)

// Cell is the raw type stored in a memory location or register.
type Cell int16

// Memory sizes and memory mapped locations.
const (
	ROMSize = 1 << 15
	RAMSize = 1 << 15

	SP     Cell = 0
	LCL    Cell = 1
	ARG    Cell = 2
	THIS   Cell = 3
	THAT   Cell = 4
	Screen Cell = 16384
	KBD    Cell = 24576
)

// Instance represents a Hack computer.
type Instance struct {
	PC        int    // Program Counter
	A         Cell   // A register
	D         Cell   // D register
	ROM       []Cell // instruction memory
	RAM       []Cell // data memory
	insCount  int64
	maxCycles int64
	inH       map[Cell]InHandler
	outH      map[Cell]OutHandler
	trace     io.Writer
}

// Option interface
type Option func(*Instance) error

// RAM sets the data memory size in cells. The default and maximum is RAMSize.
// Existing memory contents are preserved up to the new size.
func RAM(size int) Option {
	return func(i *Instance) error {
		if size <= 0 || size > RAMSize {
			return errors.Errorf("invalid RAM size %d", size)
		}
		t := make([]Cell, size)
		copy(t, i.RAM)
		i.RAM = t
		return nil
	}
}

// MaxCycles sets the maximum number of instructions executed by Run. Zero,
// the default, means no limit.
func MaxCycles(n int64) Option {
	return func(i *Instance) error { i.maxCycles = n; return nil }
}

// Trace writes every executed instruction along with the register contents to
// w.
func Trace(w io.Writer) Option {
	return func(i *Instance) error { i.trace = w; return nil }
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Hack computer instance with the given program loaded into
// ROM. The program is copied, the caller may reuse the slice.
//
// Options will be set by calling SetOptions.
func New(program []Cell, opts ...Option) (*Instance, error) {
	if len(program) > ROMSize {
		return nil, errors.Errorf("program too large: %d instructions", len(program))
	}
	i := &Instance{
		ROM:  append([]Cell(nil), program...),
		RAM:  make([]Cell, RAMSize),
		inH:  make(map[Cell]InHandler),
		outH: make(map[Cell]OutHandler),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	return i, nil
}

// InstructionCount returns the number of instructions executed by the last
// call to Run.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Peek returns the contents of memory location addr without going through
// memory mapped I/O handlers.
func (i *Instance) Peek(addr Cell) Cell {
	return i.RAM[addr]
}

// Poke sets memory location addr to v without going through memory mapped I/O
// handlers.
func (i *Instance) Poke(addr, v Cell) {
	i.RAM[addr] = v
}

// SP returns the value of the VM stack pointer, RAM[0].
func (i *Instance) SP() Cell {
	return i.RAM[SP]
}

// Stack returns the VM stack contents, from address base up to (excluding) the
// address in SP. Changes to the returned slice will be reflected in RAM.
func (i *Instance) Stack(base Cell) []Cell {
	sp := i.RAM[SP]
	if sp < base {
		return nil
	}
	return i.RAM[base:sp]
}

func dumpSlice(w io.Writer, a []Cell) {
	for k, v := range a {
		if k > 0 {
			w.Write([]byte{' '})
		}
		io.WriteString(w, strconv.Itoa(int(v)))
	}
}

// Dump writes the registers, the VM pointers in RAM[0..4] and the stack
// contents above base to the specified io.Writer.
func (i *Instance) Dump(w io.Writer, base Cell) error {
	ew := errw.New(w)
	io.WriteString(ew, "PC="+strconv.Itoa(i.PC))
	io.WriteString(ew, " A="+strconv.Itoa(int(i.A)))
	io.WriteString(ew, " D="+strconv.Itoa(int(i.D)))
	ew.Write([]byte{'\n'})
	dumpSlice(ew, i.RAM[:THAT+1])
	ew.Write([]byte{'\n'})
	dumpSlice(ew, i.Stack(base))
	ew.Write([]byte{'\n'})
	return ew.Err
}
