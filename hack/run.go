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
	"fmt"

	"github.com/pkg/errors"
)

// ErrCycleLimit is returned by Run when the number of executed instructions
// reaches the limit set with the MaxCycles option.
var ErrCycleLimit = errors.New("cycle limit reached")

// ALU computes the Hack ALU output for inputs x and y and the control bits
// zx nx zy ny f no (c1..c6).
func ALU(x, y, c Cell) Cell {
	if c&0x20 != 0 {
		x = 0
	}
	if c&0x10 != 0 {
		x = ^x
	}
	if c&0x08 != 0 {
		y = 0
	}
	if c&0x04 != 0 {
		y = ^y
	}
	var out Cell
	if c&0x02 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if c&0x01 != 0 {
		out = ^out
	}
	return out
}

func jumpTaken(out, j Cell) bool {
	return (j&4 != 0 && out < 0) || (j&2 != 0 && out == 0) || (j&1 != 0 && out > 0)
}

// Halted returns true if the instruction at PC is an unconditional jump to
// itself or to the A-instruction loading its own address, the usual way of
// ending a Hack program:
//
//	(END)
//	@END
//	0;JMP
func (i *Instance) Halted() bool {
	if i.PC < 0 || i.PC >= len(i.ROM) {
		return true
	}
	ins := i.ROM[i.PC]
	if !IsC(ins) || ins&JumpMask != JumpMask || i.PC == 0 {
		return false
	}
	prev := i.ROM[i.PC-1]
	return !IsC(prev) && i.A == prev && (int(prev) == i.PC-1 || int(prev) == i.PC)
}

// Run starts execution at PC.
//
// Run returns nil when the PC moves past the end of ROM or when the program
// halts (see Halted). In the latter case, PC points to the halting jump. If an
// error occurs, the PC will point to the instruction that triggered the error.
func (i *Instance) Run() (err error) {
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case error:
				err = errors.Wrapf(e, "recovered error @pc=%d, A=%d, D=%d", i.PC, i.A, i.D)
			default:
				panic(e)
			}
		}
	}()
	i.insCount = 0
	for i.PC < len(i.ROM) {
		if i.Halted() {
			return nil
		}
		if i.maxCycles > 0 && i.insCount >= i.maxCycles {
			return errors.Wrapf(ErrCycleLimit, "@pc=%d after %d instructions", i.PC, i.insCount)
		}
		ins := i.ROM[i.PC]
		if i.trace != nil {
			fmt.Fprintf(i.trace, "%5d\t%016b\tA=%d D=%d\n", i.PC, uint16(ins), i.A, i.D)
		}
		if !IsC(ins) {
			i.A = ins
			i.PC++
			i.insCount++
			continue
		}
		addr := i.A
		y := addr
		if ins&ABit != 0 {
			if y, err = i.read(addr); err != nil {
				return err
			}
		}
		out := ALU(i.D, y, (ins>>compShift)&0x3F)
		if ins&DestM != 0 {
			if err = i.write(addr, out); err != nil {
				return err
			}
		}
		if ins&DestA != 0 {
			i.A = out
		}
		if ins&DestD != 0 {
			i.D = out
		}
		if jumpTaken(out, ins&JumpMask) {
			i.PC = int(uint16(addr) & (ROMSize - 1))
		} else {
			i.PC++
		}
		i.insCount++
	}
	return nil
}
