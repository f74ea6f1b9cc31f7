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

package main

import (
	"io"
	"strconv"

	"github.com/db47h/hackvm/hack"
	"github.com/jedib0t/go-pretty/v6/table"
)

// stack cells per row
const stackCols = 8

// printState writes the machine registers, the VM pointers and the stack
// contents above base as tables.
func printState(w io.Writer, i *hack.Instance, base hack.Cell) {
	regs := table.NewWriter()
	regs.SetOutputMirror(w)
	regs.SetTitle("Registers")
	regs.AppendHeader(table.Row{"PC", "A", "D", "SP", "LCL", "ARG", "THIS", "THAT", "Cycles"})
	regs.AppendRow(table.Row{
		i.PC, i.A, i.D,
		i.Peek(hack.SP), i.Peek(hack.LCL), i.Peek(hack.ARG), i.Peek(hack.THIS), i.Peek(hack.THAT),
		i.InstructionCount(),
	})
	regs.Render()

	stack := table.NewWriter()
	stack.SetOutputMirror(w)
	stack.SetTitle("Stack")
	header := table.Row{"Address"}
	for c := 0; c < stackCols; c++ {
		header = append(header, "+"+strconv.Itoa(c))
	}
	stack.AppendHeader(header)
	s := i.Stack(base)
	for k := 0; k < len(s); k += stackCols {
		row := table.Row{int(base) + k}
		for c := k; c < k+stackCols && c < len(s); c++ {
			row = append(row, s[c])
		}
		stack.AppendRow(row)
	}
	stack.Render()
}
