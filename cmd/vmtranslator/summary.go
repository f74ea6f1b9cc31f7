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

	"github.com/db47h/hackvm/codegen"
	"github.com/db47h/hackvm/vmcode"
	"github.com/jedib0t/go-pretty/v6/table"
)

var summaryKinds = [...]vmcode.Kind{
	vmcode.Push,
	vmcode.Pop,
	vmcode.Arithmetic,
	vmcode.Label,
	vmcode.Goto,
	vmcode.IfGoto,
	vmcode.Call,
	vmcode.Return,
}

// printSummary writes a table of instruction counts per unit.
func printSummary(w io.Writer, p *codegen.Program) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Translation summary")

	header := table.Row{"Unit", "Functions"}
	for _, k := range summaryKinds {
		header = append(header, k.String())
	}
	header = append(header, "Total", "Bytes")
	t.AppendHeader(header)

	var (
		totals = make([]int, len(summaryKinds))
		funcs  int
		lines  int
	)
	for _, u := range p.Units() {
		row := table.Row{u.Name, len(u.Functions)}
		for i, k := range summaryKinds {
			row = append(row, u.Counts[k])
			totals[i] += u.Counts[k]
		}
		row = append(row, u.Lines, u.Size)
		t.AppendRow(row)
		funcs += len(u.Functions)
		lines += u.Lines
	}

	footer := table.Row{"", funcs}
	for _, n := range totals {
		footer = append(footer, n)
	}
	footer = append(footer, lines, p.Len())
	t.AppendFooter(footer)
	t.Render()
}
