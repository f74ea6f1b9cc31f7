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

// C-instruction fields.
//
//	15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
//	 1  1  1  a c1 c2 c3 c4 c5 c6 d1 d2 d3 j1 j2 j3
const (
	CPrefix   Cell = -0x2000 // 111 in the top bits
	ABit      Cell = 0x1000
	DestA     Cell = 0x20
	DestD     Cell = 0x10
	DestM     Cell = 0x08
	JumpMask  Cell = 0x07
	compShift      = 6
)

// comp bits (a c1 c2 c3 c4 c5 c6) and mnemonics.
var comps = [...]struct {
	bits     Cell
	mnemonic string
}{
	{0x2A, "0"},
	{0x3F, "1"},
	{0x3A, "-1"},
	{0x0C, "D"},
	{0x30, "A"},
	{0x0D, "!D"},
	{0x31, "!A"},
	{0x0F, "-D"},
	{0x33, "-A"},
	{0x1F, "D+1"},
	{0x37, "A+1"},
	{0x0E, "D-1"},
	{0x32, "A-1"},
	{0x02, "D+A"},
	{0x13, "D-A"},
	{0x07, "A-D"},
	{0x00, "D&A"},
	{0x15, "D|A"},
	{0x70, "M"},
	{0x71, "!M"},
	{0x73, "-M"},
	{0x77, "M+1"},
	{0x72, "M-1"},
	{0x42, "D+M"},
	{0x53, "D-M"},
	{0x47, "M-D"},
	{0x40, "D&M"},
	{0x55, "D|M"},
}

var dests = [...]string{"", "M", "D", "MD", "A", "AM", "AD", "AMD"}

var jumps = [...]string{"", "JGT", "JEQ", "JGE", "JLT", "JNE", "JLE", "JMP"}

var (
	compIndex     = make(map[string]Cell)
	compMnemonics = make(map[Cell]string)
	destIndex     = make(map[string]Cell)
	jumpIndex     = make(map[string]Cell)
)

func init() {
	for _, c := range comps {
		compIndex[c.mnemonic] = c.bits
		compMnemonics[c.bits] = c.mnemonic
	}
	for i, v := range dests {
		destIndex[v] = Cell(i)
	}
	for i, v := range jumps {
		jumpIndex[v] = Cell(i)
	}
}

// Comp returns the a+c1..c6 bits for the given computation mnemonic.
func Comp(mnemonic string) (bits Cell, ok bool) {
	bits, ok = compIndex[mnemonic]
	return
}

// Dest returns the d1..d3 bits for the given destination mnemonic. Mnemonics
// must be in canonical order (A, M, D as in "AMD").
func Dest(mnemonic string) (bits Cell, ok bool) {
	bits, ok = destIndex[mnemonic]
	return
}

// Jump returns the j1..j3 bits for the given jump mnemonic.
func Jump(mnemonic string) (bits Cell, ok bool) {
	bits, ok = jumpIndex[mnemonic]
	return
}

// Encode returns the C-instruction for the given comp, dest and jump bits.
func Encode(comp, dest, jump Cell) Cell {
	return CPrefix | comp<<compShift | dest<<3 | jump
}

// IsC returns true if ins is a C-instruction.
func IsC(ins Cell) bool {
	return ins < 0
}

// Decode returns the comp, dest and jump mnemonics of a C-instruction. comp
// is empty if the computation bits do not match any known mnemonic.
func Decode(ins Cell) (comp, dest, jump string) {
	return compMnemonics[(ins>>compShift)&0x7F], dests[(ins>>3)&7], jumps[ins&JumpMask]
}
