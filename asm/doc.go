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

// Package asm provides utility functions to assemble and disassemble Hack
// machine code.
//
// Syntax:
//
//	@value		A-instruction, value is a decimal constant in [0, 32767]
//	@symbol		A-instruction, symbol is a label, a variable or a predefined symbol
//	dest=comp;jump	C-instruction, either the dest or the jump part may be omitted
//	(LABEL)		label definition, LABEL designates the address of the next instruction
//	// text		comment up to the end of the line
//
// One instruction or label definition per line. Blanks inside C-instructions
// are ignored.
//
// Computations:
//
//	a=0	0  1  -1  D  A  !D  !A  -D  -A  D+1  A+1  D-1  A-1  D+A  D-A  A-D  D&A  D|A
//	a=1	M  !M  -M  M+1  M-1  D+M  D-M  M-D  D&M  D|M
//
// Commutative operators accept both operand orders (A+D is the same as D+A).
//
// Destinations are any combination of A, M and D, in any order: M, D, MD, A,
// AM, AD and AMD are the canonical forms used by the disassembler.
//
// Jumps: JGT JEQ JGE JLT JNE JLE JMP. The jump condition is tested against the
// result of the computation.
//
// Symbols:
//
// A symbol is any sequence of letters, digits, '_', '.', '$' and ':' that does
// not start with a digit. The following symbols are predefined:
//
//	SP LCL ARG THIS THAT	0 1 2 3 4
//	R0 .. R15		0 .. 15
//	SCREEN			16384
//	KBD			24576
//
// Labels can be used before their definition. Any symbol that is neither
// predefined nor a label is a variable: variables are allocated consecutive
// RAM addresses starting at 16, in order of first use.
package asm
