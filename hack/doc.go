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

// Package hack implements an emulator for the Hack computer, the target
// machine of the code generated by hackvm.
//
// The Hack computer has a 32K words instruction memory (ROM), a 32K words data
// memory (RAM) and two 16 bits registers, A and D. The M pseudo register
// designates RAM[A]. There are two kinds of instructions:
//
//	0vvvvvvvvvvvvvvv	A-instruction: load the 15 bits value v into A
//	111accccccdddjjj	C-instruction: dest=comp;jump
//
// The emulator is primarily used as a reference machine to check the behavior
// of translated VM programs: the VM stack pointer lives in RAM[0] (SP), the
// segment pointers in RAM[1..4] (LCL, ARG, THIS, THAT), temp in RAM[5..12]
// and R13-R15 are scratch registers. The screen and keyboard are memory mapped
// at 16384 (SCREEN) and 24576 (KBD). I/O devices can be emulated with the
// BindInHandler and BindOutHandler options.
//
// A running program stops when the PC moves past the end of the program or when
// it executes the usual halting idiom, an unconditional jump to itself:
//
//	(END)
//	@END
//	0;JMP
//
// All arithmetic is done on 16 bits two's complement values and silently
// wraps around on overflow.
package hack
