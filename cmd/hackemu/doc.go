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

// The hackemu command runs programs on an emulated Hack computer.
//
// Usage:
//
//	hackemu [flags] program
//
// program is either a directory of VM files, a single .vm file, a Hack
// assembly file (.asm) or a Hack machine code file (.hack). VM code is
// translated with the bootstrap code enabled, then assembled.
//
// Flags:
//
//	--bootstrap[=true|false|auto]
//		emit bootstrap code when translating VM code (default true)
//	--config file
//		load settings from a YAML file
//	--debug
//		print stack traces and machine state along with errors
//	-d, --disassemble
//		print the program disassembly and exit
//	--dump
//		print the registers and stack contents upon exit
//	--entry function
//		function called by the bootstrap code (default "Sys.init")
//	--max-cycles n
//		stop after n instructions, 0 for no limit
//	--noraw
//		disable raw terminal IO
//	--scoped-labels[=true|false]
//		qualify VM labels with their function name (default true)
//	-o, --output file
//		save the machine code to a .hack file before running it
//	--stack-base address
//		initial stack pointer set by the bootstrap code (default 256)
//	--trace file
//		write an execution trace to file
//	-v, --verbose
//		enable debug logging
//
// The program stops when the PC moves past the end of the ROM, when it enters
// the usual end loop:
//
//	(END)
//	@END
//	0;JMP
//
// or, in raw terminal mode, when CTRL-D is read from the keyboard.
//
// The configuration file accepts the keys of vmtranslator's configuration
// (bootstrap, entry, stack_base, scoped_labels and comments) and max_cycles.
//
// Keys typed on stdin are fed to the KBD register. Upon startup, hackemu
// switches the terminal to raw mode unless stdin has been redirected or the
// --noraw flag is set.
package main
