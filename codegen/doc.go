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

// Package codegen translates classified VM commands into Hack assembly.
//
// A Program accumulates the assembly for a whole linked program. Each source
// file is translated as a unit with TranslateUnit, in the order the caller
// chooses. All units share the Program's label Counter, so that the labels
// generated for comparisons and call return addresses are unique across the
// whole output.
//
// Calling convention
//
// The VM stack grows upward from the stack base (256 by default). RAM[0] (SP)
// holds the address of the next free stack cell and RAM[1..4] (LCL, ARG, THIS
// and THAT) the bases of the local, argument, this and that segments. temp
// maps to RAM[5..12]. R13 and R14 are scratch registers.
//
// A call pushes the return address, then LCL, ARG, THIS and THAT, sets ARG to
// the first argument pushed by the caller and LCL to the new top of stack
// before jumping to the callee. Return stores the return value in place of the
// first argument, sets SP right above it and restores the saved pointers from
// the frame.
//
// Booleans are -1 (true) and 0 (false). if-goto jumps on any non-zero value.
package codegen
