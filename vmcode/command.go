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

package vmcode

import "strconv"

// Kind is the kind of a VM command.
type Kind int

// VM command kinds.
const (
	Arithmetic Kind = iota
	Push
	Pop
	Label
	Goto
	IfGoto
	Function
	Call
	Return
)

var kinds = [...]string{
	"arithmetic",
	"push",
	"pop",
	"label",
	"goto",
	"if-goto",
	"function",
	"call",
	"return",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kinds[k]
}

// Op is an arithmetic or logical operator.
type Op int

// Arithmetic and logical operators.
const (
	Add Op = iota
	Sub
	Neg
	Eq
	Gt
	Lt
	And
	Or
	Not
)

var ops = [...]string{"add", "sub", "neg", "eq", "gt", "lt", "and", "or", "not"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(ops) {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return ops[op]
}

// Unary returns true for operators working on the top of stack only.
func (op Op) Unary() bool { return op == Neg || op == Not }

// Compare returns true for comparison operators.
func (op Op) Compare() bool { return op == Eq || op == Gt || op == Lt }

// Segment is a VM memory segment.
type Segment int

// Memory segments.
const (
	Local Segment = iota
	Argument
	This
	That
	Constant
	Temp
	Pointer
	Static
)

var segments = [...]string{"local", "argument", "this", "that", "constant", "temp", "pointer", "static"}

func (s Segment) String() string {
	if s < 0 || int(s) >= len(segments) {
		return "Segment(" + strconv.Itoa(int(s)) + ")"
	}
	return segments[s]
}

// Command is a classified VM instruction.
//
// Op is only meaningful for Arithmetic commands and Segment only for Push and
// Pop. Arg1 holds the label or function name of Label, Goto, IfGoto, Function
// and Call commands, and the segment name of Push and Pop. Arg2 holds the
// index of Push and Pop, the local variable count of Function and the argument
// count of Call.
type Command struct {
	Kind    Kind
	Op      Op
	Segment Segment
	Arg1    string
	Arg2    int
}

// String returns the canonical VM text for the command.
func (c Command) String() string {
	switch c.Kind {
	case Arithmetic:
		return c.Op.String()
	case Return:
		return "return"
	case Label, Goto, IfGoto:
		return c.Kind.String() + " " + c.Arg1
	default:
		return c.Kind.String() + " " + c.Arg1 + " " + strconv.Itoa(c.Arg2)
	}
}

// Line is a cleaned instruction line along with its 1-based line number in
// the source file.
type Line struct {
	Num  int
	Text string
}
