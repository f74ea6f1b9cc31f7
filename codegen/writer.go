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

package codegen

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/db47h/hackvm/vmcode"
)

// Scratch registers.
const (
	regAddr  = "R13" // pop destination, FRAME in return
	regRet   = "R14" // RET
	tempBase = 5
)

var segmentBase = [...]string{
	vmcode.Local:    "LCL",
	vmcode.Argument: "ARG",
	vmcode.This:     "THIS",
	vmcode.That:     "THAT",
}

var opComp = map[vmcode.Op]string{
	vmcode.Add: "D+M",
	vmcode.Sub: "M-D",
	vmcode.And: "D&M",
	vmcode.Or:  "D|M",
	vmcode.Neg: "-M",
	vmcode.Not: "!M",
}

var compareJump = map[vmcode.Op]string{
	vmcode.Eq: "JEQ",
	vmcode.Gt: "JGT",
	vmcode.Lt: "JLT",
}

// Writer writes the assembly for one translation unit.
type Writer struct {
	unit     string
	ctr      *Counter
	out      *bytes.Buffer
	fn       string // current function
	scoped   bool
	comments bool
}

// NewWriter returns a new Writer for the named unit that appends to out. The
// unit name prefixes the names of static variables.
func NewWriter(unit string, ctr *Counter, out *bytes.Buffer) *Writer {
	return &Writer{unit: unit, ctr: ctr, out: out}
}

// Function returns the name of the function being written, or an empty string
// before the first function command.
func (w *Writer) Function() string {
	return w.fn
}

// Label returns the assembly label for a VM label in the current function.
func (w *Writer) Label(name string) string {
	if w.scoped && w.fn != "" {
		return w.fn + "$" + name
	}
	return name
}

func (w *Writer) emit(ins ...string) {
	for _, s := range ins {
		w.out.WriteString(s)
		w.out.WriteByte('\n')
	}
}

func (w *Writer) label(l string) {
	w.emit("(" + l + ")")
}

func (w *Writer) at(s string) {
	w.emit("@" + s)
}

// pushD pushes the D register.
func (w *Writer) pushD() {
	w.emit("@SP", "A=M", "M=D", "@SP", "M=M+1")
}

// popD pops the top of stack into D.
func (w *Writer) popD() {
	w.emit("@SP", "AM=M-1", "D=M")
}

func (w *Writer) static(idx int) string {
	return w.unit + "Static" + strconv.Itoa(idx)
}

// direct returns the address symbol of segments that do not go through a base
// pointer.
func (w *Writer) direct(seg vmcode.Segment, idx int) string {
	switch seg {
	case vmcode.Temp:
		return strconv.Itoa(tempBase + idx)
	case vmcode.Pointer:
		if idx == 0 {
			return "THIS"
		}
		return "THAT"
	case vmcode.Static:
		return w.static(idx)
	}
	panic("not a direct segment: " + seg.String())
}

// WriteArithmetic writes the code for an arithmetic or logical operator.
func (w *Writer) WriteArithmetic(op vmcode.Op) {
	switch {
	case op.Unary():
		w.emit("@SP", "A=M-1", "M="+opComp[op])
	case op.Compare():
		n := w.ctr.Next()
		name := strings.ToUpper(op.String())
		isTrue := name + "_TRUE_" + strconv.FormatUint(uint64(n), 10)
		end := name + "_END_" + strconv.FormatUint(uint64(n), 10)
		w.popD()
		w.emit("A=A-1", "D=M-D")
		w.at(isTrue)
		w.emit("D;"+compareJump[op], "@SP", "A=M-1", "M=0")
		w.at(end)
		w.emit("0;JMP")
		w.label(isTrue)
		w.emit("@SP", "A=M-1", "M=-1")
		w.label(end)
	default:
		w.popD()
		w.emit("A=A-1", "M="+opComp[op])
	}
}

// WritePush writes the code for push segment index.
func (w *Writer) WritePush(seg vmcode.Segment, idx int) {
	switch seg {
	case vmcode.Constant:
		w.at(strconv.Itoa(idx))
		w.emit("D=A")
	case vmcode.Local, vmcode.Argument, vmcode.This, vmcode.That:
		w.at(segmentBase[seg])
		w.emit("D=M")
		w.at(strconv.Itoa(idx))
		w.emit("A=D+A", "D=M")
	default:
		w.at(w.direct(seg, idx))
		w.emit("D=M")
	}
	w.pushD()
}

// WritePop writes the code for pop segment index. Popping to the constant
// segment is not possible and panics.
func (w *Writer) WritePop(seg vmcode.Segment, idx int) {
	switch seg {
	case vmcode.Constant:
		panic("pop constant")
	case vmcode.Local, vmcode.Argument, vmcode.This, vmcode.That:
		w.at(segmentBase[seg])
		w.emit("D=M")
		w.at(strconv.Itoa(idx))
		w.emit("D=D+A")
		w.at(regAddr)
		w.emit("M=D")
		w.popD()
		w.at(regAddr)
		w.emit("A=M", "M=D")
	default:
		w.popD()
		w.at(w.direct(seg, idx))
		w.emit("M=D")
	}
}

// WriteLabel writes a label definition.
func (w *Writer) WriteLabel(name string) {
	w.label(w.Label(name))
}

// WriteGoto writes an unconditional jump to the given label.
func (w *Writer) WriteGoto(name string) {
	w.at(w.Label(name))
	w.emit("0;JMP")
}

// WriteIf writes the code for if-goto. The top of stack is popped and the
// jump taken if it is not false.
func (w *Writer) WriteIf(name string) {
	w.popD()
	w.at(w.Label(name))
	w.emit("D;JNE")
}

// WriteFunction writes a function entry point followed by the initialization
// of its local variables to 0.
func (w *Writer) WriteFunction(name string, nLocals int) {
	w.fn = name
	w.label(name)
	for i := 0; i < nLocals; i++ {
		w.emit("@SP", "AM=M+1", "A=A-1", "M=0")
	}
}

// WriteCall writes the code for calling function name with nArgs arguments
// already pushed on the stack.
func (w *Writer) WriteCall(name string, nArgs int) {
	ret := "RETURN_" + name + "_" + strconv.FormatUint(uint64(w.ctr.Next()), 10)
	w.at(ret)
	w.emit("D=A")
	w.pushD()
	for _, p := range [...]string{"LCL", "ARG", "THIS", "THAT"} {
		w.at(p)
		w.emit("D=M")
		w.pushD()
	}
	// ARG = SP-nArgs-5
	w.emit("@SP", "D=M")
	w.at(strconv.Itoa(nArgs + 5))
	w.emit("D=D-A", "@ARG", "M=D")
	// LCL = SP
	w.emit("@SP", "D=M", "@LCL", "M=D")
	w.at(name)
	w.emit("0;JMP")
	w.label(ret)
}

// WriteReturn writes the code returning from the current function.
func (w *Writer) WriteReturn() {
	// FRAME = LCL, RET = *(FRAME-5)
	w.emit("@LCL", "D=M")
	w.at(regAddr)
	w.emit("M=D", "@5", "A=D-A", "D=M")
	w.at(regRet)
	w.emit("M=D")
	// *ARG = pop(), SP = ARG+1
	w.popD()
	w.emit("@ARG", "A=M", "M=D", "@ARG", "D=M+1", "@SP", "M=D")
	for _, p := range [...]string{"THAT", "THIS", "ARG", "LCL"} {
		w.at(regAddr)
		w.emit("AM=M-1", "D=M")
		w.at(p)
		w.emit("M=D")
	}
	w.at(regRet)
	w.emit("A=M", "0;JMP")
}

// Write writes the code for the given command.
func (w *Writer) Write(cmd vmcode.Command) {
	if w.comments {
		w.emit("// " + cmd.String())
	}
	switch cmd.Kind {
	case vmcode.Arithmetic:
		w.WriteArithmetic(cmd.Op)
	case vmcode.Push:
		w.WritePush(cmd.Segment, cmd.Arg2)
	case vmcode.Pop:
		w.WritePop(cmd.Segment, cmd.Arg2)
	case vmcode.Label:
		w.WriteLabel(cmd.Arg1)
	case vmcode.Goto:
		w.WriteGoto(cmd.Arg1)
	case vmcode.IfGoto:
		w.WriteIf(cmd.Arg1)
	case vmcode.Function:
		w.WriteFunction(cmd.Arg1, cmd.Arg2)
	case vmcode.Call:
		w.WriteCall(cmd.Arg1, cmd.Arg2)
	case vmcode.Return:
		w.WriteReturn()
	default:
		panic("unknown command kind " + cmd.Kind.String())
	}
}

// bootstrap sets SP to base then calls entry.
func (w *Writer) bootstrap(base int, entry string) {
	if w.comments {
		w.emit("// bootstrap")
	}
	w.at(strconv.Itoa(base))
	w.emit("D=A", "@SP", "M=D")
	if w.comments {
		w.emit("// call " + entry + " 0")
	}
	w.WriteCall(entry, 0)
}
