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

package codegen_test

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/db47h/hackvm/codegen"
	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/vmcode"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var labelDef = regexp.MustCompile(`(?m)^\((.+)\)$`)

const sysAdd = `
function Sys.init 0
push constant 3000
pop pointer 0
push constant 3010
pop pointer 1
push constant 11
push constant 3
push constant 4
call Math.add 2
label END
goto END
`

const mathAdd = `
function Math.add 1
push constant 4000
pop pointer 0
push argument 0
push argument 1
add
pop local 0
push local 0
return
`

const recSum = `
function Sys.init 0
push constant 10
call Rec.sum 1
label END
goto END

// sum(n) = n + sum(n-1)
function Rec.sum 0
push argument 0
if-goto REC
push constant 0
return
label REC
push argument 0
push argument 0
push constant 1
sub
call Rec.sum 1
add
return
`

// segmentAddress returns the RAM address of seg[idx] before running the code.
func (m machine) segmentAddress(seg string, idx int) hack.Cell {
	i := hack.Cell(idx)
	switch seg {
	case "local":
		return localBase + i
	case "argument":
		return argBase + i
	case "this":
		return thisBase + i
	case "that":
		return thatBase + i
	case "temp":
		return 5 + i
	case "pointer":
		return hack.THIS + i
	case "static":
		return m.sym("TestStatic" + strconv.Itoa(idx))
	}
	panic("bad segment " + seg)
}

func bootstrapped(opts []codegen.Option, units ...unit) machine {
	p, err := codegen.New(opts...)
	Expect(err).NotTo(HaveOccurred())
	p.Bootstrap()
	translate(p, units...)
	Expect(p.UndefinedFunctions()).To(BeEmpty())
	return load(p).run()
}

var _ = Describe("Arithmetic", func() {
	It("should add two constants", func() {
		m := exec("push constant 7\npush constant 8\nadd")
		Expect(m.stack()).To(Equal([]hack.Cell{15}))
		Expect(m.SP()).To(BeEquivalentTo(stackBase + 1))
	})

	It("should push true for equal values", func() {
		m := exec("push constant 0\npush constant 0\neq")
		Expect(m.stack()).To(Equal([]hack.Cell{-1}))
	})

	It("should wrap around on overflow", func() {
		m := exec("push constant 32767\npush constant 1\nadd\npush constant 0\npush constant 32767\nsub\npush constant 2\nsub")
		Expect(m.stack()).To(Equal([]hack.Cell{-32768, 32767}))
	})

	DescribeTable("operators",
		func(op string, exp ...hack.Cell) {
			m := exec("push constant 5\npush constant 3\n" + op)
			Expect(m.stack()).To(Equal(exp))
		},
		Entry("add", "add", hack.Cell(8)),
		Entry("sub", "sub", hack.Cell(2)),
		Entry("and", "and", hack.Cell(1)),
		Entry("or", "or", hack.Cell(7)),
		Entry("neg", "neg", hack.Cell(5), hack.Cell(-3)),
		Entry("not", "not", hack.Cell(5), hack.Cell(-4)),
		Entry("eq", "eq", hack.Cell(0)),
		Entry("gt", "gt", hack.Cell(-1)),
		Entry("lt", "lt", hack.Cell(0)),
	)

	DescribeTable("comparisons with negative values",
		func(op string, exp hack.Cell) {
			// -1 op 0
			m := exec("push constant 1\nneg\npush constant 0\n" + op)
			Expect(m.stack()).To(Equal([]hack.Cell{exp}))
		},
		Entry("eq", "eq", hack.Cell(0)),
		Entry("gt", "gt", hack.Cell(0)),
		Entry("lt", "lt", hack.Cell(-1)),
	)

	It("should generate unique labels for each comparison", func() {
		p, err := codegen.New()
		Expect(err).NotTo(HaveOccurred())
		translate(p,
			unit{"A", "push constant 1\npush constant 1\neq\npush constant 1\npush constant 2\neq"},
			unit{"B", "push constant 2\npush constant 1\ngt\npush constant 1\npush constant 1\neq"},
		)
		seen := make(map[string]bool)
		for _, l := range labelDef.FindAllStringSubmatch(p.String(), -1) {
			Expect(seen).NotTo(HaveKey(l[1]))
			seen[l[1]] = true
		}
		Expect(seen).To(HaveLen(8))

		m := load(p).run()
		Expect(m.stack()).To(Equal([]hack.Cell{-1, 0, -1, -1}))
	})
})

var _ = Describe("Memory access", func() {
	It("should address segments", func() {
		m := exec(`
			push constant 10
			pop local 0
			push constant 21
			pop argument 1
			push constant 36
			pop this 6
			push constant 42
			pop that 5
			push constant 45
			pop temp 6
			push constant 510
			pop static 3
			push constant 4000
			pop pointer 1
			push constant 7
			pop that 2
		`)
		Expect(m.stack()).To(BeEmpty())
		Expect(m.Peek(localBase)).To(BeEquivalentTo(10))
		Expect(m.Peek(argBase + 1)).To(BeEquivalentTo(21))
		Expect(m.Peek(thisBase + 6)).To(BeEquivalentTo(36))
		Expect(m.Peek(thatBase + 5)).To(BeEquivalentTo(42))
		Expect(m.Peek(11)).To(BeEquivalentTo(45))
		Expect(m.Peek(m.sym("TestStatic3"))).To(BeEquivalentTo(510))
		Expect(m.Peek(hack.THAT)).To(BeEquivalentTo(4000))
		Expect(m.Peek(4002)).To(BeEquivalentTo(7))
	})

	It("should read pointers and segments", func() {
		m := exec(`
			push constant 3030
			pop pointer 0
			push constant 99
			pop this 2
			push pointer 0
			push this 2
			push temp 0
		`)
		Expect(m.stack()).To(Equal([]hack.Cell{3030, 99, 0}))
		Expect(m.Peek(3032)).To(BeEquivalentTo(99))
	})

	DescribeTable("push then pop leaves memory unchanged",
		func(seg string, idx int) {
			p, err := codegen.New()
			Expect(err).NotTo(HaveOccurred())
			cmd := seg + " " + strconv.Itoa(idx)
			translate(p, unit{"Test", "push " + cmd + "\npop " + cmd})
			m := load(p)
			for k := hack.THAT + 1; k < 4096; k++ {
				m.Poke(k, k*7+1)
			}
			before := append([]hack.Cell(nil), m.RAM...)
			m.run()
			for k := range before {
				// scratch register and the freed stack cell
				if k == 13 || k == stackBase {
					continue
				}
				Expect(m.RAM[k]).To(Equal(before[k]), "RAM[%d]", k)
			}
			Expect(m.RAM[stackBase]).To(Equal(before[m.segmentAddress(seg, idx)]))
		},
		Entry("local 0", "local", 0),
		Entry("local 5", "local", 5),
		Entry("argument 2", "argument", 2),
		Entry("this 0", "this", 0),
		Entry("that 3", "that", 3),
		Entry("temp 0", "temp", 0),
		Entry("temp 7", "temp", 7),
		Entry("pointer 0", "pointer", 0),
		Entry("pointer 1", "pointer", 1),
		Entry("static 0", "static", 0),
		Entry("static 4", "static", 4),
	)

	It("should isolate the static segments of different units", func() {
		set := func(u string) string {
			return "function " + u + ".set 0\npush argument 0\npop static 0\npush constant 0\nreturn\n" +
				"function " + u + ".get 0\npush static 0\nreturn\n"
		}
		m := bootstrapped(nil,
			unit{"A", set("A")},
			unit{"B", set("B")},
			unit{"Sys", `
				function Sys.init 0
				push constant 1
				call A.set 1
				pop temp 0
				push constant 2
				call B.set 1
				pop temp 0
				call A.get 0
				call B.get 0
				label END
				goto END
			`},
		)
		Expect(m.sym("AStatic0")).NotTo(Equal(m.sym("BStatic0")))
		Expect(m.RAM[261:m.SP()]).To(Equal([]hack.Cell{1, 2}))
	})
})

var _ = Describe("Control flow", func() {
	DescribeTable("if-goto pops the condition",
		func(cond string, exp ...hack.Cell) {
			m := exec("push constant 5\n" + cond + "\nif-goto SKIP\npush constant 1\nlabel SKIP")
			Expect(m.stack()).To(Equal(exp))
		},
		Entry("false", "push constant 0", hack.Cell(5), hack.Cell(1)),
		Entry("true", "push constant 0\nnot", hack.Cell(5)),
		Entry("non-zero", "push constant 12", hack.Cell(5)),
	)

	It("should loop", func() {
		// sum of 1..10 in local 0
		m := exec(`
			push constant 10
			pop local 1
			label LOOP
			push local 0
			push local 1
			add
			pop local 0
			push local 1
			push constant 1
			sub
			pop local 1
			push local 1
			if-goto LOOP
			goto DONE
			push constant 666
			label DONE
		`)
		Expect(m.stack()).To(BeEmpty())
		Expect(m.Peek(localBase)).To(BeEquivalentTo(55))
	})
})

var _ = Describe("Functions", func() {
	It("should call and return", func() {
		m := bootstrapped(nil, unit{"Sys", sysAdd}, unit{"Math", mathAdd})
		// bootstrap frame, then 11 and the result
		Expect(m.stack()[1:]).To(Equal([]hack.Cell{localBase, argBase, thisBase, thatBase, 11, 7}))
		Expect(m.SP()).To(BeEquivalentTo(263))
		Expect(m.Peek(hack.LCL)).To(BeEquivalentTo(261))
		Expect(m.Peek(hack.ARG)).To(BeEquivalentTo(256))
		Expect(m.Peek(hack.THIS)).To(BeEquivalentTo(3000))
		Expect(m.Peek(hack.THAT)).To(BeEquivalentTo(3010))
		Expect(int(m.Peek(256))).To(Equal(int(m.sym("RETURN_Sys.init_0"))))
	})

	It("should initialize locals to zero", func() {
		m := bootstrapped(nil, unit{"Sys", `
			function Sys.init 0
			` + strings.Repeat("push constant 1\n", 8) + strings.Repeat("pop temp 0\n", 8) + `
			call Sys.locals 0
			label END
			goto END
			function Sys.locals 3
			push local 0
			push local 1
			add
			push local 2
			add
			return
		`})
		Expect(m.RAM[261:m.SP()]).To(Equal([]hack.Cell{0}))
	})

	It("should support recursion", func() {
		m := bootstrapped(nil, unit{"Sys", recSum})
		Expect(m.RAM[261:m.SP()]).To(Equal([]hack.Cell{55}))
		Expect(m.Symbols).To(HaveKey("Rec.sum$REC"))
	})

	It("should support recursion with global labels", func() {
		m := bootstrapped([]codegen.Option{codegen.ScopedLabels(false)}, unit{"Sys", recSum})
		Expect(m.RAM[261:m.SP()]).To(Equal([]hack.Cell{55}))
		Expect(m.Symbols).To(HaveKey("REC"))
	})

	It("should run functions reusing the same label names", func() {
		// label names as generated by the Jack compiler
		abs := func(f string) string {
			return "function " + f + " 0\npush argument 0\npush constant 0\nlt\nif-goto IF_TRUE0\n" +
				"push argument 0\nreturn\nlabel IF_TRUE0\npush argument 0\nneg\nreturn\n"
		}
		m := bootstrapped(nil,
			unit{"Math", abs("Math.abs") + abs("Math.abs2")},
			unit{"Sys", `
				function Sys.init 0
				push constant 5
				neg
				call Math.abs 1
				push constant 7
				call Math.abs2 1
				label END
				goto END
			`},
		)
		Expect(m.RAM[261:m.SP()]).To(Equal([]hack.Cell{5, 7}))
		Expect(m.Symbols).To(HaveKey("Math.abs$IF_TRUE0"))
		Expect(m.Symbols).To(HaveKey("Math.abs2$IF_TRUE0"))
	})

	It("should use a custom entry point and stack base", func() {
		p, err := codegen.New(codegen.Entry("Main.main"), codegen.StackBase(1000))
		Expect(err).NotTo(HaveOccurred())
		p.Bootstrap()
		translate(p, unit{"Main", "function Main.main 0\npush constant 42\nlabel END\ngoto END"})
		m := load(p).run()
		Expect(m.RAM[1005:m.SP()]).To(Equal([]hack.Cell{42}))
	})
})

var _ = Describe("Program", func() {
	var p *codegen.Program

	BeforeEach(func() {
		var err error
		p, err = codegen.New()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject invalid options", func() {
		_, err := codegen.New(codegen.StackBase(5))
		Expect(err).To(HaveOccurred())
		_, err = codegen.New(codegen.Entry("1up"))
		Expect(err).To(HaveOccurred())
		_, err = codegen.New(codegen.Entry("SCREEN"))
		Expect(err).To(HaveOccurred())
	})

	It("should write the bootstrap code", func() {
		p.Bootstrap()
		Expect(p.String()).To(HavePrefix("@256\nD=A\n@SP\nM=D\n@RETURN_Sys.init_0\nD=A\n"))
		Expect(p.String()).To(HaveSuffix("@Sys.init\n0;JMP\n(RETURN_Sys.init_0)\n"))
		Expect(p.UndefinedFunctions()).To(Equal([]string{"Sys.init"}))
	})

	It("should not output anything for a malformed unit", func() {
		err := p.TranslateUnit("Bad", lines("push constant 1\npush constant 1\neq\npish constant 3\nadd"))
		Expect(err).To(MatchError(vmcode.ErrMalformedInstruction))
		var e *codegen.Error
		Expect(errors.As(err, &e)).To(BeTrue())
		Expect(e.Unit).To(Equal("Bad"))
		Expect(e.Line).To(Equal(4))
		Expect(e.Text).To(Equal("pish constant 3"))
		Expect(e.Error()).To(HavePrefix("Bad:4: "))
		Expect(p.Len()).To(BeZero())
		Expect(p.Units()).To(BeEmpty())

		// label ids are not consumed either
		translate(p, unit{"Good", "push constant 1\npush constant 1\neq"})
		Expect(p.String()).To(ContainSubstring("(EQ_TRUE_0)"))
	})

	It("should report invalid arguments", func() {
		err := p.TranslateUnit("Bad", lines("push constant 1\npop bogus 1"))
		Expect(err).To(MatchError(vmcode.ErrUnknownSegment))
		Expect(err).To(MatchError(vmcode.ErrInvalidArgument))
		Expect(p.TranslateUnit("Bad", lines("push temp 8"))).To(MatchError(vmcode.ErrInvalidArgument))
		Expect(p.TranslateUnit("Bad-name", nil)).To(HaveOccurred())
	})

	It("should reject units translated twice", func() {
		translate(p, unit{"A", "push constant 1"})
		Expect(p.TranslateUnit("A", lines("push constant 1"))).To(HaveOccurred())
	})

	It("should detect duplicate labels", func() {
		src := "function F.a 0\nlabel LOOP\ngoto LOOP\nfunction F.b 0\nlabel LOOP\ngoto LOOP"
		g, err := codegen.New(codegen.ScopedLabels(false))
		Expect(err).NotTo(HaveOccurred())
		err = g.TranslateUnit("F", lines(src))
		Expect(err).To(MatchError(codegen.ErrDuplicateLabel))
		Expect(err.Error()).To(ContainSubstring("scoped labels are disabled"))
		Expect(g.Len()).To(BeZero())

		translate(p, unit{"F", src})
		Expect(p.String()).To(ContainSubstring("(F.a$LOOP)"))
		Expect(p.String()).To(ContainSubstring("(F.b$LOOP)"))
		Expect(p.TranslateUnit("G", lines("function F.a 0\nreturn"))).To(MatchError(codegen.ErrDuplicateFunction))
		Expect(p.TranslateUnit("G", lines("function G.a 0\nlabel X\nlabel X"))).To(MatchError(codegen.ErrDuplicateLabel))
	})

	It("should detect duplicate labels across units", func() {
		translate(p, unit{"A", "label X\ngoto X"})
		err := p.TranslateUnit("B", lines("push constant 0\nlabel X"))
		Expect(err).To(MatchError(codegen.ErrDuplicateLabel))
		Expect(err.Error()).To(ContainSubstring("A:1"))
	})

	It("should detect labels colliding with function names", func() {
		g, _ := codegen.New(codegen.ScopedLabels(false))
		Expect(g.TranslateUnit("A", lines("label Main.main\nfunction Main.main 0"))).To(MatchError(codegen.ErrDuplicateLabel))
		Expect(p.TranslateUnit("A", lines("label Main.main\nfunction Main.main 0"))).To(MatchError(codegen.ErrDuplicateLabel))
		Expect(p.Len()).To(BeZero())
	})

	DescribeTable("reserved symbols",
		func(src string, exp error) {
			g, err := codegen.New(codegen.ScopedLabels(false))
			Expect(err).NotTo(HaveOccurred())
			Expect(g.TranslateUnit("Test", lines(src))).To(MatchError(exp))
			Expect(g.Len()).To(BeZero())
		},
		Entry("comparison label", "label EQ_TRUE_0\npush constant 1\npush constant 1\neq", codegen.ErrReservedSymbol),
		Entry("comparison end label", "label LT_END_12", codegen.ErrReservedSymbol),
		Entry("return label", "function RETURN_Sys.init_0 0", codegen.ErrReservedSymbol),
		Entry("static variable used first", "push static 3\nlabel TestStatic3", codegen.ErrReservedSymbol),
		Entry("label defined first", "function TestStatic0 0\npush constant 1\npop static 0", codegen.ErrReservedSymbol),
		Entry("predefined label", "label R13", vmcode.ErrInvalidArgument),
		Entry("predefined function", "function KBD 0", vmcode.ErrInvalidArgument),
		Entry("predefined jump target", "goto SP", vmcode.ErrInvalidArgument),
		Entry("argument count", "call Main.main 32763", vmcode.ErrInvalidArgument),
	)

	It("should accept labels close to the generated ones", func() {
		translate(p, unit{"Test", "function Test.f 0\nlabel EQ_TRUE_0\nlabel IF_END0\npush constant 1\npush constant 1\neq"})
		Expect(p.String()).To(ContainSubstring("(Test.f$EQ_TRUE_0)"))
		Expect(p.String()).To(ContainSubstring("(EQ_TRUE_0)"))
		m := load(p).run()
		Expect(m.stack()).To(Equal([]hack.Cell{-1}))
		Expect(m.Symbols).To(HaveKey("Test.f$IF_END0"))
	})

	It("should check jump targets", func() {
		Expect(p.TranslateUnit("A", lines("push constant 0\nif-goto LATER"))).To(Succeed())
		err := p.Check()
		Expect(err).To(MatchError(codegen.ErrUndefinedLabel))
		Expect(err.Error()).To(HavePrefix("A:2: "))
		Expect(p.TranslateUnit("B", lines("label LATER"))).To(Succeed())
		Expect(p.Check()).To(Succeed())
	})

	It("should scope jump targets to their function", func() {
		Expect(p.TranslateUnit("F", lines("function F.a 0\nlabel L\nfunction F.b 0\ngoto L"))).To(Succeed())
		Expect(p.Check()).To(MatchError(codegen.ErrUndefinedLabel))
	})

	It("should list undefined functions", func() {
		translate(p, unit{"Main", "function Main.main 0\ncall Output.print 1\ncall Main.main 0\ncall Math.abs 1"})
		Expect(p.UndefinedFunctions()).To(Equal([]string{"Math.abs", "Output.print"}))
	})

	It("should describe units", func() {
		translate(p,
			unit{"Main", "function Main.main 1\npush constant 1\ncall Math.abs 1\ncall Math.abs 1\nreturn\nfunction Main.f 0\ncall Main.main 0"},
			unit{"Math", "function Math.abs 0\npush argument 0\nreturn"},
		)
		u := p.Units()
		Expect(u).To(HaveLen(2))
		Expect(u[0].Name).To(Equal("Main"))
		Expect(u[0].Lines).To(Equal(7))
		Expect(u[0].Counts[vmcode.Call]).To(Equal(3))
		Expect(u[0].Counts[vmcode.Function]).To(Equal(2))
		Expect(u[0].Functions).To(Equal([]codegen.FuncInfo{
			{Name: "Main.main", Locals: 1, Calls: []string{"Math.abs"}},
			{Name: "Main.f", Calls: []string{"Main.main"}},
		}))
		Expect(u[0].Size + u[1].Size).To(Equal(p.Len()))
	})

	It("should annotate the output with comments", func() {
		p, _ = codegen.New(codegen.Comments(true))
		p.Bootstrap()
		translate(p, unit{"Sys", "function Sys.init 0\npush constant 7\nlabel END\ngoto END"})
		Expect(p.String()).To(HavePrefix("// bootstrap\n@256\n"))
		Expect(p.String()).To(ContainSubstring("// push constant 7\n@7\nD=A\n"))
		m := load(p).run()
		Expect(m.RAM[261:m.SP()]).To(Equal([]hack.Cell{7}))
	})
})
