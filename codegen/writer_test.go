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
	"bytes"
	"io"

	"github.com/db47h/hackvm/codegen"
	"github.com/db47h/hackvm/vmcode"
	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Writer", func() {
	var (
		ctr codegen.Counter
		buf bytes.Buffer
		w   *codegen.Writer
	)

	BeforeEach(func() {
		ctr = codegen.Counter{}
		buf.Reset()
		w = codegen.NewWriter("Foo", &ctr, &buf)
	})

	It("should name static variables after the unit", func() {
		w.WritePush(vmcode.Static, 3)
		w.WritePop(vmcode.Static, 4)
		Expect(buf.String()).To(ContainSubstring("@FooStatic3\n"))
		Expect(buf.String()).To(ContainSubstring("@FooStatic4\n"))
	})

	It("should mint return labels from the counter", func() {
		w.WriteCall("Foo.bar", 2)
		w.WriteCall("Foo.bar", 2)
		Expect(buf.String()).To(ContainSubstring("(RETURN_Foo.bar_0)\n"))
		Expect(buf.String()).To(ContainSubstring("(RETURN_Foo.bar_1)\n"))
		Expect(buf.String()).To(ContainSubstring("@7\nD=D-A\n@ARG\nM=D\n"))
		Expect(ctr.Peek()).To(BeEquivalentTo(2))
	})

	It("should share the counter between units", func() {
		w.WriteArithmetic(vmcode.Lt)
		w2 := codegen.NewWriter("Bar", &ctr, &buf)
		w2.WriteArithmetic(vmcode.Lt)
		Expect(buf.String()).To(ContainSubstring("(LT_TRUE_0)\n"))
		Expect(buf.String()).To(ContainSubstring("(LT_END_0)\n"))
		Expect(buf.String()).To(ContainSubstring("(LT_TRUE_1)\n"))
		Expect(buf.String()).To(ContainSubstring("(LT_END_1)\n"))
	})

	It("should track the current function", func() {
		Expect(w.Function()).To(BeEmpty())
		Expect(w.Label("L")).To(Equal("L"))
		w.WriteFunction("Foo.main", 2)
		Expect(w.Function()).To(Equal("Foo.main"))
		Expect(buf.String()).To(Equal("(Foo.main)\n@SP\nAM=M+1\nA=A-1\nM=0\n@SP\nAM=M+1\nA=A-1\nM=0\n"))
	})

	It("should dispatch commands", func() {
		for _, s := range []string{"push constant 3", "label X", "if-goto X", "goto X", "return"} {
			cmd, err := vmcode.Classify(s)
			Expect(err).NotTo(HaveOccurred())
			w.Write(cmd)
		}
		Expect(buf.String()).To(HavePrefix("@3\nD=A\n@SP\nA=M\nM=D\n@SP\nM=M+1\n(X)\n@SP\nAM=M-1\nD=M\n@X\nD;JNE\n@X\n0;JMP\n@LCL\n"))
		Expect(buf.String()).To(HaveSuffix("@R14\nA=M\n0;JMP\n"))
	})

	It("should refuse to pop a constant", func() {
		Expect(func() { w.WritePop(vmcode.Constant, 0) }).To(Panic())
	})
})

var _ = Describe("WriteTo", func() {
	var (
		mockCtrl   *gomock.Controller
		mockWriter *MockWriter
		p          *codegen.Program
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockWriter = NewMockWriter(mockCtrl)
		var err error
		p, err = codegen.New()
		Expect(err).NotTo(HaveOccurred())
		p.Bootstrap()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write the whole program", func() {
		mockWriter.EXPECT().
			Write(p.Bytes()).
			Return(p.Len(), nil)
		n, err := p.WriteTo(mockWriter)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeEquivalentTo(p.Len()))
	})

	It("should report write errors", func() {
		mockWriter.EXPECT().
			Write(gomock.Any()).
			Return(0, io.ErrClosedPipe)
		n, err := p.WriteTo(mockWriter)
		Expect(err).To(MatchError(io.ErrClosedPipe))
		Expect(n).To(BeZero())
	})

	It("should report short writes", func() {
		mockWriter.EXPECT().
			Write(gomock.Any()).
			Return(10, nil)
		n, err := p.WriteTo(mockWriter)
		Expect(err).To(MatchError(io.ErrShortWrite))
		Expect(n).To(BeEquivalentTo(10))
	})
})
