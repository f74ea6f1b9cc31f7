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

// Package vmcode classifies the instructions of the stack based VM language
// compiled by hackvm.
//
// A VM program is a sequence of instruction lines, one instruction per line,
// with comments and blank lines removed:
//
//	kind		form			example
//	----------	----------------------	------------------
//	arithmetic	op			add, sub, neg, eq, gt, lt, and, or, not
//	push		push segment index	push constant 7
//	pop		pop segment index	pop local 0
//	label		label symbol		label LOOP
//	goto		goto symbol		goto LOOP
//	if-goto		if-goto symbol		if-goto END
//	function	function name nLocals	function Main.main 2
//	call		call name nArgs		call Math.multiply 2
//	return		return			return
//
// Segments are local, argument, this, that, constant, temp, pointer and static.
package vmcode
