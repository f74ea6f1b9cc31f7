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
	"strconv"

	"github.com/pkg/errors"
)

// Label errors.
var (
	ErrDuplicateLabel    = errors.New("duplicate label")
	ErrDuplicateFunction = errors.New("duplicate function")
	ErrUndefinedLabel    = errors.New("undefined label")
	ErrReservedSymbol    = errors.New("reserved symbol")
)

// Error is returned by TranslateUnit and Check. It locates the instruction
// that caused Err.
type Error struct {
	Unit string
	Line int    // 1-based line number, 0 if unknown
	Text string // instruction text
	Err  error
}

func (e *Error) Error() string {
	s := e.Unit
	if e.Line > 0 {
		s += ":" + strconv.Itoa(e.Line)
	}
	if s != "" {
		s += ": "
	}
	return s + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
