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

import "github.com/pkg/errors"

// Classification errors. A *SyntaxError returned by Classify always wraps one
// of these and can be tested with errors.Is.
var (
	ErrMalformedInstruction = errors.New("malformed instruction")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnknownSegment       = errors.New("unknown segment")
)

// SyntaxError describes why an instruction line could not be classified.
type SyntaxError struct {
	Text string // offending line
	Msg  string
	Err  error // one of the Err* values
}

func (e *SyntaxError) Error() string {
	return e.Err.Error() + ": " + e.Msg + " in \"" + e.Text + "\""
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Is reports unknown segments as invalid arguments as well.
func (e *SyntaxError) Is(target error) bool {
	return e.Err == ErrUnknownSegment && target == ErrInvalidArgument
}

func syntaxError(text string, err error, msg string) error {
	return &SyntaxError{Text: text, Msg: msg, Err: err}
}
