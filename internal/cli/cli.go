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

// Package cli holds the bits shared by the command line tools: logging setup,
// error reporting, custom flag types and the translation settings.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tebeka/atexit"
)

// SetupLogging installs a text slog handler on w as the default logger.
func SetupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Exit reports err, if not nil, on stderr and exits through atexit so that
// registered cleanup functions run. With debug set, the error is printed with
// its stack trace.
func Exit(err error, debug bool) {
	if err == nil {
		atexit.Exit(0)
	}
	if debug {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	atexit.Exit(1)
}

// Address is a pflag.Value for RAM addresses.
type Address int

func (a *Address) String() string { return strconv.Itoa(int(*a)) }
func (a *Address) Set(s string) error {
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return errors.Wrap(err, "invalid address")
	}
	if n < 0 || n > 32767 {
		return errors.Errorf("address %d out of range", n)
	}
	*a = Address(n)
	return nil
}
func (a *Address) Type() string { return "address" }

// Tristate is a pflag.Value for boolean flags with an automatic default.
type Tristate int

// Tristate values.
const (
	Auto Tristate = iota
	Off
	On
)

func (t *Tristate) String() string {
	switch *t {
	case Off:
		return "false"
	case On:
		return "true"
	default:
		return "auto"
	}
}

func (t *Tristate) Set(s string) error {
	if strings.EqualFold(s, "auto") {
		*t = Auto
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return errors.Errorf("invalid value %q, must be true, false or auto", s)
	}
	if b {
		*t = On
	} else {
		*t = Off
	}
	return nil
}

func (t *Tristate) Type() string { return "tristate" }

// Resolve returns the value of t, def if t is Auto.
func (t Tristate) Resolve(def bool) bool {
	if t == Auto {
		return def
	}
	return t == On
}
