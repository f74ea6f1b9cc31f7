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

package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/db47h/hackvm/codegen"
	"github.com/db47h/hackvm/internal/config"
	"github.com/db47h/hackvm/internal/source"
	"github.com/spf13/pflag"
)

// Translator holds the translation settings of the command line tools.
type Translator struct {
	Bootstrap    Tristate
	Entry        string
	StackBase    Address
	ScopedLabels bool
	Comments     bool
	Progress     slog.Level // level of the per file progress messages
}

// NewTranslator returns a Translator with the default settings.
func NewTranslator() *Translator {
	return &Translator{
		Entry:        "Sys.init",
		StackBase:    256,
		ScopedLabels: true,
		Progress:     slog.LevelInfo,
	}
}

// AddFlags registers the flags controlling code generation in f. The comments
// flag is left to tools that output assembly.
func (t *Translator) AddFlags(f *pflag.FlagSet) {
	f.Var(&t.Bootstrap, "bootstrap", "emit bootstrap code (true, false or auto)")
	f.Lookup("bootstrap").NoOptDefVal = "true"
	f.StringVar(&t.Entry, "entry", t.Entry, "`function` called by the bootstrap code")
	f.Var(&t.StackBase, "stack-base", "initial stack pointer set by the bootstrap code")
	f.BoolVar(&t.ScopedLabels, "scoped-labels", t.ScopedLabels, "qualify labels with their function name")
}

// Configure applies the settings of c that were not set with the flags in f.
func (t *Translator) Configure(c *config.Config, f *pflag.FlagSet) error {
	if c.Bootstrap != nil && !f.Changed("bootstrap") {
		if *c.Bootstrap {
			t.Bootstrap = On
		} else {
			t.Bootstrap = Off
		}
	}
	config.String(&t.Entry, c.Entry, f.Changed("entry"))
	base := int(t.StackBase)
	config.Int(&base, c.StackBase, f.Changed("stack-base"))
	if err := t.StackBase.Set(strconv.Itoa(base)); err != nil {
		return err
	}
	config.Bool(&t.ScopedLabels, c.ScopedLabels, f.Changed("scoped-labels"))
	config.Bool(&t.Comments, c.Comments, f.Changed("comments"))
	return nil
}

// Translate loads and translates the VM program at path, a .vm file or a
// directory. dir is true if path is a directory. Bootstrap code is emitted for
// directories unless set otherwise.
func (t *Translator) Translate(path string) (p *codegen.Program, dir bool, err error) {
	units, dir, err := source.Load(path)
	if err != nil {
		return nil, false, err
	}
	p, err = codegen.New(
		codegen.ScopedLabels(t.ScopedLabels),
		codegen.Comments(t.Comments),
		codegen.StackBase(int(t.StackBase)),
		codegen.Entry(t.Entry))
	if err != nil {
		return nil, false, err
	}
	if t.Bootstrap.Resolve(dir) {
		slog.Debug("bootstrap", "entry", t.Entry, "stack", int(t.StackBase))
		p.Bootstrap()
	}
	for _, u := range units {
		slog.Log(context.Background(), t.Progress, "translating", "file", u.Path)
		if err = p.TranslateUnit(u.Name, u.Lines); err != nil {
			return nil, false, err
		}
	}
	if err = p.Check(); err != nil {
		return nil, false, err
	}
	for _, f := range p.UndefinedFunctions() {
		slog.Warn("undefined function", "name", f)
	}
	return p, dir, nil
}
