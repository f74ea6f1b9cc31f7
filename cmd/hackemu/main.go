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

package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/db47h/hackvm/asm"
	"github.com/db47h/hackvm/hack"
	"github.com/db47h/hackvm/internal/cli"
	"github.com/db47h/hackvm/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	debug       bool
	verbose     bool
	dump        bool
	disasm      bool
	noRawIO     bool
	configFile  string
	outFileName string
	traceFile   string
	maxCycles   int64
	tr          = cli.NewTranslator()
)

var rootCmd = &cobra.Command{
	Use:   "hackemu [flags] program",
	Short: "Run a program on the Hack computer",
	Long: `hackemu runs a program on an emulated Hack computer.

The program can be a directory of VM files, a .vm file, a .asm file or a .hack
file. VM code is translated then assembled, assembly code is assembled.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cli.SetupLogging(os.Stderr, verbose)
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0], cmd.OutOrStdout())
	},
}

func init() {
	f := rootCmd.Flags()
	f.BoolVar(&debug, "debug", false, "print stack traces and machine state along with errors")
	f.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	f.BoolVar(&dump, "dump", false, "dump registers and stack upon exit")
	f.BoolVarP(&disasm, "disassemble", "d", false, "print the program disassembly and exit")
	f.BoolVar(&noRawIO, "noraw", false, "disable raw terminal IO")
	f.StringVar(&configFile, "config", "", "load settings from YAML `file`")
	f.StringVarP(&outFileName, "output", "o", "", "save the machine code to `file` before running it")
	f.StringVar(&traceFile, "trace", "", "write an execution trace to `file`")
	f.Int64Var(&maxCycles, "max-cycles", 0, "stop after `n` instructions, 0 for no limit")
	tr.Bootstrap = cli.On
	tr.Progress = slog.LevelDebug
	tr.AddFlags(f)
}

func loadConfig(cmd *cobra.Command) error {
	if configFile == "" {
		return nil
	}
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if err = tr.Configure(c, f); err != nil {
		return errors.Wrap(err, configFile)
	}
	config.Int64(&maxCycles, c.MaxCycles, f.Changed("max-cycles"))
	return nil
}

// load loads the program in path, translating and assembling it as needed.
func load(path string) ([]hack.Cell, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat failed")
	}
	var src io.Reader
	name := path
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case !fi.IsDir() && ext == ".hack":
		slog.Debug("loading", "file", path)
		return hack.Load(path)
	case !fi.IsDir() && ext == ".asm":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open failed")
		}
		defer f.Close()
		src = f
	default:
		p, _, err := tr.Translate(path)
		if err != nil {
			return nil, err
		}
		src = bytes.NewReader(p.Bytes())
		name = strings.TrimSuffix(path, filepath.Ext(path)) + ".asm"
	}
	slog.Debug("assembling", "file", name)
	return asm.Assemble(name, src)
}

// setupIO tries to switch the terminal to raw mode. The returned function
// restores the terminal settings.
func setupIO() (raw bool, tearDown func()) {
	if noRawIO {
		return false, nil
	}
	tearDown, err := setRawIO()
	if err != nil {
		slog.Debug("raw terminal IO unavailable", "error", err)
		return false, nil
	}
	return true, tearDown
}

func run(path string, stdout io.Writer) (err error) {
	rom, err := load(path)
	if err != nil {
		return err
	}
	if outFileName != "" {
		if err = hack.Save(outFileName, rom); err != nil {
			return err
		}
		slog.Info("saved", "file", outFileName, "instructions", len(rom))
	}
	if disasm {
		return asm.DisassembleAll(rom, 0, stdout)
	}

	raw, tearDown := setupIO()
	if tearDown != nil {
		atexit.Register(tearDown)
		defer tearDown()
	}
	kbd := newKeyboard(os.Stdin, raw)
	opts := []hack.Option{
		hack.MaxCycles(maxCycles),
		hack.BindInHandler(hack.KBD, kbd.read),
	}
	if traceFile != "" {
		f, err := os.Create(traceFile)
		if err != nil {
			return errors.Wrap(err, "create failed")
		}
		defer f.Close()
		opts = append(opts, hack.Trace(f))
	}

	i, err := hack.New(rom, opts...)
	if err != nil {
		return err
	}
	err = i.Run()
	if errors.Cause(err) == io.EOF {
		err = nil
	}
	slog.Debug("done", "instructions", i.InstructionCount(), "pc", i.PC)
	if err != nil {
		if debug {
			fmt.Fprintln(os.Stderr)
			i.Dump(os.Stderr, hack.Cell(tr.StackBase))
			fmt.Fprint(os.Stderr, "@pc: ")
			if i.PC < len(i.ROM) {
				asm.Disassemble(i.ROM, i.PC, os.Stderr)
			}
			fmt.Fprintln(os.Stderr)
		}
		return err
	}
	if dump {
		printState(stdout, i, hack.Cell(tr.StackBase))
	}
	return nil
}

func main() {
	cli.Exit(rootCmd.Execute(), debug)
}
