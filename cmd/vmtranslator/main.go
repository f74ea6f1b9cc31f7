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
	"bufio"
	"log/slog"
	"os"

	"github.com/db47h/hackvm/codegen"
	"github.com/db47h/hackvm/internal/cli"
	"github.com/db47h/hackvm/internal/config"
	"github.com/db47h/hackvm/internal/source"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	debug       bool
	verbose     bool
	summary     bool
	configFile  string
	outFileName string
	tr          = cli.NewTranslator()
)

var rootCmd = &cobra.Command{
	Use:   "vmtranslator [flags] path",
	Short: "Translate VM code to Hack assembly",
	Long: `vmtranslator translates a VM file, or all the VM files in a directory,
into a single Hack assembly file.

For a directory named Prog, the output is Prog/Prog.asm and the bootstrap code
calling Sys.init is enabled by default. For a single file Prog.vm, the output
is Prog.asm in the same directory, without bootstrap code.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cli.SetupLogging(os.Stderr, verbose)
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		p, dir, err := tr.Translate(args[0])
		if err != nil {
			return err
		}
		if outFileName == "" {
			outFileName = source.Output(args[0], dir)
		}
		slog.Info("writing", "file", outFileName, "bytes", p.Len())
		if err = writeFile(outFileName, p); err != nil {
			return err
		}
		if summary {
			printSummary(os.Stdout, p)
		}
		return nil
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.BoolVar(&debug, "debug", false, "print stack traces along with errors")
	f.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	f.StringVar(&configFile, "config", "", "load settings from YAML `file`")
	tr.AddFlags(f)
	f.BoolVar(&tr.Comments, "comments", false, "annotate the output with the VM commands")

	rootCmd.Flags().StringVarP(&outFileName, "output", "o", "", "output `file`")
	rootCmd.Flags().BoolVarP(&summary, "summary", "s", false, "print a summary of the translated units")
}

// loadConfig applies the settings of the configuration file that were not
// set on the command line.
func loadConfig(cmd *cobra.Command) error {
	if configFile == "" {
		return nil
	}
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err = tr.Configure(c, cmd.Flags()); err != nil {
		return errors.Wrap(err, configFile)
	}
	slog.Debug("configuration loaded", "file", configFile)
	return nil
}

// writeFile writes the program's assembly to fileName. The file is removed
// on error.
func writeFile(fileName string, p *codegen.Program) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	w := bufio.NewWriter(f)
	defer func() {
		if e := w.Flush(); err == nil && e != nil {
			err = errors.Wrap(e, "flush failed")
		}
		if e := f.Close(); err == nil && e != nil {
			err = errors.Wrap(e, "close failed")
		}
		if err != nil {
			os.Remove(fileName)
		}
	}()
	_, err = p.WriteTo(w)
	return err
}

func main() {
	cli.Exit(rootCmd.Execute(), debug)
}
