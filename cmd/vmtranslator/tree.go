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
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/db47h/hackvm/codegen"
	"github.com/m1gwings/treedrawer/tree"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree path",
	Short: "Print the units, functions and calls of a VM program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := tr.Translate(args[0])
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(args[0])
		if err != nil {
			abs = args[0]
		}
		return printTree(cmd.OutOrStdout(), filepath.Base(abs), p)
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

// programTree builds a tree with one node per unit, its functions as children
// and the functions they call as leaves.
func programTree(name string, p *codegen.Program) *tree.Tree {
	t := tree.NewTree(tree.NodeString(name))
	for _, u := range p.Units() {
		ut := t.AddChild(tree.NodeString(u.Name))
		for _, f := range u.Functions {
			ft := ut.AddChild(tree.NodeString(f.Name + " [" + strconv.Itoa(f.Locals) + "]"))
			for _, c := range f.Calls {
				ft.AddChild(tree.NodeString(c))
			}
		}
	}
	return t
}

func printTree(w io.Writer, name string, p *codegen.Program) error {
	_, err := fmt.Fprintln(w, programTree(name, p))
	return err
}
