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

// Package source loads VM source files into cleaned instruction lines.
package source

import (
	"bufio"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/db47h/hackvm/vmcode"
	"github.com/pkg/errors"
)

// Ext is the extension of VM source files.
const Ext = ".vm"

// Unit is a VM source file.
type Unit struct {
	Name  string // file name without extension
	Path  string
	Lines []vmcode.Line
}

// Clean reads VM source from r and returns the non-blank lines with comments
// removed and surrounding blanks trimmed. Both // line comments and /* */
// block comments are supported. Line numbers are those of the source.
func Clean(r io.Reader) ([]vmcode.Line, error) {
	var (
		lines   []vmcode.Line
		inBlock bool
	)
	s := bufio.NewScanner(r)
	for n := 1; s.Scan(); n++ {
		var b strings.Builder
		t := s.Text()
		for len(t) > 0 {
			if inBlock {
				i := strings.Index(t, "*/")
				if i < 0 {
					t = ""
					break
				}
				t = t[i+2:]
				inBlock = false
				// the comment separates tokens
				b.WriteByte(' ')
				continue
			}
			i := strings.Index(t, "/")
			if i < 0 || i == len(t)-1 {
				b.WriteString(t)
				break
			}
			b.WriteString(t[:i])
			switch t[i+1] {
			case '/':
				t = ""
			case '*':
				inBlock = true
				t = t[i+2:]
			default:
				b.WriteByte('/')
				t = t[i+1:]
			}
		}
		if l := strings.TrimSpace(b.String()); l != "" {
			lines = append(lines, vmcode.Line{Num: n, Text: l})
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	if inBlock {
		return lines, errors.New("unterminated block comment")
	}
	return lines, nil
}

// LoadFile loads the VM source file fileName.
func LoadFile(fileName string) (*Unit, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer f.Close()
	lines, err := Clean(f)
	if err != nil {
		return nil, errors.Wrap(err, fileName)
	}
	base := filepath.Base(fileName)
	return &Unit{
		Name:  strings.TrimSuffix(base, filepath.Ext(base)),
		Path:  fileName,
		Lines: lines,
	}, nil
}

// LoadDir loads all VM source files in directory dir, sorted by name.
// Subdirectories are ignored.
func LoadDir(dir string) ([]*Unit, error) {
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read directory failed")
	}
	var units []*Unit
	for _, fi := range fis {
		if fi.IsDir() || filepath.Ext(fi.Name()) != Ext {
			continue
		}
		u, err := LoadFile(filepath.Join(dir, fi.Name()))
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if len(units) == 0 {
		return nil, errors.Errorf("%s: no %s files found", dir, Ext)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units, nil
}

// Load loads a single VM file or all the VM files in a directory. dir is true
// if path is a directory.
func Load(path string) (units []*Unit, dir bool, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, false, errors.Wrap(err, "stat failed")
	}
	if fi.IsDir() {
		units, err = LoadDir(path)
		return units, true, err
	}
	u, err := LoadFile(path)
	if err != nil {
		return nil, false, err
	}
	return []*Unit{u}, false, nil
}

// Output returns the name of the assembly file for the given input path. For
// a directory, this is a file named after the directory, within the directory.
// For a file, the extension is replaced with ".asm".
func Output(path string, dir bool) string {
	if dir {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = filepath.Clean(path)
		}
		return filepath.Join(path, filepath.Base(abs)+".asm")
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".asm"
}
