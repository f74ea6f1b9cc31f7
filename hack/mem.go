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

package hack

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/hackvm/internal/errw"
	"github.com/pkg/errors"
)

// Read reads a program in the .hack text format: one instruction per line,
// written as 16 binary digits. Blank lines are ignored.
func Read(r io.Reader) ([]Cell, error) {
	var rom []Cell
	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		t := strings.TrimSpace(s.Text())
		if t == "" {
			continue
		}
		if len(t) != 16 {
			return nil, errors.Errorf("line %d: expected 16 binary digits, got %q", line, t)
		}
		v, err := strconv.ParseUint(t, 2, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if len(rom) == ROMSize {
			return nil, errors.Errorf("line %d: program too large", line)
		}
		rom = append(rom, Cell(uint16(v)))
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	return rom, nil
}

// Write writes a program in the .hack text format.
func Write(w io.Writer, rom []Cell) error {
	ew := errw.New(w)
	for _, v := range rom {
		s := strconv.FormatUint(uint64(uint16(v)), 2)
		io.WriteString(ew, strings.Repeat("0", 16-len(s)))
		io.WriteString(ew, s)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			break
		}
	}
	return ew.Err
}

// Load loads a program from file fileName.
func Load(fileName string) ([]Cell, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer f.Close()
	rom, err := Read(f)
	if err != nil {
		return nil, errors.Wrap(err, fileName)
	}
	return rom, nil
}

// Save saves a program to file fileName.
func Save(fileName string, rom []Cell) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	w := bufio.NewWriter(f)
	defer func() {
		if e := w.Flush(); err == nil && e != nil {
			err = errors.Wrap(e, "flush failed")
		}
		f.Close()
		// delete file on error
		if err != nil {
			os.Remove(fileName)
		}
	}()
	return errors.Wrap(Write(w, rom), "save failed")
}
