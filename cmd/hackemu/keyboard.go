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
	"io"

	"github.com/db47h/hackvm/hack"
)

// Hack key codes.
const (
	keyNewline   = 128
	keyBackspace = 129
	keyEsc       = 140
)

// keyboard feeds the bytes read from an io.Reader to the KBD register. Each
// key is reported by a single read of KBD, following reads return 0 until the
// next key arrives.
type keyboard struct {
	keys chan byte
	raw  bool
}

func newKeyboard(r io.Reader, raw bool) *keyboard {
	k := &keyboard{keys: make(chan byte, 64), raw: raw}
	go k.pump(r)
	return k
}

func (k *keyboard) pump(r io.Reader) {
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n > 0 {
			k.keys <- b[0]
		}
		if err != nil {
			close(k.keys)
			return
		}
	}
}

func keyCode(c byte) hack.Cell {
	switch c {
	case '\r', '\n':
		return keyNewline
	case 8, 127:
		return keyBackspace
	case 27:
		return keyEsc
	}
	return hack.Cell(c)
}

// read is the KBD input handler.
func (k *keyboard) read(i *hack.Instance, addr hack.Cell) (hack.Cell, error) {
	var v hack.Cell
	select {
	case c, ok := <-k.keys:
		// in raw tty mode, we need to handle CTRL-D ourselves
		if ok && c == 4 && k.raw {
			return 0, io.EOF
		}
		if ok {
			v = keyCode(c)
		}
	default:
	}
	i.Poke(addr, v)
	return v, nil
}
