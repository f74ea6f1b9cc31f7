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

import "github.com/pkg/errors"

// InHandler is the function prototype for memory mapped input handlers. It
// returns the value read at addr.
type InHandler func(i *Instance, addr Cell) (Cell, error)

// OutHandler is the function prototype for memory mapped output handlers. It
// is called whenever the program writes v at addr.
type OutHandler func(i *Instance, v, addr Cell) error

// BindInHandler binds the provided input handler to the given address.
//
// Without a handler, reading a memory location simply returns the value
// stored in RAM. Custom handlers do not strictly need to interact with RAM.
// It is however recommended that they store the value they return in
// RAM[addr] so that Peek reports the same thing as the running program.
func BindInHandler(addr Cell, handler InHandler) Option {
	return func(i *Instance) error {
		i.inH[addr] = handler
		return nil
	}
}

// BindOutHandler binds the provided output handler to the given address.
//
// The default behavior just stores the given value in RAM[addr]. A custom
// handler replaces it entirely: it must store the value itself if needed.
func BindOutHandler(addr Cell, handler OutHandler) Option {
	return func(i *Instance) error {
		i.outH[addr] = handler
		return nil
	}
}

// Keyboard binds an input handler to the KBD memory location that returns the
// values produced by the key function. key should return 0 when no key is
// pressed.
func Keyboard(key func() Cell) Option {
	return BindInHandler(KBD, func(i *Instance, addr Cell) (Cell, error) {
		v := key()
		i.RAM[addr] = v
		return v, nil
	})
}

func (i *Instance) index(addr Cell) (int, error) {
	n := int(uint16(addr))
	if n >= len(i.RAM) {
		return 0, errors.Errorf("address %d out of range @pc=%d", n, i.PC)
	}
	return n, nil
}

func (i *Instance) read(addr Cell) (Cell, error) {
	n, err := i.index(addr)
	if err != nil {
		return 0, err
	}
	if h := i.inH[addr]; h != nil {
		return h(i, addr)
	}
	return i.RAM[n], nil
}

func (i *Instance) write(addr, v Cell) error {
	n, err := i.index(addr)
	if err != nil {
		return err
	}
	if h := i.outH[addr]; h != nil {
		return h(i, v, addr)
	}
	i.RAM[n] = v
	return nil
}
