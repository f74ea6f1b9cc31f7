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

package codegen

// Counter generates ids for labels. The zero value is ready to use.
//
// A single Counter must be shared by all the units of a program.
type Counter struct {
	n uint
}

// Next returns the next id.
func (c *Counter) Next() uint {
	n := c.n
	c.n++
	return n
}

// Peek returns the id that the next call to Next will return.
func (c *Counter) Peek() uint {
	return c.n
}
