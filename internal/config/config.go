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

// Package config loads the configuration file of the command line tools.
package config

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the translator and emulator settings. Pointer fields are nil
// when not set in the file.
type Config struct {
	Bootstrap    *bool   `yaml:"bootstrap"`
	Entry        *string `yaml:"entry"`
	StackBase    *int    `yaml:"stack_base"`
	ScopedLabels *bool   `yaml:"scoped_labels"`
	Comments     *bool   `yaml:"comments"`
	MaxCycles    *int64  `yaml:"max_cycles"`
}

// Read decodes a configuration from r. Unknown keys are an error.
func Read(r io.Reader) (*Config, error) {
	var c Config
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode failed")
	}
	return &c, nil
}

// Load loads the configuration file fileName.
func Load(fileName string) (*Config, error) {
	b, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	c, err := Read(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, fileName)
	}
	return c, nil
}

// Bool sets *dst to the value of v if v is not nil and the flag was not set
// on the command line.
func Bool(dst *bool, v *bool, flagSet bool) {
	if v != nil && !flagSet {
		*dst = *v
	}
}

// String is the string version of Bool.
func String(dst *string, v *string, flagSet bool) {
	if v != nil && !flagSet {
		*dst = *v
	}
}

// Int is the int version of Bool.
func Int(dst *int, v *int, flagSet bool) {
	if v != nil && !flagSet {
		*dst = *v
	}
}

// Int64 is the int64 version of Bool.
func Int64(dst *int64, v *int64, flagSet bool) {
	if v != nil && !flagSet {
		*dst = *v
	}
}
