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

// The vmtranslator command translates VM code to Hack assembly.
//
// Usage:
//
//	vmtranslator [flags] path
//	vmtranslator tree [flags] path
//
// If path is a directory, all the .vm files it contains are translated, in
// lexical order, into a single file named after the directory, with the .asm
// extension, in that same directory. If path is a file, the output file has
// the same name as the input, with the .asm extension. The -o flag overrides
// the output file name.
//
// Flags:
//
//	--bootstrap[=true|false|auto]
//		emit bootstrap code. auto, the default, enables it for directories
//	--comments
//		annotate the output with the VM commands
//	--config file
//		load settings from a YAML file
//	--debug
//		print stack traces along with errors
//	--entry function
//		function called by the bootstrap code (default "Sys.init")
//	-o, --output file
//		output file
//	--scoped-labels[=true|false]
//		qualify labels with their function name (default true). When
//		disabled, labels are global and must be unique in the whole program
//	--stack-base address
//		initial stack pointer set by the bootstrap code (default 256)
//	-s, --summary
//		print a summary table of the translated units
//	-v, --verbose
//		enable debug logging
//
// Flags set on the command line take precedence over the configuration file.
// The configuration keys are bootstrap, entry, stack_base, scoped_labels and
// comments:
//
//	bootstrap: true
//	entry: Main.main
//	scoped_labels: false
//
// The tree sub-command prints the units of the program, the functions they
// define along with their number of local variables, and the functions each of
// them calls.
package main
