/*
Command stakk runs stakk programs and provides an interactive REPL.

Usage:

	stakk [flags] SRC           run a program file or source text
	stakk [flags]               start the REPL
	stakk [flags] run SRC       run a program file or source text
	stakk [flags] repl          start the REPL
	stakk [flags] tokens SRC    dump the tokens of a program file or source text
	stakk [flags] ast SRC       display the syntax tree of a program
	stakk [flags] grammar       print the grammar of the language

Flags are --trace LEVEL (Error, Info or Debug) and --config FILE, naming a
YAML file with configuration settings. Configuration keys are

	tracing.adapter         tracing backend, defaults to 'go'
	tracelevel.root         default trace level
	tracelevel.stakk.*      trace level of a package, e.g. tracelevel.stakk.interp
	repl.prompt             prompt of the REPL
	repl.history            file for the REPL history

Configuration files in NestedText format named 'stakk.nt' are looked up at
the usual places for configuration files.

stakk exits with code 0 if a program completes or halts, and with code 1
after an error.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'stakk.cli'
func tracer() tracing.Trace {
	return tracing.Select("stakk.cli")
}
