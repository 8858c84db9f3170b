/*
Package runtime implements an interpreter runtime, consisting of
values, scopes, call frames and the stack machine.

For a thorough discussion of an interpreter's runtime environment, refer to
"Language Implementation Patterns" by Terence Parr.

Values

Values are numbers, strings, functions and null. Functions close over the
scope active at their declaration.

Symbol Table and Scopes

This module implements scopes, each holding a symbol table. Scopes link back
to their parent scope, forming a tree. Variables are resolved by searching
the scope chain outwards.

Memory Frames

This module implements a stack of memory frames.
Memory frames are used by an interpreter to track active function calls.

Stack Machine

The stack machine holds the operand stack of integers and a sparse register
table. It is shared by all evaluations of one interpreter.


----------------------------------------------------------------------

BSD License

Copyright (c) 2017-22, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software or the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package runtime

import (
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the runtime tracer
func T() tracing.Trace {
	return tracing.Select("stakk.runtime")
}

// Runtime is a type implementing a runtime environment for an interpreter
type Runtime struct {
	Globals       *Scope            // root scope with predefined constants
	MemFrameStack *MemoryFrameStack // runtime stack of call frames
	Machine       *StackMachine     // operand stack and registers
}

// NewRuntimeEnvironment constructs
// a new runtime environment, initialized. The global scope is populated with
// the predefined constants.
//
func NewRuntimeEnvironment() *Runtime {
	rt := &Runtime{}
	rt.Globals = NewScope("globals", nil)
	DefineConstants(rt.Globals)
	rt.MemFrameStack = new(MemoryFrameStack)
	rt.Machine = NewStackMachine()
	return rt
}

// DefineConstants defines the predefined constants in scope sc.
func DefineConstants(sc *Scope) {
	sc.Set("No", Number(0))
	sc.Set("Yes", Number(1))
	sc.Set("Nil", Nil)
	sc.Set("Number_t", Number(NumberType))
	sc.Set("String_t", Number(StringType))
	sc.Set("Fun_t", Number(FunctionType))
	sc.Set("Nil_t", Number(NullType))
}
