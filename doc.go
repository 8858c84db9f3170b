/*
Package stakk is a small stack-oriented scripting language.

Programs are sequences of expressions. Besides variables and functions, every
program has access to one operand stack of integers and a sparse register
table. Single-character commands operate directly on the stack, and control
constructs take their conditions from it. The following prints 0, 1 and 2:

	FUN count (n) {
	    ;0 ;1
	    WHL {
	        : .  ;10 ,
	        ;1 +
	        : ;n <
	    }
	    $
	}
	count(3)

Package structure is as follows:

■ stakklang: Package stakklang implements the lexer and the recursive-descent
parser producing an abstract syntax tree.

■ runtime: Package runtime provides values, lexical scopes, call frames and the
stack machine.

■ interp: Package interp implements a tree-walking interpreter.

■ scanner: Package scanner provides tokenizer infrastructure, with an adapter
for the lexmachine DFA generator in sub-package lexmach.

■ sparse: Package sparse provides a sparse integer vector used for registers.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package stakk
