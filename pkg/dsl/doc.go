// Package dsl reads loop diagram source text into vertex and link pools.
//
// # Language
//
// A program is a sequence of statements, each a chain of vertices joined by
// arrows and terminated by a semicolon:
//
//	Statement := Vertex (Arrow Vertex)* ';'
//	Vertex    := '@' Name ( '(' Text ')' | '[' Text ']' ) | Name
//	Arrow     := ['||'] ['+' | '-'] '>'
//
// An alias definition (@Name(Text)) introduces a vertex with a display text;
// the bracket form [Text] additionally draws a frame around it. A bare Name
// refers to a vertex defined anywhere in the program. The arrow prefix sets
// the polarity of the link (+ positive, - negative, none default) and the
// optional || marks it as delayed.
//
//	@births(Births) +> @population[Population] +> births;
//	population +> @deaths(Deaths) -> population;
//	deaths ||-> population;
//
// # Resolution
//
// Each statement is resolved with a two-operator precedence scheme: alias
// definitions bind tighter than arrows, and operators of equal priority are
// applied right to left. The chain a > b > c therefore records the link b→c
// before a→b. [Translate] runs the whole program and only then checks that
// every referenced name was defined, so a name may be used before the
// statement that defines it.
//
// # Errors
//
// All failures are *errors.Error values carrying the byte offset of the
// offending input; [LineCol] converts it for display. Translation stops at
// the first failure.
package dsl
