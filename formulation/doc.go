/*
Package formulation implements the formula micro-language: its tokenizer,
its recursive-descent parser, the tree the parser builds, and the signature
keys used to look commands up in rewrite tables.

# Syntax

A formulation is a sequence of juxtaposed items:

	x + y                     identifiers and operators
	\set.in/                  an infix command (trailing `/`)
	\function[x]_a^b{y}(z):where{w}
	                          a command part with every kind of argument
	\and{form}...             a variadic curly group
	f(x...)                   a variadic parameter
	x, y is \set              a special form

Commands are backslash-prefixed dotted paths. Each part may carry a square
group, a subscript and superscript, curly groups, one paren group and named
groups written `:name{...}{...}`. A part written `.+` or `.^` after a period
ends the command.

# Special forms

`is`, `:=` and `::=` split the expression they appear in into left and
right Parameters, one item per comma separated run. Only one of them may
appear at the top level of an expression; later ones are reported and end
up nested inside the right-hand side.

# Errors

Neither the lexer nor the parser stops on bad input. Problems are returned
as Diagnostic values and placeholders with an unknown position stand in for
missing tokens, so a tree is always produced.

# Usage

	root, diags := formulation.Parse(`X \set.in/ Y`)
	op, _ := formulation.AsOperator(root)
	sig, _ := formulation.Signature(op) // `\set.in/`
*/
package formulation
