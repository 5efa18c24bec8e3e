// Package expr implements the monitor's integer expression language.
//
// An expression is tokenized by an ordered rule table, then evaluated by
// repeatedly splitting the token range at its dominant operator: the
// operator outside any parentheses with the lowest precedence. The symbols
// '*' and '-' are lexed neutrally and rewritten to dereference and negation
// by their left context before evaluation begins.
//
// Operands are decimal or 0x-prefixed hex literals and $-prefixed machine
// registers. Values are 32-bit; arithmetic wraps in two's complement.
package expr
