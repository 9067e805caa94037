// Package lexer tokenizes the SQL subset accepted by sqlmongo:
//
//	SELECT <fields|*> FROM <collection> [WHERE <boolean expression>]
//
// The tokenizer is a single-cursor scanner driven by the character
// classifier in classifier.go. Keywords are matched case-insensitively;
// AND/OR are rewritten to $and/$or and comparison operators to their
// query spelling ($gt, $gte, $lt, $lte, $eq, $ne) while scanning, so later
// stages never see raw SQL operators.
//
// Values are plain strings. The scanner does not distinguish numeric from
// string literals; a value right of a comparison may be quoted with ' or "
// and the quotes are kept in the lexeme.
//
// Every token carries the rune offset of its first character. Errors are
// *LexerError and carry the offset of the offending rune.
package lexer
