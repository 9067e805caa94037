// Package translate is the entry point for SQL to MongoDB translation.
//
// A translation runs three stages over one query string:
//
//	tokenize   lexer.Tokenize     -> []lexer.Token
//	build plan parser.Build       -> *plan.QueryPlan
//	emit       mongo.Compile      -> db.<from>.find(...).project(...)
//
// The first failing stage ends the run. Its error is wrapped with the stage
// name and keeps the typed error underneath, so callers can use
// lexer.IsLexerError, parser.IsGrammarError, Position and Kind on anything
// this package returns.
//
// Translation is pure. A Translator holds only configuration and may be
// shared between goroutines; TranslateAll fans a batch out over a bounded
// worker pool.
package translate
