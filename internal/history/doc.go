// Package history records translation runs in a SQLite database.
//
// Each call to Store.Record writes one Entry: the query text and either the
// emitted command or the error that stopped translation. Entries carry a
// UUIDv7 ID and a seq value from a logical clock that resumes from the
// highest stored seq when the database is reopened, so List returns runs in
// the order they were recorded across sessions.
//
// The database uses WAL mode with a single connection:
//
//	s, err := history.Open("history.db")
//	if err != nil { ... }
//	defer s.Close()
//	err = s.Record(ctx, history.Entry{Query: q, Command: cmd})
package history
