package translate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/sqlmongo/internal/history"
	"github.com/roach88/sqlmongo/internal/lexer"
	"github.com/roach88/sqlmongo/internal/mongo"
	"github.com/roach88/sqlmongo/internal/parser"
	"github.com/roach88/sqlmongo/internal/plan"
)

// DefaultWorkers is the TranslateAll pool size when none is configured.
const DefaultWorkers = 4

// Recorder receives one entry per translation. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Result holds every intermediate product of one translation.
type Result struct {
	Query   string
	Tokens  []lexer.Token
	Plan    *plan.QueryPlan
	Command string
}

// BatchResult is the outcome of one query in a TranslateAll batch.
type BatchResult struct {
	Index   int
	Query   string
	Command string
	Err     error
}

// Translator runs the translation pipeline.
type Translator struct {
	logger   *slog.Logger
	recorder Recorder
	workers  int
	compiler *mongo.ShellCompiler
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithRecorder records every translation, successful or not.
func WithRecorder(r Recorder) Option {
	return func(t *Translator) {
		t.recorder = r
	}
}

// WithWorkers sets the TranslateAll pool size. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.workers = n
		}
	}
}

// New creates a Translator.
func New(opts ...Option) *Translator {
	t := &Translator{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers:  DefaultWorkers,
		compiler: mongo.NewShellCompiler(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate converts one query with a default Translator.
func Translate(query string) (string, error) {
	return New().Translate(query)
}

// Translate converts one query to a MongoDB shell command.
func (t *Translator) Translate(query string) (string, error) {
	return t.TranslateContext(context.Background(), query)
}

// TranslateContext is Translate with a context for the recorder.
func (t *Translator) TranslateContext(ctx context.Context, query string) (string, error) {
	res, err := t.ExplainContext(ctx, query)
	if err != nil {
		return "", err
	}
	return res.Command, nil
}

// Explain runs the pipeline and returns every stage's output. On error the
// Result holds whatever the completed stages produced.
func (t *Translator) Explain(query string) (*Result, error) {
	return t.ExplainContext(context.Background(), query)
}

// ExplainContext is Explain with a context for the recorder.
func (t *Translator) ExplainContext(ctx context.Context, query string) (*Result, error) {
	res, err := t.run(query)
	t.record(ctx, res, err)
	return res, err
}

func (t *Translator) run(query string) (*Result, error) {
	res := &Result{Query: query}

	tokens, err := lexer.Tokenize(query)
	if err != nil {
		t.fail(query, "tokenize", err)
		return res, fmt.Errorf("tokenize: %w", err)
	}
	res.Tokens = tokens
	t.logger.Debug("tokenized", "query", query, "tokens", len(tokens))

	qp, err := parser.Build(tokens)
	if err != nil {
		t.fail(query, "build plan", err)
		return res, fmt.Errorf("build plan: %w", err)
	}
	res.Plan = qp
	t.logger.Debug("plan built",
		"query", query,
		"collection", qp.From,
		"fields", len(qp.Select),
		"filter", qp.HasFilter(),
	)

	cmd, err := t.compiler.Compile(qp)
	if err != nil {
		t.fail(query, "emit", err)
		return res, fmt.Errorf("emit: %w", err)
	}
	res.Command = cmd
	t.logger.Debug("emitted", "query", query, "command", cmd)

	return res, nil
}

func (t *Translator) fail(query, stage string, err error) {
	attrs := []any{"query", query, "stage", stage, "error", Message(err)}
	if pos, ok := Position(err); ok {
		attrs = append(attrs, "pos", pos)
	}
	t.logger.Warn("translation failed", attrs...)
}

// record hands the outcome to the recorder. A recorder failure is logged and
// does not change the translation result.
func (t *Translator) record(ctx context.Context, res *Result, err error) {
	if t.recorder == nil {
		return
	}

	e := history.Entry{
		Query:    res.Query,
		Command:  res.Command,
		ErrorPos: history.NoPosition,
	}
	if err != nil {
		e.ErrorKind = string(Kind(err))
		e.ErrorMessage = Message(err)
		if pos, ok := Position(err); ok {
			e.ErrorPos = pos
		}
	}

	if rerr := t.recorder.Record(ctx, e); rerr != nil {
		t.logger.Warn("history record failed", "query", res.Query, "error", rerr)
	}
}

// TranslateAll translates queries on a pool of workers. Results are returned
// in input order. Once ctx is done no further queries are started and every
// query not yet started gets ctx.Err().
func (t *Translator) TranslateAll(ctx context.Context, queries []string) []BatchResult {
	results := make([]BatchResult, len(queries))
	for i, q := range queries {
		results[i] = BatchResult{Index: i, Query: q}
	}
	if len(queries) == 0 {
		return results
	}

	workers := t.workers
	if workers > len(queries) {
		workers = len(queries)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each worker owns results[i] for the jobs it receives.
				cmd, err := t.TranslateContext(ctx, queries[i])
				results[i].Command = cmd
				results[i].Err = err
			}
		}()
	}

	next := 0
dispatch:
	for ; next < len(queries); next++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(queries); i++ {
		results[i].Err = ctx.Err()
	}

	t.logger.Debug("batch finished", "queries", len(queries), "dispatched", next, "workers", workers)
	return results
}
