package engine

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/atlasviz/papergraph/pkg/graph"
)

// Query identifies one request to the external data-service
// collaborator. Queries are comparable so they can key the result
// cache.
type Query struct {
	Mode        Mode
	Search      string
	SubjectArea string
	Limit       int
}

// Result is the payload a fetch resolves to.
type Result struct {
	Nodes []*graph.Node
	Edges []graph.Edge
}

// Fetcher is the black-box collaborator behind fetchGraphData and
// friends. Implementations own any retry or backoff policy; the loader
// issues each request exactly once.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (Result, error)
}

const loaderCacheSize = 32

// Loader coordinates fetches so responses apply in issue order. Every
// request gets a monotonic sequence number; a response arriving after a
// newer request has been issued is discarded, since applying it would
// rewind the view. Fetches are fire-and-forget goroutines delivering
// through the configured callbacks.
type Loader struct {
	mu      sync.Mutex
	fetch   Fetcher
	seq     uint64
	last    Query
	hasLast bool
	cache   *lru.Cache[Query, Result]

	// deliverMu is held across the staleness re-check and the callback
	// so a response that passed the check cannot land after a newer
	// response has already been applied.
	deliverMu sync.Mutex

	onResult func(Query, Result)
	onError  func(Query, error)
}

// NewLoader builds a loader delivering into the given callbacks, which
// typically route to Engine.SetData and Engine.SetError.
func NewLoader(f Fetcher, onResult func(Query, Result), onError func(Query, error)) *Loader {
	cache, _ := lru.New[Query, Result](loaderCacheSize)
	return &Loader{
		fetch:    f,
		cache:    cache,
		onResult: onResult,
		onError:  onError,
	}
}

// Load issues a fetch for the query. A cached result is delivered
// synchronously; otherwise the fetch runs in the background and its
// result is dropped if a newer Load has since been issued.
func (l *Loader) Load(ctx context.Context, q Query) {
	l.mu.Lock()
	l.seq++
	mine := l.seq
	l.last = q
	l.hasLast = true
	res, hit := l.cache.Get(q)
	l.mu.Unlock()
	if hit {
		l.deliver(q, mine, res, nil)
		return
	}

	go l.run(ctx, q, mine)
}

// Retry re-issues the most recent query, bypassing the cache. This is
// the manual retry affordance behind the rendered error state; the
// loader never retries on its own.
func (l *Loader) Retry(ctx context.Context) {
	l.mu.Lock()
	if !l.hasLast {
		l.mu.Unlock()
		return
	}
	q := l.last
	l.cache.Remove(q)
	l.seq++
	mine := l.seq
	l.mu.Unlock()

	go l.run(ctx, q, mine)
}

// Purge drops all cached results. Called when the underlying data
// source is known to have changed, e.g. on a dataset file reload.
func (l *Loader) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Purge()
}

func (l *Loader) run(ctx context.Context, q Query, mine uint64) {
	res, err := l.fetch.Fetch(ctx, q)
	l.deliver(q, mine, res, err)
}

func (l *Loader) deliver(q Query, mine uint64, res Result, err error) {
	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()

	l.mu.Lock()
	if mine != l.seq {
		// Late arrival: a newer request owns the view now.
		l.mu.Unlock()
		return
	}
	if err == nil {
		l.cache.Add(q, res)
	}
	l.mu.Unlock()

	if err != nil {
		l.onError(q, err)
		return
	}
	l.onResult(q, res)
}
