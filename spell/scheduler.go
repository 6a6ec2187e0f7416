package spell

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iw2rmb/spelltree/doctree"
)

const (
	// DefaultDebounce is the quiet window after the last edit before a
	// check is issued.
	DefaultDebounce = 500 * time.Millisecond

	defaultRequestTimeout = 10 * time.Second
)

// Checker is the external spell-check provider contract.
type Checker interface {
	Check(ctx context.Context, text string) ([]ErrorSpan, error)
}

// Result is one checker outcome, stamped with the document version at the
// time the check was issued. The Reconciler compares the stamp against the
// current version before touching the tree.
type Result struct {
	Spans   []ErrorSpan
	Version uint64
}

type Config struct {
	// Debounce is the trailing-edge delay; default DefaultDebounce.
	Debounce time.Duration

	// RequestTimeout bounds a single checker call; default 10s.
	RequestTimeout time.Duration

	Checker Checker

	// Cache is required; construct one per editing session.
	Cache *Cache

	// Log receives provider failures and debug notes. Nil disables.
	Log *slog.Logger
}

// Scheduler debounces edits into a single trailing check against the
// injected Checker, with a synchronous normalized-text cache in front of
// it. It owns one cancellable timer; every edit restarts it. An issued
// network call is never cancelled: if the document moves on, the stamped
// version lets the Reconciler discard the late result instead.
type Scheduler struct {
	tree *doctree.Tree
	cfg  Config

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	ignored map[string]struct{}

	results chan Result
}

func NewScheduler(tree *doctree.Tree, cfg Config) *Scheduler {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Cache == nil {
		cfg.Cache = NewCache()
	}
	return &Scheduler{
		tree:    tree,
		cfg:     cfg,
		ignored: make(map[string]struct{}),
		results: make(chan Result, 1),
	}
}

// Results delivers checker outcomes. The channel holds the latest result
// only; an undrained result is replaced, never queued behind. Stop closes
// the channel.
func (s *Scheduler) Results() <-chan Result { return s.results }

// NoteEdit restarts the debounce window. Call it from the tree's change
// hook for every user edit.
func (s *Scheduler) NoteEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.Debounce, s.fire)
}

// CheckNow bypasses the debounce window and issues a check immediately,
// cancelling any pending timer.
func (s *Scheduler) CheckNow() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.fire()
}

// Stop cancels the pending timer and closes the results channel, ending
// any listener blocked on it. An in-flight checker call is left to
// complete; its result is dropped. Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	close(s.results)
}

// AddIgnoreWords adds words to the session ignore set. Matching is
// case-insensitive; ignored words are filtered out of every result,
// cached or fresh.
func (s *Scheduler) AddIgnoreWords(words ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range words {
		w = Normalize(w)
		if w == "" {
			continue
		}
		s.ignored[w] = struct{}{}
	}
}

// IgnoreLeaf records the flagged leaf's word in the ignore set and returns
// the leaf to the plain state.
func (s *Scheduler) IgnoreLeaf(l *doctree.Leaf) error {
	s.AddIgnoreWords(l.Text())
	return Ignore(s.tree, l)
}

// CheckText checks text through the cache-then-provider path. Blank text
// short-circuits to an empty result without consulting the provider.
// Provider failure is logged and mapped to an empty result; CheckText
// never returns an error.
func (s *Scheduler) CheckText(ctx context.Context, text string) []ErrorSpan {
	if Normalize(text) == "" {
		return nil
	}
	if spans, ok := s.cfg.Cache.Get(text); ok {
		return s.filterIgnored(spans)
	}
	if s.cfg.Checker == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	spans, err := s.cfg.Checker.Check(ctx, text)
	if err != nil {
		// Unreachable provider is non-fatal and not retried; the next
		// edit naturally re-triggers a check. Failures are not cached.
		if s.cfg.Log != nil {
			s.cfg.Log.Warn("spell-check provider failed", "err", err)
		}
		return nil
	}
	s.cfg.Cache.Put(text, spans)
	return s.filterIgnored(spans)
}

// fire runs on the debounce timer goroutine: it snapshots text and version
// together, runs the check, and publishes the stamped result.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	text, version := s.tree.Snapshot()
	spans := s.CheckText(context.Background(), text)
	s.deliver(Result{Spans: spans, Version: version})
}

func (s *Scheduler) deliver(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	for {
		select {
		case s.results <- r:
			return
		default:
		}
		// Latest result wins; drop the undrained one.
		select {
		case <-s.results:
		default:
		}
	}
}

func (s *Scheduler) filterIgnored(spans []ErrorSpan) []ErrorSpan {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ignored) == 0 {
		return spans
	}
	out := spans[:0]
	for _, es := range spans {
		if _, skip := s.ignored[Normalize(es.Word)]; skip {
			continue
		}
		out = append(out, es)
	}
	return out
}
