// Package loader holds the state of a single post view: the key being shown,
// the loaded post (nil when unset) and whether a fetch is in flight.
package loader

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mithrel/blogview/pkg/api"
)

// Fetcher reads one post. *client.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, key api.Key) (api.Post, error)
}

// TriggerMode decides which key changes start a new fetch.
type TriggerMode int

const (
	// TriggerComposite refetches when either the id or the slug changes.
	TriggerComposite TriggerMode = iota
	// TriggerIDOnly refetches only on id changes; a slug-only change keeps the current post.
	TriggerIDOnly
)

// State is a snapshot of the view. Seq counts issued fetches.
type State struct {
	Key     api.Key
	Post    *api.Post
	Loading bool
	Seq     uint64
}

type Loader struct {
	fetcher  Fetcher
	log      *zap.Logger
	mode     TriggerMode
	onChange func(State)

	mu      sync.Mutex
	key     api.Key
	hasKey  bool
	seq     uint64
	post    *api.Post
	loading bool
	cancel  context.CancelFunc
	done    chan struct{}
	closed  bool
}

type Option func(*Loader)

func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

func WithTrigger(m TriggerMode) Option {
	return func(ld *Loader) { ld.mode = m }
}

// WithOnChange registers a callback run after every state transition.
// It is called outside the loader's lock, possibly from a fetch goroutine.
func WithOnChange(fn func(State)) Option {
	return func(ld *Loader) { ld.onChange = fn }
}

// New returns a Loader in the initial loading state.
func New(f Fetcher, opts ...Option) *Loader {
	l := &Loader{fetcher: f, log: zap.NewNop(), loading: true}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Update points the view at key. If the key changed under the trigger mode
// (or no key was set yet) the current post is discarded, any in-flight fetch
// is cancelled and exactly one new fetch starts in the background.
// It reports whether a fetch was started.
func (l *Loader) Update(ctx context.Context, key api.Key) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	if l.hasKey && !l.changed(key) {
		l.key = key
		l.mu.Unlock()
		return false
	}
	l.hasKey = true
	l.key = key
	l.seq++
	seq := l.seq
	if l.cancel != nil {
		l.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.post = nil
	l.loading = true
	done := make(chan struct{})
	l.done = done
	st := l.stateLocked()
	l.mu.Unlock()

	l.notify(st)
	go l.run(fctx, cancel, seq, key, done)
	return true
}

func (l *Loader) changed(key api.Key) bool {
	if l.mode == TriggerIDOnly {
		return key.ID != l.key.ID
	}
	return key != l.key
}

func (l *Loader) run(ctx context.Context, cancel context.CancelFunc, seq uint64, key api.Key, done chan struct{}) {
	defer close(done)
	defer cancel()

	p, err := l.fetcher.Fetch(ctx, key)

	l.mu.Lock()
	if seq != l.seq || l.closed {
		l.mu.Unlock()
		l.log.Debug("dropping stale post response",
			zap.String("id", key.ID), zap.String("slug", key.Slug), zap.Uint64("seq", seq))
		return
	}
	if err != nil {
		l.log.Warn("error fetching blog post",
			zap.String("id", key.ID), zap.String("slug", key.Slug), zap.Error(err))
		l.post = nil
	} else {
		l.post = &p
	}
	l.loading = false
	l.cancel = nil
	st := l.stateLocked()
	l.mu.Unlock()

	l.notify(st)
}

// Load updates the key and waits for the resulting fetch (if any).
func (l *Loader) Load(ctx context.Context, key api.Key) State {
	l.Update(ctx, key)
	_ = l.Wait(ctx)
	return l.State()
}

// Wait blocks until the latest fetch has finished or ctx is done.
func (l *Loader) Wait(ctx context.Context) error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

func (l *Loader) stateLocked() State {
	st := State{Key: l.key, Loading: l.loading, Seq: l.seq}
	if l.post != nil {
		cp := *l.post
		st.Post = &cp
	}
	return st
}

// Close tears the view down: in-flight work is cancelled, the post discarded
// and later Updates are ignored.
func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.post = nil
	l.mu.Unlock()
}

func (l *Loader) notify(st State) {
	if l.onChange != nil {
		l.onChange(st)
	}
}
