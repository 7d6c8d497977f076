package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/michela/coach/internal/cache"
	"github.com/michela/coach/internal/docstore/memory"
	"github.com/michela/coach/internal/pubmed"
	"github.com/michela/coach/internal/store"
)

// --- Fakes ---

type fakeLLM struct {
	calls   atomic.Int32
	reply   string
	err     error
	release chan struct{}

	mu      sync.Mutex
	prompts []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

// fakeTranslator fails its first failFirst calls and always fails texts in failTexts.
// Successful translations are prefixed with the target language.
type fakeTranslator struct {
	mu        sync.Mutex
	calls     int
	failFirst int
	failTexts map[string]bool
}

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failFirst || f.failTexts[text] {
		return "", errors.New("translate unavailable")
	}
	return "[" + target + "] " + text, nil
}

type fakeSearcher struct {
	mu          sync.Mutex
	searchCalls int
	terms       []string
	ids         []string
	total       int
	meta        map[string]pubmed.Metadata
	abstracts   map[string]pubmed.Abstract
	err         error
}

func (f *fakeSearcher) Search(ctx context.Context, term string, offset, pageSize int, sort string) ([]string, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	f.terms = append(f.terms, term)
	if f.err != nil {
		return nil, 0, f.err
	}
	ids := f.ids
	if len(ids) > pageSize {
		ids = ids[:pageSize]
	}
	return ids, f.total, nil
}

func (f *fakeSearcher) FetchMetadata(ctx context.Context, ids []string) (map[string]pubmed.Metadata, error) {
	out := map[string]pubmed.Metadata{}
	for _, id := range ids {
		if m, ok := f.meta[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (f *fakeSearcher) FetchAbstract(ctx context.Context, id string) (pubmed.Abstract, error) {
	a, ok := f.abstracts[id]
	if !ok {
		return pubmed.Abstract{}, pubmed.ErrNoArticle
	}
	return a, nil
}

func newStore() store.Store { return store.New(memory.New()) }

func newCache(clk *fakeClock) *cache.Cache { return cache.New("test", cache.WithClock(clk.Now)) }
