package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"padhai-karo/internal/domain"
)

// fakeCompletionClient scripts completions by prompt content and counts how
// often the backend was reached.
type fakeCompletionClient struct {
	mu      sync.Mutex
	calls   int
	respond func(prompt string) (string, error)
}

func (f *fakeCompletionClient) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeCompletionClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeCache is an in-memory domain.Cache. Expirations are ignored.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

// respondByKeyword routes a prompt to the first matching canned response.
func respondByKeyword(responses map[string]string) func(string) (string, error) {
	return func(prompt string) (string, error) {
		for keyword, response := range responses {
			if strings.Contains(prompt, keyword) {
				return response, nil
			}
		}
		return "", nil
	}
}
