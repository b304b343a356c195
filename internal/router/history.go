package router

import "sync"

// History is the browser history stack as the router sees it. Push records
// a new entry, Back is the native one-step back, and Subscribe delivers a
// notification with the current URL after every change — including the
// router's own pushes, which is exactly why the router carries a
// self-write suppression counter.
//
// Only the router's mutators may call Push; anything else would
// desynchronize the suppression bookkeeping.
type History interface {
	Push(url string)
	Back()
	Current() string
	Subscribe(fn func(url string))
}

// MemoryHistory is an in-process History: a plain stack with listeners.
// It backs tests and the demo binary; a real frontend embedding would
// adapt the platform history API to the same interface.
type MemoryHistory struct {
	mu        sync.Mutex
	stack     []string
	idx       int
	listeners []func(url string)
}

// NewMemoryHistory starts the stack at the given URL.
func NewMemoryHistory(initial string) *MemoryHistory {
	if initial == "" {
		initial = "/"
	}
	return &MemoryHistory{stack: []string{initial}}
}

func (h *MemoryHistory) Push(url string) {
	h.mu.Lock()
	// A push from mid-stack drops the forward entries, as browsers do.
	h.stack = append(h.stack[:h.idx+1], url)
	h.idx = len(h.stack) - 1
	h.mu.Unlock()

	h.notify()
}

func (h *MemoryHistory) Back() {
	h.mu.Lock()
	if h.idx == 0 {
		h.mu.Unlock()
		return
	}
	h.idx--
	h.mu.Unlock()

	h.notify()
}

// Forward is the native forward step. The router never calls it; tests
// and embedders simulate the browser with it.
func (h *MemoryHistory) Forward() {
	h.mu.Lock()
	if h.idx >= len(h.stack)-1 {
		h.mu.Unlock()
		return
	}
	h.idx++
	h.mu.Unlock()

	h.notify()
}

func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stack[h.idx]
}

func (h *MemoryHistory) Subscribe(fn func(url string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

func (h *MemoryHistory) notify() {
	h.mu.Lock()
	url := h.stack[h.idx]
	listeners := make([]func(string), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(url)
	}
}
