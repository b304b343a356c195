// Package router is the navigation state machine: it owns the current
// page and deep-link parameters, keeps them bidirectionally consistent
// with a browser-style history stack, and re-derives state from the URL
// on every externally triggered back/forward event.
package router

import (
	"log/slog"
	"sync"
)

// NavigationState is the current page plus its deep-link parameters.
// ActiveProductID is set if and only if CurrentPage is PageProduct.
// PreviousPage is set only while a product overlay is showing; it backs a
// one-shot "← Back" affordance, not multi-level history.
type NavigationState struct {
	CurrentPage     Page
	GenderFilter    string
	ActiveProductID string
	PreviousPage    Page
	SearchTerm      string
}

// Router owns NavigationState and the history coupling.
type Router struct {
	mu      sync.Mutex
	state   NavigationState
	history History
	logger  *slog.Logger

	// pending counts programmatic pushes whose change notification has
	// not been observed yet. The external-sync handler consumes one per
	// notification instead of re-parsing, so the forward path never
	// re-triggers the backward path. A counter rather than a flag: two
	// navigations in one tick leave no race window.
	pending int
	mounted bool
}

// Option configures the Router.
type Option func(*Router)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// New constructs a Router over the given history. Call Mount before use.
func New(h History, opts ...Option) *Router {
	r := &Router{history: h}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mount subscribes to history changes and derives the initial state from
// the current URL. The first parse deliberately bypasses suppression:
// whatever URL the process started on — deep link, reload — is honored.
func (r *Router) Mount() {
	r.history.Subscribe(r.onHistoryChange)

	initial := ParseURL(r.history.Current())
	r.mu.Lock()
	r.state = initial
	r.mounted = true
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Info("router mounted", "page", string(initial.CurrentPage))
	}
}

// State returns the current navigation state.
func (r *Router) State() NavigationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// NavigateTo moves to a concrete page, resetting the gender filter,
// active product, and previous page except where the target itself is
// parameterized (the gender-specific shop views). PageProduct is not a
// valid target here; use NavigateToProduct.
func (r *Router) NavigateTo(page Page) {
	if page == PageProduct {
		return
	}
	if _, ok := pagePaths[page]; !ok {
		page = PageHome
	}

	r.mu.Lock()
	r.state = NavigationState{
		CurrentPage:  page,
		GenderFilter: genderFilters[page],
	}
	r.pending++
	r.mu.Unlock()

	r.history.Push(formatURL(page, "", ""))
}

// Search navigates to the shop-all page carrying a free-text search term
// in the q parameter.
func (r *Router) Search(term string) {
	r.mu.Lock()
	r.state = NavigationState{
		CurrentPage: PageShopAll,
		SearchTerm:  term,
	}
	r.pending++
	r.mu.Unlock()

	r.history.Push(formatURL(PageShopAll, "", term))
}

// NavigateToProduct overlays product detail on the current page: the path
// is preserved, a product query parameter is added, and the page entered
// from is recorded for the one-shot back affordance.
func (r *Router) NavigateToProduct(productID string) {
	if productID == "" {
		return
	}

	r.mu.Lock()
	base := r.state.CurrentPage
	if base == PageProduct {
		base = r.state.PreviousPage
	}
	searchTerm := r.state.SearchTerm
	r.state.PreviousPage = base
	r.state.CurrentPage = PageProduct
	r.state.ActiveProductID = productID
	r.pending++
	r.mu.Unlock()

	r.history.Push(formatURL(base, productID, searchTerm))
}

// NavigateBack delegates to the native history-back so multi-level back
// keeps working; state is then restored by the URL re-parse in
// onHistoryChange, not by popping PreviousPage.
func (r *Router) NavigateBack() {
	r.history.Back()
}

// onHistoryChange is the inverse sync path: external back/forward events
// overwrite state from the URL. Notifications caused by this router's own
// pushes are consumed via the pending counter and skipped.
func (r *Router) onHistoryChange(url string) {
	r.mu.Lock()
	if r.pending > 0 {
		r.pending--
		r.mu.Unlock()
		return
	}
	mounted := r.mounted
	r.mu.Unlock()
	if !mounted {
		return
	}

	state := ParseURL(url)

	r.mu.Lock()
	r.state = state
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Debug("navigation restored from url",
			"url", url,
			"page", string(state.CurrentPage),
		)
	}
}
