package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/platform/logger"
)

func newMountedRouter(t *testing.T, initialURL string) (*Router, *MemoryHistory) {
	t.Helper()
	h := NewMemoryHistory(initialURL)
	r := New(h, WithLogger(logger.Discard()))
	r.Mount()
	return r, h
}

func TestNavigateTo_RoundTripsForEveryCanonicalPage(t *testing.T) {
	for page := range pagePaths {
		r, h := newMountedRouter(t, "/")

		r.NavigateTo(page)

		state := ParseURL(h.Current())
		assert.Equal(t, page, state.CurrentPage, "page %q", page)
		assert.Empty(t, state.ActiveProductID)
		assert.Equal(t, page, r.State().CurrentPage)
	}
}

func TestNavigateTo_ResetsOverlayState(t *testing.T) {
	r, _ := newMountedRouter(t, "/")

	r.NavigateTo(PageShopAll)
	r.NavigateToProduct("7")
	r.NavigateTo(PageAbout)

	state := r.State()
	assert.Equal(t, PageAbout, state.CurrentPage)
	assert.Empty(t, state.ActiveProductID)
	assert.Empty(t, state.PreviousPage)
	assert.Empty(t, state.GenderFilter)
}

func TestNavigateTo_GenderParameterizedViews(t *testing.T) {
	r, _ := newMountedRouter(t, "/")

	r.NavigateTo(PageWomen)
	assert.Equal(t, "women", r.State().GenderFilter)

	r.NavigateTo(PageMen)
	assert.Equal(t, "men", r.State().GenderFilter)
}

func TestNavigateToProduct_RecordsPreviousPageAndPreservesPath(t *testing.T) {
	r, h := newMountedRouter(t, "/")
	r.NavigateTo(PageShopAll)

	r.NavigateToProduct("7")

	state := r.State()
	assert.Equal(t, PageProduct, state.CurrentPage)
	assert.Equal(t, "7", state.ActiveProductID)
	assert.Equal(t, PageShopAll, state.PreviousPage)
	assert.Equal(t, "/shop?product=7", h.Current())
}

func TestNavigateToProduct_FromProductKeepsOriginalBase(t *testing.T) {
	r, h := newMountedRouter(t, "/")
	r.NavigateTo(PageWomen)

	r.NavigateToProduct("7")
	r.NavigateToProduct("8")

	state := r.State()
	assert.Equal(t, "8", state.ActiveProductID)
	assert.Equal(t, PageWomen, state.PreviousPage)
	assert.Equal(t, "/women?product=8", h.Current())
}

func TestNavigateBack_RestoresViaURLReparse(t *testing.T) {
	r, _ := newMountedRouter(t, "/")
	r.NavigateTo(PageShopAll)
	r.NavigateToProduct("7")

	r.NavigateBack()

	state := r.State()
	assert.Equal(t, PageShopAll, state.CurrentPage, "native back restores the pre-overlay page")
	assert.Empty(t, state.ActiveProductID)
}

func TestBrowserForward_ReappliesProductOverlay(t *testing.T) {
	r, h := newMountedRouter(t, "/")
	r.NavigateTo(PageShopAll)
	r.NavigateToProduct("7")
	r.NavigateBack()

	h.Forward()

	state := r.State()
	assert.Equal(t, PageProduct, state.CurrentPage)
	assert.Equal(t, "7", state.ActiveProductID)
}

func TestMount_HonorsDeepLink(t *testing.T) {
	r, _ := newMountedRouter(t, "/shop?product=42")

	state := r.State()
	assert.Equal(t, PageProduct, state.CurrentPage)
	assert.Equal(t, "42", state.ActiveProductID)
	assert.Equal(t, PageShopAll, state.PreviousPage)
}

func TestMount_MalformedDeepLinkNormalizesToHome(t *testing.T) {
	r, _ := newMountedRouter(t, "/no-such-page?product=")
	assert.Equal(t, PageHome, r.State().CurrentPage)
}

func TestSelfWriteSuppression_ConsumesExactlyOnePerPush(t *testing.T) {
	r, _ := newMountedRouter(t, "/")

	r.NavigateTo(PageShopAll)
	r.NavigateTo(PageWomen)
	r.NavigateToProduct("7")

	r.mu.Lock()
	pending := r.pending
	r.mu.Unlock()
	require.Zero(t, pending, "every programmatic push must consume its own notification")
}

func TestSearch_CarriesTermThroughURL(t *testing.T) {
	r, h := newMountedRouter(t, "/")

	r.Search("wool coat")

	assert.Equal(t, PageShopAll, r.State().CurrentPage)
	assert.Equal(t, "wool coat", r.State().SearchTerm)
	assert.Equal(t, "wool coat", ParseURL(h.Current()).SearchTerm)
}

func TestNavigateTo_ProductIsNotADirectTarget(t *testing.T) {
	r, h := newMountedRouter(t, "/about")

	r.NavigateTo(PageProduct)

	assert.Equal(t, PageAbout, r.State().CurrentPage)
	assert.Equal(t, "/about", h.Current())
}

func TestMemoryHistory_PushDropsForwardEntries(t *testing.T) {
	h := NewMemoryHistory("/")
	h.Push("/shop")
	h.Push("/about")
	h.Back()
	require.Equal(t, "/shop", h.Current())

	h.Push("/women")
	h.Forward() // nothing ahead anymore

	assert.Equal(t, "/women", h.Current())
}

func TestMemoryHistory_BackAtRootIsNoop(t *testing.T) {
	h := NewMemoryHistory("/")
	notified := 0
	h.Subscribe(func(string) { notified++ })

	h.Back()

	assert.Equal(t, "/", h.Current())
	assert.Zero(t, notified)
}
