package router

import (
	"net/url"
	"strings"
)

// Page is a route tag. The set is fixed; product is an overlay state
// reachable from any other page.
type Page string

const (
	PageHome        Page = "home"
	PageShopAll     Page = "shop-all"
	PageCurated     Page = "curated"
	PageNew         Page = "new"
	PageWomen       Page = "women"
	PageMen         Page = "men"
	PageAccessories Page = "accessories"
	PagePreOwned    Page = "pre-owned"
	PageAccount     Page = "account"
	PageAbout       Page = "about"
	PageProduct     Page = "product"
)

// pagePaths is the canonical page→path table. PageProduct has no entry:
// it is expressed as a query parameter overlay on whichever path is
// current.
var pagePaths = map[Page]string{
	PageHome:        "/",
	PageShopAll:     "/shop",
	PageCurated:     "/curated",
	PageNew:         "/new",
	PageWomen:       "/women",
	PageMen:         "/men",
	PageAccessories: "/accessories",
	PagePreOwned:    "/pre-owned",
	PageAccount:     "/account",
	PageAbout:       "/about",
}

// pathPages is the inverse table, built once at init.
var pathPages = func() map[string]Page {
	m := make(map[string]Page, len(pagePaths))
	for page, path := range pagePaths {
		m[path] = page
	}
	return m
}()

// genderFilters maps the gender-specific shop views to their filter value.
var genderFilters = map[Page]string{
	PageWomen: "women",
	PageMen:   "men",
}

// PathFor returns the canonical path for a page. Product has no canonical
// path of its own and maps to home here.
func PathFor(page Page) string {
	if path, ok := pagePaths[page]; ok {
		return path
	}
	return pagePaths[PageHome]
}

// ParseURL derives a NavigationState from a raw URL. The error policy is
// silent normalization: an unparsable URL, an unknown path, or a product
// parameter without a value all map to the home state — malformed deep
// links are not surfaced to the user.
func ParseURL(raw string) NavigationState {
	home := NavigationState{CurrentPage: PageHome}

	u, err := url.Parse(raw)
	if err != nil {
		return home
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}

	page, ok := pathPages[path]
	if !ok {
		return home
	}

	state := NavigationState{
		CurrentPage:  page,
		GenderFilter: genderFilters[page],
	}
	if page == PageShopAll {
		state.SearchTerm = u.Query().Get("q")
	}

	if u.Query().Has("product") {
		productID := u.Query().Get("product")
		if productID == "" {
			return home
		}
		state.PreviousPage = page
		state.CurrentPage = PageProduct
		state.ActiveProductID = productID
	}

	return state
}

// formatURL renders a state back into a URL string.
func formatURL(base Page, productID, searchTerm string) string {
	path := PathFor(base)
	query := url.Values{}
	if base == PageShopAll && searchTerm != "" {
		query.Set("q", searchTerm)
	}
	if productID != "" {
		query.Set("product", productID)
	}
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
