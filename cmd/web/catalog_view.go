package main

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"polarismall.org/mall-web/internal/catalog"
	"polarismall.org/mall-web/internal/cms"
	mw "polarismall.org/mall-web/internal/middleware"
	"polarismall.org/mall-web/internal/paging"
	"polarismall.org/mall-web/internal/router"
	"polarismall.org/mall-web/internal/seo"
)

// SortOption is one entry in the sort selector.
type SortOption struct {
	Value    string
	LabelKey string
	Selected bool
}

// ProductListView backs the catalog page: the filtered page slice plus the
// control state needed to re-render the filter bar.
type ProductListView struct {
	Page       paging.Page[catalog.Item]
	Query      catalog.Query
	Categories []string
	Sorts      []SortOption
	LoggedIn   bool
}

var sortOptions = []struct {
	value    string
	labelKey string
}{
	{catalog.SortNameAsc, "products.sort.name_asc"},
	{catalog.SortNameDesc, "products.sort.name_desc"},
	{catalog.SortPriceAsc, "products.sort.price_asc"},
	{catalog.SortPriceDesc, "products.sort.price_desc"},
	{catalog.SortStockDesc, "products.sort.stock_desc"},
}

func listQuery(values url.Values) catalog.Query {
	page, _ := strconv.Atoi(values.Get("page"))
	return catalog.Query{
		Keyword:  strings.TrimSpace(values.Get("q")),
		Category: values.Get("category"),
		Stock:    values.Get("stock"),
		Sort:     values.Get("sort"),
		Page:     page,
	}
}

func (a *App) productListView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	pd := a.newPageData(r, "", rc.Path)
	pd.Title = pd.T("products.title")

	q := listQuery(r.URL.Query())
	view := ProductListView{Query: q, LoggedIn: mw.CurrentSession(r).LoggedIn()}
	for _, opt := range sortOptions {
		view.Sorts = append(view.Sorts, SortOption{
			Value:    opt.value,
			LabelKey: opt.labelKey,
			Selected: opt.value == q.Sort || (q.Sort == "" && opt.value == catalog.SortNameAsc),
		})
	}

	items, err := a.api(r).ListProducts(r.Context())
	if err != nil {
		a.fail(r, pd, err, "/products")
	} else {
		view.Categories = catalog.Categories(items)
		// ApplyQuery sorts its result per q.Sort
		filtered := catalog.ApplyQuery(items, q)
		view.Page = catalog.Paginate(filtered, q.Page, q.PageSize)
	}

	pd.View = view
	a.render(w, r, "products", pd)
}

// ProductDetailView backs the product detail page.
type ProductDetailView struct {
	Item        catalog.Item
	Description template.HTML
	InStock     bool
	LoggedIn    bool
}

func (a *App) productDetailView(w http.ResponseWriter, r *http.Request, rc router.Context) {
	id := rc.Params["id"]
	loggedIn := mw.CurrentSession(r).LoggedIn()

	// The add-to-cart form posts back here. Visitors without a session go
	// through login first, with a return path to this page.
	if r.Method == http.MethodPost {
		if !loggedIn {
			router.Navigate(w, r, "/login?next="+url.QueryEscape(rc.Path))
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		qty, _ := strconv.Atoi(r.PostFormValue("quantity"))
		if qty < 1 {
			qty = 1
		}
		if err := a.api(r).AddCartItem(r.Context(), id, qty); err == nil {
			router.Navigate(w, r, "/cart")
			return
		} else {
			pd := a.newPageData(r, "", rc.Path)
			a.fail(r, pd, err, rc.Path)
			a.renderProductDetail(w, r, rc, pd, loggedIn)
			return
		}
	}

	pd := a.newPageData(r, "", rc.Path)
	a.renderProductDetail(w, r, rc, pd, loggedIn)
}

func (a *App) renderProductDetail(w http.ResponseWriter, r *http.Request, rc router.Context, pd *PageData, loggedIn bool) {
	view := ProductDetailView{LoggedIn: loggedIn}
	item, err := a.api(r).GetProduct(r.Context(), rc.Params["id"])
	if err != nil {
		a.fail(r, pd, err, rc.Path)
		pd.Title = pd.T("products.title")
	} else {
		view.Item = item
		view.Description = cms.RenderMarkdown(item.Description)
		view.InStock = item.Stock > 0
		pd.Title = item.Name
		pd.Meta = seo.ForProduct(item, cms.PlainText(view.Description, 160))
	}
	pd.View = view
	a.render(w, r, "product_detail", pd)
}
