package catalog

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"polarismall.org/mall-web/internal/paging"
)

// FallbackName is shown when the backend omits a product name.
const FallbackName = "未命名商品"

// Sort modes accepted by Sort and Query.Sort.
const (
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortStockDesc = "stock_desc"
)

// Stock filter values accepted by Query.Stock.
const (
	StockAll = "all"
	StockIn  = "in"
	StockOut = "out"
)

// Item is the normalized catalog entry rendered by the product views.
type Item struct {
	ID          string
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Stock       int
	ShelfStatus string
}

// RawItem mirrors the backend product payload.
type RawItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
	ShelfStatus string `json:"shelf_status"`
}

// Query captures the product list controls. Zero values mean "no filter".
type Query struct {
	Keyword  string
	Category string
	Stock    string
	Sort     string
	Page     int
	PageSize int
}

// Normalize coerces raw backend items into the canonical shape. Missing
// names get a placeholder so cards never render blank headings.
func Normalize(raw []RawItem) []Item {
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		item := Item{
			ID:          strings.TrimSpace(r.ID),
			Name:        strings.TrimSpace(r.Name),
			Description: strings.TrimSpace(r.Description),
			Category:    strings.TrimSpace(r.Category),
			PriceCents:  r.PriceCents,
			Stock:       r.Stock,
			ShelfStatus: strings.TrimSpace(r.ShelfStatus),
		}
		if item.Name == "" {
			item.Name = FallbackName
		}
		if item.PriceCents < 0 {
			item.PriceCents = 0
		}
		if item.ShelfStatus == "" {
			item.ShelfStatus = "online"
		}
		items = append(items, item)
	}
	return items
}

// ApplyQuery filters by category, stock state and keyword, then sorts.
// The result is always a fresh slice; the input is never reordered.
func ApplyQuery(items []Item, q Query) []Item {
	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if q.Category != "" && q.Category != "all" && item.Category != q.Category {
			continue
		}
		switch q.Stock {
		case StockIn:
			if item.Stock <= 0 {
				continue
			}
		case StockOut:
			if item.Stock > 0 {
				continue
			}
		}
		if keyword != "" {
			haystack := strings.ToLower(item.Name + " " + item.Description)
			if !strings.Contains(haystack, keyword) {
				continue
			}
		}
		out = append(out, item)
	}
	return Sort(out, q.Sort)
}

var (
	collatorOnce sync.Once
	collator     *collate.Collator
)

// nameCollator compares product names with Chinese collation rules so mixed
// han/latin names order the way the storefront displays them.
func nameCollator() *collate.Collator {
	collatorOnce.Do(func() {
		collator = collate.New(language.Chinese)
	})
	return collator
}

// Sort orders items by the given mode. Unknown or empty modes fall back to
// name_asc. Every mode tie-breaks on ID with plain ordinal comparison so the
// order is deterministic regardless of collation tables.
func Sort(items []Item, mode string) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	col := nameCollator()
	byID := func(a, b Item) bool { return a.ID < b.ID }

	var less func(a, b Item) bool
	switch mode {
	case SortNameDesc:
		less = func(a, b Item) bool {
			if c := col.CompareString(a.Name, b.Name); c != 0 {
				return c > 0
			}
			return byID(a, b)
		}
	case SortPriceAsc:
		less = func(a, b Item) bool {
			if a.PriceCents != b.PriceCents {
				return a.PriceCents < b.PriceCents
			}
			return byID(a, b)
		}
	case SortPriceDesc:
		less = func(a, b Item) bool {
			if a.PriceCents != b.PriceCents {
				return a.PriceCents > b.PriceCents
			}
			return byID(a, b)
		}
	case SortStockDesc:
		less = func(a, b Item) bool {
			if a.Stock != b.Stock {
				return a.Stock > b.Stock
			}
			return byID(a, b)
		}
	default: // SortNameAsc
		less = func(a, b Item) bool {
			if c := col.CompareString(a.Name, b.Name); c != 0 {
				return c < 0
			}
			return byID(a, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Categories lists the distinct categories present in items, sorted.
func Categories(items []Item) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 4)
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	sort.Strings(out)
	return out
}

// Paginate applies the query's page controls to an already-filtered list.
func Paginate(items []Item, page, size int) paging.Page[Item] {
	return paging.Paginate(items, page, size)
}
