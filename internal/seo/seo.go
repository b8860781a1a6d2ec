// Package seo builds page metadata and schema.org JSON-LD markup for the
// storefront views.
package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"polarismall.org/mall-web/internal/catalog"
)

const siteName = "Polaris Mall"

// Meta carries the head metadata a page template renders.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	JSONLD      template.JS
}

// ForPage builds metadata for a plain content page.
func ForPage(title, description, path string) Meta {
	return Meta{
		Title:       pageTitle(title),
		Description: description,
		Canonical:   path,
	}
}

// ForProduct builds metadata with Product JSON-LD for a detail page.
func ForProduct(item catalog.Item, description string) Meta {
	meta := ForPage(item.Name, description, "/products/"+item.ID)
	if ld, err := productJSONLD(item, description); err == nil {
		meta.JSONLD = ld
	}
	return meta
}

func pageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return siteName
	}
	return title + " | " + siteName
}

// productJSONLD renders the schema.org Product structure. Prices are in
// cents internally and yuan on the wire.
func productJSONLD(item catalog.Item, description string) (template.JS, error) {
	availability := "https://schema.org/InStock"
	if item.Stock <= 0 {
		availability = "https://schema.org/OutOfStock"
	}
	doc := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        item.Name,
		"description": description,
		"sku":         item.ID,
		"category":    item.Category,
		"offers": map[string]any{
			"@type":         "Offer",
			"price":         fmt.Sprintf("%.2f", float64(item.PriceCents)/100),
			"priceCurrency": "CNY",
			"availability":  availability,
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return template.JS(data), nil
}
