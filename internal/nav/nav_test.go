package nav

import (
	"testing"

	"polarismall.org/mall-web/internal/session"
)

func hrefs(items []RenderedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Href)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildLoggedOut(t *testing.T) {
	got := hrefs(Build("/", session.Empty()))
	want := []string{"/", "/products", "/login"}
	if !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildBuyer(t *testing.T) {
	sess := session.Session{AccessToken: "t", User: &session.User{Role: "buyer"}}
	got := hrefs(Build("/cart", sess))
	want := []string{"/", "/products", "/cart", "/orders", "/account"}
	if !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildAdminSeesProbe(t *testing.T) {
	sess := session.Session{AccessToken: "t", User: &session.User{Role: "admin"}}
	got := hrefs(Build("/", sess))
	if got[len(got)-1] != "/admin" {
		t.Fatalf("expected trailing /admin, got %v", got)
	}
}

func TestActiveHighlighting(t *testing.T) {
	items := Build("/products/P1", session.Empty())
	for _, it := range items {
		wantActive := it.Href == "/products"
		if it.Active != wantActive {
			t.Fatalf("item %s active=%v, want %v", it.Href, it.Active, wantActive)
		}
	}
}
