package cms

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("# 标题\n\n<script>alert(1)</script>**加粗**"))
	if strings.Contains(out, "<script>") {
		t.Fatalf("script tag survived sanitization: %s", out)
	}
	if !strings.Contains(out, "<strong>加粗</strong>") {
		t.Errorf("markdown emphasis not rendered: %s", out)
	}
}

func TestPlainTextTruncates(t *testing.T) {
	h := RenderMarkdown("段落一 with **words** inside\n\n段落二")
	text := PlainText(h, 8)
	if got := len([]rune(text)); got != 9 { // 8 runes plus ellipsis
		t.Fatalf("PlainText length = %d (%q)", got, text)
	}
	if strings.Contains(text, "*") {
		t.Errorf("markup leaked into plain text: %q", text)
	}
}

func TestLibraryGet(t *testing.T) {
	dir := t.TempDir()
	page := "---\ntitle: 欢迎\nsummary: 首页摘要\nupdated_at: 2025-06-01\n---\n\n欢迎来到商城。\n"
	if err := os.WriteFile(filepath.Join(dir, "home.zh.md"), []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	lib := NewLibrary(dir)

	got, err := lib.Get("home", "zh")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "欢迎" || got.Summary != "首页摘要" {
		t.Errorf("front matter mismatch: %+v", got)
	}
	if !strings.Contains(string(got.Body), "欢迎来到商城") {
		t.Errorf("body not rendered: %s", got.Body)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("updated_at not parsed")
	}

	if _, err := lib.Get("missing", "zh"); err != ErrNotFound {
		t.Errorf("missing page err = %v, want ErrNotFound", err)
	}
}

func TestLibraryFallsBackToUnlocalized(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "home.md"), []byte("---\ntitle: Home\n---\nBody"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := NewLibrary(dir).Get("home", "en")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Home" {
		t.Errorf("Title = %q", got.Title)
	}
}
