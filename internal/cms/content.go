// Package cms loads local markdown content (home page copy, announcements)
// and renders untrusted markdown from the catalog into sanitized HTML.
package cms

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	xhtml "golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a content page does not exist.
var ErrNotFound = errors.New("cms: not found")

// Page is a localized static content page backed by a markdown file with
// YAML front matter.
type Page struct {
	Slug      string
	Lang      string
	Title     string
	Summary   string
	Body      template.HTML
	UpdatedAt time.Time
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	Lang      string `yaml:"lang"`
	UpdatedAt string `yaml:"updated_at"`
}

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
	policy       *bluemonday.Policy
)

func renderer() (goldmark.Markdown, *bluemonday.Policy) {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
		policy = bluemonday.UGCPolicy()
	})
	return markdown, policy
}

// RenderMarkdown converts markdown to sanitized HTML safe for direct
// template injection. Product descriptions arrive from the backend and are
// treated as untrusted.
func RenderMarkdown(src string) template.HTML {
	md, p := renderer()
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(p.SanitizeBytes(buf.Bytes()))
}

// PlainText strips markup from rendered HTML, for SEO descriptions and
// summaries. Whitespace is collapsed and the result truncated to max runes.
func PlainText(h template.HTML, max int) string {
	node, err := xhtml.Parse(strings.NewReader(string(h)))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	text := strings.Join(strings.Fields(b.String()), " ")
	runes := []rune(text)
	if max > 0 && len(runes) > max {
		return string(runes[:max]) + "…"
	}
	return text
}

// Library serves content pages from a directory. Pages are parsed once and
// cached; the set is small and static per deployment.
type Library struct {
	dir string

	mu    sync.Mutex
	cache map[string]*Page
}

// NewLibrary builds a Library over dir.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir, cache: map[string]*Page{}}
}

// Get loads a content page by slug and language. Lookup order is
// <slug>.<lang>.md then <slug>.md.
func (l *Library) Get(slug, lang string) (*Page, error) {
	key := slug + "|" + lang
	l.mu.Lock()
	if p, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return p, nil
	}
	l.mu.Unlock()

	var data []byte
	var err error
	for _, name := range []string{slug + "." + lang + ".md", slug + ".md"} {
		data, err = os.ReadFile(filepath.Join(l.dir, name))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, ErrNotFound
	}
	page, err := parsePage(slug, lang, data)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.cache[key] = page
	l.mu.Unlock()
	return page, nil
}

func parsePage(slug, lang string, data []byte) (*Page, error) {
	fm, body := splitFrontMatter(data)
	var meta frontMatter
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, &meta); err != nil {
			return nil, fmt.Errorf("cms: front matter %s: %w", slug, err)
		}
	}
	page := &Page{
		Slug:    slug,
		Lang:    firstNonEmpty(meta.Lang, lang),
		Title:   meta.Title,
		Summary: meta.Summary,
		Body:    RenderMarkdown(string(body)),
	}
	if meta.UpdatedAt != "" {
		if ts, err := time.Parse("2006-01-02", meta.UpdatedAt); err == nil {
			page.UpdatedAt = ts
		}
	}
	if page.Summary == "" {
		page.Summary = PlainText(page.Body, 140)
	}
	return page, nil
}

// splitFrontMatter separates a leading "---" YAML block from the body.
func splitFrontMatter(data []byte) (fm, body []byte) {
	const marker = "---"
	trimmed := bytes.TrimLeft(data, "\ufeff\n\r ")
	if !bytes.HasPrefix(trimmed, []byte(marker)) {
		return nil, data
	}
	rest := trimmed[len(marker):]
	idx := bytes.Index(rest, []byte("\n"+marker))
	if idx == -1 {
		return nil, data
	}
	fm = rest[:idx]
	body = rest[idx+len(marker)+1:]
	return fm, body
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
