package document

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// compiled caches parsed selectors. Selectors are program constants, so the
// cache stays small.
var compiled sync.Map // string -> cascadia.Selector

// Compile parses a CSS selector once and reuses it afterwards.
// It panics on a malformed selector.
func Compile(selector string) goquery.Matcher {
	if m, ok := compiled.Load(selector); ok {
		return m.(cascadia.Selector)
	}
	sel := cascadia.MustCompile(selector)
	compiled.Store(selector, sel)
	return sel
}

// Query finds the descendants of s matching selector.
func Query(s *goquery.Selection, selector string) *goquery.Selection {
	return s.FindMatcher(Compile(selector))
}

// Is reports whether any node of s matches selector.
func Is(s *goquery.Selection, selector string) bool {
	return s.IsMatcher(Compile(selector))
}

// Text concatenates the text nodes below s in document order, joined by sep.
func Text(s *goquery.Selection, sep string) string {
	var b strings.Builder
	first := true
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if !first {
				b.WriteString(sep)
			}
			b.WriteString(n.Data)
			first = false
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}

// Lines splits the text of s at text-node boundaries, dropping blank pieces.
func Lines(s *goquery.Selection) []string {
	var out []string
	for _, line := range strings.Split(Text(s, "\n"), "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Clean collapses runs of whitespace and trims the result.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Attr returns the named attribute of the first node in s, or "".
func Attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return v
}

// Classes returns the class list of the first node in s.
func Classes(s *goquery.Selection) []string {
	return strings.Fields(Attr(s, "class"))
}
