// Package document wraps a parsed procyclingstats page together with the
// identifier it was loaded for. A Document is immutable once built and every
// query on it is read-only, so it can be shared by concurrent readers.
package document

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/pcstats/models"
)

// Messages the site renders instead of content on broken pages.
const (
	pageNotFound          = "Page not found"
	technicalDifficulties = "Due to technical difficulties this page is temporarily unavailable."
)

// Document is a parsed page plus its relative URL.
type Document struct {
	identifier string
	doc        *goquery.Document
}

// New parses markup for the page identified by identifier, which may be an
// absolute or relative URL. The identifier is stored in relative form.
func New(identifier, markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("document: parse %q: %w", identifier, err)
	}
	return &Document{identifier: RelativeURL(identifier), doc: doc}, nil
}

// Identifier returns the relative URL of the page, without surrounding slashes.
func (d *Document) Identifier() string { return d.identifier }

// URL returns the absolute URL of the page.
func (d *Document) URL() string { return AbsoluteURL(d.identifier) }

// Parts returns the non-empty path segments of the identifier.
func (d *Document) Parts() []string { return Segments(d.identifier) }

// Root returns the selection holding the whole tree.
func (d *Document) Root() *goquery.Selection { return d.doc.Selection }

// Find returns every node matching selector, in document order.
func (d *Document) Find(selector string) *goquery.Selection {
	return Query(d.doc.Selection, selector)
}

// First returns the first node matched by the first selector that matches
// anything. The result is empty when no selector matches.
func (d *Document) First(selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if found := d.Find(sel); found.Length() > 0 {
			return found.First()
		}
	}
	return d.doc.Selection.Slice(0, 0)
}

// Nth returns the i-th node matching selector, or a mismatch error when the
// page has fewer matches.
func (d *Document) Nth(selector string, i int) (*goquery.Selection, error) {
	found := d.Find(selector)
	if i < 0 || i >= found.Length() {
		return nil, models.Mismatch("%s: %q has %d matches, need index %d", d.identifier, selector, found.Length(), i)
	}
	return found.Eq(i), nil
}

// Require returns the first match of selectors or a mismatch error.
func (d *Document) Require(selectors ...string) (*goquery.Selection, error) {
	found := d.First(selectors...)
	if found.Length() == 0 {
		return nil, models.Mismatch("%s: no element matches %s", d.identifier, strings.Join(selectors, " | "))
	}
	return found, nil
}

// Validate rejects pages the site serves in place of real content.
func (d *Document) Validate() error {
	title := d.First(".page-title > .main > h1", ".page-title > .title > h1", ".page-title h1")
	if title.Length() > 0 && Clean(title.Text()) == pageNotFound {
		return models.NewScrapeError(models.ErrCodeInvalidDocument,
			fmt.Sprintf("%s: page not found", d.identifier), models.ErrInvalidDocument)
	}
	content := d.First("div.page-content > div")
	if content.Length() > 0 && Clean(content.Text()) == technicalDifficulties {
		return models.NewScrapeError(models.ErrCodeInvalidDocument,
			fmt.Sprintf("%s: page temporarily unavailable", d.identifier), models.ErrInvalidDocument)
	}
	return nil
}

// HeaderTable finds the first table.basic following an h4 whose text equals
// header, ignoring case. The result is empty when there is none.
func (d *Document) HeaderTable(header string) *goquery.Selection {
	return d.afterHeader(header, func(s *goquery.Selection) bool {
		return goquery.NodeName(s) == "table" && s.HasClass("basic")
	})
}

// HeaderList finds the first ul or ol carrying all classes (default "list")
// that follows an h4 whose text equals header, ignoring case.
func (d *Document) HeaderList(header string, classes ...string) *goquery.Selection {
	if len(classes) == 0 {
		classes = []string{"list"}
	}
	return d.afterHeader(header, func(s *goquery.Selection) bool {
		name := goquery.NodeName(s)
		if name != "ul" && name != "ol" {
			return false
		}
		for _, c := range classes {
			if !s.HasClass(c) {
				return false
			}
		}
		return true
	})
}

func (d *Document) afterHeader(header string, match func(*goquery.Selection) bool) *goquery.Selection {
	want := strings.ToLower(strings.TrimSpace(header))
	var found *goquery.Selection
	d.Find("h4").EachWithBreak(func(_ int, h4 *goquery.Selection) bool {
		if strings.ToLower(Clean(h4.Text())) != want {
			return true
		}
		h4.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
			if match(sib) {
				found = sib
				return false
			}
			return true
		})
		return found == nil
	})
	if found == nil {
		return d.doc.Selection.Slice(0, 0)
	}
	return found
}

// SelectMenu returns the select element with the given name attribute.
func (d *Document) SelectMenu(name string) (*goquery.Selection, error) {
	sel := d.Find(fmt.Sprintf("select[name=%q]", name))
	if sel.Length() == 0 {
		return nil, models.Mismatch("%s: %q select not in page", d.identifier, name)
	}
	return sel.First(), nil
}

// HTML renders the document back to markup.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}
