// Package scraper turns procyclingstats pages into ordered records. Each page
// kind has an entity type (Rider, Team, Ranking, Stage, RaceCombativeRiders)
// whose fields are registered in a Catalog; Parse runs any subset of them
// against the bound document.
package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/use-agent/pcstats/document"
	"github.com/use-agent/pcstats/models"
)

// ErrAlreadyBound is returned by Attach on a scraper that has a document.
var ErrAlreadyBound = errors.New("scraper: document already bound")

// Kind names the page kinds the package can parse.
type Kind string

const (
	KindRider           Kind = "rider"
	KindTeam            Kind = "team"
	KindRanking         Kind = "ranking"
	KindStage           Kind = "stage"
	KindCombativeRiders Kind = "race_combative_riders"
)

// Entity is the behaviour shared by every scraper.
type Entity interface {
	Identifier() string
	Kind() Kind
	// Fields lists every field Parse accepts, in output order.
	Fields() []string
	// Parse extracts the requested fields, or all of them when none are
	// given.
	Parse(fields ...string) (*Result, error)
}

// Base holds the identifier and, once bound, the document of a scraper. A
// scraper starts unbound when built without markup and becomes bound exactly
// once. Bind before sharing a scraper between goroutines.
type Base struct {
	identifier string
	doc        *document.Document
}

func newBase(identifier, markup string) (Base, error) {
	b := Base{identifier: document.RelativeURL(identifier)}
	if markup == "" {
		return b, nil
	}
	if err := b.Attach(markup); err != nil {
		return Base{}, err
	}
	return b, nil
}

// Identifier returns the relative URL of the page.
func (b *Base) Identifier() string { return b.identifier }

// Bound reports whether a document is attached.
func (b *Base) Bound() bool { return b.doc != nil }

// Attach parses markup and binds it. Pages the site serves in place of
// content are rejected with an INVALID_DOCUMENT error.
func (b *Base) Attach(markup string) error {
	if b.doc != nil {
		return ErrAlreadyBound
	}
	doc, err := document.New(b.identifier, markup)
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	b.doc = doc
	return nil
}

// Document returns the bound document or an UNAVAILABLE_DOCUMENT error.
func (b *Base) Document() (*document.Document, error) {
	if b.doc == nil {
		return nil, models.Unavailable(b.identifier)
	}
	return b.doc, nil
}

// New builds the scraper matching identifier. markup may be empty, in which
// case the scraper is unbound until Attach is called on it.
func New(identifier, markup string) (Entity, error) {
	kind, err := KindOf(identifier)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindRider:
		return NewRider(identifier, markup)
	case KindTeam:
		return NewTeam(identifier, markup)
	case KindRanking:
		return NewRanking(identifier, markup)
	case KindStage:
		return NewStage(identifier, markup)
	case KindCombativeRiders:
		return NewRaceCombativeRiders(identifier, markup)
	}
	return nil, unknownPage(identifier)
}

// KindOf decides which scraper handles identifier from the shape of its
// path.
func KindOf(identifier string) (Kind, error) {
	rel := document.RelativeURL(identifier)
	parts := strings.Split(rel, "/")
	has := func(s string) bool {
		for _, p := range parts {
			if p == s {
				return true
			}
		}
		return false
	}

	switch {
	case has("combative-riders") || has("comative-riders"):
		return KindCombativeRiders, nil
	case parts[0] == "rider" && has("results"), strings.HasPrefix(rel, "rider.php"):
		return "", unknownPage(identifier)
	case parts[0] == "rider":
		return KindRider, nil
	case len(parts) >= 4 && parts[0] == "race" &&
		(strings.Contains(parts[3], "stage") || strings.Contains(parts[3], "gc") ||
			strings.Contains(parts[3], "prologue") || has("result")):
		return KindStage, nil
	case strings.Contains(rel, "rankings"):
		return KindRanking, nil
	case parts[0] == "team":
		return KindTeam, nil
	}
	return "", unknownPage(identifier)
}

func unknownPage(identifier string) error {
	return models.NewScrapeError(models.ErrCodeUnknownPage,
		fmt.Sprintf("no scraper for %q", identifier), models.ErrUnknownPage)
}
