package render

import (
	_ "embed"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Belphemur/ShowFinder/internal/models"
)

//go:embed templates/index.html
var pageTemplate string

// Selectors of the page skeleton and of the nodes produced by the renderers.
const (
	SearchTermSelector   = "#searchForm-term"
	ShowsListSelector    = "#showsList"
	EpisodesAreaSelector = "#episodesArea"
	EpisodesListSelector = "#episodesList"
	ShowSelector         = ".Show"
	ExpandSelector       = ".Show-getEpisodes"

	ShowIDAttr     = "data-show-id"
	ShowHandleAttr = "data-show-handle"
)

const hiddenStyle = "display: none;"

// showCardMarkup is the static part of a rendered show; data is filled in
// through goquery so names and URLs are always escaped.
const showCardMarkup = `<div class="Show col-md-12 col-lg-6 mb-4">
  <div class="media">
    <img class="w-25 me-3">
    <div class="media-body">
      <h5 class="text-primary"></h5>
      <div><small></small></div>
      <form method="post" class="Show-episodesForm">
        <button type="submit" class="btn btn-outline-light btn-sm Show-getEpisodes">Episodes</button>
      </form>
    </div>
  </div>
</div>`

// Page is one widget DOM. It is not safe for concurrent use.
type Page struct {
	doc     *goquery.Document
	summary SummaryFilter
}

// NewPage parses the page skeleton. The episode panel starts hidden.
func NewPage(summary SummaryFilter) (*Page, error) {
	if summary == nil {
		return nil, fmt.Errorf("render: summary filter is nil")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageTemplate))
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Page{doc: doc, summary: summary}, nil
}

// Document exposes the DOM for selection, e.g. to locate a clicked control.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// SetSearchTerm reflects the submitted term in the search input.
func (p *Page) SetSearchTerm(term string) {
	p.doc.Find(SearchTermSelector).SetAttr("value", term)
}

// RenderShows replaces the content of the shows container with one node per card, in order.
func (p *Page) RenderShows(cards []models.ShowCard) {
	list := p.doc.Find(ShowsListSelector)
	list.Empty()

	for _, card := range cards {
		list.AppendHtml(showCardMarkup)
		node := list.Children().Last()

		node.SetAttr(ShowIDAttr, strconv.Itoa(card.Show.ID))
		node.SetAttr(ShowHandleAttr, card.Handle)
		node.Find("img").SetAttr("src", card.Show.Image).SetAttr("alt", card.Show.Name)
		node.Find("h5").SetText(card.Show.Name)
		node.Find("small").SetHtml(p.summary(card.Show.Summary))
		node.Find("form").SetAttr("action", ExpandPath(card.Handle))
	}
}

// RenderEpisodes replaces the episode list and reveals the episode panel.
func (p *Page) RenderEpisodes(episodes []models.Episode) {
	list := p.doc.Find(EpisodesListSelector)
	list.Empty()

	for _, episode := range episodes {
		list.AppendHtml("<li></li>")
		list.Children().Last().SetText(episode.Label())
	}

	p.ShowEpisodes()
}

// HideEpisodes hides the episode panel.
func (p *Page) HideEpisodes() {
	p.doc.Find(EpisodesAreaSelector).SetAttr("style", hiddenStyle)
}

// ShowEpisodes makes the episode panel visible.
func (p *Page) ShowEpisodes() {
	p.doc.Find(EpisodesAreaSelector).RemoveAttr("style")
}

// EpisodesVisible reports whether the episode panel is shown.
func (p *Page) EpisodesVisible() bool {
	style, ok := p.doc.Find(EpisodesAreaSelector).Attr("style")
	return !ok || !strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none")
}

// ShowHandleOf returns the handle of the show node closest to target, walking up
// from target itself.
func (p *Page) ShowHandleOf(target *goquery.Selection) (string, bool) {
	show := target.Closest(ShowSelector)
	if show.Length() == 0 {
		return "", false
	}
	return show.Attr(ShowHandleAttr)
}

// WriteTo serialises the whole document, doctype included.
func (p *Page) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	for _, node := range p.doc.Nodes {
		if err := html.Render(cw, node); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

// HTML returns the serialised document.
func (p *Page) HTML() (string, error) {
	var sb strings.Builder
	if _, err := p.WriteTo(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ExpandPath is the form action of the episode control of a show handle.
func ExpandPath(handle string) string {
	return "/shows/" + url.PathEscape(handle) + "/episodes"
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
