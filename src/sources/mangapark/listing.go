package mangapark

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
	"github.com/diogovalentte/mangapark-adapter/src/manga"
	"github.com/diogovalentte/mangapark-adapter/src/sources/models"
	"github.com/diogovalentte/mangapark-adapter/src/util"
)

const (
	browseRowSelector = "div#subject-list div.col"
	searchRowSelector = "div#search-list div.col"
	nextPageSelector  = "div#mainer nav.d-none .pagination .page-item:last-of-type:not(.disabled)"

	// IDSearchPrefix makes a search query fetch a manga by its ID, like "id:12345"
	IDSearchPrefix = "id:"
)

// ParseListing parses the rows of a browse, latest, popular or search page.
// A page without rows returns an empty list, not an error.
func ParseListing(html, baseURL, rowSelector string) (*models.MangasPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, util.AddErrorContext("error while parsing listing page", err)
	}

	mangasPage := &models.MangasPage{
		Mangas: []manga.ListingEntry{},
	}
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a.fw-bold").First()
		href, exists := link.Attr("href")
		if !exists {
			return
		}
		thumbnailURL, _ := row.Find("a.position-relative img").First().Attr("src")

		mangasPage.Mangas = append(mangasPage.Mangas, manga.ListingEntry{
			URL:          relativeURL(href),
			Title:        normalizeText(link.Text()),
			ThumbnailURL: absoluteURL(baseURL, thumbnailURL),
		})
	})
	mangasPage.HasNextPage = doc.Find(nextPageSelector).Length() > 0

	return mangasPage, nil
}

// LatestUpdates returns the catalog sorted by the last update
func (s *Source) LatestUpdates(page int) (*models.MangasPage, error) {
	query := CompiledQuery{{Key: "sort", Value: "update"}, {Key: "page", Value: strconv.Itoa(page)}}
	return s.getListing("/browse?"+query.Encode(), browseRowSelector, "error while getting latest updates")
}

// PopularManga returns the catalog sorted by the views in the last 7 days
func (s *Source) PopularManga(page int) (*models.MangasPage, error) {
	query := CompiledQuery{{Key: "sort", Value: "d007"}, {Key: "page", Value: strconv.Itoa(page)}}
	return s.getListing("/browse?"+query.Encode(), browseRowSelector, "error while getting popular mangas")
}

// SearchManga searches the catalog.
// A query like "id:12345" returns only the manga with this ID.
// A blank query browses the catalog using the filters, otherwise the filters are ignored.
func (s *Source) SearchManga(page int, query string, filters models.FilterSelection) (*models.MangasPage, error) {
	errorContext := "error while searching mangas"

	query = strings.TrimSpace(query)
	switch {
	case strings.HasPrefix(query, IDSearchPrefix):
		return s.searchByID(strings.TrimSpace(strings.TrimPrefix(query, IDSearchPrefix)))
	case query != "":
		searchQuery := CompiledQuery{{Key: "word", Value: query}, {Key: "page", Value: strconv.Itoa(page)}}
		return s.getListing("/search?"+searchQuery.Encode(), searchRowSelector, errorContext)
	default:
		return s.getListing("/browse?"+CompileQuery(page, filters).Encode(), browseRowSelector, errorContext)
	}
}

func (s *Source) searchByID(id string) (*models.MangasPage, error) {
	errorContext := fmt.Sprintf("error while searching manga by ID '%s'", id)
	if id == "" || strings.Contains(id, "/") {
		return nil, util.AddErrorContext(errorContext, errordefs.ErrMangaHasNoIDOrURL)
	}

	mangaURL := "/comic/" + id
	m, err := s.GetMangaDetails(mangaURL)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}
	if m.URL == "" {
		m.URL = mangaURL
	}

	return &models.MangasPage{
		Mangas:      []manga.ListingEntry{m.ToListingEntry()},
		HasNextPage: false,
	}, nil
}

func (s *Source) getListing(path, rowSelector, errorContext string) (*models.MangasPage, error) {
	body, err := s.get(s.baseURL+path, nil)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}

	mangasPage, err := ParseListing(string(body), s.baseURL, rowSelector)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}
	s.logger.Debug().Str("source", s.id).Str("path", path).Int("mangas", len(mangasPage.Mangas)).Bool("has_next_page", mangasPage.HasNextPage).Msg("listing parsed")

	return mangasPage, nil
}

// relativeURL removes the scheme and domain of a URL, keeping the path and query
func relativeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	relative := u.EscapedPath()
	if u.RawQuery != "" {
		relative += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		relative += "#" + u.EscapedFragment()
	}

	return relative
}

// absoluteURL resolves a reference against the base URL.
// An empty reference returns an empty string.
func absoluteURL(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return base.ResolveReference(refURL).String()
}

// normalizeText trims the text and collapses its inner whitespace, like a browser renders it
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
