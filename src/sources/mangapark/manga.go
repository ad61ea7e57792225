package mangapark

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
	"github.com/diogovalentte/mangapark-adapter/src/manga"
	"github.com/diogovalentte/mangapark-adapter/src/util"
)

const detailContainerSelector = "div#mainer div.container-fluid"

// GetMangaDetails scrapes the manga page and returns the manga metadata
func (s *Source) GetMangaDetails(mangaURL string) (*manga.Manga, error) {
	errorContext := fmt.Sprintf("error while getting metadata of manga '%s'", mangaURL)

	path := relativeURL(mangaURL)
	if path == "" || path == "/" {
		return nil, util.AddErrorContext(errorContext, errordefs.ErrMangaHasNoIDOrURL)
	}

	body, err := s.get(s.absoluteURL(path), nil)
	if err != nil {
		if isNotFound(err) {
			return nil, util.AddErrorContext(errorContext, errordefs.ErrMangaNotFound)
		}
		return nil, util.AddErrorContext(errorContext, err)
	}

	mangaReturn, err := ParseMangaDetail(string(body), s.baseURL)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}
	mangaReturn.Source = s.id
	if mangaReturn.URL == "" {
		mangaReturn.URL = path
	}

	return mangaReturn, nil
}

// ParseMangaDetail parses a manga page.
// Absent author, thumbnail or genres are left empty.
func ParseMangaDetail(html, baseURL string) (*manga.Manga, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, util.AddErrorContext("error while parsing manga page", err)
	}

	info := doc.Find(detailContainerSelector)
	if info.Length() == 0 {
		return nil, util.AddErrorContext("error while parsing manga page", fmt.Errorf("%w: '%s' not found", errordefs.ErrMalformedUpstream, detailContainerSelector))
	}

	mangaReturn := &manga.Manga{
		Genres: []string{},
	}

	href, _ := info.Find("h3.item-title a").First().Attr("href")
	mangaReturn.URL = relativeURL(href)
	mangaReturn.Title = joinedText(info.Find("h3.item-title"))
	mangaReturn.Description = parseDescription(info)

	authors := []string{}
	attrItems(info, "author").Find("a").Each(func(_ int, a *goquery.Selection) {
		if author := normalizeText(a.Text()); author != "" {
			authors = append(authors, author)
		}
	})
	mangaReturn.Author = strings.Join(authors, ", ")

	mangaReturn.Status = manga.ParseStatus(joinedText(attrItems(info, "status").Find("span")))

	thumbnailURL, _ := info.Find("div.detail-set div.attr-cover img").First().Attr("src")
	mangaReturn.ThumbnailURL = absoluteURL(baseURL, thumbnailURL)

	attrItems(info, "genres").Find("span span").Each(func(_ int, span *goquery.Selection) {
		if genre := normalizeText(span.Text()); genre != "" {
			mangaReturn.Genres = append(mangaReturn.Genres, genre)
		}
	})

	return mangaReturn, nil
}

func parseDescription(info *goquery.Selection) string {
	parts := []string{}
	info.Find("div.limit-height-body").Find("h5.text-muted, div.limit-html").Each(func(_ int, e *goquery.Selection) {
		parts = append(parts, normalizeText(e.Text()))
	})
	description := strings.Join(parts, "\n\n")

	altTitles := []string{}
	for _, title := range strings.Split(joinedText(info.Find("div.alias-set")), "/") {
		if title = strings.TrimSpace(title); title != "" {
			altTitles = append(altTitles, title)
		}
	}
	if len(altTitles) > 0 {
		description = strings.TrimLeft(description+"\n\nAlt. Titles: "+strings.Join(altTitles, ", "), "\n")
	}

	return description
}

// attrItems returns the attribute rows whose text contains the label, ignoring case
func attrItems(info *goquery.Selection, label string) *goquery.Selection {
	return info.Find("div.attr-item").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(row.Text()), label)
	})
}

// joinedText returns the text of every element in the selection joined by a space
func joinedText(selection *goquery.Selection) string {
	texts := []string{}
	selection.Each(func(_ int, e *goquery.Selection) {
		if text := normalizeText(e.Text()); text != "" {
			texts = append(texts, text)
		}
	})

	return strings.Join(texts, " ")
}

// MangaID returns the ID of a manga from its URL, like "12345" in "/comic/12345/title"
func MangaID(mangaURL string) (string, error) {
	path, _, _ := strings.Cut(relativeURL(mangaURL), "?")
	segments := strings.Split(path, "/")
	if len(segments) < 3 || segments[1] == "" || segments[2] == "" {
		return "", fmt.Errorf("%w: could not get the manga ID from URL '%s'", errordefs.ErrMangaHasNoIDOrURL, mangaURL)
	}

	return segments[2], nil
}
