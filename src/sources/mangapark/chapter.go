package mangapark

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
	"github.com/diogovalentte/mangapark-adapter/src/manga"
	"github.com/diogovalentte/mangapark-adapter/src/util"
)

const (
	chapterListPath        = "/ajax.reader.subject.episodes.lang"
	chapterListContentType = "application/json;charset=UTF-8"
	chapterRowSelector     = "div.episode-item"
)

type chapterListRequest struct {
	Lang string `json:"lang"`
	SID  string `json:"sid"`
}

type chapterListEnvelope struct {
	HTML *string `json:"html"`
}

// GetChapterList returns all chapters of a manga, in the order of the site
func (s *Source) GetChapterList(mangaURL string) ([]*manga.Chapter, error) {
	errorContext := fmt.Sprintf("error while getting chapter list of manga '%s'", mangaURL)

	sid, err := MangaID(mangaURL)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}

	reqBody, err := json.Marshal(chapterListRequest{Lang: s.siteLang, SID: sid})
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}
	header := http.Header{}
	header.Set("Content-Type", chapterListContentType)
	header.Set("Referer", s.absoluteURL(relativeURL(mangaURL)))

	respBody, err := s.post(s.baseURL+chapterListPath, reqBody, header)
	if err != nil {
		if isNotFound(err) {
			return nil, util.AddErrorContext(errorContext, errordefs.ErrMangaNotFound)
		}
		return nil, util.AddErrorContext(errorContext, err)
	}

	html, err := ParseChapterListEnvelope(respBody)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}

	chapters, skipped, err := ParseChapterList(html, s.now(), s.skipMalformedChapters)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}
	for _, chapterURL := range skipped {
		s.logger.Warn().Str("source", s.id).Str("manga", mangaURL).Str("chapter", chapterURL).Msg("skipping chapter with malformed number")
	}
	event := s.logger.Debug().Str("source", s.id).Str("manga", mangaURL).Int("chapters", len(chapters))
	if len(chapters) > 0 {
		if uploadedAt, ok := chapters[0].UploadTime(); ok {
			event = event.Time("first_chapter_uploaded_at", uploadedAt)
		}
	}
	event.Msg("chapter list resolved")

	return chapters, nil
}

// ParseChapterListEnvelope returns the chapter rows markup from the {"html": "..."} response
func ParseChapterListEnvelope(body []byte) (string, error) {
	var envelope chapterListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("%w: error decoding chapter list response: %s", errordefs.ErrMalformedUpstream, err)
	}
	if envelope.HTML == nil {
		return "", fmt.Errorf("%w: chapter list response has no 'html' field", errordefs.ErrMalformedUpstream)
	}

	return *envelope.HTML, nil
}

// ParseChapterList parses the chapter rows.
// Relative upload times are resolved against now.
// A row with a non-numeric chapter number fails the whole list with errordefs.ErrMalformedChapterNumber
// (which also matches errordefs.ErrMalformedUpstream),
// unless skipMalformed is true, then the row is left out and its URL is returned in skipped.
func ParseChapterList(html string, now time.Time, skipMalformed bool) (chapters []*manga.Chapter, skipped []string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, util.AddErrorContext("error while parsing chapter list", err)
	}

	chapters = []*manga.Chapter{}
	doc.Find(chapterRowSelector).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		link := row.Find("a.chapt").First()
		href, _ := link.Attr("href")
		chapterURL := strings.TrimSuffix(strings.TrimSpace(href), "/")

		number, parseErr := parseChapterNumber(chapterURL)
		if parseErr != nil {
			if skipMalformed {
				skipped = append(skipped, chapterURL)
				return true
			}
			err = parseErr
			return false
		}

		chapter := &manga.Chapter{
			Name:   normalizeText(link.Text()),
			Number: number,
			URL:    relativeURL(chapterURL),
		}
		if timeText := joinedText(row.Find("div.extra > i.ps-2")); timeText != "" {
			uploadedAt := ParseRelativeTime(timeText, now)
			chapter.UploadedAt = &uploadedAt
		}
		chapters = append(chapters, chapter)

		return true
	})
	if err != nil {
		return nil, nil, err
	}

	return chapters, skipped, nil
}

// parseChapterNumber parses the last path segment of the chapter URL, like 12.5 in "/comic/1/title/c12.5-en/12.5"
func parseChapterNumber(chapterURL string) (float64, error) {
	path, _, _ := strings.Cut(chapterURL, "?")
	segment := path[strings.LastIndex(path, "/")+1:]

	number, err := strconv.ParseFloat(segment, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, fmt.Errorf("%w: %w: '%s' in chapter URL '%s'", errordefs.ErrMalformedUpstream, errordefs.ErrMalformedChapterNumber, segment, chapterURL)
	}

	return number, nil
}

// relativeTimeUnits are the fixed length units of the relative upload times
var relativeTimeUnits = map[string]time.Duration{
	"sec":  time.Second,
	"min":  time.Minute,
	"hour": time.Hour,
	"day":  24 * time.Hour,
	"week": 7 * 24 * time.Hour,
}

// maxRelativeYears bounds the calendar units so the result fits in Unix milliseconds
const maxRelativeYears = 10000

// ParseRelativeTime converts a text like "3 days" or "1 hour ago" to Unix milliseconds, counting back from now.
// Months and years are calendar months and years.
// An unknown unit, a non-numeric or negative count, or a count too large to represent returns 0, the "unknown" sentinel.
func ParseRelativeTime(text string, now time.Time) int64 {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return 0
	}
	count, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || count < 0 {
		return 0
	}

	unit := strings.TrimSuffix(strings.ToLower(fields[1]), "s")
	switch unit {
	case "month":
		if count > 12*maxRelativeYears {
			return 0
		}
		return now.AddDate(0, -int(count), 0).UnixMilli()
	case "year":
		if count > maxRelativeYears {
			return 0
		}
		return now.AddDate(-int(count), 0, 0).UnixMilli()
	}

	duration, ok := relativeTimeUnits[unit]
	if !ok || count > math.MaxInt64/int64(duration) {
		return 0
	}

	return now.Add(-time.Duration(count) * duration).UnixMilli()
}
