package mangapark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
	"github.com/diogovalentte/mangapark-adapter/src/manga"
	"github.com/diogovalentte/mangapark-adapter/src/util"
)

const (
	deletedChapterXPath = `//div[contains(concat(' ', normalize-space(@class), ' '), ' wrapper-deleted ')]`
	scriptXPath         = `//script`
)

// joinScripts returns the code of the inline scripts, one per line
func joinScripts(nodes []*html.Node) string {
	scripts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if htmlquery.SelectAttr(node, "src") != "" {
			continue
		}
		scripts = append(scripts, htmlquery.InnerText(node))
	}

	return strings.Join(scripts, "\n")
}

// imageConstants are the values the chapter page script uses to build the image URLs
type imageConstants struct {
	CDNHost  string
	PathList string
	AMPass   string
	AMWord   string
}

var imageConstantMarkers = []struct {
	name, start, end string
}{
	{"imgCdnHost", `const imgCdnHost = "`, `";`},
	{"imgPathLis", `const imgPathLis = `, `;`},
	{"amPass", `const amPass = `, `;`},
	{"amWord", `const amWord = `, `;`},
}

// GetPageList returns the image URLs of a chapter, in reading order
func (s *Source) GetPageList(chapterURL string) ([]manga.Page, error) {
	errorContext := fmt.Sprintf("error while getting pages of chapter '%s'", chapterURL)

	path := relativeURL(chapterURL)
	if path == "" || path == "/" {
		return nil, util.AddErrorContext(errorContext, errordefs.ErrChapterNotFound)
	}

	body, err := s.get(s.absoluteURL(path), nil)
	if err != nil {
		if isNotFound(err) {
			return nil, util.AddErrorContext(errorContext, errordefs.ErrChapterNotFound)
		}
		return nil, util.AddErrorContext(errorContext, err)
	}

	pages, err := ResolveImages(string(body), s.decrypter)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}
	s.logger.Debug().Str("source", s.id).Str("chapter", chapterURL).Int("pages", len(pages)).Msg("pages resolved")

	return pages, nil
}

// ResolveImages builds the image URLs of a chapter page.
// The page script has the CDN host, the image paths and the encrypted image tokens.
// Each URL is host + path[i] + "?" + token[i].
//
// Returns errordefs.ErrContentUnavailable if the chapter was deleted and errordefs.ErrDecryptionFailed
// if the script values are missing or the tokens can't be decrypted into a list matching the paths.
func ResolveImages(chapterHTML string, decrypter Decrypter) ([]manga.Page, error) {
	doc, err := htmlquery.Parse(strings.NewReader(chapterHTML))
	if err != nil {
		return nil, fmt.Errorf("%w: error parsing chapter page: %s", errordefs.ErrMalformedUpstream, err)
	}

	deleted, err := htmlquery.Query(doc, deletedChapterXPath)
	if err != nil {
		return nil, err
	}
	if deleted != nil {
		return nil, errordefs.ErrContentUnavailable
	}

	scriptNodes, err := htmlquery.QueryAll(doc, scriptXPath)
	if err != nil {
		return nil, err
	}
	constants, err := extractImageConstants(joinScripts(scriptNodes))
	if err != nil {
		return nil, err
	}

	paths, err := parseJSONArray(constants.PathList)
	if err != nil {
		return nil, fmt.Errorf("%w: imgPathLis: %s", errordefs.ErrDecryptionFailed, err)
	}

	decrypted, err := decrypter.Decrypt(constants.AMWord, constants.AMPass)
	if err != nil {
		return nil, err
	}
	words, err := parseJSONArray(decrypted)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypted tokens: %s", errordefs.ErrDecryptionFailed, err)
	}

	if len(words) != len(paths) {
		return nil, fmt.Errorf("%w: %d decrypted tokens for %d image paths", errordefs.ErrDecryptionFailed, len(words), len(paths))
	}

	pages := make([]manga.Page, 0, len(paths))
	for i := range paths {
		pages = append(pages, manga.Page{
			Index:    i,
			ImageURL: constants.CDNHost + paths[i] + "?" + words[i],
		})
	}
	if err := manga.ValidatePages(pages); err != nil {
		return nil, fmt.Errorf("%w: %s", errordefs.ErrMalformedUpstream, err)
	}

	return pages, nil
}

func extractImageConstants(script string) (*imageConstants, error) {
	values := make([]string, len(imageConstantMarkers))
	for i, marker := range imageConstantMarkers {
		value, found := substringBetween(script, marker.start, marker.end)
		if !found {
			return nil, fmt.Errorf("%w: %w: '%s' not found in chapter page scripts", errordefs.ErrDecryptionFailed, errordefs.ErrMalformedUpstream, marker.name)
		}
		values[i] = value
	}

	return &imageConstants{
		CDNHost:  values[0],
		PathList: values[1],
		AMPass:   values[2],
		AMWord:   values[3],
	}, nil
}

// substringBetween returns the text after the first start and before the next end
func substringBetween(s, start, end string) (string, bool) {
	_, after, found := strings.Cut(s, start)
	if !found {
		return "", false
	}
	value, _, found := strings.Cut(after, end)
	if !found {
		return "", false
	}

	return value, true
}

// parseJSONArray parses a flat JSON array into strings.
// Numbers and booleans keep their literal text, nested values and null are rejected.
func parseJSONArray(raw string) ([]string, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &elements); err != nil {
		return nil, err
	}
	if elements == nil {
		return nil, fmt.Errorf("not an array")
	}

	values := make([]string, 0, len(elements))
	for i, element := range elements {
		element = bytes.TrimSpace(element)
		switch {
		case len(element) == 0:
			return nil, fmt.Errorf("element %d is empty", i)
		case element[0] == '"':
			var value string
			if err := json.Unmarshal(element, &value); err != nil {
				return nil, err
			}
			values = append(values, value)
		case element[0] == '[' || element[0] == '{' || string(element) == "null":
			return nil, fmt.Errorf("element %d is not a string: %s", i, element)
		default:
			values = append(values, string(element))
		}
	}

	return values, nil
}
