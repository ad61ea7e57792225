// Package sources implements the registry of the configured sources.
// It provides a way to get mangas, chapters and pages from a source by its ID.
// The sources should not be used directly, instead, the functions in this package should be used.
package sources

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/diogovalentte/mangapark-adapter/src/config"
	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
	"github.com/diogovalentte/mangapark-adapter/src/manga"
	"github.com/diogovalentte/mangapark-adapter/src/sources/mangapark"
	"github.com/diogovalentte/mangapark-adapter/src/sources/models"
	"github.com/diogovalentte/mangapark-adapter/src/util"
)

var (
	mu sync.RWMutex
	// sources is a map of all sources by ID
	sources = map[string]models.Source{}
	// closers release the resources shared by the sources, like a browser
	closers []func() error
)

// siteLanguages maps the BCP 47 tags to the language codes MangaPark uses
var siteLanguages = map[string]string{
	"en":      "en",
	"ar":      "ar",
	"de":      "de",
	"es":      "es",
	"es-419":  "es_419",
	"fr":      "fr",
	"id":      "id",
	"it":      "it",
	"ja":      "ja",
	"ko":      "ko",
	"pt":      "pt",
	"pt-BR":   "pt_br",
	"ru":      "ru",
	"th":      "th",
	"vi":      "vi",
	"zh":      "zh",
	"zh-Hant": "zh_hk",
}

// SiteLanguage returns the MangaPark language code of a BCP 47 tag.
// Tags with an unsupported region or script fall back to their base language.
func SiteLanguage(lang string) (string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("invalid language '%s': %s", lang, err)
	}
	if siteLang, ok := siteLanguages[tag.String()]; ok {
		return siteLang, nil
	}
	base, _ := tag.Base()
	if siteLang, ok := siteLanguages[base.String()]; ok {
		return siteLang, nil
	}

	return "", fmt.Errorf("language '%s' is not supported by MangaPark", lang)
}

// SetupMangaPark registers one MangaPark source per configured language.
// The sources share the decrypter, so the CryptoJS runtime is downloaded once per process.
func SetupMangaPark(configs *config.MangaParkConfigs, logger *zerolog.Logger) error {
	errorContext := "error while setting up MangaPark sources"

	baseOptions := mangapark.Options{
		BaseURL:               configs.BaseURL,
		UserAgent:             configs.UserAgent,
		RequestTimeout:        configs.RequestTimeout,
		CloudflareBypass:      configs.CloudflareBypass,
		SkipMalformedChapters: configs.SkipMalformedChapters,
		Logger:                logger,
	}

	newSources := []*mangapark.Source{}
	for _, lang := range configs.Languages {
		siteLang, err := SiteLanguage(lang)
		if err != nil {
			return util.AddErrorContext(errorContext, err)
		}
		options := baseOptions
		options.Lang = lang
		options.SiteLang = siteLang
		source, err := mangapark.NewSource(options)
		if err != nil {
			return util.AddErrorContext(errorContext, err)
		}
		newSources = append(newSources, source)
	}
	if len(newSources) == 0 {
		return util.AddErrorContext(errorContext, fmt.Errorf("no language configured"))
	}

	decrypter, closer := newDecrypter(configs, newSources[0].FetchText)
	if closer != nil {
		mu.Lock()
		closers = append(closers, closer)
		mu.Unlock()
	}

	for _, source := range newSources {
		source.SetDecrypter(decrypter)
		RegisterSource(source)
		logger.Info().Str("source", source.ID()).Str("site_lang", source.SiteLang()).Str("decrypt_mode", string(configs.DecryptMode)).Msg("source registered")
	}

	return nil
}

func newDecrypter(configs *config.MangaParkConfigs, fetch func(url string) (string, error)) (mangapark.Decrypter, func() error) {
	runtime := mangapark.NewCachedRuntime(configs.CryptoJSURL, fetch)
	gojaEvaluator := mangapark.NewGojaEvaluator(configs.ScriptTimeout)

	switch configs.DecryptMode {
	case config.DecryptModeNative:
		return &mangapark.NativeDecrypter{Evaluator: gojaEvaluator}, nil
	case config.DecryptModeBrowser:
		browser := mangapark.NewBrowserEvaluator("", configs.ScriptTimeout)
		return &mangapark.ScriptDecrypter{Runtime: runtime, Evaluator: browser}, browser.Close
	default:
		return &mangapark.ScriptDecrypter{Runtime: runtime, Evaluator: gojaEvaluator}, nil
	}
}

// Close releases the resources shared by the sources
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	var errs []error
	for _, closer := range closers {
		errs = append(errs, closer())
	}
	closers = nil

	return errors.Join(errs...)
}

// RegisterSource registers a new source
func RegisterSource(source models.Source) {
	mu.Lock()
	defer mu.Unlock()
	sources[source.ID()] = source
}

// DeleteSource deletes a source
func DeleteSource(id string) {
	mu.Lock()
	defer mu.Unlock()
	delete(sources, id)
}

// GetSource returns a source
func GetSource(id string) (models.Source, error) {
	mu.RLock()
	defer mu.RUnlock()

	value, ok := sources[id]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", errordefs.ErrSourceNotFound, id)
	}

	return value, nil
}

// GetSourceIDs returns the IDs of all sources, sorted
func GetSourceIDs() []string {
	mu.RLock()
	defer mu.RUnlock()

	ids := make([]string, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// SearchManga searches mangas using a source
func SearchManga(sourceID string, page int, query string, filters models.FilterSelection) (*models.MangasPage, error) {
	contextError := "error while searching mangas in source"

	source, err := GetSource(sourceID)
	if err != nil {
		return nil, util.AddErrorContext(contextError, err)
	}

	mangasPage, err := source.SearchManga(page, query, filters)
	if err != nil {
		return nil, util.AddErrorContext(contextError, err)
	}

	return mangasPage, nil
}

// GetMangaDetails gets the metadata of a manga using a source
func GetMangaDetails(sourceID, mangaURL string) (*manga.Manga, error) {
	contextError := "error while getting manga metadata from source"

	source, err := GetSource(sourceID)
	if err != nil {
		return nil, util.AddErrorContext(contextError, err)
	}

	mangaReturn, err := source.GetMangaDetails(mangaURL)
	if err != nil {
		return nil, util.AddErrorContext(contextError, err)
	}

	return mangaReturn, nil
}

// GetChapterList gets the chapters of a manga using a source
func GetChapterList(sourceID, mangaURL string) ([]*manga.Chapter, error) {
	contextError := "error while getting manga chapters from source"

	source, err := GetSource(sourceID)
	if err != nil {
		return nil, util.AddErrorContext(contextError, err)
	}

	chapters, err := source.GetChapterList(mangaURL)
	if err != nil {
		return nil, util.AddErrorContext(contextError, err)
	}

	return chapters, nil
}

// GetPageList gets the pages of a chapter using a source
func GetPageList(sourceID, chapterURL string) ([]manga.Page, error) {
	contextError := "error while getting chapter pages from source"

	source, err := GetSource(sourceID)
	if err != nil {
		return nil, util.AddErrorContext(contextError, err)
	}

	pages, err := source.GetPageList(chapterURL)
	if err != nil {
		return nil, util.AddErrorContext(contextError, err)
	}

	return pages, nil
}
