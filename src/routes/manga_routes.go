// Package routes implements the catalog routes
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/diogovalentte/mangapark-adapter/src/config"
	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
	"github.com/diogovalentte/mangapark-adapter/src/manga"
	"github.com/diogovalentte/mangapark-adapter/src/sources"
	"github.com/diogovalentte/mangapark-adapter/src/sources/models"
	"github.com/diogovalentte/mangapark-adapter/src/util"
)

// MangaRoutes sets the catalog routes
func MangaRoutes(group *gin.RouterGroup) {
	{
		group.GET("/sources", GetSources)
		group.GET("/sources/:source/latest", GetLatestUpdates)
		group.GET("/sources/:source/popular", GetPopularManga)
		group.GET("/sources/:source/search", SearchManga)
		group.GET("/sources/:source/filters", GetFilters)
		group.GET("/sources/:source/manga", GetManga)
		group.GET("/sources/:source/cover", GetMangaCover)
		group.GET("/sources/:source/chapters", GetMangaChapters)
		group.GET("/sources/:source/pages", GetChapterPages)
	}
}

// @Summary Get sources
// @Description Returns the IDs of the configured sources.
// @Produce json
// @Success 200 {object} map[string][]string "{"sources": ["mangapark-en"]}"
// @Router /sources [get]
func GetSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": sources.GetSourceIDs()})
}

// @Summary Get latest updates
// @Description Returns a page of the mangas sorted by the last update.
// @Produce json
// @Param source path string true "Source ID" Example(mangapark-en)
// @Param page query int false "Page, starting at 1" Example(1)
// @Success 200 {object} models.MangasPage
// @Router /sources/{source}/latest [get]
func GetLatestUpdates(c *gin.Context) {
	source, page, ok := getSourceAndPage(c)
	if !ok {
		return
	}

	mangasPage, err := source.LatestUpdates(page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mangasPage)
}

// @Summary Get popular mangas
// @Description Returns a page of the mangas with the most views in the last 7 days.
// @Produce json
// @Param source path string true "Source ID" Example(mangapark-en)
// @Param page query int false "Page, starting at 1" Example(1)
// @Success 200 {object} models.MangasPage
// @Router /sources/{source}/popular [get]
func GetPopularManga(c *gin.Context) {
	source, page, ok := getSourceAndPage(c)
	if !ok {
		return
	}

	mangasPage, err := source.PopularManga(page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mangasPage)
}

// @Summary Search mangas
// @Description Searches by text, or by ID with a query like "id:12345". If the query is empty, browses the catalog using the filters.
// @Produce json
// @Param source path string true "Source ID" Example(mangapark-en)
// @Param q query string false "Query" Example(berserk)
// @Param page query int false "Page, starting at 1" Example(1)
// @Param sort query string false "Sort key" Example(rating)
// @Param ascending query bool false "Sort ascending"
// @Param status query string false "Publication status" Example(ongoing)
// @Param min_chapters query int false "Minimum number of chapters"
// @Param max_chapters query int false "Maximum number of chapters"
// @Param include query string false "Comma-separated tags to include" Example(action,manhwa)
// @Param exclude query string false "Comma-separated tags to exclude" Example(gore)
// @Success 200 {object} models.MangasPage
// @Router /sources/{source}/search [get]
func SearchManga(c *gin.Context) {
	source, page, ok := getSourceAndPage(c)
	if !ok {
		return
	}

	filters, err := parseFilterSelection(c, source.GetFilterList())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	mangasPage, err := source.SearchManga(page, c.Query("q"), filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mangasPage)
}

// @Summary Get filters
// @Description Returns the filters the search route understands when the query is empty.
// @Produce json
// @Param source path string true "Source ID" Example(mangapark-en)
// @Success 200 {object} models.FilterList
// @Router /sources/{source}/filters [get]
func GetFilters(c *gin.Context) {
	source, err := sources.GetSource(c.Param("source"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, source.GetFilterList())
}

// @Summary Get manga
// @Description Returns the metadata of a manga.
// @Produce json
// @Param source path string true "Source ID" Example(mangapark-en)
// @Param url query string true "Manga URL" Example(/comic/73/berserk)
// @Success 200 {object} manga.Manga
// @Router /sources/{source}/manga [get]
func GetManga(c *gin.Context) {
	mangaURL, ok := getRequiredQuery(c, "url")
	if !ok {
		return
	}

	mangaGet, err := sources.GetMangaDetails(c.Param("source"), mangaURL)
	if err != nil {
		respondError(c, err)
		return
	}

	resMap := map[string]manga.Manga{"manga": *mangaGet}
	c.JSON(http.StatusOK, resMap)
}

// @Summary Get manga cover
// @Description Returns the cover image of a manga, resized if possible.
// @Produce image/jpeg,image/png
// @Param source path string true "Source ID" Example(mangapark-en)
// @Param url query string true "Manga URL" Example(/comic/73/berserk)
// @Success 200 {file} file
// @Router /sources/{source}/cover [get]
func GetMangaCover(c *gin.Context) {
	mangaURL, ok := getRequiredQuery(c, "url")
	if !ok {
		return
	}

	mangaGet, err := sources.GetMangaDetails(c.Param("source"), mangaURL)
	if err != nil {
		respondError(c, err)
		return
	}
	if mangaGet.ThumbnailURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "manga has no cover image"})
		return
	}

	client := &http.Client{Timeout: coverRequestTimeout()}
	img, _, err := util.GetImageFromURL(client, mangaGet.ThumbnailURL, "")
	if err != nil {
		respondError(c, &errordefs.TransportError{URL: mangaGet.ThumbnailURL, Err: err})
		return
	}

	c.Data(http.StatusOK, util.ImageContentType(img), img)
}

// @Summary Get manga chapters
// @Description Returns all chapters of a manga.
// @Produce json
// @Param source path string true "Source ID" Example(mangapark-en)
// @Param url query string true "Manga URL" Example(/comic/73/berserk)
// @Success 200 {object} map[string][]manga.Chapter "{"chapters": [chapterObj]}"
// @Router /sources/{source}/chapters [get]
func GetMangaChapters(c *gin.Context) {
	mangaURL, ok := getRequiredQuery(c, "url")
	if !ok {
		return
	}

	chapters, err := sources.GetChapterList(c.Param("source"), mangaURL)
	if err != nil {
		respondError(c, err)
		return
	}

	resMap := map[string][]*manga.Chapter{"chapters": chapters}
	c.JSON(http.StatusOK, resMap)
}

// @Summary Get chapter pages
// @Description Returns the image URLs of a chapter, in reading order.
// @Produce json
// @Param source path string true "Source ID" Example(mangapark-en)
// @Param url query string true "Chapter URL" Example(/comic/73/berserk/c375-en/375)
// @Success 200 {object} map[string][]manga.Page "{"pages": [pageObj]}"
// @Router /sources/{source}/pages [get]
func GetChapterPages(c *gin.Context) {
	chapterURL, ok := getRequiredQuery(c, "url")
	if !ok {
		return
	}

	pages, err := sources.GetPageList(c.Param("source"), chapterURL)
	if err != nil {
		respondError(c, err)
		return
	}

	resMap := map[string][]manga.Page{"pages": pages}
	c.JSON(http.StatusOK, resMap)
}

func getSourceAndPage(c *gin.Context) (models.Source, int, bool) {
	source, err := sources.GetSource(c.Param("source"))
	if err != nil {
		respondError(c, err)
		return nil, 0, false
	}

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "page must be a number greater than 0"})
			return nil, 0, false
		}
	}

	return source, page, true
}

func getRequiredQuery(c *gin.Context, key string) (string, bool) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("%s is required", key)})
		return "", false
	}

	return value, true
}

// parseFilterSelection reads the filters from the query, validating them against the source filters
func parseFilterSelection(c *gin.Context, filterList models.FilterList) (models.FilterSelection, error) {
	selection := models.FilterSelection{
		Tags: map[string]models.TriState{},
	}

	if sortKey := c.Query("sort"); sortKey != "" {
		if !hasOption(filterList.Sorts, sortKey) {
			return selection, fmt.Errorf("invalid sort '%s'", sortKey)
		}
		selection.SortKey = sortKey
	}
	if ascending := c.Query("ascending"); ascending != "" {
		value, err := strconv.ParseBool(ascending)
		if err != nil {
			return selection, fmt.Errorf("ascending must be true or false")
		}
		selection.SortAscending = value
	}

	if status := c.Query("status"); status != "" {
		if !hasOption(filterList.Statuses, status) {
			return selection, fmt.Errorf("invalid status '%s'", status)
		}
		selection.Status = status
	}

	var err error
	selection.MinChapters, err = getOptionalCount(c, "min_chapters")
	if err != nil {
		return selection, err
	}
	selection.MaxChapters, err = getOptionalCount(c, "max_chapters")
	if err != nil {
		return selection, err
	}

	for param, state := range map[string]models.TriState{"include": models.TriStateInclude, "exclude": models.TriStateExclude} {
		for _, tag := range strings.Split(c.Query(param), ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if !hasTag(filterList.TagGroups, tag) {
				return selection, fmt.Errorf("invalid tag '%s'", tag)
			}
			if current, ok := selection.Tags[tag]; ok && current != state {
				return selection, fmt.Errorf("tag '%s' can't be included and excluded", tag)
			}
			selection.Tags[tag] = state
		}
	}

	return selection, nil
}

func getOptionalCount(c *gin.Context, key string) (*int, error) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 0 {
		return nil, fmt.Errorf("%s must be a non-negative number", key)
	}

	return &value, nil
}

func hasOption(options []models.FilterOption, value string) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}

	return false
}

func hasTag(groups []models.FilterGroup, value string) bool {
	for _, group := range groups {
		if hasOption(group.Tags, value) {
			return true
		}
	}

	return false
}

// respondError maps the error to a status code and writes it
func respondError(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(ErrorStatusCode(err), gin.H{"message": err.Error()})
}

// ErrorStatusCode returns the HTTP status code for an error returned by a source
func ErrorStatusCode(err error) int {
	var transportErr *errordefs.TransportError
	switch {
	case errors.Is(err, errordefs.ErrContentUnavailable):
		return http.StatusGone
	case errors.Is(err, errordefs.ErrSourceNotFound),
		errors.Is(err, errordefs.ErrMangaNotFound),
		errors.Is(err, errordefs.ErrChapterNotFound):
		return http.StatusNotFound
	case errors.Is(err, errordefs.ErrMangaHasNoIDOrURL):
		return http.StatusBadRequest
	case errors.Is(err, errordefs.ErrMalformedUpstream),
		errors.Is(err, errordefs.ErrMalformedChapterNumber),
		errors.Is(err, errordefs.ErrDecryptionFailed),
		errors.Is(err, errordefs.ErrScriptEvaluation),
		errors.As(err, &transportErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func coverRequestTimeout() time.Duration {
	if timeout := config.GlobalConfigs.MangaPark.RequestTimeout; timeout > 0 {
		return timeout
	}

	return 30 * time.Second
}
