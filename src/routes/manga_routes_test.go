package routes_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/diogovalentte/mangapark-adapter/src"
	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
	"github.com/diogovalentte/mangapark-adapter/src/manga"
	"github.com/diogovalentte/mangapark-adapter/src/routes"
	"github.com/diogovalentte/mangapark-adapter/src/sources"
	"github.com/diogovalentte/mangapark-adapter/src/sources/mangapark"
	"github.com/diogovalentte/mangapark-adapter/src/sources/models"
)

const fakeSourceID = "fake-en"

// fakeSource returns canned data, or err for every call if it's set
type fakeSource struct {
	err error

	lastQuery   string
	lastPage    int
	lastFilters models.FilterSelection
}

func (s *fakeSource) ID() string { return fakeSourceID }

func (s *fakeSource) LatestUpdates(page int) (*models.MangasPage, error) {
	return s.SearchManga(page, "", models.FilterSelection{})
}

func (s *fakeSource) PopularManga(page int) (*models.MangasPage, error) {
	return s.SearchManga(page, "", models.FilterSelection{})
}

func (s *fakeSource) SearchManga(page int, query string, filters models.FilterSelection) (*models.MangasPage, error) {
	s.lastPage, s.lastQuery, s.lastFilters = page, query, filters
	if s.err != nil {
		return nil, s.err
	}

	return &models.MangasPage{
		Mangas:      []manga.ListingEntry{{URL: "/comic/73/berserk", Title: "Berserk", ThumbnailURL: "https://mangapark.net/thumb/73.jpg"}},
		HasNextPage: true,
	}, nil
}

func (s *fakeSource) GetMangaDetails(mangaURL string) (*manga.Manga, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &manga.Manga{Source: fakeSourceID, URL: mangaURL, Title: "Berserk", Status: manga.StatusOngoing, Genres: []string{"Action"}}, nil
}

func (s *fakeSource) GetChapterList(mangaURL string) ([]*manga.Chapter, error) {
	if s.err != nil {
		return nil, s.err
	}

	return []*manga.Chapter{{Name: "Ch.375", Number: 375, URL: mangaURL + "/c375-en/375"}}, nil
}

func (s *fakeSource) GetPageList(chapterURL string) ([]manga.Page, error) {
	if s.err != nil {
		return nil, s.err
	}

	return []manga.Page{{Index: 0, ImageURL: "https://xfs-001.example.com/1.jpg?a"}}, nil
}

func (s *fakeSource) GetFilterList() models.FilterList {
	return mangapark.GetFilterList()
}

func setupFakeSource(t *testing.T) (*gin.Engine, *fakeSource) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	source := &fakeSource{}
	sources.RegisterSource(source)
	t.Cleanup(func() { sources.DeleteSource(fakeSourceID) })

	return api.SetupRouter(), source
}

func doRequest(t *testing.T, router *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)

	return w
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupFakeSource(t)

	t.Run("Should return OK", func(t *testing.T) {
		w := doRequest(t, router, "/v1/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
		assert.NotEmpty(t, w.Header().Get(api.RequestIDHeader))
	})
}

func TestListingRoutes(t *testing.T) {
	router, source := setupFakeSource(t)

	t.Run("Should list the sources", func(t *testing.T) {
		w := doRequest(t, router, "/v1/sources")
		require.Equal(t, http.StatusOK, w.Code)

		var resMap map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resMap))
		assert.Contains(t, resMap["sources"], fakeSourceID)
	})
	t.Run("Should get the latest updates", func(t *testing.T) {
		w := doRequest(t, router, "/v1/sources/fake-en/latest?page=3")
		require.Equal(t, http.StatusOK, w.Code)

		var page models.MangasPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.True(t, page.HasNextPage)
		assert.Len(t, page.Mangas, 1)
		assert.Equal(t, 3, source.lastPage)
	})
	t.Run("Should pass the filters to the search", func(t *testing.T) {
		w := doRequest(t, router, "/v1/sources/fake-en/search?sort=name&ascending=true&status=completed&min_chapters=5&include=action,manhwa&exclude=gore")
		require.Equal(t, http.StatusOK, w.Code)

		filters := source.lastFilters
		assert.Equal(t, "", source.lastQuery)
		assert.Equal(t, 1, source.lastPage)
		assert.Equal(t, "name", filters.SortKey)
		assert.True(t, filters.SortAscending)
		assert.Equal(t, "completed", filters.Status)
		require.NotNil(t, filters.MinChapters)
		assert.Equal(t, 5, *filters.MinChapters)
		assert.Nil(t, filters.MaxChapters)
		assert.Equal(t, map[string]models.TriState{
			"action": models.TriStateInclude,
			"manhwa": models.TriStateInclude,
			"gore":   models.TriStateExclude,
		}, filters.Tags)
	})
	t.Run("Should not accept invalid filters", func(t *testing.T) {
		for _, query := range []string{"sort=best", "status=dead", "min_chapters=-1", "max_chapters=x", "include=not-a-tag", "include=gore&exclude=gore", "ascending=maybe", "page=0"} {
			w := doRequest(t, router, "/v1/sources/fake-en/search?"+query)
			assert.Equal(t, http.StatusBadRequest, w.Code, query)
		}
	})
	t.Run("Should not find an unknown source", func(t *testing.T) {
		w := doRequest(t, router, "/v1/sources/unknown/popular")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
	t.Run("Should get the filters", func(t *testing.T) {
		w := doRequest(t, router, "/v1/sources/fake-en/filters")
		require.Equal(t, http.StatusOK, w.Code)

		var filters models.FilterList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &filters))
		assert.Len(t, filters.Sorts, 16)
		assert.Equal(t, mangapark.FilterTextSearchNote, filters.Note)
	})
}

func TestMangaRoutes(t *testing.T) {
	router, _ := setupFakeSource(t)

	t.Run("Should get the manga", func(t *testing.T) {
		w := doRequest(t, router, "/v1/sources/fake-en/manga?url=/comic/73/berserk")
		require.Equal(t, http.StatusOK, w.Code)

		var resMap map[string]map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resMap))
		assert.Equal(t, "Berserk", resMap["manga"]["title"])
		assert.Equal(t, "ONGOING", resMap["manga"]["status"])
	})
	t.Run("Should get the chapters", func(t *testing.T) {
		w := doRequest(t, router, "/v1/sources/fake-en/chapters?url=/comic/73/berserk")
		require.Equal(t, http.StatusOK, w.Code)

		var resMap map[string][]manga.Chapter
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resMap))
		require.Len(t, resMap["chapters"], 1)
		assert.Equal(t, float64(375), resMap["chapters"][0].Number)
	})
	t.Run("Should get the pages", func(t *testing.T) {
		w := doRequest(t, router, "/v1/sources/fake-en/pages?url=/comic/73/berserk/c375-en/375")
		require.Equal(t, http.StatusOK, w.Code)

		var resMap map[string][]manga.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resMap))
		assert.Equal(t, []manga.Page{{Index: 0, ImageURL: "https://xfs-001.example.com/1.jpg?a"}}, resMap["pages"])
	})
	t.Run("Should require the URL", func(t *testing.T) {
		for _, route := range []string{"manga", "chapters", "pages", "cover"} {
			w := doRequest(t, router, "/v1/sources/fake-en/"+route)
			assert.Equal(t, http.StatusBadRequest, w.Code, route)
		}
	})
}

func TestErrorStatusCodes(t *testing.T) {
	router, source := setupFakeSource(t)

	tests := []struct {
		err      error
		expected int
	}{
		{errordefs.ErrContentUnavailable, http.StatusGone},
		{errordefs.ErrMangaNotFound, http.StatusNotFound},
		{errordefs.ErrMangaHasNoIDOrURL, http.StatusBadRequest},
		{errordefs.ErrDecryptionFailed, http.StatusBadGateway},
		{errordefs.ErrScriptEvaluation, http.StatusBadGateway},
		{errordefs.ErrMalformedUpstream, http.StatusBadGateway},
		{&errordefs.TransportError{URL: "https://mangapark.net", StatusCode: 503, Err: fmt.Errorf("Service Unavailable")}, http.StatusBadGateway},
		{fmt.Errorf("unexpected"), http.StatusInternalServerError},
	}

	t.Run("Should map the source errors to status codes", func(t *testing.T) {
		for _, test := range tests {
			source.err = fmt.Errorf("error while getting pages: %w", test.err)
			w := doRequest(t, router, "/v1/sources/fake-en/pages?url=/comic/73/berserk/c1-en/1")
			assert.Equal(t, test.expected, w.Code, test.err.Error())
			assert.Equal(t, test.expected, routes.ErrorStatusCode(source.err), test.err.Error())
		}
	})
}
