package models

import "github.com/diogovalentte/mangapark-adapter/src/manga"

// Source is the interface for a catalog source
type Source interface {
	// ID returns the unique ID of the source, like "mangapark-en"
	ID() string
	// LatestUpdates returns a page of recently updated mangas
	LatestUpdates(page int) (*MangasPage, error)
	// PopularManga returns a page of popular mangas
	PopularManga(page int) (*MangasPage, error)
	// SearchManga searches by text. If the query is blank, it browses the catalog using the filters instead.
	SearchManga(page int, query string, filters FilterSelection) (*MangasPage, error)
	// GetMangaDetails returns the metadata of a manga by its relative URL
	GetMangaDetails(mangaURL string) (*manga.Manga, error)
	// GetChapterList returns all chapters of a manga by its relative URL
	GetChapterList(mangaURL string) ([]*manga.Chapter, error)
	// GetPageList returns the ordered image URLs of a chapter by its relative URL
	GetPageList(chapterURL string) ([]manga.Page, error)
	// GetFilterList returns the filters the source understands
	GetFilterList() FilterList
}

// MangasPage is one page of a listing
type MangasPage struct {
	Mangas      []manga.ListingEntry `json:"mangas"`
	HasNextPage bool                 `json:"has_next_page"`
}

// TriState is the state of a tag filter
type TriState int

const (
	TriStateIgnore TriState = iota
	TriStateInclude
	TriStateExclude
)

// FilterSelection is the set of filters selected by the user.
// Tags holds the state of every type, demographic, content and genre tag by its value.
// Tags not in the map are ignored.
type FilterSelection struct {
	SortKey       string
	SortAscending bool
	// MinChapters and MaxChapters are nil when not set
	MinChapters *int
	MaxChapters *int
	// Status is the publication status value, empty means all
	Status string
	Tags   map[string]TriState
}

// FilterOption is one selectable value of a filter
type FilterOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FilterGroup is a named list of tri-state tags
type FilterGroup struct {
	Name string         `json:"name"`
	Tags []FilterOption `json:"tags"`
}

// FilterList describes the filters a source understands
type FilterList struct {
	Note        string         `json:"note,omitempty"`
	Sorts       []FilterOption `json:"sorts"`
	DefaultSort string         `json:"default_sort"`
	Statuses    []FilterOption `json:"statuses"`
	TagGroups   []FilterGroup  `json:"tag_groups"`
}
