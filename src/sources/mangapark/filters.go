package mangapark

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/diogovalentte/mangapark-adapter/src/sources/models"
)

// QueryParam is one key/value pair of a browse query
type QueryParam struct {
	Key   string
	Value string
}

// CompiledQuery is an ordered list of query parameters.
// Keys can repeat and the order is kept when encoding.
type CompiledQuery []QueryParam

// Encode returns the query as "key=value&key=value", in order
func (q CompiledQuery) Encode() string {
	var b strings.Builder
	for i, param := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}

	return b.String()
}

// Get returns the value of the first parameter with the key
func (q CompiledQuery) Get(key string) (string, bool) {
	for _, param := range q {
		if param.Key == key {
			return param.Value, true
		}
	}

	return "", false
}

// SortOption is one value of the sort vocabulary.
// Options that are not Orderable are time-window rankings and are always sent descending.
type SortOption struct {
	Name      string
	Value     string
	Orderable bool
}

// DefaultSortKey is the sort selected when the user didn't choose one
const DefaultSortKey = "rating"

// FilterTextSearchNote is shown with the filters, they're not sent with a text search
const FilterTextSearchNote = "NOTE: Ignored if using text search!"

var SortOptions = []SortOption{
	{Name: "Rating", Value: "rating", Orderable: true},
	{Name: "Comments", Value: "comments", Orderable: true},
	{Name: "Discuss", Value: "discuss", Orderable: true},
	{Name: "Update", Value: "update", Orderable: true},
	{Name: "Create", Value: "create", Orderable: true},
	{Name: "Name", Value: "name", Orderable: true},
	{Name: "Total Views", Value: "d000", Orderable: true},
	{Name: "Most Views 360 days", Value: "d360"},
	{Name: "Most Views 180 days", Value: "d180"},
	{Name: "Most Views 90 days", Value: "d090"},
	{Name: "Most Views 30 days", Value: "d030"},
	{Name: "Most Views 7 days", Value: "d007"},
	{Name: "Most Views 24 hours", Value: "h024"},
	{Name: "Most Views 12 hours", Value: "h012"},
	{Name: "Most Views 6 hours", Value: "h006"},
	{Name: "Most Views 60 minutes", Value: "h001"},
}

// StatusAll is the status sentinel that doesn't filter by status
const StatusAll = ""

var StatusOptions = []models.FilterOption{
	{Name: "All", Value: StatusAll},
	{Name: "Pending", Value: "pending"},
	{Name: "Ongoing", Value: "ongoing"},
	{Name: "Completed", Value: "completed"},
	{Name: "Hiatus", Value: "hiatus"},
	{Name: "Cancelled", Value: "cancelled"},
}

var TypeTags = []models.FilterOption{
	{Name: "Cartoon", Value: "cartoon"},
	{Name: "Comic", Value: "comic"},
	{Name: "Doujinshi", Value: "doujinshi"},
	{Name: "Manga", Value: "manga"},
	{Name: "Manhua", Value: "manhua"},
	{Name: "Manhwa", Value: "manhwa"},
	{Name: "Webtoon", Value: "webtoon"},
}

var DemographicTags = []models.FilterOption{
	{Name: "Shounen", Value: "shounen"},
	{Name: "Shoujo", Value: "shoujo"},
	{Name: "Seinen", Value: "seinen"},
	{Name: "Josei", Value: "josei"},
}

var ContentTags = []models.FilterOption{
	{Name: "Adult", Value: "adult"},
	{Name: "Ecchi", Value: "ecchi"},
	{Name: "Gore", Value: "gore"},
	{Name: "Hentai", Value: "hentai"},
	{Name: "Mature", Value: "mature"},
	{Name: "Smut", Value: "smut"},
}

var GenreTags = []models.FilterOption{
	{Name: "Action", Value: "action"},
	{Name: "Adaptation", Value: "adaptation"},
	{Name: "Adventure", Value: "adventure"},
	{Name: "Aliens", Value: "aliens"},
	{Name: "Animals", Value: "animals"},
	{Name: "Anthology", Value: "anthology"},
	// hidden in the site's own filter menu
	{Name: "Award Winning", Value: "award_winning"},
	{Name: "Cars", Value: "cars"},
	{Name: "Comedy", Value: "comedy"},
	{Name: "Cooking", Value: "cooking"},
	{Name: "Crime", Value: "crime"},
	{Name: "Crossdressing", Value: "crossdressing"},
	{Name: "Delinquents", Value: "delinquents"},
	{Name: "Dementia", Value: "dementia"},
	{Name: "Demons", Value: "demons"},
	{Name: "Drama", Value: "drama"},
	{Name: "Fantasy", Value: "fantasy"},
	{Name: "Full Color", Value: "full_color"},
	{Name: "Game", Value: "game"},
	{Name: "Gender Bender", Value: "gender_bender"},
	{Name: "Genderswap", Value: "genderswap"},
	{Name: "Gyaru", Value: "gyaru"},
	{Name: "Harem", Value: "harem"},
	{Name: "Historical", Value: "historical"},
	{Name: "Horror", Value: "horror"},
	{Name: "Incest", Value: "incest"},
	{Name: "Isekai", Value: "isekai"},
	{Name: "Kids", Value: "kids"},
	{Name: "Loli", Value: "loli"},
	{Name: "Lolicon", Value: "lolicon"},
	{Name: "Magic", Value: "magic"},
	{Name: "Magical Girls", Value: "magical_girls"},
	{Name: "Martial Arts", Value: "martial_arts"},
	{Name: "Mecha", Value: "mecha"},
	{Name: "Medical", Value: "medical"},
	{Name: "Military", Value: "military"},
	{Name: "Monster Girls", Value: "monster_girls"},
	{Name: "Monsters", Value: "monsters"},
	{Name: "Music", Value: "music"},
	{Name: "Mystery", Value: "mystery"},
	{Name: "Office Workers", Value: "office_workers"},
	{Name: "Oneshot", Value: "oneshot"},
	{Name: "Parody", Value: "parody"},
	{Name: "Philosophical", Value: "philosophical"},
	{Name: "Police", Value: "police"},
	{Name: "Post Apocalyptic", Value: "post_apocalyptic"},
	{Name: "Psychological", Value: "psychological"},
	{Name: "Reincarnation", Value: "reincarnation"},
	{Name: "Romance", Value: "romance"},
	{Name: "Samurai", Value: "samurai"},
	{Name: "School Life", Value: "school_life"},
	{Name: "Sci-fi", Value: "sci_fi"},
	{Name: "Shotacon", Value: "shotacon"},
	{Name: "Shounen Ai", Value: "shounen_ai"},
	{Name: "Shoujo Ai", Value: "shoujo_ai"},
	{Name: "Slice of Life", Value: "slice_of_life"},
	{Name: "Space", Value: "space"},
	{Name: "Sports", Value: "sports"},
	{Name: "Super Power", Value: "super_power"},
	{Name: "Superhero", Value: "superhero"},
	{Name: "Supernatural", Value: "supernatural"},
	{Name: "Survival", Value: "survival"},
	{Name: "Thriller", Value: "thriller"},
	{Name: "Traditional Games", Value: "traditional_games"},
	{Name: "Tragedy", Value: "tragedy"},
	{Name: "Vampires", Value: "vampires"},
	{Name: "Video Games", Value: "video_games"},
	{Name: "Virtual Reality", Value: "virtual_reality"},
	{Name: "Wuxia", Value: "wuxia"},
	{Name: "Yaoi", Value: "yaoi"},
	{Name: "Yuri", Value: "yuri"},
	{Name: "Zombies", Value: "zombies"},
}

// tagGroups are walked in this order when compiling the genres parameter
var tagGroups = []models.FilterGroup{
	{Name: "Type", Tags: TypeTags},
	{Name: "Demographic", Tags: DemographicTags},
	{Name: "Content", Tags: ContentTags},
	{Name: "Genre", Tags: GenreTags},
}

func findSortOption(value string) (SortOption, bool) {
	for _, option := range SortOptions {
		if option.Value == value {
			return option, true
		}
	}

	return SortOption{}, false
}

// CompileQuery translates the user's filters into the browse query parameters.
// The parameters are always in the order page, sort, genres, release, chapters.
// The genres parameter is always present, "|" when no tag is included or excluded.
func CompileQuery(page int, selection models.FilterSelection) CompiledQuery {
	query := CompiledQuery{{Key: "page", Value: strconv.Itoa(page)}}

	if selection.SortKey != "" {
		direction := "za"
		option, known := findSortOption(selection.SortKey)
		if selection.SortAscending && (!known || option.Orderable) {
			direction = "az"
		}
		query = append(query, QueryParam{Key: "sort", Value: selection.SortKey + "." + direction})
	}

	included := []string{}
	excluded := []string{}
	for _, group := range tagGroups {
		for _, tag := range group.Tags {
			switch selection.Tags[tag.Value] {
			case models.TriStateInclude:
				included = append(included, tag.Value)
			case models.TriStateExclude:
				excluded = append(excluded, tag.Value)
			}
		}
	}
	query = append(query, QueryParam{Key: "genres", Value: strings.Join(included, ",") + "|" + strings.Join(excluded, ",")})

	if selection.Status != StatusAll {
		query = append(query, QueryParam{Key: "release", Value: selection.Status})
	}

	if chapters, ok := chapterRange(selection.MinChapters, selection.MaxChapters); ok {
		query = append(query, QueryParam{Key: "chapters", Value: chapters})
	}

	return query
}

func chapterRange(minChapters, maxChapters *int) (string, bool) {
	switch {
	case minChapters != nil && maxChapters == nil:
		return strconv.Itoa(*minChapters), true
	case minChapters != nil && maxChapters != nil:
		return strconv.Itoa(*minChapters) + "-" + strconv.Itoa(*maxChapters), true
	case maxChapters != nil:
		return "0-" + strconv.Itoa(*maxChapters), true
	default:
		return "", false
	}
}

// GetFilterList returns the filter vocabularies with their display names
func GetFilterList() models.FilterList {
	sorts := make([]models.FilterOption, 0, len(SortOptions))
	for _, option := range SortOptions {
		sorts = append(sorts, models.FilterOption{Name: option.Name, Value: option.Value})
	}

	return models.FilterList{
		Note:        FilterTextSearchNote,
		Sorts:       sorts,
		DefaultSort: DefaultSortKey,
		Statuses:    StatusOptions,
		TagGroups:   tagGroups,
	}
}

// IsKnownTag reports whether the tag value is in any of the tag vocabularies
func IsKnownTag(value string) bool {
	for _, group := range tagGroups {
		for _, tag := range group.Tags {
			if tag.Value == value {
				return true
			}
		}
	}

	return false
}
