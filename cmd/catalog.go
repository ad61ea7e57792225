package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogovalentte/mangapark-adapter/src/sources"
	"github.com/diogovalentte/mangapark-adapter/src/sources/mangapark"
	"github.com/diogovalentte/mangapark-adapter/src/sources/models"
)

var (
	flagSource string
	flagPage   int

	// filters
	flagSort        string
	flagAscending   bool
	flagStatus      string
	flagMinChapters int
	flagMaxChapters int
	flagInclude     []string
	flagExclude     []string
)

func init() {
	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "List the last updated mangas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := sources.GetSource(flagSource)
			if err != nil {
				return err
			}
			return printResult(source.LatestUpdates(flagPage))
		},
	}
	popularCmd := &cobra.Command{
		Use:   "popular",
		Short: "List the mangas with the most views in the last 7 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := sources.GetSource(flagSource)
			if err != nil {
				return err
			}
			return printResult(source.PopularManga(flagPage))
		},
	}
	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search mangas by text or by ID (id:12345), or browse the catalog with filters if no query is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	filtersCmd := &cobra.Command{
		Use:   "filters",
		Short: "Show the filters accepted by search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := sources.GetSource(flagSource)
			if err != nil {
				return err
			}
			return printResult(source.GetFilterList(), nil)
		},
	}
	mangaCmd := &cobra.Command{
		Use:   "manga <url>",
		Short: "Show the metadata of a manga",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(sources.GetMangaDetails(flagSource, args[0]))
		},
	}
	chaptersCmd := &cobra.Command{
		Use:   "chapters <url>",
		Short: "List the chapters of a manga",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(sources.GetChapterList(flagSource, args[0]))
		},
	}
	pagesCmd := &cobra.Command{
		Use:   "pages <url>",
		Short: "List the image URLs of a chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(sources.GetPageList(flagSource, args[0]))
		},
	}

	for _, c := range []*cobra.Command{latestCmd, popularCmd, searchCmd} {
		c.Flags().IntVar(&flagPage, "page", 1, "listing page, starting at 1")
	}

	searchCmd.Flags().StringVar(&flagSort, "sort", "", "sort key (see the filters command)")
	searchCmd.Flags().BoolVar(&flagAscending, "ascending", false, "sort ascending, if the sort key allows it")
	searchCmd.Flags().StringVar(&flagStatus, "status", "", "publication status")
	searchCmd.Flags().IntVar(&flagMinChapters, "min-chapters", 0, "minimum number of chapters")
	searchCmd.Flags().IntVar(&flagMaxChapters, "max-chapters", 0, "maximum number of chapters")
	searchCmd.Flags().StringSliceVar(&flagInclude, "include", nil, "tags to include (e.g. action,manhwa)")
	searchCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "tags to exclude (e.g. gore)")

	for _, c := range []*cobra.Command{latestCmd, popularCmd, searchCmd, filtersCmd, mangaCmd, chaptersCmd, pagesCmd} {
		c.Flags().StringVar(&flagSource, "source", mangapark.SourceID("en"), "source ID")
		rootCmd.AddCommand(c)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	if flagPage < 1 {
		return fmt.Errorf("page must be greater than 0")
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	selection, err := filterSelectionFromFlags(cmd)
	if err != nil {
		return err
	}

	return printResult(sources.SearchManga(flagSource, flagPage, query, selection))
}

// filterSelectionFromFlags builds the search filters, ignoring the count flags that weren't set
func filterSelectionFromFlags(cmd *cobra.Command) (models.FilterSelection, error) {
	selection := models.FilterSelection{
		SortKey:       flagSort,
		SortAscending: flagAscending,
		Status:        flagStatus,
		Tags:          map[string]models.TriState{},
	}

	if cmd.Flags().Changed("min-chapters") {
		value := flagMinChapters
		selection.MinChapters = &value
	}
	if cmd.Flags().Changed("max-chapters") {
		value := flagMaxChapters
		selection.MaxChapters = &value
	}

	for _, tag := range flagInclude {
		if !mangapark.IsKnownTag(tag) {
			return selection, fmt.Errorf("invalid tag '%s'", tag)
		}
		selection.Tags[tag] = models.TriStateInclude
	}
	for _, tag := range flagExclude {
		if !mangapark.IsKnownTag(tag) {
			return selection, fmt.Errorf("invalid tag '%s'", tag)
		}
		if selection.Tags[tag] == models.TriStateInclude {
			return selection, fmt.Errorf("tag '%s' can't be included and excluded", tag)
		}
		selection.Tags[tag] = models.TriStateExclude
	}

	return selection, nil
}

func printResult(result any, err error) error {
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(result)
}
