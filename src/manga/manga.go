// Package manga implements the manga, chapter and page value types returned by the sources
package manga

import (
	"fmt"
	"strings"
)

// Status is the publication status of the manga in the source, it can be:
// 0 - Unknown
// 1 - Ongoing
// 2 - Completed
type Status int

const (
	StatusUnknown Status = iota
	StatusOngoing
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "ONGOING"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText makes the status readable in JSON responses
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Manga is the full metadata of a manga, scraped from its detail page
type Manga struct {
	// Source is the ID of the source the manga was scraped from
	Source string `json:"source"`
	// URL is the URL of the manga without the site domain, like /comic/1234/title
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Author is a comma-joined list of the authors
	Author string `json:"author"`
	Status Status `json:"status"`
	// ThumbnailURL is the absolute URL of the cover image
	ThumbnailURL string   `json:"thumbnail_url"`
	Genres       []string `json:"genres"`
}

func (m Manga) String() string {
	return fmt.Sprintf("Manga{Source: %s, URL: %s, Title: %s, Author: %s, Status: %s, ThumbnailURL: %s, Genres: [%s]}", m.Source, m.URL, m.Title, m.Author, m.Status, m.ThumbnailURL, strings.Join(m.Genres, ", "))
}

// ListingEntry is one row of a listing page (browse, latest, popular or search)
type ListingEntry struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Author       string   `json:"author,omitempty"`
	Genres       []string `json:"genres,omitempty"`
}

// ToListingEntry returns the summary of a manga
func (m *Manga) ToListingEntry() ListingEntry {
	return ListingEntry{
		URL:          m.URL,
		Title:        m.Title,
		ThumbnailURL: m.ThumbnailURL,
		Author:       m.Author,
		Genres:       m.Genres,
	}
}

// ParseStatus classifies the status text of a manga page.
// "Hiatus" is reported as ongoing, there is no separate state for it.
func ParseStatus(text string) Status {
	switch {
	case strings.Contains(text, "Ongoing"):
		return StatusOngoing
	case strings.Contains(text, "Hiatus"):
		return StatusOngoing
	case strings.Contains(text, "Completed"):
		return StatusCompleted
	default:
		return StatusUnknown
	}
}
