package manga

import (
	"fmt"
	"net/url"
	"time"
)

// Chapter is the struct for a chapter row of a manga's chapter list.
type Chapter struct {
	Name string `json:"name"`
	// Number is parsed from the last path segment of the chapter URL.
	// It's not guaranteed to be unique or increasing.
	Number float64 `json:"number"`
	// URL is the URL of the chapter without the site domain
	URL string `json:"url"`
	// UploadedAt is the upload time in Unix milliseconds.
	// It's nil when the page has no upload time, and 0 when the time text couldn't be understood.
	UploadedAt *int64 `json:"uploaded_at,omitempty"`
}

func (c Chapter) String() string {
	uploadedAt := "nil"
	if c.UploadedAt != nil {
		uploadedAt = fmt.Sprintf("%d", *c.UploadedAt)
	}

	return fmt.Sprintf("Chapter{Name: %s, Number: %g, URL: %s, UploadedAt: %s}", c.Name, c.Number, c.URL, uploadedAt)
}

// UploadTime returns the upload time of the chapter.
// The second value is false when the upload time is absent or unknown.
func (c Chapter) UploadTime() (time.Time, bool) {
	if c.UploadedAt == nil || *c.UploadedAt == 0 {
		return time.Time{}, false
	}

	return time.UnixMilli(*c.UploadedAt), true
}

// Page is one image of a chapter
type Page struct {
	// Index is the 0-based position of the page in the chapter
	Index    int    `json:"index"`
	ImageURL string `json:"image_url"`
}

// ValidatePages checks that the pages are in reading order, without gaps or duplicated indices,
// and that every image URL is an absolute HTTP(S) URL
func ValidatePages(pages []Page) error {
	for i, page := range pages {
		if page.Index != i {
			return fmt.Errorf("page at position %d has index %d", i, page.Index)
		}
		if page.ImageURL == "" {
			return fmt.Errorf("page %d has no image URL", i)
		}
		imageURL, err := url.Parse(page.ImageURL)
		if err != nil {
			return fmt.Errorf("page %d has an invalid image URL '%s': %s", i, page.ImageURL, err)
		}
		if (imageURL.Scheme != "http" && imageURL.Scheme != "https") || imageURL.Host == "" {
			return fmt.Errorf("page %d image URL '%s' is not an absolute HTTP URL", i, page.ImageURL)
		}
	}

	return nil
}
