package manga

import (
	"encoding/json"
	"testing"
	"time"
)

var statusTestTable = map[string]Status{
	"Ongoing":                StatusOngoing,
	"Hiatus":                 StatusOngoing,
	"Completed":              StatusCompleted,
	"Completed (Scanlation)": StatusCompleted,
	"Cancelled":              StatusUnknown,
	"":                       StatusUnknown,
}

func TestParseStatus(t *testing.T) {
	t.Run("Should classify the status text", func(t *testing.T) {
		for text, expected := range statusTestTable {
			actual := ParseStatus(text)
			if actual != expected {
				t.Fatalf("status text '%s': expected %s, got %s", text, expected, actual)
			}
		}
	})
	t.Run("Should marshal the status as text", func(t *testing.T) {
		body, err := json.Marshal(Manga{Status: StatusCompleted})
		if err != nil {
			t.Fatalf("error while marshaling manga: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("error while unmarshaling manga: %v", err)
		}
		if decoded["status"] != "COMPLETED" {
			t.Fatalf("expected status COMPLETED, got %v", decoded["status"])
		}
	})
}

func TestValidatePages(t *testing.T) {
	t.Run("Should accept ordered pages", func(t *testing.T) {
		pages := []Page{{Index: 0, ImageURL: "https://xfs-001.example.com/1.jpg?a"}, {Index: 1, ImageURL: "http://xfs-001.example.com/2.jpg?b"}}
		if err := ValidatePages(pages); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	t.Run("Should accept no pages", func(t *testing.T) {
		if err := ValidatePages(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	t.Run("Should not accept out of order pages", func(t *testing.T) {
		pages := []Page{{Index: 1, ImageURL: "a"}, {Index: 0, ImageURL: "b"}}
		if err := ValidatePages(pages); err == nil {
			t.Fatalf("expected error, got nil")
		}
	})
	t.Run("Should not accept duplicated indices", func(t *testing.T) {
		pages := []Page{{Index: 0, ImageURL: "https://a.com/a"}, {Index: 0, ImageURL: "https://a.com/b"}}
		if err := ValidatePages(pages); err == nil {
			t.Fatalf("expected error, got nil")
		}
	})
	t.Run("Should not accept relative or empty image URLs", func(t *testing.T) {
		for _, imageURL := range []string{"", "/img/1.jpg?t0", "xfs-001.example.com/1.jpg", "ftp://xfs-001.example.com/1.jpg", "https://"} {
			if err := ValidatePages([]Page{{Index: 0, ImageURL: imageURL}}); err == nil {
				t.Fatalf("expected error for '%s', got nil", imageURL)
			}
		}
	})
}

func TestChapterUploadTime(t *testing.T) {
	t.Run("Should return the upload time", func(t *testing.T) {
		millis := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
		chapter := Chapter{UploadedAt: &millis}
		uploadedAt, ok := chapter.UploadTime()
		if !ok {
			t.Fatalf("expected upload time to be known")
		}
		if uploadedAt.UnixMilli() != millis {
			t.Fatalf("expected %d, got %d", millis, uploadedAt.UnixMilli())
		}
	})
	t.Run("Should not return the unknown sentinel as a time", func(t *testing.T) {
		var zero int64
		if _, ok := (Chapter{UploadedAt: &zero}).UploadTime(); ok {
			t.Fatalf("expected upload time to be unknown")
		}
		if _, ok := (Chapter{}).UploadTime(); ok {
			t.Fatalf("expected upload time to be absent")
		}
	})
}
