package util

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("error encoding PNG: %s", err)
	}

	return buf.Bytes()
}

func TestAddErrorContext(t *testing.T) {
	t.Run("Should keep the wrapped error", func(t *testing.T) {
		base := errors.New("EOF")
		err := AddErrorContext("error while getting chapters", base)
		if !errors.Is(err, base) {
			t.Fatalf("expected the error to wrap %v", base)
		}
		if err.Error() != "error while getting chapters: EOF" {
			t.Fatalf("unexpected error message: %s", err)
		}
		if !ErrorContains(err, "EOF") || ErrorContains(nil, "EOF") {
			t.Fatalf("ErrorContains returned an unexpected result")
		}
	})
}

func TestResizeImage(t *testing.T) {
	t.Run("Should resize a PNG image", func(t *testing.T) {
		resized, err := ResizeImage(newPNG(t, 20, 30), 10, 15)
		if err != nil {
			t.Fatalf("error resizing image: %s", err)
		}

		config, format, err := image.DecodeConfig(bytes.NewReader(resized))
		if err != nil {
			t.Fatalf("error decoding resized image: %s", err)
		}
		if format != "png" || config.Width != 10 || config.Height != 15 {
			t.Fatalf("unexpected image: %s %dx%d", format, config.Width, config.Height)
		}
	})
	t.Run("Should not accept invalid images", func(t *testing.T) {
		if IsImageValid([]byte("not an image")) {
			t.Fatalf("expected the image to be invalid")
		}
		if _, err := ResizeImage([]byte("not an image"), 10, 10); err == nil {
			t.Fatalf("expected an error")
		}
	})
}

func TestGetImageFromURL(t *testing.T) {
	imgBytes := newPNG(t, 40, 40)
	var referer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
		switch r.URL.Path {
		case "/cover.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(imgBytes)
		case "/broken.png":
			_, _ = w.Write([]byte("broken"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	t.Run("Should download and resize the image", func(t *testing.T) {
		img, resized, err := GetImageFromURL(server.Client(), server.URL+"/cover.png", "https://mangapark.net/")
		if err != nil {
			t.Fatalf("error downloading image: %s", err)
		}
		if !resized {
			t.Fatalf("expected the image to be resized")
		}
		if referer != "https://mangapark.net/" {
			t.Fatalf("unexpected referer: %s", referer)
		}
		if ImageContentType(img) != "image/png" {
			t.Fatalf("unexpected content type: %s", ImageContentType(img))
		}
	})
	t.Run("Should return an error for a non-200 status", func(t *testing.T) {
		if _, _, err := GetImageFromURL(server.Client(), server.URL+"/missing.png", ""); err == nil {
			t.Fatalf("expected an error")
		}
	})
	t.Run("Should return an error for an invalid image", func(t *testing.T) {
		if _, _, err := GetImageFromURL(server.Client(), server.URL+"/broken.png", ""); err == nil {
			t.Fatalf("expected an error")
		}
	})
}
