// Package util implements utility functions
package util

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	"golang.org/x/image/webp"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zerolog.Logger

// LogFile configures logging to a rotated file instead of stdout
type LogFile struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

// SetupLogger creates the zerolog logger instance.
// If file is nil or has no path, it logs to stdout.
func SetupLogger(logLevel zerolog.Level, file *LogFile) *zerolog.Logger {
	var output io.Writer = os.Stdout
	if file != nil && file.Path != "" {
		output = &lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
		}
	}

	l := zerolog.New(output).Level(logLevel).With().Timestamp().Logger()
	logger = &l

	return logger
}

// GetLogger returns the zerolog logger instance
func GetLogger(logLevel zerolog.Level) *zerolog.Logger {
	if logger == nil {
		return SetupLogger(logLevel, nil)
	}

	return logger
}

// AddErrorContext adds context to an error, like:
// "error while getting chapter list: request to 'https://mangapark.net/ajax.reader.subject.episodes.lang' failed: EOF".
// Should be used in functions that can return multiple errors without a spefic origin/context.
func AddErrorContext(context string, err error) error {
	return fmt.Errorf("%s: %w", context, err)
}

// ErrorContains checks if an error contains a specific string
func ErrorContains(err error, s string) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), s)
}

var (
	// DefaultImageHeight is the default height of an image
	DefaultImageHeight = 355
	// DefaultImageWidth is the default width of an image
	DefaultImageWidth = 250
)

// GetImageFromURL downloads an image from a URL and tries to resize it.
// If the image is not resized, it returns the original image.
func GetImageFromURL(client *http.Client, url string, referer string) (imgBytes []byte, resized bool, err error) {
	contextError := "error downloading image '%s'"

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, resized, AddErrorContext(fmt.Sprintf(contextError, url), AddErrorContext("error while creating request", err))
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:30.0) Gecko/20100101 Firefox/30.0")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, resized, AddErrorContext(fmt.Sprintf(contextError, url), AddErrorContext("error while executing request", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, resized, AddErrorContext(fmt.Sprintf(contextError, url), fmt.Errorf("non-200 status code -> (%d). Body: %s", resp.StatusCode, string(body)))
	}

	imageBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resized, AddErrorContext(fmt.Sprintf(contextError, url), AddErrorContext("could not read the image data from request body", err))
	}

	if strings.HasSuffix(url, ".webp") || resp.Header.Get("Content-Type") == "image/webp" {
		imageBytes, err = webpToJPEG(imageBytes)
		if err != nil {
			return nil, resized, AddErrorContext(fmt.Sprintf(contextError, url), AddErrorContext("could not convert webp image to jpeg", err))
		}
	}

	if !IsImageValid(imageBytes) {
		return nil, resized, AddErrorContext(fmt.Sprintf(contextError, url), fmt.Errorf("invalid image"))
	}

	img, err := ResizeImage(imageBytes, uint(DefaultImageWidth), uint(DefaultImageHeight))
	if err != nil {
		// JPEG format that has an unsupported subsampling ratio
		// It's a valid image but the standard library doesn't support it
		// and other libraries use the standard library under the hood
		if ErrorContains(err, "unsupported JPEG feature: luma/chroma subsampling ratio") {
			img = imageBytes
		} else {
			return nil, resized, AddErrorContext(fmt.Sprintf(contextError, url), err)
		}
	} else {
		resized = true
	}

	return img, resized, nil
}

func webpToJPEG(webpImgBytes []byte) ([]byte, error) {
	img, err := webp.Decode(bytes.NewReader(webpImgBytes))
	if err != nil {
		return nil, fmt.Errorf("could not decode webp image")
	}

	var jpegImgBytes bytes.Buffer
	err = jpeg.Encode(&jpegImgBytes, img, nil)
	if err != nil {
		return nil, fmt.Errorf("could not encode image to jpeg")
	}

	return jpegImgBytes.Bytes(), nil
}

// ResizeImage resizes an image to the specified width and height
func ResizeImage(imgBytes []byte, width, height uint) ([]byte, error) {
	contextError := "error resizing image to width %d and height %d"

	img, format, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, AddErrorContext(fmt.Sprintf(contextError, width, height), err)
	}

	resizedImg := resize.Resize(width, height, img, resize.Lanczos3)

	var resizedBuf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&resizedBuf, resizedImg, nil)
	case "png":
		err = png.Encode(&resizedBuf, resizedImg)
	default:
		return nil, AddErrorContext(fmt.Sprintf(contextError, width, height), fmt.Errorf("unsupported image format to resize: %s", format))
	}
	if err != nil {
		return nil, AddErrorContext(fmt.Sprintf(contextError, width, height), err)
	}

	return resizedBuf.Bytes(), nil
}

// IsImageValid checks if an image is valid by decoding it
func IsImageValid(imgBytes []byte) bool {
	_, _, err := image.DecodeConfig(bytes.NewReader(imgBytes))
	if err != nil {
		return ErrorContains(err, "luma/chroma subsampling ratio")
	}

	return true
}

// ImageContentType returns the MIME type of an image
func ImageContentType(imgBytes []byte) string {
	return http.DetectContentType(imgBytes)
}
