package errordefs

import "fmt"

var (
	ErrMangaNotFound            = &CustomError{Message: "manga not found in source"}
	ErrChapterNotFound          = &CustomError{Message: "chapter not found in source"}
	ErrMangaHasNoIDOrURL        = &CustomError{Message: "manga has no ID or URL"}
	ErrSourceNotFound           = &CustomError{Message: "source not found"}
	ErrMalformedUpstream        = &CustomError{Message: "unexpected markup or JSON shape from source"}
	ErrMalformedChapterNumber   = &CustomError{Message: "chapter number is not numeric"}
	ErrDecryptionFailed         = &CustomError{Message: "could not decrypt chapter image tokens"}
	ErrScriptEvaluation         = &CustomError{Message: "script evaluation failed"}
	ErrContentUnavailable       = &CustomError{Message: "the chapter content seems to be deleted"}
	ErrCryptoRuntimeUnavailable = &CustomError{Message: "crypto runtime could not be fetched"}
)

// CustomError is a custom error
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

// TransportError wraps failures coming from the HTTP layer.
// StatusCode is 0 when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to '%s' failed with status code %d: %s", e.URL, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("request to '%s' failed: %s", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
