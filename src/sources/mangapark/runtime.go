package mangapark

import (
	"sync/atomic"

	"github.com/diogovalentte/mangapark-adapter/src/util"
)

// RuntimeProvider provides the source text of the CryptoJS runtime
type RuntimeProvider interface {
	Runtime() (string, error)
}

// CachedRuntime downloads the runtime on first use and keeps it for the life of the process.
// It's never refreshed. Concurrent first uses can download it more than once, the last download wins.
type CachedRuntime struct {
	url   string
	fetch func(url string) (string, error)
	text  atomic.Pointer[string]
}

// NewCachedRuntime creates a CachedRuntime that downloads the runtime from url using fetch
func NewCachedRuntime(url string, fetch func(url string) (string, error)) *CachedRuntime {
	return &CachedRuntime{
		url:   url,
		fetch: fetch,
	}
}

// Runtime returns the cached runtime, downloading it if it's not cached yet.
// Failed downloads are not cached.
func (r *CachedRuntime) Runtime() (string, error) {
	if text := r.text.Load(); text != nil {
		return *text, nil
	}

	text, err := r.fetch(r.url)
	if err != nil {
		return "", util.AddErrorContext("error while downloading the CryptoJS runtime", err)
	}
	r.text.Store(&text)

	return text, nil
}

// StaticRuntime is a runtime provider with a fixed text
type StaticRuntime string

func (r StaticRuntime) Runtime() (string, error) {
	return string(r), nil
}
