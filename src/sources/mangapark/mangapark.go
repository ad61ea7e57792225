// Package mangapark provides the implementation of the models.Source interface for the MangaPark v3 site
package mangapark

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/diogovalentte/mangapark-adapter/src/sources/models"
	"github.com/diogovalentte/mangapark-adapter/src/util"
)

const (
	defaultBaseURL     = "https://mangapark.net"
	defaultCryptoJSURL = "https://cdnjs.cloudflare.com/ajax/libs/crypto-js/4.0.0/crypto-js.min.js"
	defaultUserAgent   = "Mozilla/5.0 (X11; Linux x86_64; rv:30.0) Gecko/20100101 Firefox/30.0"

	defaultScriptTimeout = 10 * time.Second
)

// Source is the struct for the MangaPark source of one language
type Source struct {
	id       string
	lang     string
	siteLang string
	baseURL  string

	userAgent             string
	requestTimeout        time.Duration
	cloudflareBypass      bool
	skipMalformedChapters bool

	decrypter Decrypter
	logger    *zerolog.Logger
	// now is the instant relative chapter times are resolved against
	now func() time.Time
}

// Options are the options to create a Source.
// Only SiteLang is required.
type Options struct {
	// Lang is the BCP 47 tag of the source, like "pt-BR"
	Lang string
	// SiteLang is the language code the site uses, like "pt_br"
	SiteLang string
	BaseURL  string

	UserAgent      string
	RequestTimeout time.Duration
	// CloudflareBypass wraps the HTTP transport with a browser-like TLS configuration
	CloudflareBypass bool
	// SkipMalformedChapters skips the chapters with a non-numeric number instead of failing the whole list
	SkipMalformedChapters bool

	// Decrypter defaults to the fetched CryptoJS runtime evaluated with goja
	Decrypter Decrypter
	Logger    *zerolog.Logger
}

var _ models.Source = (*Source)(nil)

// NewSource creates a MangaPark source
func NewSource(opts Options) (*Source, error) {
	if opts.SiteLang == "" {
		return nil, fmt.Errorf("error while creating MangaPark source: site language is empty")
	}
	if opts.Lang == "" {
		opts.Lang = opts.SiteLang
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = util.GetLogger(zerolog.InfoLevel)
	}

	s := &Source{
		id:                    SourceID(opts.Lang),
		lang:                  opts.Lang,
		siteLang:              opts.SiteLang,
		baseURL:               strings.TrimSuffix(opts.BaseURL, "/"),
		userAgent:             opts.UserAgent,
		requestTimeout:        opts.RequestTimeout,
		cloudflareBypass:      opts.CloudflareBypass,
		skipMalformedChapters: opts.SkipMalformedChapters,
		decrypter:             opts.Decrypter,
		logger:                opts.Logger,
		now:                   time.Now,
	}
	if s.decrypter == nil {
		s.decrypter = &ScriptDecrypter{
			Runtime:   NewCachedRuntime(defaultCryptoJSURL, s.FetchText),
			Evaluator: NewGojaEvaluator(defaultScriptTimeout),
		}
	}

	return s, nil
}

// SourceID returns the ID of the MangaPark source of a language, like "mangapark-en"
func SourceID(lang string) string {
	return "mangapark-" + lang
}

// ID returns the unique ID of the source
func (s *Source) ID() string {
	return s.id
}

// Lang returns the BCP 47 tag of the source
func (s *Source) Lang() string {
	return s.lang
}

// SiteLang returns the language code sent to the site
func (s *Source) SiteLang() string {
	return s.siteLang
}

// BaseURL returns the site URL without a trailing slash
func (s *Source) BaseURL() string {
	return s.baseURL
}

// GetFilterList returns the filters of the browse page
func (s *Source) GetFilterList() models.FilterList {
	return GetFilterList()
}

func (s *Source) absoluteURL(path string) string {
	return absoluteURL(s.baseURL+"/", path)
}

// SetDecrypter replaces the decrypter of the image tokens.
// It should be called before the source is used.
func (s *Source) SetDecrypter(decrypter Decrypter) {
	s.decrypter = decrypter
}
