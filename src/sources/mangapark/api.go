package mangapark

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/gocolly/colly/v2"

	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
)

// newCollector returns a collector for a single request.
// The sources are used concurrently by the API, so collectors are never shared.
func (s *Source) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(s.userAgent),
		colly.AllowURLRevisit(),
	)
	if s.requestTimeout > 0 {
		c.SetRequestTimeout(s.requestTimeout)
	}
	if s.cloudflareBypass {
		c.WithTransport(cloudflarebp.AddCloudFlareByPass(http.DefaultTransport.(*http.Transport).Clone()))
	}

	return c
}

func (s *Source) get(url string, header http.Header) ([]byte, error) {
	return s.request(http.MethodGet, url, nil, header)
}

func (s *Source) post(url string, body []byte, header http.Header) ([]byte, error) {
	return s.request(http.MethodPost, url, body, header)
}

// request makes a request and returns the response body.
// Any failure is returned as an *errordefs.TransportError, there are no retries.
func (s *Source) request(method, url string, body []byte, header http.Header) ([]byte, error) {
	c := s.newCollector()

	var respBody []byte
	var statusCode int
	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		respBody = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	s.logger.Debug().Str("source", s.id).Str("method", method).Str("url", url).Msg("requesting")
	err := c.Request(method, url, reqBody, nil, header)
	if err != nil {
		return nil, &errordefs.TransportError{URL: url, StatusCode: statusCode, Err: err}
	}

	return respBody, nil
}

// FetchText downloads a text resource, like the CryptoJS runtime
func (s *Source) FetchText(url string) (string, error) {
	body, err := s.get(url, nil)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func isNotFound(err error) bool {
	var transportErr *errordefs.TransportError
	return errors.As(err, &transportErr) && transportErr.StatusCode == http.StatusNotFound
}
