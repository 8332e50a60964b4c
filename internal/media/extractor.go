// Package media maps stored media values to storage-provider identifiers.
package media

import (
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/maheshrc27/community-api/internal/models"
)

const uploadMarker = "/upload/"

var versionSegment = regexp.MustCompile(`^v\d+$`)

type Extractor struct {
	domainMarker     string
	placeholderHosts []string
}

// NewExtractor returns an Extractor that only recognises URLs containing
// domainMarker. URLs served from one of placeholderHosts are never tracked.
func NewExtractor(domainMarker string, placeholderHosts []string) *Extractor {
	return &Extractor{domainMarker: domainMarker, placeholderHosts: placeholderHosts}
}

// PublicID returns the storage identifier for ref, preferring the explicit
// PublicID over extraction from the URL.
func (e *Extractor) PublicID(ref models.MediaRef) (string, bool) {
	if id := strings.TrimSpace(ref.PublicID); id != "" {
		return id, true
	}
	return e.FromURL(ref.URL)
}

// FromURL derives the storage identifier from a stored value. Values without a
// scheme are already identifiers. The bool is false whenever the value does
// not need reconciliation.
func (e *Extractor) FromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if !strings.Contains(raw, "://") {
		return strings.TrimPrefix(raw, "/"), true
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		slog.Warn("unable to parse media url", "url", raw, "error", err)
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	for _, placeholder := range e.placeholderHosts {
		if host == placeholder || strings.HasSuffix(host, "."+placeholder) {
			return "", false
		}
	}

	if e.domainMarker == "" || !strings.Contains(host, strings.ToLower(e.domainMarker)) {
		return "", false
	}

	idx := strings.Index(u.Path, uploadMarker)
	if idx < 0 {
		slog.Warn("media url has no upload segment", "url", raw)
		return "", false
	}

	segments := strings.Split(strings.Trim(u.Path[idx+len(uploadMarker):], "/"), "/")
	if len(segments) > 0 && versionSegment.MatchString(segments[0]) {
		segments = segments[1:]
	}
	if len(segments) == 0 || segments[0] == "" {
		slog.Warn("media url has no identifier", "url", raw)
		return "", false
	}

	last := len(segments) - 1
	segments[last] = strings.TrimSuffix(segments[last], path.Ext(segments[last]))
	if segments[last] == "" {
		return "", false
	}

	return strings.Join(segments, "/"), true
}
