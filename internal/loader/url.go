package loader

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arunaengine/rocrate-indexer/internal/common"
)

// loadURL resolves a Url / UrlSubcrate source: if rawURL ends with
// ro-crate-metadata.json, fetch it directly. Otherwise try
// "<rawURL>/ro-crate-metadata.json" first, accepting it only if the body
// begins with "{"; failing that, fall back to the bare URL, again accepting
// only a body beginning with "{".
func (l *Loader) loadURL(rawURL string) (*Result, error) {
	if strings.HasSuffix(rawURL, metadataFileName) {
		raw, err := l.fetch(rawURL)
		if err != nil {
			return nil, err
		}
		return parseRaw(raw)
	}

	candidate := strings.TrimSuffix(rawURL, "/") + "/" + metadataFileName
	if raw, err := l.fetch(candidate); err == nil && looksLikeJSON(raw) {
		return parseRaw(raw)
	}

	raw, err := l.fetch(rawURL)
	if err != nil {
		return nil, err
	}
	if !looksLikeJSON(raw) {
		return nil, fmt.Errorf("%w: %s did not return JSON", common.ErrLoadFailed, rawURL)
	}
	return parseRaw(raw)
}

func looksLikeJSON(raw []byte) bool {
	for _, b := range raw {
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		return b == '{'
	}
	return false
}

func (l *Loader) fetch(url string) ([]byte, error) {
	resp, err := l.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", common.ErrLoadFailed, url, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLoadFailed, err)
	}
	return raw, nil
}
