// Package loader resolves a models.CrateSource into a parsed rocrate.Document
// plus the raw metadata bytes it was parsed from. Every function in this
// package performs blocking I/O; callers on a cooperative runtime are
// responsible for dispatching to a blocking-capable worker.
package loader

import (
	"fmt"
	"net/http"
	"time"

	"github.com/arunaengine/rocrate-indexer/internal/common"
	"github.com/arunaengine/rocrate-indexer/internal/httpclient"
	"github.com/arunaengine/rocrate-indexer/internal/models"
	"github.com/arunaengine/rocrate-indexer/internal/rocrate"
	"github.com/ternarybob/arbor"
)

// Result is what Load returns: the parsed document and the raw bytes it came from.
type Result struct {
	Doc *rocrate.Document
	Raw []byte
}

// Loader dispatches a CrateSource to the modality-specific loader function.
type Loader struct {
	httpClient *http.Client
	logger     arbor.ILogger
}

// New creates a Loader with the given HTTP timeout for URL sources.
func New(timeout time.Duration, logger arbor.ILogger) *Loader {
	return &Loader{
		httpClient: httpclient.NewDefaultHTTPClient(timeout),
		logger:     logger,
	}
}

// Load resolves source to its parsed document and raw bytes.
func (l *Loader) Load(source models.CrateSource) (*Result, error) {
	switch source.Kind {
	case models.SourceDirectory, models.SourceDirectorySubcrate:
		return l.loadDirectory(source.Path)
	case models.SourceZipFile:
		return l.loadZipRoot(source.Path)
	case models.SourceURL:
		return l.loadURL(source.Path)
	case models.SourceZipSubcrate:
		return l.loadZipEntry(source.ZipPath, source.Subpath)
	case models.SourceURLSubcrate:
		return l.loadURL(source.MetadataURL)
	default:
		return nil, fmt.Errorf("%w: unknown crate source kind %v", common.ErrLoadFailed, source.Kind)
	}
}

func parseRaw(raw []byte) (*Result, error) {
	doc, err := rocrate.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Result{Doc: doc, Raw: raw}, nil
}
