package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/latoulicious/mtgmeta/pkg/logging"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// VectorsClient fetches the symbol manifest and SVG asset package from the
// mtg-vectors repository
type VectorsClient struct {
	httpClient *http.Client
	cacheDir   string
	symbolsDir string
	logger     logging.Logger
}

// NewVectorsClient creates a new mtg-vectors client. Extracted SVG assets
// land under symbolsDir.
func NewVectorsClient(cacheDir, symbolsDir string) *VectorsClient {
	return &VectorsClient{
		httpClient: newHTTPClient(),
		cacheDir:   cacheDir,
		symbolsDir: symbolsDir,
		logger:     logging.GetGlobalLoggerFactory().CreateLogger("vectors"),
	}
}

// GetManifest fetches the current symbol catalog manifest, caching it
// after a successful fetch.
func (c *VectorsClient) GetManifest() (*shared.SymbolManifest, error) {
	var manifest shared.SymbolManifest
	if err := getJSON(c.httpClient, shared.VectorsManifest, &manifest); err != nil {
		return nil, fmt.Errorf("failed to fetch symbol manifest: %w", err)
	}

	if err := writeCacheFile(filepath.Join(c.cacheDir, "vectors", "manifest.json"), &manifest); err != nil {
		c.logger.Warn("Failed to cache symbol manifest", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &manifest, nil
}

// DownloadPackage downloads the SVG asset package and unpacks it into the
// symbols directory. An empty uri falls back to the repository default.
func (c *VectorsClient) DownloadPackage(uri string) error {
	if uri == "" {
		uri = shared.VectorsPackage
	}

	archivePath := filepath.Join(c.symbolsDir, "package.zip")
	if err := getFile(c.httpClient, uri, archivePath); err != nil {
		return fmt.Errorf("failed to download symbol package: %w", err)
	}

	// Clear stale assets first so symbols removed upstream do not linger
	// across package releases.
	for _, sub := range []string{"set", "watermark"} {
		if err := os.RemoveAll(filepath.Join(c.symbolsDir, sub)); err != nil {
			return fmt.Errorf("failed to clear stale symbol assets: %w", err)
		}
	}

	if err := UnpackZip(archivePath, c.symbolsDir); err != nil {
		return fmt.Errorf("failed to unpack symbol package: %w", err)
	}
	return nil
}
