package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/latoulicious/mtgmeta/pkg/logging"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// MtgjsonClient fetches set data and bulk archives from MTGJSON
type MtgjsonClient struct {
	httpClient *http.Client
	cacheDir   string
	logger     logging.Logger
}

// NewMtgjsonClient creates a new MTGJSON client caching into cacheDir
func NewMtgjsonClient(cacheDir string) *MtgjsonClient {
	return &MtgjsonClient{
		httpClient: newHTTPClient(),
		cacheDir:   cacheDir,
		logger:     logging.GetGlobalLoggerFactory().CreateLogger("mtgjson"),
	}
}

// GetMeta fetches the current MTGJSON metadata resource.
func (c *MtgjsonClient) GetMeta() (*shared.MtgjsonMeta, error) {
	var envelope shared.MtgjsonEnvelope[shared.MtgjsonMeta]
	if err := getJSON(c.httpClient, shared.MtgjsonAPIMeta, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch mtgjson meta: %w", err)
	}
	return &envelope.Data, nil
}

// GetSetList fetches the current SetList.json file, caching it after a
// successful fetch.
func (c *MtgjsonClient) GetSetList() ([]shared.MtgjsonSetList, error) {
	var envelope shared.MtgjsonEnvelope[[]shared.MtgjsonSetList]
	if err := getJSON(c.httpClient, shared.MtgjsonAPISetList, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch mtgjson set list: %w", err)
	}

	if err := writeCacheFile(filepath.Join(c.cacheDir, "mtgjson", "SetList.json"), envelope); err != nil {
		c.logger.Warn("Failed to cache mtgjson set list", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return envelope.Data, nil
}

// DownloadAllSetFiles downloads the AllSetFiles archive and unpacks the
// per-set detail files under the cache directory.
func (c *MtgjsonClient) DownloadAllSetFiles() error {
	archivePath := filepath.Join(c.cacheDir, "mtgjson", "AllSetFiles.tar.gz")
	if err := getFile(c.httpClient, shared.MtgjsonAPISetFiles, archivePath); err != nil {
		return fmt.Errorf("failed to download AllSetFiles archive: %w", err)
	}
	if err := UnpackTarGz(archivePath, filepath.Join(c.cacheDir, "mtgjson")); err != nil {
		return fmt.Errorf("failed to unpack AllSetFiles archive: %w", err)
	}
	return nil
}

// LoadSetDetail loads the per-set detail file {CODE}.json extracted from
// the AllSetFiles archive. A missing or unreadable file is not an error;
// it returns nil so callers degrade the fields it would have provided.
func (c *MtgjsonClient) LoadSetDetail(code string) (*shared.MtgjsonSetDetail, error) {
	path := filepath.Join(c.cacheDir, "mtgjson", "AllSetFiles", strings.ToUpper(code)+".json")
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var envelope shared.MtgjsonEnvelope[shared.MtgjsonSetDetail]
	if err := json.Unmarshal(buf, &envelope); err != nil {
		c.logger.Warn("Unreadable mtgjson set detail file", map[string]interface{}{
			"code": code,
			"path": path,
		})
		return nil, nil
	}
	return &envelope.Data, nil
}
