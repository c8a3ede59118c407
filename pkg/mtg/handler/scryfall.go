package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/latoulicious/mtgmeta/pkg/logging"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// ScryfallClient fetches set data from the Scryfall API
type ScryfallClient struct {
	httpClient *http.Client
	cacheDir   string
	logger     logging.Logger
}

// NewScryfallClient creates a new Scryfall client caching into cacheDir
func NewScryfallClient(cacheDir string) *ScryfallClient {
	return &ScryfallClient{
		httpClient: newHTTPClient(),
		cacheDir:   cacheDir,
		logger:     logging.GetGlobalLoggerFactory().CreateLogger("scryfall"),
	}
}

// GetSetList fetches every Scryfall set record, following list pagination.
// The full list is cached to set_list.json after a successful fetch.
func (c *ScryfallClient) GetSetList() ([]shared.ScryfallSet, error) {
	var sets []shared.ScryfallSet
	url := shared.ScryfallAPISets

	for url != "" {
		var page shared.ScryfallSetListPage
		if err := getJSON(c.httpClient, url, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch scryfall set list: %w", err)
		}
		sets = append(sets, page.Data...)
		url = ""
		if page.HasMore {
			url = page.NextPage
			// Scryfall asks clients to pace requests
			time.Sleep(requestDelay)
		}
	}

	if err := writeCacheFile(filepath.Join(c.cacheDir, "scryfall", "set_list.json"), sets); err != nil {
		c.logger.Warn("Failed to cache scryfall set list", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return sets, nil
}
