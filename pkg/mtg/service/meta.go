package service

import (
	"errors"
	"fmt"
	"time"

	appversion "github.com/latoulicious/mtgmeta/internal/version"
	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/logging"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
)

// MetaService is the version ledger: it tracks per-resource version, date
// and URI so sync operations can short-circuit when nothing changed
// upstream.
type MetaService struct {
	service *mtg.Service
	logger  logging.Logger
}

var _ mtg.MetaServiceInterface = (*MetaService)(nil)

func NewMetaService(s *mtg.Service) *MetaService {
	return &MetaService{
		service: s,
		logger:  logging.GetGlobalLoggerFactory().CreateLogger("meta"),
	}
}

// FormattedVersion returns the "{version}+{YYYYMMDD}" comparison key for a
// resource, or ok=false when no ledger entry exists.
func (ms *MetaService) FormattedVersion(resource string) (string, bool) {
	meta, err := ms.service.MetaRepo.GetMetaByResource(resource)
	if err != nil {
		if !errors.Is(err, mtg.ErrNotFound) {
			ms.logger.Error("Failed to read ledger entry", err, map[string]interface{}{
				"resource": resource,
			})
		}
		return "", false
	}
	return meta.VersionFormatted(), true
}

// Upsert creates or updates the ledger entry for a resource. An empty
// version defaults to the current application version and a nil date to
// now; internally-versioned resources ("sets", "symbols") rely on these
// self-describing defaults.
func (ms *MetaService) Upsert(resource, uri, version string, date *time.Time) error {
	if version == "" {
		version = appversion.Version
	}
	when := time.Now()
	if date != nil {
		when = *date
	}

	meta := &models.Meta{
		Resource: resource,
		Date:     when,
		Version:  version,
		URI:      uri,
	}
	if err := ms.service.MetaRepo.UpsertMeta(meta); err != nil {
		return fmt.Errorf("failed to upsert ledger entry for %q: %w", resource, err)
	}
	return nil
}
