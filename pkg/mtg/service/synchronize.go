package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	appversion "github.com/latoulicious/mtgmeta/internal/version"
	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/logging"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
	"golang.org/x/sync/errgroup"
)

// SyncService orchestrates full-refresh operations per resource family:
// ledger check, upstream fetch, reconciliation, cache export and ledger
// update, in that order.
type SyncService struct {
	service *mtg.Service
	meta    mtg.MetaServiceInterface
	symbols mtg.SymbolServiceInterface
	sets    mtg.SetServiceInterface
	mapper  *shared.SetMapper
	logger  logging.Logger
}

var _ mtg.SyncServiceInterface = (*SyncService)(nil)

func NewSyncService(s *mtg.Service) *SyncService {
	symbols := NewSymbolService(s)
	return &SyncService{
		service: s,
		meta:    NewMetaService(s),
		symbols: symbols,
		sets:    NewSetService(s, symbols),
		mapper:  shared.NewSetMapper(),
		logger:  logging.GetGlobalLoggerFactory().CreateLogger("sync"),
	}
}

// SyncMtgjson refreshes the MTGJSON bulk data: set list and the per-set
// detail archive, fetched concurrently. The ledger entry is updated only
// after both fetches succeed.
func (ss *SyncService) SyncMtgjson(force bool) *mtg.SyncResult {
	result := &mtg.SyncResult{Resource: models.ResourceMtgjson}

	meta, err := ss.service.Mtgjson.GetMeta()
	if err != nil {
		return ss.fail(result, "failed to fetch mtgjson meta", err)
	}

	if current, ok := ss.meta.FormattedVersion(models.ResourceMtgjson); ok && current == meta.Version && !force {
		return ss.skip(result, meta.Version)
	}

	// Set list and detail archive write disjoint outputs; fetch them
	// concurrently and let one failure not cancel the other.
	var mu sync.Mutex
	var wg sync.WaitGroup
	fetch := func(name string, fn func() error) {
		defer wg.Done()
		if err := fn(); err != nil {
			ss.logger.Error("MTGJSON fetch failed", err, map[string]interface{}{
				"fetch": name,
			})
			mu.Lock()
			result.Failed++
			result.Reasons = append(result.Reasons, fmt.Sprintf("%s: %v", name, err))
			mu.Unlock()
		}
	}
	wg.Add(2)
	go fetch("set_list", func() error {
		_, err := ss.service.Mtgjson.GetSetList()
		return err
	})
	go fetch("all_set_files", ss.service.Mtgjson.DownloadAllSetFiles)
	wg.Wait()

	if result.Failed > 0 {
		result.Status = mtg.SyncFailed
		return result
	}

	version, date := splitUpstreamVersion(meta.Version, meta.Date)
	if err := ss.meta.Upsert(models.ResourceMtgjson, shared.MtgjsonAPIMeta, version, date); err != nil {
		return ss.fail(result, "failed to update ledger", err)
	}

	result.Status = mtg.SyncUpdated
	ss.logger.Info("MTGJSON data synced", map[string]interface{}{
		"version": meta.Version,
	})
	return result
}

// SyncScryfall refreshes the cached Scryfall set list. Scryfall publishes
// no version fingerprint, so the ledger entry carries the application's
// own version and the list is refetched at most once per day unless
// forced.
func (ss *SyncService) SyncScryfall(force bool) *mtg.SyncResult {
	result := &mtg.SyncResult{Resource: models.ResourceScryfall}

	if current, ok := ss.meta.FormattedVersion(models.ResourceScryfall); ok && current == appVersionFormatted() && !force {
		return ss.skip(result, current)
	}

	sets, err := ss.service.Scryfall.GetSetList()
	if err != nil {
		return ss.fail(result, "failed to fetch scryfall set list", err)
	}
	result.Succeeded = len(sets)

	if err := ss.meta.Upsert(models.ResourceScryfall, shared.ScryfallAPISets, "", nil); err != nil {
		return ss.fail(result, "failed to update ledger", err)
	}

	result.Status = mtg.SyncUpdated
	ss.logger.Info("Scryfall data synced", map[string]interface{}{
		"sets_count": len(sets),
	})
	return result
}

// SyncSets rebuilds the unified Set table: one reconciliation task per
// Scryfall record, run with bounded parallelism. Scryfall is the
// authoritative source and its failure aborts the pass; MTGJSON or
// manifest unavailability only degrades fields.
func (ss *SyncService) SyncSets(force bool) *mtg.SyncResult {
	result := &mtg.SyncResult{Resource: models.ResourceSets}

	scryfallSets, err := ss.service.Scryfall.GetSetList()
	if err != nil {
		return ss.fail(result, "failed to fetch scryfall set list", err)
	}

	mtgjsonSets := make(map[string]*shared.MtgjsonSetList)
	mtgjsonList, err := ss.service.Mtgjson.GetSetList()
	if err != nil {
		ss.logger.Warn("MTGJSON set list unavailable, degrading fields", map[string]interface{}{
			"error": err.Error(),
		})
	}
	for i := range mtgjsonList {
		mtgjsonSets[strings.ToLower(mtgjsonList[i].Code)] = &mtgjsonList[i]
	}

	var routes map[string]string
	if manifest, err := ss.service.Vectors.GetManifest(); err != nil {
		ss.logger.Warn("Symbol manifest unavailable, resolving without routes", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		routes = manifest.Set.Routes
	}

	// One independent task per set; each owns a disjoint code, so the
	// batch joins without ordering guarantees.
	var mu sync.Mutex
	var group errgroup.Group
	group.SetLimit(runtime.NumCPU())
	for i := range scryfallSets {
		record := &scryfallSets[i]
		group.Go(func() error {
			_, reconcileErr := ss.sets.ReconcileOne(record, mtgjsonSets[strings.ToLower(record.Code)], routes)
			mu.Lock()
			defer mu.Unlock()
			if reconcileErr != nil {
				result.Failed++
				result.Reasons = append(result.Reasons, fmt.Sprintf("%s: %v", record.Code, reconcileErr))
				ss.logger.Error("Set reconciliation failed", reconcileErr, map[string]interface{}{
					"code": record.Code,
				})
				return nil
			}
			result.Succeeded++
			return nil
		})
	}
	_ = group.Wait()

	if err := ss.exportSetsCache(); err != nil {
		ss.logger.Warn("Failed to export sets cache", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := ss.meta.Upsert(models.ResourceSets, ss.service.Locations.APIURL+"/sets", "", nil); err != nil {
		return ss.fail(result, "failed to update ledger", err)
	}

	result.Status = mtg.SyncUpdated
	ss.logger.Info("Set data synced", map[string]interface{}{
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	})
	return result
}

// SyncSymbols refreshes the symbol catalog from the mtg-vectors manifest:
// download the asset package, rebuild the collection tables, then update
// the ledger.
func (ss *SyncService) SyncSymbols(force bool) *mtg.SyncResult {
	result := &mtg.SyncResult{Resource: models.ResourceSymbols}

	manifest, err := ss.service.Vectors.GetManifest()
	if err != nil {
		return ss.fail(result, "failed to fetch symbol manifest", err)
	}

	if current, ok := ss.meta.FormattedVersion(models.ResourceSymbols); ok && current == manifest.Meta.Version && !force {
		return ss.skip(result, manifest.Meta.Version)
	}

	if err := ss.service.Vectors.DownloadPackage(manifest.Meta.URI); err != nil {
		return ss.fail(result, "failed to download symbol package", err)
	}

	if err := ss.symbols.RebuildFromManifest(manifest); err != nil {
		return ss.fail(result, "failed to rebuild symbol catalog", err)
	}

	version, date := splitUpstreamVersion(manifest.Meta.Version, manifest.Meta.Date)
	if err := ss.meta.Upsert(models.ResourceSymbols, ss.service.Locations.APIURL+"/symbols", version, date); err != nil {
		return ss.fail(result, "failed to update ledger", err)
	}
	if err := ss.meta.Upsert(models.VectorsResource(shared.VectorsVariantSet), shared.VectorsManifest, version, date); err != nil {
		return ss.fail(result, "failed to update ledger", err)
	}

	result.Status = mtg.SyncUpdated
	ss.logger.Info("Symbol data synced", map[string]interface{}{
		"version": manifest.Meta.Version,
	})
	return result
}

// UpdateAll composes the resource-family syncs sequentially, sharing one
// force flag. Symbols run before sets so reconciliation resolves against
// the fresh catalog; a failed family is reported and does not stop the
// rest.
func (ss *SyncService) UpdateAll(force bool) []*mtg.SyncResult {
	results := []*mtg.SyncResult{
		ss.SyncMtgjson(force),
		ss.SyncScryfall(force),
		ss.SyncSymbols(force),
		ss.SyncSets(force),
	}
	for _, result := range results {
		ss.logger.Info("Sync result", map[string]interface{}{
			"resource":  result.Resource,
			"status":    string(result.Status),
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
		})
	}
	return results
}

// exportSetsCache writes a denormalized JSON snapshot of every Set keyed
// by code, so the read path can serve without a database round trip.
func (ss *SyncService) exportSetsCache() error {
	sets, err := ss.service.SetRepo.GetAllSets()
	if err != nil {
		return err
	}

	fallback, _ := ss.service.SymbolRepo.GetCollectionByCode(models.DefaultSymbolCode)

	snapshot := make(map[string]shared.SetSchema, len(sets))
	for i := range sets {
		set := &sets[i]
		symbol := set.Symbol
		if symbol == nil {
			symbol = fallback
		}
		var uris map[string]string
		code := strings.ToLower(models.DefaultSymbolCode)
		if symbol != nil {
			uris = ss.symbols.SymbolURIMap(symbol)
			code = symbol.Code
		}
		snapshot[set.Code] = ss.mapper.ToSchema(set, uris, code)
	}

	buf, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	path := filepath.Join(ss.service.Locations.CacheDir, "sets.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

func (ss *SyncService) fail(result *mtg.SyncResult, reason string, err error) *mtg.SyncResult {
	result.Status = mtg.SyncFailed
	result.Err = fmt.Errorf("%s: %w", reason, err)
	result.Reasons = append(result.Reasons, result.Err.Error())
	ss.logger.Error(reason, err, map[string]interface{}{
		"resource": result.Resource,
	})
	return result
}

func (ss *SyncService) skip(result *mtg.SyncResult, version string) *mtg.SyncResult {
	result.Status = mtg.SyncSkipped
	result.Skipped++
	ss.logger.Info("Resource already up-to-date", map[string]interface{}{
		"resource": result.Resource,
		"version":  version,
	})
	return result
}

// appVersionFormatted is the comparison key for resources versioned by
// the application itself rather than an upstream fingerprint.
func appVersionFormatted() string {
	return fmt.Sprintf("%s+%s", appversion.Version, time.Now().Format("20060102"))
}

// splitUpstreamVersion splits a "{version}+{YYYYMMDD}" upstream version
// string into its bare version and date, preferring an explicit date
// string when the upstream provides one.
func splitUpstreamVersion(version, dateStr string) (string, *time.Time) {
	bare := version
	var datePart string
	if i := strings.LastIndex(version, "+"); i >= 0 {
		bare = version[:i]
		datePart = version[i+1:]
	}

	if dateStr != "" {
		if when, err := time.Parse("2006-01-02", dateStr); err == nil {
			return bare, &when
		}
	}
	if datePart != "" {
		if when, err := time.Parse("20060102", datePart); err == nil {
			return bare, &when
		}
	}
	return bare, nil
}
