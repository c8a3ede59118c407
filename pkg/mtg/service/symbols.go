package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/logging"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// SymbolService is the symbol catalog: it stores symbol collections and
// watermarks, resolves sets to their symbol collection and derives asset
// URIs and paths.
type SymbolService struct {
	service *mtg.Service
	logger  logging.Logger

	// rebuildMu serializes RebuildFromManifest: the rebuild is a full
	// delete-after-upsert table maintenance pass and must not overlap
	// with a concurrent instance of itself.
	rebuildMu sync.Mutex
}

var _ mtg.SymbolServiceInterface = (*SymbolService)(nil)

func NewSymbolService(s *mtg.Service) *SymbolService {
	return &SymbolService{
		service: s,
		logger:  logging.GetGlobalLoggerFactory().CreateLogger("symbols"),
	}
}

// ResolveForSet resolves a set to its symbol collection. Resolution order:
// a manual route declared in the manifest, then an exact lookup on the
// icon code, then the DEFAULT collection. The returned collection is nil
// only when even DEFAULT is absent; errors are reserved for storage
// failures.
func (ss *SymbolService) ResolveForSet(query mtg.SymbolQuery, routes map[string]string) (*models.SymbolCollection, error) {
	// Manual route declared for this set
	if routed, ok := lookupRoute(routes, query.SetCode); ok {
		collection, err := ss.lookupCollection(routed)
		if err != nil {
			return nil, err
		}
		if collection != nil {
			return collection, nil
		}
		ss.logger.Warn("Manual route points at unknown symbol collection", map[string]interface{}{
			"set":   query.SetCode,
			"route": routed,
		})
	}

	// Exact match on the icon code
	if query.IconCode != "" {
		collection, err := ss.lookupCollection(query.IconCode)
		if err != nil {
			return nil, err
		}
		if collection != nil {
			return collection, nil
		}
	}

	// Resort to default
	collection, err := ss.lookupCollection(models.DefaultSymbolCode)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		ss.logger.Error("No symbol resolved and DEFAULT collection is absent", nil, map[string]interface{}{
			"set": query.SetCode,
		})
		return nil, nil
	}
	parent := query.ParentCode
	if parent == "" {
		parent = "—"
	}
	ss.logger.Warn("Symbol set to default", map[string]interface{}{
		"set":    query.SetCode,
		"parent": strings.ToUpper(parent),
		"type":   query.SetType,
		"icon":   query.IconCode,
	})
	return collection, nil
}

// lookupCollection fetches a collection by code and dereferences its alias
// parent once, so resolving an alias and resolving its parent return the
// same collection. A missing collection is (nil, nil); any other storage
// failure is returned as-is.
func (ss *SymbolService) lookupCollection(code string) (*models.SymbolCollection, error) {
	collection, err := ss.service.SymbolRepo.GetCollectionByCode(strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, mtg.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if collection.Parent != nil {
		return collection.Parent, nil
	}
	return collection, nil
}

// RebuildFromManifest wholesale rebuilds the symbol catalog from the given
// manifest: upsert every top-level collection, upsert alias collections
// pointing at known top-level entries, prune everything else, then
// synchronize watermarks the same way.
func (ss *SymbolService) RebuildFromManifest(manifest *shared.SymbolManifest) error {
	ss.rebuildMu.Lock()
	defer ss.rebuildMu.Unlock()

	found := make([]string, 0, len(manifest.Set.Symbols))

	// Top-level collections, in deterministic order
	codes := make([]string, 0, len(manifest.Set.Symbols))
	for code := range manifest.Set.Symbols {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		collection := &models.SymbolCollection{
			Code:      strings.ToUpper(code),
			Supported: shared.ValidRarities(manifest.Set.Symbols[code]),
		}
		if err := ss.service.SymbolRepo.UpsertCollection(collection); err != nil {
			return fmt.Errorf("failed to upsert symbol collection %q: %w", collection.Code, err)
		}
		found = append(found, collection.Code)
	}

	// Alias collections. An alias must point at a top-level entry; an
	// alias of an alias is rejected rather than silently mis-resolved.
	aliasCodes := make([]string, 0, len(manifest.Set.Aliases))
	for alias := range manifest.Set.Aliases {
		aliasCodes = append(aliasCodes, alias)
	}
	sort.Strings(aliasCodes)

	for _, alias := range aliasCodes {
		aliasCode := strings.ToUpper(alias)
		parentCode := strings.ToUpper(manifest.Set.Aliases[alias])
		if !containsCode(found, parentCode) || containsCode(found, aliasCode) {
			ss.logger.Warn("Rejected symbol alias entry", map[string]interface{}{
				"alias":  aliasCode,
				"parent": parentCode,
			})
			continue
		}

		parent, err := ss.service.SymbolRepo.GetCollectionByCode(parentCode)
		if err != nil {
			return fmt.Errorf("failed to load alias parent %q: %w", parentCode, err)
		}
		collection := &models.SymbolCollection{
			Code:      aliasCode,
			ParentID:  &parent.ID,
			Parent:    parent,
			Supported: parent.Supported,
		}
		if err := ss.service.SymbolRepo.UpsertCollection(collection); err != nil {
			return fmt.Errorf("failed to upsert symbol alias %q: %w", aliasCode, err)
		}
		found = append(found, aliasCode)
	}

	// Prune collections not present in this manifest pass
	if err := ss.service.SymbolRepo.PruneCollections(found); err != nil {
		return fmt.Errorf("failed to prune symbol collections: %w", err)
	}

	return ss.rebuildWatermarks(manifest)
}

// rebuildWatermarks upserts explicit watermark names from the manifest,
// one synthetic set<code> watermark for every collection supporting WM,
// then prunes the rest.
func (ss *SymbolService) rebuildWatermarks(manifest *shared.SymbolManifest) error {
	var found []string

	names := append([]string(nil), manifest.Watermark.Symbols...)
	sort.Strings(names)
	for _, name := range names {
		watermark := &models.SymbolWatermark{Name: strings.ToLower(name)}
		if err := ss.service.SymbolRepo.UpsertWatermark(watermark); err != nil {
			return fmt.Errorf("failed to upsert watermark %q: %w", name, err)
		}
		found = append(found, watermark.Name)
	}

	collections, err := ss.service.SymbolRepo.GetAllCollections()
	if err != nil {
		return fmt.Errorf("failed to list symbol collections: %w", err)
	}
	for i := range collections {
		collection := &collections[i]
		if !collection.Supports(shared.RarityWatermark) {
			continue
		}
		watermark := &models.SymbolWatermark{
			Name:     "set" + strings.ToLower(collection.Code),
			ParentID: &collection.ID,
			Parent:   collection,
		}
		if err := ss.service.SymbolRepo.UpsertWatermark(watermark); err != nil {
			return fmt.Errorf("failed to upsert set watermark %q: %w", watermark.Name, err)
		}
		found = append(found, watermark.Name)
	}

	if err := ss.service.SymbolRepo.PruneWatermarks(found); err != nil {
		return fmt.Errorf("failed to prune watermarks: %w", err)
	}
	return nil
}

// SymbolURIMap returns each supported rarity mapped to its SVG endpoint,
// built from the collection's alias code.
func (ss *SymbolService) SymbolURIMap(collection *models.SymbolCollection) map[string]string {
	alias := strings.ToLower(collection.Alias())
	uris := make(map[string]string, len(collection.Supported))
	for _, rarity := range collection.Supported {
		uris[rarity] = fmt.Sprintf("%s/symbols/set/%s/%s",
			ss.service.Locations.APIURL, alias, strings.ToLower(rarity))
	}
	return uris
}

// SymbolPath returns the filesystem path of the SVG asset for one rarity
// of a collection, following the {root}/set/{ALIAS}/{RARITY}.svg layout.
func (ss *SymbolService) SymbolPath(collection *models.SymbolCollection, rarity string) string {
	return filepath.Join(
		ss.service.Locations.SymbolsDir, "set",
		collection.Alias(), strings.ToUpper(rarity)+".svg")
}

// WatermarkPath returns the filesystem path of a watermark's SVG asset.
// Parented watermarks reuse the parent collection's WM asset.
func (ss *SymbolService) WatermarkPath(watermark *models.SymbolWatermark) string {
	if watermark.Parent != nil {
		return ss.SymbolPath(watermark.Parent, shared.RarityWatermark)
	}
	return filepath.Join(ss.service.Locations.SymbolsDir, "watermark", watermark.Name+".svg")
}

// SupportsWatermark reports whether a collection carries a WM asset.
func (ss *SymbolService) SupportsWatermark(collection *models.SymbolCollection) bool {
	return collection.Supports(shared.RarityWatermark)
}

func lookupRoute(routes map[string]string, setCode string) (string, bool) {
	for code, target := range routes {
		if strings.EqualFold(code, setCode) {
			return target, true
		}
	}
	return "", false
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
