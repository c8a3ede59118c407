package mtg

import (
	"errors"
	"strings"
	"time"

	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// ErrNotFound is returned by repositories when no row matches a lookup.
var ErrNotFound = errors.New("record not found")

// SetRepository defines storage operations over unified Set records
type SetRepository interface {
	GetAllSets() ([]models.Set, error)
	GetSetByCode(code string) (*models.Set, error)
	UpsertSet(set *models.Set) error
}

// SymbolRepository defines storage operations over symbol collections
// and watermarks
type SymbolRepository interface {
	GetAllCollections() ([]models.SymbolCollection, error)
	GetCollectionByCode(code string) (*models.SymbolCollection, error)
	UpsertCollection(collection *models.SymbolCollection) error
	PruneCollections(keep []string) error
	GetAllWatermarks() ([]models.SymbolWatermark, error)
	GetWatermarkByName(name string) (*models.SymbolWatermark, error)
	UpsertWatermark(watermark *models.SymbolWatermark) error
	PruneWatermarks(keep []string) error
}

// MetaRepository defines storage operations over the version ledger
type MetaRepository interface {
	GetAllMeta() ([]models.Meta, error)
	GetMetaByResource(resource string) (*models.Meta, error)
	UpsertMeta(meta *models.Meta) error
}

// ScryfallClient fetches set data from the Scryfall API
type ScryfallClient interface {
	GetSetList() ([]shared.ScryfallSet, error)
}

// MtgjsonClient fetches set data and bulk archives from MTGJSON
type MtgjsonClient interface {
	GetMeta() (*shared.MtgjsonMeta, error)
	GetSetList() ([]shared.MtgjsonSetList, error)
	DownloadAllSetFiles() error
	LoadSetDetail(code string) (*shared.MtgjsonSetDetail, error)
}

// VectorsClient fetches the symbol manifest and asset package from the
// mtg-vectors repository
type VectorsClient interface {
	GetManifest() (*shared.SymbolManifest, error)
	DownloadPackage(uri string) error
}

// Locations describes where the service keeps cache files and SVG assets,
// and the public base URL symbol URIs are built against.
type Locations struct {
	APIURL     string // public base URL of this API, no trailing slash
	CacheDir   string // bulk data cache (set lists, archives, sets.json)
	SymbolsDir string // extracted SVG asset root
}

// Service represents the main service that holds all dependencies
type Service struct {
	SetRepo    SetRepository
	SymbolRepo SymbolRepository
	MetaRepo   MetaRepository

	Scryfall ScryfallClient
	Mtgjson  MtgjsonClient
	Vectors  VectorsClient

	Locations Locations
}

// NewService creates a new Service instance with all dependencies
func NewService(
	setRepo SetRepository,
	symbolRepo SymbolRepository,
	metaRepo MetaRepository,
	scryfall ScryfallClient,
	mtgjson MtgjsonClient,
	vectors VectorsClient,
	locations Locations,
) *Service {
	return &Service{
		SetRepo:    setRepo,
		SymbolRepo: symbolRepo,
		MetaRepo:   metaRepo,
		Scryfall:   scryfall,
		Mtgjson:    mtgjson,
		Vectors:    vectors,
		Locations:  locations,
	}
}

// MetaServiceInterface defines the version ledger operations
type MetaServiceInterface interface {
	FormattedVersion(resource string) (string, bool)
	Upsert(resource, uri, version string, date *time.Time) error
}

// SymbolQuery carries the set fields symbol resolution matches against.
// ParentCode and SetType are only used for operator-facing warnings when
// resolution falls back to the default collection.
type SymbolQuery struct {
	SetCode    string
	IconCode   string
	ParentCode string
	SetType    string
}

// SymbolServiceInterface defines symbol catalog operations
type SymbolServiceInterface interface {
	ResolveForSet(query SymbolQuery, routes map[string]string) (*models.SymbolCollection, error)
	RebuildFromManifest(manifest *shared.SymbolManifest) error
	SymbolURIMap(collection *models.SymbolCollection) map[string]string
	SymbolPath(collection *models.SymbolCollection, rarity string) string
	WatermarkPath(watermark *models.SymbolWatermark) string
	SupportsWatermark(collection *models.SymbolCollection) bool
}

// SetServiceInterface defines set reconciliation operations
type SetServiceInterface interface {
	ReconcileOne(scryfall *shared.ScryfallSet, mtgjson *shared.MtgjsonSetList, routes map[string]string) (*models.Set, error)
}

// IconCode derives the symbol lookup code from a Scryfall icon URI: the
// asset filename, query string and suffix stripped, upper-cased.
func IconCode(iconURI string) string {
	uri := StripQuery(iconURI)
	if uri == "" {
		return ""
	}
	name := uri[strings.LastIndex(uri, "/")+1:]
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	return strings.ToUpper(name)
}

// StripQuery removes the query string from a URI.
func StripQuery(uri string) string {
	if i := strings.Index(uri, "?"); i >= 0 {
		return uri[:i]
	}
	return uri
}

// SyncServiceInterface defines the synchronization operations
type SyncServiceInterface interface {
	SyncMtgjson(force bool) *SyncResult
	SyncScryfall(force bool) *SyncResult
	SyncSets(force bool) *SyncResult
	SyncSymbols(force bool) *SyncResult
	UpdateAll(force bool) []*SyncResult
}

// SyncStatus describes the outcome of one resource-family sync.
type SyncStatus string

const (
	SyncUpdated SyncStatus = "updated"
	SyncSkipped SyncStatus = "skipped"
	SyncFailed  SyncStatus = "failed"
)

// SyncResult is the batch report for one resource-family sync pass.
type SyncResult struct {
	Resource  string
	Status    SyncStatus
	Succeeded int
	Skipped   int
	Failed    int
	Reasons   []string
	Err       error
}
