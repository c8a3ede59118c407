package service_test

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// Mock implementations of the repository and client interfaces used by the
// service tests. State lives in maps keyed the same way the real storage
// layer keys its unique indexes.

// MockSetRepo implements mtg.SetRepository
type MockSetRepo struct {
	mu        sync.Mutex
	sets      map[string]*models.Set
	getAllErr error
	upsertErr error
}

func NewMockSetRepo() *MockSetRepo {
	return &MockSetRepo{sets: make(map[string]*models.Set)}
}

func (m *MockSetRepo) GetAllSets() ([]models.Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	codes := make([]string, 0, len(m.sets))
	for code := range m.sets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out := make([]models.Set, 0, len(codes))
	for _, code := range codes {
		out = append(out, *m.sets[code])
	}
	return out, nil
}

func (m *MockSetRepo) GetSetByCode(code string) (*models.Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[strings.ToLower(code)]
	if !ok {
		return nil, mtg.ErrNotFound
	}
	return set, nil
}

func (m *MockSetRepo) UpsertSet(set *models.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if existing, ok := m.sets[set.Code]; ok {
		set.ID = existing.ID
	} else if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	m.sets[set.Code] = set
	return nil
}

// MockSymbolRepo implements mtg.SymbolRepository
type MockSymbolRepo struct {
	mu          sync.Mutex
	collections map[string]*models.SymbolCollection
	watermarks  map[string]*models.SymbolWatermark

	lastCollectionKeep []string
	lastWatermarkKeep  []string

	getCollectionErr error
	upsertErr        error
}

func NewMockSymbolRepo() *MockSymbolRepo {
	return &MockSymbolRepo{
		collections: make(map[string]*models.SymbolCollection),
		watermarks:  make(map[string]*models.SymbolWatermark),
	}
}

func (m *MockSymbolRepo) GetAllCollections() ([]models.SymbolCollection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	codes := make([]string, 0, len(m.collections))
	for code := range m.collections {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out := make([]models.SymbolCollection, 0, len(codes))
	for _, code := range codes {
		out = append(out, *m.collections[code])
	}
	return out, nil
}

func (m *MockSymbolRepo) GetCollectionByCode(code string) (*models.SymbolCollection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getCollectionErr != nil {
		return nil, m.getCollectionErr
	}
	collection, ok := m.collections[code]
	if !ok {
		return nil, mtg.ErrNotFound
	}
	return collection, nil
}

func (m *MockSymbolRepo) UpsertCollection(collection *models.SymbolCollection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if existing, ok := m.collections[collection.Code]; ok {
		collection.ID = existing.ID
	} else if collection.ID == uuid.Nil {
		collection.ID = uuid.New()
	}
	m.collections[collection.Code] = collection
	return nil
}

func (m *MockSymbolRepo) PruneCollections(keep []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCollectionKeep = keep
	for code := range m.collections {
		if !contains(keep, code) {
			delete(m.collections, code)
		}
	}
	return nil
}

func (m *MockSymbolRepo) GetAllWatermarks() ([]models.SymbolWatermark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.watermarks))
	for name := range m.watermarks {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]models.SymbolWatermark, 0, len(names))
	for _, name := range names {
		out = append(out, *m.watermarks[name])
	}
	return out, nil
}

func (m *MockSymbolRepo) GetWatermarkByName(name string) (*models.SymbolWatermark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	watermark, ok := m.watermarks[name]
	if !ok {
		return nil, mtg.ErrNotFound
	}
	return watermark, nil
}

func (m *MockSymbolRepo) UpsertWatermark(watermark *models.SymbolWatermark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.watermarks[watermark.Name]; ok {
		watermark.ID = existing.ID
	} else if watermark.ID == uuid.Nil {
		watermark.ID = uuid.New()
	}
	m.watermarks[watermark.Name] = watermark
	return nil
}

func (m *MockSymbolRepo) PruneWatermarks(keep []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastWatermarkKeep = keep
	for name := range m.watermarks {
		if !contains(keep, name) {
			delete(m.watermarks, name)
		}
	}
	return nil
}

// MockMetaRepo implements mtg.MetaRepository
type MockMetaRepo struct {
	mu      sync.Mutex
	entries map[string]*models.Meta
}

func NewMockMetaRepo() *MockMetaRepo {
	return &MockMetaRepo{entries: make(map[string]*models.Meta)}
}

func (m *MockMetaRepo) GetAllMeta() ([]models.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Meta, 0, len(m.entries))
	for _, entry := range m.entries {
		out = append(out, *entry)
	}
	return out, nil
}

func (m *MockMetaRepo) GetMetaByResource(resource string) (*models.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[resource]
	if !ok {
		return nil, mtg.ErrNotFound
	}
	return entry, nil
}

func (m *MockMetaRepo) UpsertMeta(meta *models.Meta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[meta.Resource]; ok {
		meta.ID = existing.ID
	} else if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	m.entries[meta.Resource] = meta
	return nil
}

// MockScryfallClient implements mtg.ScryfallClient
type MockScryfallClient struct {
	sets []shared.ScryfallSet
	err  error
}

func (m *MockScryfallClient) GetSetList() ([]shared.ScryfallSet, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sets, nil
}

// MockMtgjsonClient implements mtg.MtgjsonClient
type MockMtgjsonClient struct {
	mu          sync.Mutex
	meta        *shared.MtgjsonMeta
	metaErr     error
	list        []shared.MtgjsonSetList
	listErr     error
	downloadErr error
	downloads   int
	details     map[string]*shared.MtgjsonSetDetail
}

func (m *MockMtgjsonClient) GetMeta() (*shared.MtgjsonMeta, error) {
	if m.metaErr != nil {
		return nil, m.metaErr
	}
	return m.meta, nil
}

func (m *MockMtgjsonClient) GetSetList() ([]shared.MtgjsonSetList, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.list, nil
}

func (m *MockMtgjsonClient) DownloadAllSetFiles() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.downloadErr != nil {
		return m.downloadErr
	}
	m.downloads++
	return nil
}

func (m *MockMtgjsonClient) LoadSetDetail(code string) (*shared.MtgjsonSetDetail, error) {
	return m.details[strings.ToLower(code)], nil
}

// MockVectorsClient implements mtg.VectorsClient
type MockVectorsClient struct {
	manifest    *shared.SymbolManifest
	manifestErr error
	packageErr  error
	downloaded  []string
}

func (m *MockVectorsClient) GetManifest() (*shared.SymbolManifest, error) {
	if m.manifestErr != nil {
		return nil, m.manifestErr
	}
	return m.manifest, nil
}

func (m *MockVectorsClient) DownloadPackage(uri string) error {
	if m.packageErr != nil {
		return m.packageErr
	}
	m.downloaded = append(m.downloaded, uri)
	return nil
}

// MockSymbolService implements mtg.SymbolServiceInterface for tests that
// only care about what the set reconciler passes into symbol resolution.
type MockSymbolService struct {
	mu         sync.Mutex
	collection *models.SymbolCollection
	resolveErr error
	queries    []mtg.SymbolQuery
}

func (m *MockSymbolService) ResolveForSet(query mtg.SymbolQuery, routes map[string]string) (*models.SymbolCollection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	return m.collection, m.resolveErr
}

func (m *MockSymbolService) RebuildFromManifest(manifest *shared.SymbolManifest) error {
	return nil
}

func (m *MockSymbolService) SymbolURIMap(collection *models.SymbolCollection) map[string]string {
	return map[string]string{}
}

func (m *MockSymbolService) SymbolPath(collection *models.SymbolCollection, rarity string) string {
	return ""
}

func (m *MockSymbolService) WatermarkPath(watermark *models.SymbolWatermark) string {
	return ""
}

func (m *MockSymbolService) SupportsWatermark(collection *models.SymbolCollection) bool {
	return collection.Supports(shared.RarityWatermark)
}

// testDeps bundles every mock behind one mtg.Service.
type testDeps struct {
	setRepo    *MockSetRepo
	symbolRepo *MockSymbolRepo
	metaRepo   *MockMetaRepo
	scryfall   *MockScryfallClient
	mtgjson    *MockMtgjsonClient
	vectors    *MockVectorsClient
	service    *mtg.Service
}

func newTestDeps(dataDir string) *testDeps {
	deps := &testDeps{
		setRepo:    NewMockSetRepo(),
		symbolRepo: NewMockSymbolRepo(),
		metaRepo:   NewMockMetaRepo(),
		scryfall:   &MockScryfallClient{},
		mtgjson:    &MockMtgjsonClient{},
		vectors:    &MockVectorsClient{},
	}
	deps.service = mtg.NewService(
		deps.setRepo, deps.symbolRepo, deps.metaRepo,
		deps.scryfall, deps.mtgjson, deps.vectors,
		mtg.Locations{
			APIURL:     "http://localhost:8000",
			CacheDir:   dataDir + "/cache",
			SymbolsDir: dataDir + "/symbols",
		},
	)
	return deps
}

// addCollection seeds a stored top-level symbol collection.
func (d *testDeps) addCollection(code string, supported ...string) *models.SymbolCollection {
	collection := &models.SymbolCollection{
		ID:        uuid.New(),
		Code:      code,
		Supported: supported,
	}
	d.symbolRepo.collections[code] = collection
	return collection
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
