package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/mtgmeta/internal/server"
	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"github.com/latoulicious/mtgmeta/pkg/mtg/service"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repository mocks backing the handler tests

type stubSetRepo struct {
	sets map[string]*models.Set
}

func (s *stubSetRepo) GetAllSets() ([]models.Set, error) {
	out := make([]models.Set, 0, len(s.sets))
	for _, set := range s.sets {
		out = append(out, *set)
	}
	return out, nil
}

func (s *stubSetRepo) GetSetByCode(code string) (*models.Set, error) {
	set, ok := s.sets[strings.ToLower(code)]
	if !ok {
		return nil, mtg.ErrNotFound
	}
	return set, nil
}

func (s *stubSetRepo) UpsertSet(set *models.Set) error {
	s.sets[set.Code] = set
	return nil
}

type stubSymbolRepo struct {
	collections map[string]*models.SymbolCollection
	watermarks  map[string]*models.SymbolWatermark
}

func (s *stubSymbolRepo) GetAllCollections() ([]models.SymbolCollection, error) {
	out := make([]models.SymbolCollection, 0, len(s.collections))
	for _, collection := range s.collections {
		out = append(out, *collection)
	}
	return out, nil
}

func (s *stubSymbolRepo) GetCollectionByCode(code string) (*models.SymbolCollection, error) {
	collection, ok := s.collections[code]
	if !ok {
		return nil, mtg.ErrNotFound
	}
	return collection, nil
}

func (s *stubSymbolRepo) UpsertCollection(collection *models.SymbolCollection) error {
	s.collections[collection.Code] = collection
	return nil
}

func (s *stubSymbolRepo) PruneCollections(keep []string) error { return nil }

func (s *stubSymbolRepo) GetAllWatermarks() ([]models.SymbolWatermark, error) {
	out := make([]models.SymbolWatermark, 0, len(s.watermarks))
	for _, watermark := range s.watermarks {
		out = append(out, *watermark)
	}
	return out, nil
}

func (s *stubSymbolRepo) GetWatermarkByName(name string) (*models.SymbolWatermark, error) {
	watermark, ok := s.watermarks[name]
	if !ok {
		return nil, mtg.ErrNotFound
	}
	return watermark, nil
}

func (s *stubSymbolRepo) UpsertWatermark(watermark *models.SymbolWatermark) error {
	s.watermarks[watermark.Name] = watermark
	return nil
}

func (s *stubSymbolRepo) PruneWatermarks(keep []string) error { return nil }

type stubMetaRepo struct {
	entries map[string]*models.Meta
}

func (s *stubMetaRepo) GetAllMeta() ([]models.Meta, error) {
	out := make([]models.Meta, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, *entry)
	}
	return out, nil
}

func (s *stubMetaRepo) GetMetaByResource(resource string) (*models.Meta, error) {
	entry, ok := s.entries[resource]
	if !ok {
		return nil, mtg.ErrNotFound
	}
	return entry, nil
}

func (s *stubMetaRepo) UpsertMeta(meta *models.Meta) error {
	s.entries[meta.Resource] = meta
	return nil
}

type testEnv struct {
	server  *server.Server
	sets    *stubSetRepo
	symbols *stubSymbolRepo
	metas   *stubMetaRepo
	dataDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dataDir := t.TempDir()
	env := &testEnv{
		sets:    &stubSetRepo{sets: make(map[string]*models.Set)},
		symbols: &stubSymbolRepo{collections: make(map[string]*models.SymbolCollection), watermarks: make(map[string]*models.SymbolWatermark)},
		metas:   &stubMetaRepo{entries: make(map[string]*models.Meta)},
		dataDir: dataDir,
	}
	svc := mtg.NewService(env.sets, env.symbols, env.metas, nil, nil, nil, mtg.Locations{
		APIURL:     "http://localhost:8000",
		CacheDir:   filepath.Join(dataDir, "cache"),
		SymbolsDir: filepath.Join(dataDir, "symbols"),
	})
	env.server = server.NewServer(svc, service.NewSymbolService(svc))
	return env
}

func (e *testEnv) addCollection(code string, supported ...string) *models.SymbolCollection {
	collection := &models.SymbolCollection{ID: uuid.New(), Code: code, Supported: supported}
	e.symbols.collections[code] = collection
	return collection
}

func (e *testEnv) writeSVG(t *testing.T, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{e.dataDir, "symbols"}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<svg/>"), 0o644))
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// TestGetVersion tests the version endpoint
func TestGetVersion(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/version")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["version"])
}

// TestGetSetNotFound tests the typed error object on unknown set codes
func TestGetSetNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/sets/zzz")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body shared.ErrorSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Object)
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Contains(t, body.Details, "zzz")
}

// TestGetSetDefaultSymbol tests that a set without a stored symbol
// reference is served with the DEFAULT collection substituted
func TestGetSetDefaultSymbol(t *testing.T) {
	env := newTestEnv(t)
	env.addCollection(models.DefaultSymbolCode, "C", "U", "R", "M")
	env.sets.sets["xyz"] = &models.Set{
		Code: "xyz", IDOracle: "a0b1", Name: "Unknown Promo",
		Type: models.SetTypePromo, DateReleased: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	rec := env.get("/sets/XYZ")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body shared.SetSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "xyz", body.Code)
	assert.Equal(t, "default", body.CodeSymbol)
	assert.Contains(t, body.URIsSymbol["R"], "/symbols/set/default/r")
}

// TestGetAllSetsServesCache tests that the exported snapshot is preferred
// over a database round trip
func TestGetAllSetsServesCache(t *testing.T) {
	env := newTestEnv(t)
	cachePath := filepath.Join(env.dataDir, "cache", "sets.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(cachePath), 0o755))
	require.NoError(t, os.WriteFile(cachePath, []byte(`{"mh2":{"code":"mh2"}}`), 0o644))

	rec := env.get("/sets")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mh2":{"code":"mh2"}}`, rec.Body.String())
}

// TestGetSymbolSetRarity tests the SVG asset endpoint across supported,
// unsupported and unrecognized rarities
func TestGetSymbolSetRarity(t *testing.T) {
	env := newTestEnv(t)
	env.addCollection("MH2", "C", "R")
	env.writeSVG(t, "set", "MH2", "R.svg")

	rec := env.get("/symbols/set/mh2/rare")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))

	rec = env.get("/symbols/set/mh2/wm")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = env.get("/symbols/set/mh2/bogus")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestGetSymbolSetRarityDefaultFallback tests that unknown codes fall back
// to the DEFAULT collection, degrading unknown rarities to common
func TestGetSymbolSetRarityDefaultFallback(t *testing.T) {
	env := newTestEnv(t)
	env.addCollection(models.DefaultSymbolCode, "C", "R")
	env.writeSVG(t, "set", models.DefaultSymbolCode, "C.svg")

	rec := env.get("/symbols/set/zzz/bogus")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
}

// TestGetSymbolSetRarityNoDefault tests the 404 when nothing can serve the
// request at all
func TestGetSymbolSetRarityNoDefault(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/symbols/set/zzz/c")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestGetSymbolWatermark tests watermark lookup and the 404 error object
func TestGetSymbolWatermark(t *testing.T) {
	env := newTestEnv(t)
	env.symbols.watermarks["izzet"] = &models.SymbolWatermark{ID: uuid.New(), Name: "izzet"}
	env.writeSVG(t, "watermark", "izzet.svg")

	rec := env.get("/symbols/watermark/IZZET")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.get("/symbols/watermark/golgari")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestGetSymbolRarities tests the rarity dictionary endpoint
func TestGetSymbolRarities(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/symbols/rarity")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 10)
	assert.Equal(t, "Rare", body["R"])
	assert.Equal(t, "Watermark", body["WM"])
	assert.Equal(t, "80", body["80"])
}

// TestGetAllSymbolWatermarks tests the watermark listing: standalone
// watermarks keyed by name, watermark-capable collections keyed by code
func TestGetAllSymbolWatermarks(t *testing.T) {
	env := newTestEnv(t)
	conspiracy := env.addCollection("CON", "C", "U", "R", "M", "WM")
	env.addCollection("MH2", "C", "U", "R", "M")
	env.symbols.watermarks["izzet"] = &models.SymbolWatermark{ID: uuid.New(), Name: "izzet"}
	env.symbols.watermarks["setcon"] = &models.SymbolWatermark{
		ID: uuid.New(), Name: "setcon", ParentID: &conspiracy.ID, Parent: conspiracy,
	}

	rec := env.get("/symbols/watermark")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body shared.WatermarkURISchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	// Parented watermarks are represented through their collection instead
	require.Len(t, body.Watermarks, 1)
	assert.Equal(t, "http://localhost:8000/symbols/watermark/izzet", body.Watermarks["izzet"])

	require.Len(t, body.WatermarksSet, 1)
	assert.Equal(t, "http://localhost:8000/symbols/set/con/wm", body.WatermarksSet["CON"])
}

// TestGetMeta tests the ledger endpoints
func TestGetMeta(t *testing.T) {
	env := newTestEnv(t)
	env.metas.entries["mtgjson"] = &models.Meta{
		ID: uuid.New(), Resource: "mtgjson", Version: "5.2.2",
		Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		URI:  shared.MtgjsonAPIMeta,
	}

	rec := env.get("/meta/mtgjson")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body shared.MetaSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "5.2.2+20240115", body.Version)
	assert.Equal(t, "2024-01-15", body.Date)

	rec = env.get("/meta/bogus")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
