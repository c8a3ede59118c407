package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// getAllSets returns data objects for all sets keyed by code, preferring
// the cache export written by the last sets sync.
func (s *Server) getAllSets(w http.ResponseWriter, r *http.Request) {
	cachePath := filepath.Join(s.service.Locations.CacheDir, "sets.json")
	if buf, err := os.ReadFile(cachePath); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf)
		return
	}

	sets, err := s.service.SetRepo.GetAllSets()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load set data.")
		return
	}

	body := make(map[string]shared.SetSchema, len(sets))
	for i := range sets {
		body[sets[i].Code] = s.toSetSchema(&sets[i])
	}
	writeJSON(w, http.StatusOK, body)
}

// getSet returns the data object for a specific set.
func (s *Server) getSet(w http.ResponseWriter, r *http.Request) {
	code := strings.ToLower(chi.URLParam(r, "code"))
	set, err := s.service.SetRepo.GetSetByCode(code)
	if err != nil {
		if errors.Is(err, mtg.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Set matching code '%s' not found.", code))
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load set data.")
		return
	}
	writeJSON(w, http.StatusOK, s.toSetSchema(set))
}

// toSetSchema maps a set to its API schema, substituting the DEFAULT
// collection when the stored symbol reference is null.
func (s *Server) toSetSchema(set *models.Set) shared.SetSchema {
	symbol := set.Symbol
	if symbol == nil {
		symbol, _ = s.service.SymbolRepo.GetCollectionByCode(models.DefaultSymbolCode)
	}

	var uris map[string]string
	code := strings.ToLower(models.DefaultSymbolCode)
	if symbol != nil {
		uris = s.symbols.SymbolURIMap(symbol)
		code = symbol.Code
	}
	return s.setMapper.ToSchema(set, uris, code)
}
