package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// getAllSymbolSets returns every symbol collection's rarity-to-URI map,
// keyed by collection code.
func (s *Server) getAllSymbolSets(w http.ResponseWriter, r *http.Request) {
	collections, err := s.service.SymbolRepo.GetAllCollections()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load symbol data.")
		return
	}

	body := make(map[string]map[string]string, len(collections))
	for i := range collections {
		body[collections[i].Code] = s.symbols.SymbolURIMap(&collections[i])
	}
	writeJSON(w, http.StatusOK, body)
}

// getSymbolSet returns the rarity-to-URI map of one symbol collection.
func (s *Server) getSymbolSet(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	collection, err := s.service.SymbolRepo.GetCollectionByCode(strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, mtg.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Symbol matching code '%s' not found.", code))
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load symbol data.")
		return
	}
	writeJSON(w, http.StatusOK, s.symbols.SymbolURIMap(collection))
}

// getSymbolSetRarity serves the SVG asset for one rarity of a symbol
// collection. Unknown codes fall back through the owning Set's symbol and
// finally the DEFAULT collection.
func (s *Server) getSymbolSetRarity(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	rarity := chi.URLParam(r, "rarity")

	collection := s.findCollection(code)
	if collection == nil {
		s.serveDefaultSymbol(w, r, rarity)
		return
	}

	normalized, ok := shared.NormalizeRarity(rarity)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unrecognized rarity: '%s'", rarity))
		return
	}
	if !collection.Supports(normalized) {
		writeError(w, http.StatusNotImplemented,
			fmt.Sprintf("Symbol matching code '%s' does not support rarity '%s'.", code, rarity))
		return
	}
	serveSVG(w, r, s.symbols.SymbolPath(collection, normalized))
}

// getSymbolRarities returns the rarity dictionary, short code to display
// name.
func (s *Server) getSymbolRarities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, shared.RarityNameMap())
}

// getAllSymbolWatermarks lists every watermark asset URI: standalone
// watermarks keyed by name, set watermark symbols keyed by collection
// code.
func (s *Server) getAllSymbolWatermarks(w http.ResponseWriter, r *http.Request) {
	watermarks, err := s.service.SymbolRepo.GetAllWatermarks()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load watermark data.")
		return
	}
	collections, err := s.service.SymbolRepo.GetAllCollections()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load symbol data.")
		return
	}

	body := shared.WatermarkURISchema{
		Watermarks:    make(map[string]string),
		WatermarksSet: make(map[string]string),
	}
	for i := range watermarks {
		watermark := &watermarks[i]
		if watermark.ParentID != nil {
			continue
		}
		body.Watermarks[watermark.Name] = fmt.Sprintf("%s/symbols/watermark/%s",
			s.service.Locations.APIURL, watermark.Name)
	}
	for i := range collections {
		collection := &collections[i]
		if !s.symbols.SupportsWatermark(collection) {
			continue
		}
		body.WatermarksSet[collection.Code] = fmt.Sprintf("%s/symbols/set/%s/%s",
			s.service.Locations.APIURL,
			strings.ToLower(collection.Alias()),
			strings.ToLower(shared.RarityWatermark))
	}
	writeJSON(w, http.StatusOK, body)
}

// getSymbolWatermark serves a named watermark SVG asset.
func (s *Server) getSymbolWatermark(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "name"))
	watermark, err := s.service.SymbolRepo.GetWatermarkByName(name)
	if err != nil {
		if errors.Is(err, mtg.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Watermark matching name '%s' not found.", name))
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load watermark data.")
		return
	}
	serveSVG(w, r, s.symbols.WatermarkPath(watermark))
}

// findCollection looks up a symbol collection by code, then by the symbol
// assigned to the Set with that code.
func (s *Server) findCollection(code string) *models.SymbolCollection {
	if collection, err := s.service.SymbolRepo.GetCollectionByCode(strings.ToUpper(code)); err == nil {
		return collection
	}
	if set, err := s.service.SetRepo.GetSetByCode(strings.ToLower(code)); err == nil && set.Symbol != nil {
		return set.Symbol
	}
	return nil
}

// serveDefaultSymbol serves a rarity from the DEFAULT collection,
// degrading to the common rarity when the requested one is absent.
func (s *Server) serveDefaultSymbol(w http.ResponseWriter, r *http.Request, rarity string) {
	collection, err := s.service.SymbolRepo.GetCollectionByCode(models.DefaultSymbolCode)
	if err != nil {
		writeError(w, http.StatusNotFound, "Default symbol collection not found.")
		return
	}

	normalized, ok := shared.NormalizeRarity(rarity)
	if !ok || !collection.Supports(normalized) {
		normalized = shared.RarityCommon
	}
	serveSVG(w, r, s.symbols.SymbolPath(collection, normalized))
}
