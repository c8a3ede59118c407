package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/latoulicious/mtgmeta/internal/version"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// getAllMeta returns every ledger entry keyed by resource name.
func (s *Server) getAllMeta(w http.ResponseWriter, r *http.Request) {
	metas, err := s.service.MetaRepo.GetAllMeta()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load resource metadata.")
		return
	}

	body := make(map[string]shared.MetaSchema, len(metas))
	for i := range metas {
		body[metas[i].Resource] = s.metaMap.ToSchema(&metas[i])
	}
	writeJSON(w, http.StatusOK, body)
}

// getMeta returns the ledger entry for one resource.
func (s *Server) getMeta(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	meta, err := s.service.MetaRepo.GetMetaByResource(resource)
	if err != nil {
		if errors.Is(err, mtg.ErrNotFound) {
			writeError(w, http.StatusNotFound,
				fmt.Sprintf("Meta info matching resource name '%s' not found.", resource))
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load resource metadata.")
		return
	}
	writeJSON(w, http.StatusOK, s.metaMap.ToSchema(meta))
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}
