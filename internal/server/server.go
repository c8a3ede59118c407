package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/latoulicious/mtgmeta/pkg/logging"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// Server is the read-only REST surface over the persisted entities and
// their SVG assets.
type Server struct {
	Router *chi.Mux

	service   *mtg.Service
	symbols   mtg.SymbolServiceInterface
	setMapper *shared.SetMapper
	metaMap   *shared.MetaMapper
	logger    logging.Logger
}

// NewServer creates the server and mounts all handlers.
func NewServer(service *mtg.Service, symbols mtg.SymbolServiceInterface) *Server {
	s := &Server{
		Router:    chi.NewRouter(),
		service:   service,
		symbols:   symbols,
		setMapper: shared.NewSetMapper(),
		metaMap:   shared.NewMetaMapper(),
		logger:    logging.GetGlobalLoggerFactory().CreateLogger("server"),
	}
	s.mountHandlers()
	return s
}

func (s *Server) mountHandlers() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(middleware.Timeout(30 * time.Second))
	s.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	s.Router.Get("/sets", s.getAllSets)
	s.Router.Get("/sets/{code}", s.getSet)
	s.Router.Get("/symbols/rarity", s.getSymbolRarities)
	s.Router.Get("/symbols/set", s.getAllSymbolSets)
	s.Router.Get("/symbols/set/{code}", s.getSymbolSet)
	s.Router.Get("/symbols/set/{code}/{rarity}", s.getSymbolSetRarity)
	s.Router.Get("/symbols/watermark", s.getAllSymbolWatermarks)
	s.Router.Get("/symbols/watermark/{name}", s.getSymbolWatermark)
	s.Router.Get("/meta", s.getAllMeta)
	s.Router.Get("/meta/{resource}", s.getMeta)
	s.Router.Get("/version", s.getVersion)
}
