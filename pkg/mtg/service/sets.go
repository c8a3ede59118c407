package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/latoulicious/mtgmeta/pkg/database/models"
	"github.com/latoulicious/mtgmeta/pkg/mtg"
	"github.com/latoulicious/mtgmeta/pkg/mtg/shared"
)

// SetService is the set reconciler: it merges one Scryfall set record and
// one optional MTGJSON record into a unified Set entity and links it to a
// symbol collection.
type SetService struct {
	service *mtg.Service
	symbols mtg.SymbolServiceInterface
}

var _ mtg.SetServiceInterface = (*SetService)(nil)

func NewSetService(s *mtg.Service, symbols mtg.SymbolServiceInterface) *SetService {
	return &SetService{
		service: s,
		symbols: symbols,
	}
}

// ReconcileOne merges one Scryfall record and one optional MTGJSON record
// into a unified Set, resolves its symbol collection and upserts the row
// keyed by code. A nil or malformed Scryfall record fails the call; a
// missing MTGJSON record or per-set detail file only degrades the fields
// it would have provided.
func (cs *SetService) ReconcileOne(scryfall *shared.ScryfallSet, mtgjson *shared.MtgjsonSetList, routes map[string]string) (*models.Set, error) {
	if scryfall == nil || scryfall.Code == "" || scryfall.ID == "" {
		return nil, fmt.Errorf("scryfall set record is absent or malformed")
	}

	code := strings.ToLower(scryfall.Code)
	set := &models.Set{
		// Scryfall-only fields
		Code:            code,
		CodeArena:       scryfall.ArenaCode,
		IDOracle:        scryfall.ID,
		IDTcgplayer:     scryfall.TcgplayerID,
		IsDigitalOnly:   scryfall.Digital,
		IsFoilOnly:      scryfall.FoilOnly,
		IsNonfoilOnly:   scryfall.NonfoilOnly,
		Name:            scryfall.Name,
		ScryfallIconURI: mtg.StripQuery(scryfall.IconSvgURI),
		Type:            models.SetType(scryfall.SetType),

		// Scryfall-primary fields
		Block:        scryfall.Block,
		BlockCode:    scryfall.BlockCode,
		CodeMtgo:     scryfall.MtgoCode,
		CodeParent:   scryfall.ParentSetCode,
		CountCards:   scryfall.CardCount,
		CountPrinted: scryfall.PrintedSize,
	}
	set.DateReleased, _ = time.Parse("2006-01-02", scryfall.ReleasedAt)

	// MTGJSON-only fields and fallbacks for empty Scryfall values
	if mtgjson != nil {
		set.CodeAlt = mtgjson.CodeV3
		set.CodeKeyrune = mtgjson.KeyruneCode
		set.IDCardmarket = mtgjson.McmID
		set.IDCardmarketExtras = mtgjson.McmIDExtras
		set.NameCardmarket = mtgjson.McmName
		set.IsForeignOnly = mtgjson.IsForeignOnly
		set.IsPaperOnly = mtgjson.IsPaperOnly
		set.IsPreview = mtgjson.IsPartialPreview

		if set.Block == "" {
			set.Block = mtgjson.Block
		}
		if set.CodeMtgo == "" {
			set.CodeMtgo = mtgjson.MtgoCode
		}
		if set.CodeParent == "" {
			set.CodeParent = mtgjson.ParentCode
		}
		if set.CountCards == 0 {
			set.CountCards = mtgjson.TotalSetSize
		}
		if set.CountPrinted == nil && mtgjson.BaseSetSize > 0 {
			base := mtgjson.BaseSetSize
			set.CountPrinted = &base
		}
		if set.DateReleased.IsZero() {
			set.DateReleased, _ = time.Parse("2006-01-02", mtgjson.ReleaseDate)
		}
	}

	cs.addSetDetailData(set, scryfall)

	// Resolve the symbol collection; an unresolved symbol leaves the
	// reference null and the read path substitutes DEFAULT. A storage
	// failure during resolution fails the whole call.
	collection, err := cs.symbols.ResolveForSet(mtg.SymbolQuery{
		SetCode:    code,
		IconCode:   mtg.IconCode(scryfall.IconSvgURI),
		ParentCode: set.CodeParent,
		SetType:    string(set.Type),
	}, routes)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve symbol for set %q: %w", code, err)
	}
	if collection != nil {
		set.SymbolID = &collection.ID
		set.Symbol = collection
	}

	if err := cs.service.SetRepo.UpsertSet(set); err != nil {
		return nil, fmt.Errorf("failed to upsert set %q: %w", code, err)
	}
	return set, nil
}

// addSetDetailData enriches a set from the MTGJSON per-set detail file:
// the token count and the cardsphere id, both absent from the list-level
// summary. A missing detail file is not an error.
func (cs *SetService) addSetDetailData(set *models.Set, scryfall *shared.ScryfallSet) {
	var detail *shared.MtgjsonSetDetail
	if cs.service.Mtgjson != nil {
		detail, _ = cs.service.Mtgjson.LoadSetDetail(set.Code)
	}

	if set.Type == models.SetTypeToken {
		set.CountTokens = scryfall.CardCount
	} else if detail != nil {
		set.CountTokens = len(detail.Tokens)
	}

	if detail != nil {
		set.IDCardsphere = detail.CardsphereSetID
	}
}
