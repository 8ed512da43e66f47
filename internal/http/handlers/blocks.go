package handlers

import (
	"net/http"
	"strconv"

	"github.com/dropDatabas3/hellocms/internal/element"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
	"github.com/dropDatabas3/hellocms/internal/http/errors"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
	"github.com/dropDatabas3/hellocms/internal/validation"
)

// maxEagerSources acota los bloques fuente por request de eager-map.
const maxEagerSources = 500

// BlocksHandler expone bloques Matrix: lectura, locales y mapas de eager-loading.
type BlocksHandler struct {
	svc *matrix.Service
}

func NewBlocksHandler(svc *matrix.Service) *BlocksHandler {
	return &BlocksHandler{svc: svc}
}

type blockResponse struct {
	ID          int64          `json:"id"`
	UID         string         `json:"uid"`
	Locale      string         `json:"locale"`
	FieldID     int64          `json:"fieldId"`
	OwnerID     int64          `json:"ownerId"`
	OwnerLocale string         `json:"ownerLocale,omitempty"`
	TypeID      int64          `json:"typeId"`
	TypeHandle  string         `json:"type,omitempty"`
	SortOrder   int64          `json:"sortOrder"`
	Collapsed   bool           `json:"collapsed"`
	Content     map[string]any `json:"content,omitempty"`
}

func toBlockResponse(b *matrix.Block, bt *matrix.BlockType) blockResponse {
	resp := blockResponse{
		ID:          b.ID,
		UID:         b.UID,
		Locale:      b.Locale,
		FieldID:     b.FieldID,
		OwnerID:     b.OwnerID,
		OwnerLocale: b.OwnerLocale,
		TypeID:      b.TypeID,
		SortOrder:   b.SortOrder,
		Collapsed:   b.Collapsed,
		Content:     b.Content,
	}
	if bt != nil {
		resp.TypeHandle = bt.Handle
	}
	return resp
}

// Get: GET /v1/blocks/{id}?locale=xx
func (h *BlocksHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.load(w, r)
	if !ok {
		return
	}
	bt, err := h.svc.Type(r.Context(), b)
	if err != nil {
		errors.WriteErrorCtx(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBlockResponse(b, bt))
}

type ownerBlockResponse struct {
	blockResponse
	Locales      []string `json:"locales"`
	ContentTable string   `json:"contentTable"`
	ColumnPrefix string   `json:"columnPrefix,omitempty"`
}

// ByOwner: GET /v1/elements/{id}/blocks?field=N&locale=xx
// Lista los bloques de un owner para un field Matrix, ordenados por sortOrder.
func (h *BlocksHandler) ByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	q := r.URL.Query()
	var verrs validation.Errors
	fieldID, err := strconv.ParseInt(q.Get("field"), 10, 64)
	if err != nil || fieldID <= 0 {
		verrs.Add("field", "Field id must be a positive integer.")
	}
	locale := q.Get("locale")
	validation.Locale(&verrs, "locale", locale)
	if err := verrs.Err(); err != nil {
		errors.WriteError(w, err)
		return
	}

	ctx := r.Context()
	blocks, err := h.svc.BlocksByOwner(ctx, ownerID, fieldID, locale)
	if err != nil {
		errors.WriteErrorCtx(w, r, err)
		return
	}

	out := make([]ownerBlockResponse, 0, len(blocks))
	for _, b := range blocks {
		bound := h.svc.Bind(b)
		set, err := bound.SupportedLocales(ctx)
		if err != nil {
			errors.WriteErrorCtx(w, r, err)
			return
		}
		table, err := bound.ContentTable(ctx)
		if err != nil {
			errors.WriteErrorCtx(w, r, err)
			return
		}
		item := ownerBlockResponse{
			blockResponse: toBlockResponse(b, b.ResolvedType()),
			Locales:       set.IDs(),
			ContentTable:  table,
		}
		if b.ResolvedType() != nil {
			if item.ColumnPrefix, err = bound.FieldColumnPrefix(ctx); err != nil {
				errors.WriteErrorCtx(w, r, err)
				return
			}
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ownerId": ownerID,
		"fieldId": fieldID,
		"blocks":  out,
	})
}

// Locales: GET /v1/blocks/{id}/locales
func (h *BlocksHandler) Locales(w http.ResponseWriter, r *http.Request) {
	b, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      b.ID,
		"locales": h.svc.Locales(r.Context(), b),
	})
}

type eagerMapRequest struct {
	BlockIDs []int64 `json:"blockIds"`
	Handle   string  `json:"handle"`
	Locale   string  `json:"locale,omitempty"`
	// Hydrate carga los elementos destino y los guarda en cada bloque.
	Hydrate bool `json:"hydrate,omitempty"`
}

type eagerMapResponse struct {
	Handle      string         `json:"handle"`
	Applicable  bool           `json:"applicable"`
	ElementType string         `json:"elementType,omitempty"`
	Map         []element.Pair `json:"map"`
	Targets     []int64        `json:"targets"`
	// Children: ids cargados por bloque, solo con hydrate.
	Children map[int64][]int64 `json:"children,omitempty"`
}

// EagerMap: POST /v1/blocks/eager-map
// Un handle que no aplica responde 200 con applicable=false.
func (h *BlocksHandler) EagerMap(w http.ResponseWriter, r *http.Request) {
	var req eagerMapRequest
	if !readStrictJSON(w, r, &req) {
		return
	}

	var verrs validation.Errors
	if req.Handle == "" {
		verrs.Add("handle", "Handle cannot be blank.")
	}
	if len(req.BlockIDs) == 0 {
		verrs.Add("blockIds", "At least one block id is required.")
	}
	if len(req.BlockIDs) > maxEagerSources {
		verrs.Add("blockIds", "Too many block ids.")
	}
	validation.Locale(&verrs, "locale", req.Locale)
	if err := verrs.Err(); err != nil {
		errors.WriteError(w, err)
		return
	}

	blocks := make([]*matrix.Block, 0, len(req.BlockIDs))
	for _, id := range req.BlockIDs {
		b, err := h.svc.Block(r.Context(), id, req.Locale)
		if err != nil {
			errors.WriteErrorCtx(w, r, err)
			return
		}
		blocks = append(blocks, b)
	}

	load := h.svc.EagerLoadingMap
	if req.Hydrate {
		load = h.svc.EagerLoad
	}
	m, ok, err := load(r.Context(), blocks, req.Handle)
	if err != nil {
		errors.WriteErrorCtx(w, r, err)
		return
	}

	resp := eagerMapResponse{Handle: req.Handle, Applicable: ok, Map: []element.Pair{}, Targets: []int64{}}
	if ok {
		resp.ElementType = m.ElementType
		if m.Pairs != nil {
			resp.Map = m.Pairs
		}
		resp.Targets = m.TargetIDs()
		if req.Hydrate {
			resp.Children = make(map[int64][]int64, len(blocks))
			for _, b := range blocks {
				refs, _ := b.EagerLoaded(req.Handle)
				ids := make([]int64, 0, len(refs))
				for _, ref := range refs {
					ids = append(ids, ref.ElementID())
				}
				resp.Children[b.ID] = ids
			}
		}
	}
	logger.From(r.Context()).Debug("eager-loading map resolved",
		logger.Handle(req.Handle),
		logger.Count(len(resp.Map)),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (h *BlocksHandler) load(w http.ResponseWriter, r *http.Request) (*matrix.Block, bool) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return nil, false
	}
	locale := r.URL.Query().Get("locale")
	var verrs validation.Errors
	validation.Locale(&verrs, "locale", locale)
	if err := verrs.Err(); err != nil {
		errors.WriteError(w, err)
		return nil, false
	}
	b, err := h.svc.Block(r.Context(), id, locale)
	if err != nil {
		errors.WriteErrorCtx(w, r, err)
		return nil, false
	}
	return b, true
}
