package filters

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/hryucha/protein-catalog/app/respond"
	"github.com/hryucha/protein-catalog/app/urlstate"
	"github.com/hryucha/protein-catalog/models"
)

type StateResponse struct {
	Filters       models.FilterState `json:"filters"`
	ActivePreset  *string            `json:"activePreset"`
	ActiveFilters int                `json:"activeFilters"`
	Query         string             `json:"query"`
}

type PresetResponse struct {
	Key         string             `json:"key"`
	Name        string             `json:"name"`
	Emoji       string             `json:"emoji"`
	Description string             `json:"description"`
	Filters     models.FilterPatch `json:"filters"`
	Active      bool               `json:"active"`
}

type SessionProvider interface {
	Restore(ctx context.Context, q url.Values) models.FilterState
	State() (models.FilterState, models.PresetKey)
	Update(ctx context.Context, patch models.FilterPatch) models.FilterState
	SelectPreset(ctx context.Context, key models.PresetKey) (models.FilterState, models.PresetKey, error)
	Reset(ctx context.Context) models.FilterState
}

type FiltersHandler struct {
	session SessionProvider
}

func NewFiltersHandler(s SessionProvider) *FiltersHandler {
	return &FiltersHandler{session: s}
}

// HandleGet returns the current state. Codec parameters in the URL restore
// the state from the URL first, as opening a bookmarked link does.
func (h *FiltersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query(); urlstate.HasParams(q) {
		h.session.Restore(r.Context(), q)
	}
	state, preset := h.session.State()
	respond.JSON(w, http.StatusOK, newStateResponse(state, preset))
}

func (h *FiltersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	patch, err := models.DecodeFilterPatch(body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	state := h.session.Update(r.Context(), patch)
	respond.JSON(w, http.StatusOK, newStateResponse(state, ""))
}

func (h *FiltersHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	state := h.session.Reset(r.Context())
	respond.JSON(w, http.StatusOK, newStateResponse(state, ""))
}

func (h *FiltersHandler) HandleGetPresets(w http.ResponseWriter, r *http.Request) {
	_, active := h.session.State()

	presets := models.Presets()
	response := make([]PresetResponse, len(presets))
	for i, p := range presets {
		response[i] = PresetResponse{
			Key:         string(p.Key),
			Name:        p.Name,
			Emoji:       p.Emoji,
			Description: p.Description,
			Filters:     p.Filters,
			Active:      p.Key == active,
		}
	}

	respond.JSON(w, http.StatusOK, response)
}

// HandleSelectPreset toggles the preset named in the path.
func (h *FiltersHandler) HandleSelectPreset(w http.ResponseWriter, r *http.Request) {
	key := models.PresetKey(r.PathValue("key"))

	state, active, err := h.session.SelectPreset(r.Context(), key)
	if err != nil {
		if errors.Is(err, models.ErrPresetNotFound) {
			respond.Error(w, http.StatusNotFound, "preset not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to select preset")
		return
	}

	respond.JSON(w, http.StatusOK, newStateResponse(state, active))
}

func newStateResponse(state models.FilterState, preset models.PresetKey) StateResponse {
	resp := StateResponse{
		Filters:       state,
		ActiveFilters: models.ActiveFilterCount(state),
		Query:         urlstate.EncodeQuery(state),
	}
	if preset != "" {
		p := string(preset)
		resp.ActivePreset = &p
	}
	return resp
}
