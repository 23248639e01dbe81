package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/sheet-sync/internal/service"
	"github.com/DoyleJ11/sheet-sync/internal/store"
	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

type api struct {
	sheets *service.Sheets
	rooms  RoomStats
	log    *zap.Logger
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (a *api) characterID(w http.ResponseWriter, r *http.Request) (int, bool) {
	cid, err := intParam(r, "id")
	if err != nil {
		fail(w, a.log, err)
		return 0, false
	}
	return cid, true
}

func (a *api) listCharacters(w http.ResponseWriter, r *http.Request) {
	cs, err := a.sheets.Characters(r.Context())
	if err != nil {
		fail(w, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (a *api) getSheet(w http.ResponseWriter, r *http.Request) {
	cid, ok := a.characterID(w, r)
	if !ok {
		return
	}
	s, err := a.sheets.Sheet(r.Context(), cid)
	if err != nil {
		fail(w, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// getPortrait serves the unauthenticated overlay baseline: the name and the
// status flags, nothing else.
func (a *api) getPortrait(w http.ResponseWriter, r *http.Request) {
	cid, ok := a.characterID(w, r)
	if !ok {
		return
	}
	s, err := a.sheets.Sheet(r.Context(), cid)
	if err != nil {
		fail(w, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, &types.Sheet{Character: s.Character, Statuses: s.Statuses})
}

type characterRequest struct {
	Name       *string `json:"name"`
	MaxLoad    *int    `json:"maxLoad"`
	SpellSlots *int    `json:"spellSlots"`
}

func (a *api) updateCharacter(w http.ResponseWriter, r *http.Request) {
	cid, ok := a.characterID(w, r)
	if !ok {
		return
	}
	var req characterRequest
	if err := decode(r, &req); err != nil {
		fail(w, a.log, err)
		return
	}
	p := store.CharacterPatch(req)
	if p.Empty() {
		fail(w, a.log, fmt.Errorf("%w: nothing to update", errBadRequest))
		return
	}
	st, err := a.sheets.UpdateCharacter(r.Context(), cid, p)
	if err != nil {
		fail(w, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		types.Character
		MaxLoad    int `json:"maxLoad"`
		SpellSlots int `json:"spellSlots"`
	}{st.Character, st.MaxLoad, st.SpellSlots})
}

// valueRequest carries any of the per-collection value fields. Which ones are
// required depends on the collection.
type valueRequest struct {
	Value      any  `json:"value"`
	MaxValue   *int `json:"maxValue"`
	ExtraValue *int `json:"extraValue"`
	Modifier   *int `json:"modifier"`
}

func (v valueRequest) int() (*int, error) {
	if v.Value == nil {
		return nil, nil
	}
	f, ok := v.Value.(float64)
	if !ok || f != float64(int(f)) {
		return nil, fmt.Errorf("%w: value must be an integer", errBadRequest)
	}
	n := int(f)
	return &n, nil
}

func (v valueRequest) requiredInt() (int, error) {
	n, err := v.int()
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, fmt.Errorf("%w: value is required", errBadRequest)
	}
	return *n, nil
}

func (v valueRequest) string() (string, error) {
	s, ok := v.Value.(string)
	if !ok {
		return "", fmt.Errorf("%w: value must be a string", errBadRequest)
	}
	return s, nil
}

func (v valueRequest) bool() (bool, error) {
	b, ok := v.Value.(bool)
	if !ok {
		return false, fmt.Errorf("%w: value must be a boolean", errBadRequest)
	}
	return b, nil
}

// setValue handles PUT /characters/{id}/{collection}/{entryId} for the
// non-inventory collections.
func (a *api) setValue(w http.ResponseWriter, r *http.Request) {
	cid, ok := a.characterID(w, r)
	if !ok {
		return
	}
	eid, err := intParam(r, "entryId")
	if err != nil {
		fail(w, a.log, err)
		return
	}
	var req valueRequest
	if err := decode(r, &req); err != nil {
		fail(w, a.log, err)
		return
	}

	ctx := r.Context()
	var out any
	switch c := types.Collection(chi.URLParam(r, "collection")); c {
	case types.Attributes:
		var v *int
		if v, err = req.int(); err == nil {
			out, err = a.sheets.UpdateAttribute(ctx, cid, eid, store.AttributePatch{Value: v, MaxValue: req.MaxValue, ExtraValue: req.ExtraValue})
		}
	case types.Statuses:
		var b bool
		if b, err = req.bool(); err == nil {
			out, err = a.sheets.UpdateStatus(ctx, cid, eid, b)
		}
	case types.InfoEntries:
		var s string
		if s, err = req.string(); err == nil {
			out, err = a.sheets.UpdateInfo(ctx, cid, eid, s)
		}
	case types.Characteristics:
		var v *int
		if v, err = req.int(); err == nil {
			out, err = a.sheets.UpdateCharacteristic(ctx, cid, eid, store.CharacteristicPatch{Value: v, Modifier: req.Modifier})
		}
	case types.Currencies:
		var n int
		if n, err = req.requiredInt(); err == nil {
			out, err = a.sheets.UpdateCurrency(ctx, cid, eid, n)
		}
	case types.Skills:
		var n int
		if n, err = req.requiredInt(); err == nil {
			out, err = a.sheets.UpdateSkill(ctx, cid, eid, n)
		}
	case types.Specs:
		var s string
		if s, err = req.string(); err == nil {
			out, err = a.sheets.UpdateSpec(ctx, cid, eid, s)
		}
	default:
		err = fmt.Errorf("set %s: %w", c, service.ErrUnsupported)
	}
	if err != nil {
		fail(w, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) addEntry(w http.ResponseWriter, r *http.Request) {
	cid, ok := a.characterID(w, r)
	if !ok {
		return
	}
	var req struct {
		EntryID  int `json:"entryId"`
		Quantity int `json:"quantity"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, a.log, err)
		return
	}
	c := types.Collection(chi.URLParam(r, "collection"))
	out, err := a.sheets.AddEntry(r.Context(), c, cid, req.EntryID, req.Quantity)
	if err != nil {
		fail(w, a.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (a *api) changeEntry(w http.ResponseWriter, r *http.Request) {
	cid, ok := a.characterID(w, r)
	if !ok {
		return
	}
	eid, err := intParam(r, "entryId")
	if err != nil {
		fail(w, a.log, err)
		return
	}
	var req struct {
		Description *string `json:"description"`
		Quantity    *int    `json:"quantity"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, a.log, err)
		return
	}
	c := types.Collection(chi.URLParam(r, "collection"))
	out, err := a.sheets.ChangeEntry(r.Context(), c, cid, eid, store.ItemPatch{Description: req.Description, Quantity: req.Quantity})
	if err != nil {
		fail(w, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) removeEntry(w http.ResponseWriter, r *http.Request) {
	cid, ok := a.characterID(w, r)
	if !ok {
		return
	}
	eid, err := intParam(r, "entryId")
	if err != nil {
		fail(w, a.log, err)
		return
	}
	c := types.Collection(chi.URLParam(r, "collection"))
	if err := a.sheets.RemoveEntry(r.Context(), c, cid, eid); err != nil {
		fail(w, a.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) createNPC(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, a.log, err)
		return
	}
	c, err := a.sheets.CreateNPC(r.Context(), req.Name)
	if err != nil {
		fail(w, a.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *api) deleteNPC(w http.ResponseWriter, r *http.Request) {
	cid, ok := a.characterID(w, r)
	if !ok {
		return
	}
	if err := a.sheets.DeleteNPC(r.Context(), cid); err != nil {
		fail(w, a.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
