package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/rehearsal/internal/common"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
	"github.com/gorilla/mux"
)

type createBandRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func (a *API) createBand(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		a.respondError(w, r, common.ErrNoToken)
		return
	}

	var req createBandRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.respondError(w, r, err)
		return
	}

	band, err := a.bands.CreateBand(r.Context(), user.ID, req.Name)
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, band)
}

func (a *API) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := a.bands.ListMembers(r.Context(), mux.Vars(r)["bandId"])
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (a *API) addMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.respondError(w, r, err)
		return
	}

	m, err := a.bands.AddMember(r.Context(), mux.Vars(r)["bandId"], req.Email, req.Role)
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}
