package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/rehearsal/internal/common"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
	"github.com/gorilla/mux"
)

// bandIDFromRequest takes the band id from the "bandId" path variable or,
// failing that, from a top-level "bandId" field of a JSON body. The body is
// restored for the next handler.
func bandIDFromRequest(w http.ResponseWriter, r *http.Request) string {
	if id := mux.Vars(r)["bandId"]; id != "" {
		return id
	}
	if r.Body == nil {
		return ""
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var body struct {
		BandID string `json:"bandId"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return body.BandID
}

// requireBandRole admits the caller only when a membership exists for the
// requested band and allowed accepts its role.
func (a *API) requireBandRole(denied error, allowed func(models.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				a.respondError(w, r, common.ErrNoToken)
				return
			}

			bandID := bandIDFromRequest(w, r)
			if bandID == "" {
				a.respondError(w, r, common.ErrBandIDRequired)
				return
			}

			m, err := a.bands.Membership(r.Context(), bandID, user.ID)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					a.respondError(w, r, denied)
					return
				}
				a.respondError(w, r, err)
				return
			}
			if !allowed(m.Role) {
				a.respondError(w, r, denied)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), membershipKey, m)))
		})
	}
}

// RequireBandMember admits any member of the band.
func (a *API) RequireBandMember(next http.Handler) http.Handler {
	return a.requireBandRole(common.ErrNotBandMember, func(models.Role) bool { return true })(next)
}

// RequireBandAdmin admits admins and leaders of the band.
func (a *API) RequireBandAdmin(next http.Handler) http.Handler {
	return a.requireBandRole(common.ErrNotBandAdmin, models.Role.CanAdminister)(next)
}
