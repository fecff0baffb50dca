package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/rehearsal/internal/common"
	"github.com/dmitrijs2005/rehearsal/internal/logging"
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get(common.AuthorizationHeaderName), " ")
	if !ok || scheme != common.BearerScheme {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate verifies the bearer token, re-loads the account it names and
// attaches it to the request context.
func (a *API) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			a.respondError(w, r, common.ErrNoToken)
			return
		}

		userID, err := a.tokens.Verify(token)
		if err != nil {
			a.log.Debug(r.Context(), "token rejected", "error", err)
			a.respondError(w, r, common.ErrTokenFailed)
			return
		}

		user, err := a.users.User(r.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				a.respondError(w, r, common.ErrTokenUserMissing)
				return
			}
			a.respondError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = logging.ContextWith(ctx, "user_id", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
