package handler

import (
	"net/http"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	mw "github.com/feedbackhub/feedbackhub/shared/middleware"
	"github.com/feedbackhub/feedbackhub/shared/utils"
	"github.com/go-chi/chi/v5"
)

// parseIdParam reads an id from the chi route. Ids in paths parse the same
// way as ids in bodies and tokens.
func parseIdParam(r *http.Request, name string) (domain.Id, error) {
	id, err := domain.ParseId(chi.URLParam(r, name))
	if err != nil {
		return 0, errors.Validation("invalid " + name + ": must be an integer")
	}
	return id, nil
}

// currentUser writes a 401 and returns false when the route was mounted
// without the auth middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		utils.WriteErrorAndStatusCode(w, errors.Authentication("Please sign-in"))
		return domain.User{}, false
	}
	return *user, true
}
