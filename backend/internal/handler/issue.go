package handler

import (
	"net/http"

	"github.com/feedbackhub/feedbackhub/shared/api"
	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/feedbackhub/feedbackhub/shared/utils"
)

func (h *Handler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var body api.CreateIssueRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	issue, err := h.issue.Create(r.Context(), user, domain.IssueCreationData{
		DashboardId: body.DashboardId,
		Subject:     body.Subject,
		Description: body.Description,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSONStatus(w, http.StatusCreated, api.IssueResponse{Issue: issue})
}

// ListIssues takes an optional ?dashboard_id= filter.
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var filter *domain.DashboardId
	if raw := r.URL.Query().Get("dashboard_id"); raw != "" {
		id, err := domain.ParseId(raw)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, errors.Validation("invalid dashboard_id: must be an integer"))
			return
		}
		filter = &id
	}

	issues, err := h.issue.List(r.Context(), user, filter)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.IssueListResponse{Issues: issues})
}

func (h *Handler) GetIssue(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	issue, err := h.issue.Get(r.Context(), user, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.IssueResponse{Issue: issue})
}

func (h *Handler) SecondIssue(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	issue, err := h.issue.Second(r.Context(), user, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.IssueResponse{Issue: issue})
}

func (h *Handler) CloseIssue(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	issue, err := h.issue.Close(r.Context(), user, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.IssueResponse{Issue: issue})
}

func (h *Handler) DeleteIssue(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.issue.Delete(r.Context(), user, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
