package handler

import (
	"net/http"

	"github.com/feedbackhub/feedbackhub/shared/api"
	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/utils"
)

func (h *Handler) ListDashboards(w http.ResponseWriter, r *http.Request) {
	dashboards, err := h.dashboard.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.DashboardListResponse{Dashboards: dashboards})
}

func (h *Handler) CreateDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var body api.CreateDashboardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	d, err := h.dashboard.Create(r.Context(), user, domain.DashboardCreationData{Name: body.Name, Team: body.Team})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSONStatus(w, http.StatusCreated, api.DashboardCreatedResponse{Dashboard: d})
}

// GetDashboardProgress serves the admin overview. Query: search, team, sort_by, sort_dir.
func (h *Handler) GetDashboardProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := domain.ProgressFilter{
		Search:  q.Get("search"),
		Team:    q.Get("team"),
		SortBy:  domain.ProgressSortField(q.Get("sort_by")),
		SortDir: domain.SortDirection(q.Get("sort_dir")),
	}

	progress, err := h.dashboard.ListProgress(r.Context(), user, filter)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if progress == nil {
		progress = []domain.DashboardProgress{}
	}
	utils.WriteJSON(w, api.ProgressResponse{Progress: progress})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := parseIdParam(r, "id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	detail, err := h.dashboard.Detail(r.Context(), user, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.DashboardDetailResponse{Dashboard: api.NewDashboardDetail(detail)})
}
