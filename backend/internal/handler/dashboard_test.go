package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardRouter(h *Handler, user *domain.User) http.Handler {
	r := chi.NewRouter()
	r.Use(asUser(user))
	r.Get("/dashboards", h.ListDashboards)
	r.Post("/dashboards", h.CreateDashboard)
	r.Get("/dashboards/progress", h.GetDashboardProgress)
	r.Get("/dashboards/{id}", h.GetDashboard)
	return r
}

func TestGetDashboardProgressHandler(t *testing.T) {
	h := newTestHandler()
	r := dashboardRouter(h, &testAdmin)

	t.Run("query maps onto filter", func(t *testing.T) {
		h.dashboard = &MockDashboardService{MockListProgress: func(_ domain.User, f domain.ProgressFilter) ([]domain.DashboardProgress, error) {
			assert.Equal(t, domain.ProgressFilter{Search: "Feedback", Team: "Core", SortBy: "open_issues", SortDir: "desc"}, f)
			return []domain.DashboardProgress{{Id: 3, Name: "Customer Feedback Board", Team: "Core", TotalIssues: 2, OpenIssues: 2}}, nil
		}}
		rr := serve(r, http.MethodGet, "/dashboards/progress?search=Feedback&team=Core&sort_by=open_issues&sort_dir=desc", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var body map[string][]map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		require.Len(t, body["progress"], 1)
		p := body["progress"][0]
		assert.Equal(t, float64(3), p["id"])
		assert.Equal(t, "Customer Feedback Board", p["name"])
		assert.Equal(t, float64(2), p["open_issues"])
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		h.dashboard = &MockDashboardService{MockListProgress: func(domain.User, domain.ProgressFilter) ([]domain.DashboardProgress, error) {
			return nil, nil
		}}
		rr := serve(r, http.MethodGet, "/dashboards/progress", "")
		assert.JSONEq(t, `{"progress":[]}`, rr.Body.String())
	})

	t.Run("bad sort", func(t *testing.T) {
		h.dashboard = &MockDashboardService{MockListProgress: func(domain.User, domain.ProgressFilter) ([]domain.DashboardProgress, error) {
			return nil, errors.Validation("Unknown sort_by: popularity")
		}}
		rr := serve(r, http.MethodGet, "/dashboards/progress?sort_by=popularity", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, errors.KindValidation, decodeError(t, rr).Error)
	})
}

func TestGetDashboardHandler(t *testing.T) {
	h := newTestHandler()
	r := dashboardRouter(h, &testBusiness)

	h.dashboard = &MockDashboardService{MockDetail: func(_ domain.User, id domain.DashboardId) (domain.DashboardDetail, error) {
		return domain.DashboardDetail{Dashboard: domain.Dashboard{Id: id, Name: "Payments", Team: "Core"}}, nil
	}}
	rr := serve(r, http.MethodGet, "/dashboards/10", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	d := body["dashboard"]
	assert.Equal(t, float64(10), d["id"])
	assert.Equal(t, "Payments", d["name"])
	assert.Equal(t, "Payments", d["dashboard_name"])
	assert.Equal(t, []any{}, d["issues"])

	h.dashboard = &MockDashboardService{MockDetail: func(domain.User, domain.DashboardId) (domain.DashboardDetail, error) {
		return domain.DashboardDetail{}, errors.NotFound("Dashboard not found")
	}}
	rr = serve(r, http.MethodGet, "/dashboards/99", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListAndCreateDashboardHandlers(t *testing.T) {
	h := newTestHandler()
	r := dashboardRouter(h, &testAdmin)

	h.dashboard = &MockDashboardService{MockList: func() ([]domain.Dashboard, error) {
		return []domain.Dashboard{{Id: 1, Name: "Payments", Team: "Core"}}, nil
	}}
	rr := serve(r, http.MethodGet, "/dashboards", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list map[string][]map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	require.Len(t, list["dashboards"], 1)
	assert.Equal(t, float64(1), list["dashboards"][0]["id"])

	rr = serve(r, http.MethodPost, "/dashboards", `{"name":"Growth board","team":"Growth"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(r, http.MethodPost, "/dashboards", `{"name":"Growth board"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
