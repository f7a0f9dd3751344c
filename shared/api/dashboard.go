package api

import "github.com/feedbackhub/feedbackhub/shared/domain"

// Request DTOs

type CreateDashboardRequest struct {
	Name string `json:"name" validate:"required"`
	Team string `json:"team" validate:"required"`
}

// Response DTOs

type DashboardListResponse struct {
	Dashboards []domain.Dashboard `json:"dashboards"`
}

type DashboardCreatedResponse struct {
	Dashboard domain.Dashboard `json:"dashboard"`
}

type ProgressResponse struct {
	Progress []domain.DashboardProgress `json:"progress"`
}

// DashboardDetail repeats the name as dashboard_name for clients of the
// admin detail view.
type DashboardDetail struct {
	domain.Dashboard
	DashboardName domain.DashboardName `json:"dashboard_name"`
	Issues        []domain.Issue       `json:"issues"`
}

type DashboardDetailResponse struct {
	Dashboard DashboardDetail `json:"dashboard"`
}

func NewDashboardDetail(d domain.DashboardDetail) DashboardDetail {
	issues := d.Issues
	if issues == nil {
		issues = []domain.Issue{}
	}
	return DashboardDetail{Dashboard: d.Dashboard, DashboardName: d.Name, Issues: issues}
}
