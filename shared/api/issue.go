package api

import "github.com/feedbackhub/feedbackhub/shared/domain"

// Request DTOs

// CreateIssueRequest accepts dashboard_id as a number or a numeric string.
type CreateIssueRequest struct {
	DashboardId domain.DashboardId `json:"dashboard_id" validate:"required"`
	Subject     string             `json:"subject" validate:"required"`
	Description string             `json:"description" validate:"required"`
}

// Response DTOs

type IssueResponse struct {
	Issue domain.Issue `json:"issue"`
}

type IssueListResponse struct {
	Issues []domain.Issue `json:"issues"`
}
