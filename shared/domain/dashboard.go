package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type DashboardCreationData struct {
	Name DashboardName
	Team TeamName
}

type Dashboard struct {
	Id        DashboardId   `json:"id"`
	Name      DashboardName `json:"name"`
	Team      TeamName      `json:"team"`
	CreatedAt time.Time     `json:"created_at"`
}

// DashboardProgress is derived from the live issue set on every read.
type DashboardProgress struct {
	Id             DashboardId   `json:"id"`
	Name           DashboardName `json:"name"`
	Team           TeamName      `json:"team"`
	TotalIssues    int           `json:"total_issues"`
	OpenIssues     int           `json:"open_issues"`
	SecondedIssues int           `json:"seconded_issues"`
	ClosedIssues   int           `json:"closed_issues"`
}

// Count adds one issue in the given status to the tallies.
func (p *DashboardProgress) Count(status IssueStatus) {
	p.TotalIssues++
	switch status {
	case IssueOpen:
		p.OpenIssues++
	case IssueSeconded:
		p.SecondedIssues++
	case IssueClosed:
		p.ClosedIssues++
	}
}

type DashboardDetail struct {
	Dashboard
	Issues []Issue
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type ProgressSortField string

const (
	SortByDashboardName  ProgressSortField = "dashboard_name"
	SortByTeam           ProgressSortField = "team"
	SortByTotalIssues    ProgressSortField = "total_issues"
	SortByOpenIssues     ProgressSortField = "open_issues"
	SortBySecondedIssues ProgressSortField = "seconded_issues"
	SortByClosedIssues   ProgressSortField = "closed_issues"
)

type ProgressFilter struct {
	Search  string
	Team    TeamName
	SortBy  ProgressSortField
	SortDir SortDirection
}
