package service

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/feedbackhub/feedbackhub/shared/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type DashboardService interface {
	Create(ctx context.Context, actor domain.User, data domain.DashboardCreationData) (domain.Dashboard, error)
	List(ctx context.Context) ([]domain.Dashboard, error)
	ListProgress(ctx context.Context, actor domain.User, filter domain.ProgressFilter) ([]domain.DashboardProgress, error)
	Detail(ctx context.Context, actor domain.User, id domain.DashboardId) (domain.DashboardDetail, error)
}

type DashboardStorage interface {
	CreateDashboard(ctx context.Context, data domain.DashboardCreationData) (domain.Dashboard, error)
	GetDashboard(ctx context.Context, id domain.DashboardId) (domain.Dashboard, error)
	ListDashboards(ctx context.Context) ([]domain.Dashboard, error)
	DashboardProgress(ctx context.Context) ([]domain.DashboardProgress, error)
	ListIssues(ctx context.Context, dashboardId *domain.DashboardId) ([]domain.Issue, error)
}

type DashboardValidator interface {
	Name(name string) error
	Team(team string) error
}

type Dashboard struct {
	storage   DashboardStorage
	validator DashboardValidator
	locale    language.Tag
}

// NewDashboard builds the aggregator. An unparsable locale falls back to English.
func NewDashboard(storage DashboardStorage, validator DashboardValidator, sortLocale string) *Dashboard {
	tag, err := language.Parse(sortLocale)
	if err != nil {
		logger.Log.Warn("unknown sort locale, falling back to en", "locale", sortLocale, "error", err)
		tag = language.English
	}
	return &Dashboard{storage: storage, validator: validator, locale: tag}
}

func (s *Dashboard) Create(ctx context.Context, actor domain.User, data domain.DashboardCreationData) (domain.Dashboard, error) {
	if !actor.IsAdmin() {
		return domain.Dashboard{}, errors.Authorization("Access denied. Only for admin")
	}
	data.Name = strings.TrimSpace(data.Name)
	data.Team = strings.TrimSpace(data.Team)
	if err := s.validator.Name(data.Name); err != nil {
		return domain.Dashboard{}, err
	}
	if err := s.validator.Team(data.Team); err != nil {
		return domain.Dashboard{}, err
	}

	d, err := s.storage.CreateDashboard(ctx, data)
	if err != nil {
		return domain.Dashboard{}, err
	}
	logger.Log.Info("dashboard created", "dashboard_id", d.Id, "user_id", actor.Id)
	return d, nil
}

func (s *Dashboard) List(ctx context.Context) ([]domain.Dashboard, error) {
	return s.storage.ListDashboards(ctx)
}

func (s *Dashboard) Detail(ctx context.Context, _ domain.User, id domain.DashboardId) (domain.DashboardDetail, error) {
	d, err := s.storage.GetDashboard(ctx, id)
	if err != nil {
		return domain.DashboardDetail{}, err
	}
	issues, err := s.storage.ListIssues(ctx, &id)
	if err != nil {
		return domain.DashboardDetail{}, err
	}
	return domain.DashboardDetail{Dashboard: d, Issues: issues}, nil
}

// ListProgress returns per-dashboard issue counts for admins, filtered and
// sorted per filter. Counts are computed fresh on every call.
func (s *Dashboard) ListProgress(ctx context.Context, actor domain.User, filter domain.ProgressFilter) ([]domain.DashboardProgress, error) {
	if !actor.IsAdmin() {
		return nil, errors.Authorization("Access denied. Only for admin")
	}
	sortBy, dir, err := normalizeSort(filter.SortBy, filter.SortDir)
	if err != nil {
		return nil, err
	}

	all, err := s.storage.DashboardProgress(ctx)
	if err != nil {
		return nil, err
	}

	// casers and collators keep internal state, so each call gets its own
	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(filter.Search))
	team := fold.String(strings.TrimSpace(filter.Team))

	out := make([]domain.DashboardProgress, 0, len(all))
	for _, p := range all {
		foldedTeam := fold.String(p.Team)
		if team != "" && foldedTeam != team {
			continue
		}
		if search != "" && !strings.Contains(fold.String(p.Name), search) && !strings.Contains(foldedTeam, search) {
			continue
		}
		out = append(out, p)
	}

	col := collate.New(s.locale)
	compare := func(a, b domain.DashboardProgress) int {
		switch sortBy {
		case domain.SortByTeam:
			return col.CompareString(a.Team, b.Team)
		case domain.SortByTotalIssues:
			return cmp.Compare(a.TotalIssues, b.TotalIssues)
		case domain.SortByOpenIssues:
			return cmp.Compare(a.OpenIssues, b.OpenIssues)
		case domain.SortBySecondedIssues:
			return cmp.Compare(a.SecondedIssues, b.SecondedIssues)
		case domain.SortByClosedIssues:
			return cmp.Compare(a.ClosedIssues, b.ClosedIssues)
		default:
			return col.CompareString(a.Name, b.Name)
		}
	}
	slices.SortFunc(out, func(a, b domain.DashboardProgress) int {
		c := compare(a, b)
		if dir == domain.SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		// ties always ascend by id
		return cmp.Compare(a.Id, b.Id)
	})
	return out, nil
}

func normalizeSort(by domain.ProgressSortField, dir domain.SortDirection) (domain.ProgressSortField, domain.SortDirection, error) {
	by = domain.ProgressSortField(strings.ToLower(strings.TrimSpace(string(by))))
	switch by {
	case "", "name":
		by = domain.SortByDashboardName
	case domain.SortByDashboardName, domain.SortByTeam, domain.SortByTotalIssues,
		domain.SortByOpenIssues, domain.SortBySecondedIssues, domain.SortByClosedIssues:
	default:
		return "", "", errors.Validation("Unknown sort_by: " + string(by))
	}

	dir = domain.SortDirection(strings.ToLower(strings.TrimSpace(string(dir))))
	switch dir {
	case "":
		dir = domain.SortAsc
	case domain.SortAsc, domain.SortDesc:
	default:
		return "", "", errors.Validation("Unknown sort_dir: " + string(dir))
	}
	return by, dir, nil
}
