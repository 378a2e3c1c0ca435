package services

import (
	"context"

	"github.com/rpupo63/data-table-transformer/models"
	"github.com/rs/zerolog"
)

// RecentProjectsLimit caps the dashboard listing
const RecentProjectsLimit = 10

type ProjectLister interface {
	ListRecentByOwner(ctx context.Context, userID string, limit int) ([]*models.Project, error)
}

type DashboardSummary struct {
	Total     int                          `json:"total"`
	ByStatus  map[models.ProjectStatus]int `json:"by_status"`
	TotalRows int64                        `json:"total_rows"`
}

type DashboardView struct {
	User     models.User       `json:"user"`
	Projects []*models.Project `json:"projects"`
	Summary  DashboardSummary  `json:"summary"`
}

// Summarize counts projects per status and adds up their row counts.
// Unknown statuses count as draft, so the counts always add up to Total.
func Summarize(projects []*models.Project) DashboardSummary {
	summary := DashboardSummary{ByStatus: make(map[models.ProjectStatus]int, len(models.ProjectStatuses))}
	for _, s := range models.ProjectStatuses {
		summary.ByStatus[s] = 0
	}

	for _, p := range projects {
		if p == nil {
			continue
		}
		summary.Total++
		status := p.Status
		if !status.Valid() {
			status = models.ProjectDraft
		}
		summary.ByStatus[status]++
		if p.RowsCount != nil {
			summary.TotalRows += *p.RowsCount
		}
	}
	return summary
}

type Dashboard struct {
	projects ProjectLister
	logger   zerolog.Logger
}

func NewDashboard(projects ProjectLister, logger zerolog.Logger) *Dashboard {
	return &Dashboard{projects: projects, logger: logger}
}

// Load never fails: a listing error is logged and shown as no projects.
func (d *Dashboard) Load(ctx context.Context, user models.User) DashboardView {
	projects, err := d.projects.ListRecentByOwner(ctx, user.ID, RecentProjectsLimit)
	if err != nil {
		d.logger.Error().Err(err).Str("userID", user.ID).Msg("failed to load dashboard projects")
		projects = nil
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	return DashboardView{
		User:     user,
		Projects: projects,
		Summary:  Summarize(projects),
	}
}
