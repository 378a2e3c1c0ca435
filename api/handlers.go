package api

import (
	"time"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		dashboardHandler: newDashboardHandler(deps.Database.ProjectRepo()),
		importHandler:    newImportHandler(deps.Importer, deps.Progress),
		projectHandler:   newProjectHandler(deps.Database.ProjectRepo(), deps.Fallback),
		stageHandler:     newStageHandler(),
		authHandler:      newAuthHandler(),
		healthHandler:    newHealthHandler(deps.Database, startupTime),
	}
}
