package repository

import (
	"blogicum/internal/database"

	"gorm.io/gorm"
)

// readDB routes a query to the read replica when one is configured. Feed
// listings and detail lookups are replica-safe; writes and anything read
// back inside a write transaction stay on the primary handle passed in.
func readDB(primary *gorm.DB) *gorm.DB {
	if replica := database.GetReadDB(); replica != nil {
		return replica
	}
	return primary
}
