package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rusty-replay/replay-be/internal/issues"
	"github.com/rusty-replay/replay-be/internal/models"
	"github.com/rusty-replay/replay-be/internal/projects"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gormDB.AutoMigrate(&models.Project{}, &models.Issue{}, &models.Event{}))
	return gormDB
}

func seedProject(t *testing.T, gormDB *gorm.DB, apiKey string) models.Project {
	t.Helper()
	project := models.Project{
		Name:      "test project",
		APIKey:    apiKey,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, gormDB.Create(&project).Error)
	return project
}

func newRecorder(t *testing.T, gormDB *gorm.DB) *Recorder {
	t.Helper()
	logger := zap.NewNop()
	resolver, err := projects.NewResolver(gormDB, logger)
	require.NoError(t, err)
	return NewRecorder(gormDB, resolver, issues.NewAggregator(gormDB, logger), logger)
}
