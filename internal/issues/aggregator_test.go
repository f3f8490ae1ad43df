package issues

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rusty-replay/replay-be/internal/models"
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

func TestAggregateCreatesIssueOnFirstSight(t *testing.T) {
	gormDB := newTestDB(t)
	agg := NewAggregator(gormDB, zap.NewNop())

	id, err := agg.Aggregate(context.Background(), 1, "hash-a", "connection refused")
	require.NoError(t, err)

	var issue models.Issue
	require.NoError(t, gormDB.First(&issue, id).Error)
	assert.Equal(t, "connection refused", issue.Title)
	assert.Equal(t, "hash-a", issue.GroupHash)
	assert.Equal(t, int32(1), issue.ProjectID)
	assert.Equal(t, models.IssueStatusOpen, issue.Status)
	assert.Equal(t, int32(1), issue.Count)
	assert.Equal(t, issue.FirstSeen, issue.LastSeen)
}

func TestAggregateBumpsExistingIssue(t *testing.T) {
	gormDB := newTestDB(t)
	agg := NewAggregator(gormDB, zap.NewNop())
	ctx := context.Background()

	first, err := agg.Aggregate(ctx, 1, "hash-a", "connection refused")
	require.NoError(t, err)
	second, err := agg.Aggregate(ctx, 1, "hash-a", "connection refused")
	require.NoError(t, err)

	assert.Equal(t, first, second)

	var count int64
	require.NoError(t, gormDB.Model(&models.Issue{}).Where("group_hash = ?", "hash-a").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var issue models.Issue
	require.NoError(t, gormDB.First(&issue, first).Error)
	assert.Equal(t, int32(2), issue.Count)
	assert.False(t, issue.LastSeen.Before(issue.FirstSeen))
}

func TestAggregateScopesByProject(t *testing.T) {
	gormDB := newTestDB(t)
	agg := NewAggregator(gormDB, zap.NewNop())
	ctx := context.Background()

	a, err := agg.Aggregate(ctx, 1, "hash-a", "boom")
	require.NoError(t, err)
	b, err := agg.Aggregate(ctx, 2, "hash-a", "boom")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestAggregateTruncatesLongTitles(t *testing.T) {
	gormDB := newTestDB(t)
	agg := NewAggregator(gormDB, zap.NewNop())

	long := strings.Repeat("x", 150)
	id, err := agg.Aggregate(context.Background(), 1, "hash-long", long)
	require.NoError(t, err)

	var issue models.Issue
	require.NoError(t, gormDB.First(&issue, id).Error)
	assert.Equal(t, strings.Repeat("x", 97)+"...", issue.Title)
	assert.Len(t, issue.Title, 100)
}
