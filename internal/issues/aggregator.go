// Package issues maintains the deduplicated issue records that error
// events aggregate into.
package issues

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
	"github.com/rusty-replay/replay-be/internal/models"
)

const (
	maxTitleLen  = 100
	truncatedLen = 97
)

// Aggregator finds or creates the Issue for a (project, fingerprint)
// pair and bumps its occurrence counters.
type Aggregator struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAggregator(db *gorm.DB, logger *zap.Logger) *Aggregator {
	return &Aggregator{db: db, logger: logger}
}

// Aggregate returns the issue id owning the fingerprint, creating the
// issue on first sight. The read-modify-write runs inside a transaction
// holding a row lock on the existing issue, so two concurrent events
// with the same fingerprint cannot lose an increment or double-create.
func (a *Aggregator) Aggregate(ctx context.Context, projectID int32, groupHash, message string) (int32, error) {
	var issueID int32

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		query := tx.Where("project_id = ? AND group_hash = ?", projectID, groupHash)
		// SQLite serializes writers on its own and rejects FOR UPDATE.
		if tx.Dialector.Name() == "mysql" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var issue models.Issue
		err := query.First(&issue).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{
				"count":      gorm.Expr("count + ?", 1),
				"last_seen":  now,
				"updated_at": now,
			}
			if err := tx.Model(&models.Issue{}).Where("id = ?", issue.ID).Updates(updates).Error; err != nil {
				return err
			}
			issueID = issue.ID
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			issue = models.Issue{
				Title:     truncateTitle(message),
				GroupHash: groupHash,
				ProjectID: projectID,
				Status:    models.IssueStatusOpen,
				FirstSeen: now,
				LastSeen:  now,
				Count:     1,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(&issue).Error; err != nil {
				return err
			}
			issueID = issue.ID
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return 0, errorz.Storage(err)
	}
	return issueID, nil
}

func truncateTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= maxTitleLen {
		return message
	}
	return string(runes[:truncatedLen]) + "..."
}
