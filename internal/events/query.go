package events

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
	"github.com/rusty-replay/replay-be/internal/models"
	"github.com/rusty-replay/replay-be/internal/pagination"
)

type ListQuery struct {
	Search         string
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int
	PageSize       int
	IncludeDeleted bool
}

// Summary is the listing projection of an event.
type Summary struct {
	ID         int32     `json:"id"`
	Message    string    `json:"message"`
	Stacktrace string    `json:"stacktrace"`
	AppVersion string    `json:"appVersion"`
	Timestamp  time.Time `json:"timestamp"`
	GroupHash  string    `json:"groupHash"`
	IssueID    *int32    `json:"issueId,omitempty"`
	Browser    *string   `json:"browser,omitempty"`
	OS         *string   `json:"os,omitempty"`
}

func summarize(event models.Event) Summary {
	return Summary{
		ID:         event.ID,
		Message:    event.Message,
		Stacktrace: event.Stacktrace,
		AppVersion: event.AppVersion,
		Timestamp:  event.Timestamp,
		GroupHash:  event.GroupHash,
		IssueID:    event.IssueID,
		Browser:    event.Browser,
		OS:         event.OS,
	}
}

// Service serves reads and operator mutations over recorded events.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func (s *Service) projectScope(projectID int32, includeDeleted bool) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("project_id = ?", projectID)
		if !includeDeleted {
			tx = tx.Where("deleted_at IS NULL")
		}
		return tx
	}
}

func filterScope(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if q.Search != "" {
			pattern := "%" + q.Search + "%"
			tx = tx.Where("(message LIKE ? OR stacktrace LIKE ? OR app_version LIKE ?)",
				pattern, pattern, pattern)
		}
		if q.StartDate != nil {
			tx = tx.Where("timestamp >= ?", *q.StartDate)
		}
		if q.EndDate != nil {
			tx = tx.Where("timestamp <= ?", *q.EndDate)
		}
		return tx
	}
}

// List returns a page of events ordered newest first, with the id as a
// stable tiebreak so pagination stays deterministic across rows sharing
// one creation timestamp.
func (s *Service) List(ctx context.Context, projectID int32, q ListQuery) (pagination.Page[Summary], error) {
	page, pageSize := pagination.Normalize(q.Page, q.PageSize)
	scope := s.projectScope(projectID, q.IncludeDeleted)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Scopes(scope).Count(&total).Error; err != nil {
		return pagination.Page[Summary]{}, errorz.Storage(err)
	}

	var filtered int64
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Scopes(scope, filterScope(q)).Count(&filtered).Error; err != nil {
		return pagination.Page[Summary]{}, errorz.Storage(err)
	}

	var rows []models.Event
	err := s.db.WithContext(ctx).Model(&models.Event{}).
		Scopes(scope, filterScope(q)).
		Order("created_at DESC, id DESC").
		Offset(pagination.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return pagination.Page[Summary]{}, errorz.Storage(err)
	}

	content := make([]Summary, 0, len(rows))
	for _, row := range rows {
		content = append(content, summarize(row))
	}
	return pagination.New(content, page, pageSize, total, filtered), nil
}

func (s *Service) Get(ctx context.Context, projectID, eventID int32) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Scopes(s.projectScope(projectID, false)).
		Where("id = ?", eventID).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errorz.NotFound("event not found")
	}
	if err != nil {
		return nil, errorz.Storage(err)
	}
	return &event, nil
}

func (s *Service) SetPriority(ctx context.Context, projectID, eventID int32, priority models.Priority) (*models.Event, error) {
	if !priority.Valid() {
		return nil, errorz.Validation("priority must be HIGH, MED or LOW")
	}
	return s.update(ctx, projectID, eventID, func(event *models.Event) {
		event.Priority = &priority
	})
}

func (s *Service) SetAssignee(ctx context.Context, projectID, eventID int32, assignedTo *int32) (*models.Event, error) {
	return s.update(ctx, projectID, eventID, func(event *models.Event) {
		event.AssignedTo = assignedTo
	})
}

func (s *Service) update(ctx context.Context, projectID, eventID int32, mutate func(*models.Event)) (*models.Event, error) {
	event, err := s.Get(ctx, projectID, eventID)
	if err != nil {
		return nil, err
	}

	mutate(event)
	now := time.Now().UTC()
	event.UpdatedAt = &now

	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return nil, errorz.Storage(err)
	}
	return event, nil
}
