package models

import (
	"time"
)

const (
	IssueStatusOpen       = "open"
	IssueStatusInProgress = "in_progress"
	IssueStatusResolved   = "resolved"
	IssueStatusIgnored    = "ignored"
)

// Issue is one deduplicated class of error: all events sharing a group
// hash within a project roll up into the same row. The composite unique
// index backs the find-or-create in the aggregator.
type Issue struct {
	ID         int32     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"size:120;not null" json:"title"`
	GroupHash  string    `gorm:"size:64;not null;uniqueIndex:idx_issues_project_hash,priority:2" json:"groupHash"`
	ProjectID  int32     `gorm:"not null;uniqueIndex:idx_issues_project_hash,priority:1" json:"projectId"`
	Status     string    `gorm:"size:20;not null;default:open" json:"status"`
	FirstSeen  time.Time `json:"firstSeen"`
	LastSeen   time.Time `json:"lastSeen"`
	Count      int32     `gorm:"not null;default:1" json:"count"`
	AssignedTo *int32    `json:"assignedTo,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Events []Event `gorm:"foreignKey:IssueID" json:"-"`
}

func (Issue) TableName() string { return "issues" }
