package domain

import (
	"fmt"
	"time"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectReview     ProjectStatus = "review"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on-hold"
)

var projectStatusLabels = map[ProjectStatus]string{
	ProjectPlanning:   "Planning",
	ProjectInProgress: "In Progress",
	ProjectReview:     "Review",
	ProjectCompleted:  "Completed",
	ProjectOnHold:     "On Hold",
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	st := ProjectStatus(s)
	if _, ok := projectStatusLabels[st]; !ok {
		return "", fmt.Errorf("unknown project status %q", s)
	}
	return st, nil
}

func (s ProjectStatus) Label() string { return projectStatusLabels[s] }

func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectPlanning, ProjectInProgress, ProjectReview, ProjectCompleted, ProjectOnHold}
}

type Project struct {
	ID                   string        `gorm:"primaryKey;size:36" json:"id"`
	UserID               string        `gorm:"size:36;index;not null" json:"userId"`
	Title                string        `gorm:"size:255;not null" json:"title"`
	Description          string        `gorm:"type:text" json:"description"`
	Status               ProjectStatus `gorm:"size:16;default:planning" json:"status"`
	CompletionPercentage int           `json:"completionPercentage"` // [0,100]
	StartDate            *time.Time    `json:"startDate"`
	EstimatedEndDate     *time.Time    `json:"estimatedEndDate"`
	ServiceType          string        `gorm:"size:128" json:"serviceType"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }

// ProjectUpdate 只追加的进度日志
type ProjectUpdate struct {
	ID                   string         `gorm:"primaryKey;size:36" json:"id"`
	ProjectID            string         `gorm:"size:36;index;not null" json:"projectId"`
	Title                string         `gorm:"size:255;not null" json:"title"`
	Description          string         `gorm:"type:text" json:"description"`
	CompletionPercentage *int           `json:"completionPercentage,omitempty"`
	Status               *ProjectStatus `gorm:"size:16" json:"status,omitempty"`
	CreatedAt            time.Time      `json:"createdAt"`
}

func (ProjectUpdate) TableName() string { return "project_updates" }

type ProjectRepository interface {
	Create(p *Project) error
	FindByID(id string) (*Project, error)
	ListByUser(userID string) ([]Project, error)
	Update(p *Project) error
	AppendUpdate(u *ProjectUpdate) error
	ListUpdates(projectID string) ([]ProjectUpdate, error)
}
