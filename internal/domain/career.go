package domain

import (
	"fmt"
	"time"
)

type Career struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Title        string    `gorm:"size:128;not null" json:"title"`
	Department   string    `gorm:"size:64" json:"department"`
	Location     string    `gorm:"size:128" json:"location"`
	Type         string    `gorm:"size:32" json:"type"` // full-time / part-time / contract
	Description  string    `gorm:"type:text" json:"description"`
	Requirements string    `gorm:"type:text" json:"requirements"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Career) TableName() string { return "careers" }

// ApplicationStatus 封闭枚举；校验边界直接拒绝未知值
type ApplicationStatus string

const (
	ApplicationPending      ApplicationStatus = "pending"
	ApplicationReviewed     ApplicationStatus = "reviewed"
	ApplicationInterviewing ApplicationStatus = "interviewing"
	ApplicationRejected     ApplicationStatus = "rejected"
	ApplicationHired        ApplicationStatus = "hired"
)

var applicationStatusLabels = map[ApplicationStatus]string{
	ApplicationPending:      "Pending",
	ApplicationReviewed:     "Reviewed",
	ApplicationInterviewing: "Interviewing",
	ApplicationRejected:     "Rejected",
	ApplicationHired:        "Hired",
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if _, ok := applicationStatusLabels[st]; !ok {
		return "", fmt.Errorf("unknown application status %q", s)
	}
	return st, nil
}

func (s ApplicationStatus) Label() string { return applicationStatusLabels[s] }

type Application struct {
	ID             string            `gorm:"primaryKey;size:36" json:"id"`
	CareerID       string            `gorm:"size:36;index;not null" json:"careerId"`
	Career         *Career           `gorm:"foreignKey:CareerID" json:"career,omitempty"`
	Name           string            `gorm:"size:128;not null" json:"name"`
	Email          string            `gorm:"size:191;not null" json:"email"`
	Phone          string            `gorm:"size:32" json:"phone"`
	CoverLetter    string            `gorm:"type:text" json:"coverLetter"`
	ResumeURL      string            `gorm:"size:512" json:"resumeUrl"`
	Status         ApplicationStatus `gorm:"size:16;default:pending" json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func (Application) TableName() string { return "applications" }
