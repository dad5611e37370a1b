package repo

import (
	"errors"

	"gorm.io/gorm"

	"nexline-site/internal/domain"
)

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Create(p *domain.Project) error { return r.db.Create(p).Error }

func (r *ProjectRepo) FindByID(id string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProjectRepo) ListByUser(userID string) ([]domain.Project, error) {
	var ps []domain.Project
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&ps).Error
	return ps, err
}

func (r *ProjectRepo) Update(p *domain.Project) error { return r.db.Save(p).Error }

func (r *ProjectRepo) AppendUpdate(u *domain.ProjectUpdate) error { return r.db.Create(u).Error }

func (r *ProjectRepo) ListUpdates(projectID string) ([]domain.ProjectUpdate, error) {
	var us []domain.ProjectUpdate
	err := r.db.Where("project_id = ?", projectID).Order("created_at desc").Find(&us).Error
	return us, err
}
