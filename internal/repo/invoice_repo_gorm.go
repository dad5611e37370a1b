package repo

import (
	"errors"

	"gorm.io/gorm"

	"nexline-site/internal/domain"
)

type InvoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepo(db *gorm.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

func (r *InvoiceRepo) Create(inv *domain.Invoice) error { return r.db.Create(inv).Error }

func (r *InvoiceRepo) FindByID(id string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

func (r *InvoiceRepo) ListByProject(projectID string) ([]domain.Invoice, error) {
	var invs []domain.Invoice
	err := r.db.Where("project_id = ?", projectID).Order("issue_date desc").Find(&invs).Error
	return invs, err
}

func (r *InvoiceRepo) UpdateStatus(id string, status domain.InvoiceStatus) error {
	res := r.db.Model(&domain.Invoice{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *InvoiceRepo) CreatePayment(p *domain.Payment) error { return r.db.Create(p).Error }

func (r *InvoiceRepo) ListPayments(invoiceID string) ([]domain.Payment, error) {
	var ps []domain.Payment
	err := r.db.Where("invoice_id = ?", invoiceID).Order("payment_date desc").Find(&ps).Error
	return ps, err
}
