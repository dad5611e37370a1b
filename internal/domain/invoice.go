package domain

import (
	"fmt"
	"time"
)

type InvoiceStatus string

const (
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceUnpaid    InvoiceStatus = "unpaid"
	InvoicePending   InvoiceStatus = "pending"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

var invoiceStatusLabels = map[InvoiceStatus]string{
	InvoicePaid:      "Paid",
	InvoiceUnpaid:    "Unpaid",
	InvoicePending:   "Pending",
	InvoiceOverdue:   "Overdue",
	InvoiceCancelled: "Cancelled",
}

func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	st := InvoiceStatus(s)
	if _, ok := invoiceStatusLabels[st]; !ok {
		return "", fmt.Errorf("unknown invoice status %q", s)
	}
	return st, nil
}

func (s InvoiceStatus) Label() string { return invoiceStatusLabels[s] }

type Invoice struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	ProjectID     string        `gorm:"size:36;index;not null" json:"projectId"`
	InvoiceNumber string        `gorm:"uniqueIndex;size:64;not null" json:"invoiceNumber"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Currency      string        `gorm:"size:8;default:USD" json:"currency"`
	IssueDate     time.Time     `json:"issueDate"`
	DueDate       time.Time     `json:"dueDate"`
	Status        InvoiceStatus `gorm:"size:16;default:unpaid" json:"status"`
	Notes         string        `gorm:"size:1024" json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func (Invoice) TableName() string { return "invoices" }

// Payment 手工记录的收款；金额与发票金额无对账约束
type Payment struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	InvoiceID     string    `gorm:"size:36;index;not null" json:"invoiceId"`
	Amount        float64   `gorm:"not null" json:"amount"`
	PaymentDate   time.Time `json:"paymentDate"`
	PaymentMethod string    `gorm:"size:64;not null" json:"paymentMethod"`
	TransactionID string    `gorm:"size:128" json:"transactionId,omitempty"`
	Notes         string    `gorm:"size:1024" json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Payment) TableName() string { return "payments" }

type InvoiceRepository interface {
	Create(inv *Invoice) error
	FindByID(id string) (*Invoice, error)
	ListByProject(projectID string) ([]Invoice, error)
	UpdateStatus(id string, status InvoiceStatus) error
	CreatePayment(p *Payment) error
	ListPayments(invoiceID string) ([]Payment, error)
}
