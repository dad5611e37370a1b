package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nexline-site/internal/domain"
	"nexline-site/internal/repo"
	"nexline-site/internal/validate"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service-test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedProject(t *testing.T, db *gorm.DB, id, userID string) {
	t.Helper()
	p := &domain.Project{ID: id, UserID: userID, Title: "Project " + id, Status: domain.ProjectInProgress}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed project %s: %v", id, err)
	}
}

func seedInvoice(t *testing.T, db *gorm.DB, id, projectID, number string, amount float64, status domain.InvoiceStatus, issued time.Time) {
	t.Helper()
	inv := &domain.Invoice{
		ID: id, ProjectID: projectID, InvoiceNumber: number,
		Amount: amount, Currency: "USD", Status: status,
		IssueDate: issued, DueDate: issued.AddDate(0, 1, 0),
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("seed invoice %s: %v", id, err)
	}
}

func newTestService(db *gorm.DB) *InvoiceService {
	return NewInvoiceService(repo.NewProjectRepo(db), repo.NewInvoiceRepo(db), nil, zap.NewNop())
}

// flakyInvoiceRepo 包装真实仓储，用于注入单步写失败
type flakyInvoiceRepo struct {
	*repo.InvoiceRepo
	failCreatePayment bool
	failUpdateStatus  bool
}

func (f *flakyInvoiceRepo) CreatePayment(p *domain.Payment) error {
	if f.failCreatePayment {
		return errors.New("payment insert rejected")
	}
	return f.InvoiceRepo.CreatePayment(p)
}

func (f *flakyInvoiceRepo) UpdateStatus(id string, status domain.InvoiceStatus) error {
	if f.failUpdateStatus {
		return errors.New("status write rejected")
	}
	return f.InvoiceRepo.UpdateStatus(id, status)
}

func TestRecordPaymentFlipsStatusEvenOnUnderpayment(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedProject(t, db, "p1", "u1")
	seedInvoice(t, db, "inv1", "p1", "INV-001", 1000, domain.InvoiceUnpaid, time.Now())
	svc := newTestService(db)

	p, err := svc.RecordPayment(context.Background(), "inv1", &validate.PaymentInput{
		Amount:        50, // 远小于票面金额
		PaymentMethod: "bank-transfer",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if p.ID == "" || p.InvoiceID != "inv1" {
		t.Fatalf("unexpected payment %+v", p)
	}

	var inv domain.Invoice
	if err := db.First(&inv, "id = ?", "inv1").Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if inv.Status != domain.InvoicePaid {
		t.Fatalf("expected status paid after partial payment, got %q", inv.Status)
	}

	ps, err := svc.ListPayments("inv1")
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(ps) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(ps))
	}
}

func TestRecordPaymentInsertFailureLeavesStatusAlone(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedProject(t, db, "p1", "u1")
	seedInvoice(t, db, "inv1", "p1", "INV-001", 500, domain.InvoiceUnpaid, time.Now())

	flaky := &flakyInvoiceRepo{InvoiceRepo: repo.NewInvoiceRepo(db), failCreatePayment: true}
	svc := NewInvoiceService(repo.NewProjectRepo(db), flaky, nil, zap.NewNop())

	_, err := svc.RecordPayment(context.Background(), "inv1", &validate.PaymentInput{
		Amount: 500, PaymentMethod: "card",
	})
	if err == nil {
		t.Fatal("expected insert error to surface")
	}

	var inv domain.Invoice
	if err := db.First(&inv, "id = ?", "inv1").Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if inv.Status != domain.InvoiceUnpaid {
		t.Fatalf("status must not flip when payment insert fails, got %q", inv.Status)
	}
	var n int64
	if err := db.Model(&domain.Payment{}).Count(&n).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no payment rows, got %d", n)
	}
}

func TestRecordPaymentKeepsPaymentWhenFlipFails(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedProject(t, db, "p1", "u1")
	seedInvoice(t, db, "inv1", "p1", "INV-001", 500, domain.InvoiceUnpaid, time.Now())

	flaky := &flakyInvoiceRepo{InvoiceRepo: repo.NewInvoiceRepo(db), failUpdateStatus: true}
	svc := NewInvoiceService(repo.NewProjectRepo(db), flaky, nil, zap.NewNop())

	p, err := svc.RecordPayment(context.Background(), "inv1", &validate.PaymentInput{
		Amount: 500, PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("flip failure must not surface to caller, got %v", err)
	}
	if p == nil || p.ID == "" {
		t.Fatal("expected persisted payment despite flip failure")
	}

	var inv domain.Invoice
	if err := db.First(&inv, "id = ?", "inv1").Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if inv.Status != domain.InvoiceUnpaid {
		t.Fatalf("status should stay unpaid when flip write fails, got %q", inv.Status)
	}
	ps, err := svc.ListPayments("inv1")
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(ps) != 1 {
		t.Fatalf("payment must not be rolled back, got %d rows", len(ps))
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedProject(t, db, "p1", "u1")
	seedInvoice(t, db, "inv1", "p1", "INV-001", 500, domain.InvoiceUnpaid, time.Now())
	svc := newTestService(db)

	_, err := svc.RecordPayment(context.Background(), "inv1", &validate.PaymentInput{Amount: 0})
	var fes validate.Errors
	if !errors.As(err, &fes) {
		t.Fatalf("expected field errors, got %v", err)
	}

	_, err = svc.RecordPayment(context.Background(), "missing", &validate.PaymentInput{
		Amount: 10, PaymentMethod: "card",
	})
	if !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestListUserInvoicesMergesAcrossProjects(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedProject(t, db, "p1", "u1")
	seedProject(t, db, "p2", "u1")
	seedProject(t, db, "p3", "other")
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedInvoice(t, db, "a", "p1", "INV-001", 100, domain.InvoiceUnpaid, base)
	seedInvoice(t, db, "b", "p2", "INV-002", 200, domain.InvoicePaid, base.AddDate(0, 0, 2))
	seedInvoice(t, db, "c", "p1", "INV-003", 300, domain.InvoiceOverdue, base.AddDate(0, 0, 1))
	seedInvoice(t, db, "d", "p3", "INV-004", 400, domain.InvoiceUnpaid, base)
	svc := newTestService(db)

	got, err := svc.ListUserInvoices(context.Background(), "u1", ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	wantOrder := []string{"b", "c", "a"} // issue_date 降序，其他用户的发票不出现
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d invoices, got %d", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestListUserInvoicesOwnership(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedProject(t, db, "p1", "u1")
	seedProject(t, db, "p2", "other")
	svc := newTestService(db)

	if _, err := svc.ListUserInvoices(context.Background(), "u1", ListOptions{ProjectID: "p2"}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.ListUserInvoices(context.Background(), "u1", ListOptions{ProjectID: "nope"}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestInvoiceFiltersComposeInAnyOrder(t *testing.T) {
	t.Parallel()
	invs := []domain.Invoice{
		{ID: "1", ProjectID: "p1", InvoiceNumber: "INV-2026-001", Status: domain.InvoiceUnpaid},
		{ID: "2", ProjectID: "p1", InvoiceNumber: "INV-2026-002", Status: domain.InvoicePaid},
		{ID: "3", ProjectID: "p2", InvoiceNumber: "inv-2025-104", Status: domain.InvoiceUnpaid},
		{ID: "4", ProjectID: "p2", InvoiceNumber: "CR-0001", Status: domain.InvoiceOverdue},
	}
	queries := []string{"", "inv", "2026", "CR", "zzz"}
	statuses := []string{"", "unpaid", "paid", "cancelled"}
	projects := []string{"", "p1", "p2"}

	ids := func(in []domain.Invoice) string {
		out := ""
		for _, inv := range in {
			out += inv.ID + ","
		}
		return out
	}

	for _, q := range queries {
		for _, st := range statuses {
			for _, pid := range projects {
				ab := FilterByProject(FilterByStatus(FilterByNumber(invs, q), st), pid)
				ba := FilterByNumber(FilterByProject(FilterByStatus(invs, st), pid), q)
				if ids(ab) != ids(ba) {
					t.Fatalf("filter order changed result for q=%q st=%q pid=%q: %s vs %s",
						q, st, pid, ids(ab), ids(ba))
				}
			}
		}
	}

	// 大小写不敏感的子串匹配
	if got := FilterByNumber(invs, "INV-2025"); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("case-insensitive match failed: %+v", got)
	}
	// 空条件等于不过滤
	if got := FilterByStatus(invs, ""); len(got) != len(invs) {
		t.Fatalf("empty status filter must pass everything through")
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedProject(t, db, "p1", "u1")
	seedInvoice(t, db, "inv1", "p1", "INV-001", 100, domain.InvoiceUnpaid, time.Now())
	svc := newTestService(db)

	if err := svc.SetStatus(context.Background(), "inv1", "archived"); err == nil {
		t.Fatal("unknown status must be rejected")
	}
	var inv domain.Invoice
	if err := db.First(&inv, "id = ?", "inv1").Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if inv.Status != domain.InvoiceUnpaid {
		t.Fatalf("status must be untouched after rejected transition, got %q", inv.Status)
	}

	if err := svc.SetStatus(context.Background(), "inv1", "cancelled"); err != nil {
		t.Fatalf("valid transition failed: %v", err)
	}
	if err := db.First(&inv, "id = ?", "inv1").Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if inv.Status != domain.InvoiceCancelled {
		t.Fatalf("expected cancelled, got %q", inv.Status)
	}
}
