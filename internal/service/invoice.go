package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nexline-site/internal/core/cache"
	"nexline-site/internal/domain"
	"nexline-site/internal/validate"
	"nexline-site/pkg/utils"
)

var (
	ErrInvoiceNotFound = fmt.Errorf("invoice not found")
	ErrProjectNotFound = fmt.Errorf("project not found")
	ErrNotOwner        = fmt.Errorf("project not owned by caller")
)

// InvoiceService 发票 / 收款流程。cache 可为 nil（测试或未配 Redis）。
type InvoiceService struct {
	projects domain.ProjectRepository
	invoices domain.InvoiceRepository
	cache    *cache.Cache
	log      *zap.Logger
}

func NewInvoiceService(projects domain.ProjectRepository, invoices domain.InvoiceRepository, c *cache.Cache, log *zap.Logger) *InvoiceService {
	return &InvoiceService{projects: projects, invoices: invoices, cache: c, log: log}
}

// ListOptions 三个独立可组合的过滤条件
type ListOptions struct {
	ProjectID string // 选中单个项目
	Status    string // 状态等值
	Query     string // 发票号子串，大小写不敏感
}

// ListUserInvoices 先取调用者名下项目，再按项目扇出取发票，
// 合并后在内存里过滤。合并必须等全部扇出完成，完成顺序不保证。
func (s *InvoiceService) ListUserInvoices(ctx context.Context, userID string, opts ListOptions) ([]domain.Invoice, error) {
	var projects []domain.Project
	if opts.ProjectID != "" {
		p, err := s.projects.FindByID(opts.ProjectID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrProjectNotFound
		}
		if p.UserID != userID {
			return nil, ErrNotOwner
		}
		projects = []domain.Project{*p}
	} else {
		var err error
		projects, err = s.projects.ListByUser(userID)
		if err != nil {
			return nil, err
		}
	}

	var (
		mu     sync.Mutex
		merged []domain.Invoice
	)
	g, _ := errgroup.WithContext(ctx)
	for _, p := range projects {
		projectID := p.ID
		g.Go(func() error {
			invs, err := s.invoices.ListByProject(projectID)
			if err != nil {
				return err
			}
			mu.Lock()
			merged = append(merged, invs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 扇出完成顺序不定，排序保证稳定输出
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].IssueDate.After(merged[j].IssueDate)
	})

	merged = FilterByNumber(merged, opts.Query)
	merged = FilterByStatus(merged, opts.Status)
	return merged, nil
}

// FilterByNumber 发票号大小写不敏感子串匹配；空条件原样返回
func FilterByNumber(invs []domain.Invoice, q string) []domain.Invoice {
	if q == "" {
		return invs
	}
	q = strings.ToLower(q)
	out := make([]domain.Invoice, 0, len(invs))
	for _, inv := range invs {
		if strings.Contains(strings.ToLower(inv.InvoiceNumber), q) {
			out = append(out, inv)
		}
	}
	return out
}

// FilterByStatus 状态等值；空条件原样返回
func FilterByStatus(invs []domain.Invoice, status string) []domain.Invoice {
	if status == "" {
		return invs
	}
	out := make([]domain.Invoice, 0, len(invs))
	for _, inv := range invs {
		if string(inv.Status) == status {
			out = append(out, inv)
		}
	}
	return out
}

// FilterByProject 项目等值；空条件原样返回
func FilterByProject(invs []domain.Invoice, projectID string) []domain.Invoice {
	if projectID == "" {
		return invs
	}
	out := make([]domain.Invoice, 0, len(invs))
	for _, inv := range invs {
		if inv.ProjectID == projectID {
			out = append(out, inv)
		}
	}
	return out
}

// RecordPayment 先落收款行，成功后再把发票状态无条件置为 paid。
// 状态翻转是独立的第二步写：失败只记日志，不回滚收款，也不报给调用方。
// 不做部分收款对账，金额小于票面同样置 paid。
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID string, in *validate.PaymentInput) (*domain.Payment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	inv, err := s.invoices.FindByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}

	p := in.Model(utils.NewID(), invoiceID)
	if err := s.invoices.CreatePayment(p); err != nil {
		// 收款未落库，状态翻转一步不执行
		return nil, err
	}

	if err := s.invoices.UpdateStatus(invoiceID, domain.InvoicePaid); err != nil {
		s.log.Warn("invoice status flip after payment failed",
			zap.String("invoice_id", invoiceID),
			zap.Error(err),
		)
	}

	s.invalidate(ctx, cache.MutPaymentCreate, cache.Scope{ProjectID: inv.ProjectID})
	return p, nil
}

// SetStatus 管理端状态流转；未知状态在边界直接拒绝
func (s *InvoiceService) SetStatus(ctx context.Context, invoiceID, status string) error {
	st, err := domain.ParseInvoiceStatus(status)
	if err != nil {
		return err
	}
	inv, err := s.invoices.FindByID(invoiceID)
	if err != nil {
		return err
	}
	if inv == nil {
		return ErrInvoiceNotFound
	}
	if err := s.invoices.UpdateStatus(invoiceID, st); err != nil {
		return err
	}
	s.invalidate(ctx, cache.MutInvoiceStatus, cache.Scope{ProjectID: inv.ProjectID})
	return nil
}

func (s *InvoiceService) ListPayments(invoiceID string) ([]domain.Payment, error) {
	return s.invoices.ListPayments(invoiceID)
}

func (s *InvoiceService) invalidate(ctx context.Context, m cache.Mutation, sc cache.Scope) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cache.KeysFor(m, sc)...); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("mutation", string(m)), zap.Error(err))
	}
}
