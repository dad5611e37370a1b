package validate

import (
	"time"

	"nexline-site/internal/domain"
)

// 插入形状：客户端在创建时允许提交的字段子集。服务端字段
//（id、时间戳、默认标志位）一律由 Model() 注入，不接受外部值。

type PartnerInput struct {
	Name       string `json:"name"`
	LogoURL    string `json:"logoUrl"`
	WebsiteURL string `json:"websiteUrl"`
}

func (in *PartnerInput) Validate() error {
	var es Errors
	MinLen(&es, "name", in.Name, 2)
	URL(&es, "logoUrl", in.LogoURL)
	OptionalURL(&es, "websiteUrl", in.WebsiteURL)
	return es.OrNil()
}

func (in *PartnerInput) Model(id string) *domain.Partner {
	return &domain.Partner{
		ID:         id,
		Name:       NormalizeOptional(in.Name),
		LogoURL:    in.LogoURL,
		WebsiteURL: NormalizeOptional(in.WebsiteURL),
	}
}

type BlogPostInput struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Summary   string `json:"summary"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Published *bool  `json:"published"`
}

func (in *BlogPostInput) Validate() error {
	var es Errors
	Required(&es, "title", in.Title)
	Required(&es, "slug", in.Slug)
	return es.OrNil()
}

func (in *BlogPostInput) Model(id string) *domain.BlogPost {
	p := &domain.BlogPost{
		ID:       id,
		Title:    in.Title,
		Slug:     in.Slug,
		Summary:  in.Summary,
		Content:  in.Content,
		Category: in.Category,
	}
	// 缺省未发布
	if in.Published != nil {
		p.Published = *in.Published
	}
	return p
}

type ContactMessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Service string `json:"service"`
	Message string `json:"message"`
}

func (in *ContactMessageInput) Validate() error {
	var es Errors
	Required(&es, "name", in.Name)
	Email(&es, "email", in.Email)
	Required(&es, "message", in.Message)
	return es.OrNil()
}

func (in *ContactMessageInput) Model(id string) *domain.ContactMessage {
	return &domain.ContactMessage{
		ID:      id,
		Name:    in.Name,
		Email:   in.Email,
		Company: NormalizeOptional(in.Company),
		Service: NormalizeOptional(in.Service),
		Message: in.Message,
		Read:    false, // 仅管理端可置位
	}
}

type ServiceInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Slug        string `json:"slug"`
	Order       int    `json:"order"`
	Active      *bool  `json:"active"`
}

func (in *ServiceInput) Validate() error {
	var es Errors
	Required(&es, "title", in.Title)
	Required(&es, "slug", in.Slug)
	return es.OrNil()
}

func (in *ServiceInput) Model(id string) *domain.Service {
	s := &domain.Service{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Icon:        in.Icon,
		Slug:        in.Slug,
		Order:       in.Order,
		Active:      true,
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	return s
}

type ApplicationInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CoverLetter string `json:"coverLetter"`
	ResumeURL   string `json:"resumeUrl"`
}

func (in *ApplicationInput) Validate() error {
	var es Errors
	Required(&es, "name", in.Name)
	Email(&es, "email", in.Email)
	OptionalURL(&es, "resumeUrl", in.ResumeURL)
	return es.OrNil()
}

func (in *ApplicationInput) Model(id, careerID string) *domain.Application {
	return &domain.Application{
		ID:          id,
		CareerID:    careerID,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       NormalizeOptional(in.Phone),
		CoverLetter: in.CoverLetter,
		ResumeURL:   NormalizeOptional(in.ResumeURL),
		Status:      domain.ApplicationPending,
	}
}

type ProjectInput struct {
	UserID               string     `json:"userId"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Status               string     `json:"status"`
	CompletionPercentage int        `json:"completionPercentage"`
	StartDate            *time.Time `json:"startDate"`
	EstimatedEndDate     *time.Time `json:"estimatedEndDate"`
	ServiceType          string     `json:"serviceType"`
}

func (in *ProjectInput) Validate() error {
	var es Errors
	Required(&es, "userId", in.UserID)
	Required(&es, "title", in.Title)
	Range(&es, "completionPercentage", in.CompletionPercentage, 0, 100)
	if in.Status != "" {
		if _, err := domain.ParseProjectStatus(in.Status); err != nil {
			es.Add("status", "%v", err)
		}
	}
	return es.OrNil()
}

func (in *ProjectInput) Model(id string) *domain.Project {
	p := &domain.Project{
		ID:                   id,
		UserID:               in.UserID,
		Title:                in.Title,
		Description:          in.Description,
		Status:               domain.ProjectPlanning,
		CompletionPercentage: in.CompletionPercentage,
		StartDate:            in.StartDate,
		EstimatedEndDate:     in.EstimatedEndDate,
		ServiceType:          in.ServiceType,
	}
	if in.Status != "" {
		p.Status, _ = domain.ParseProjectStatus(in.Status)
	}
	return p
}

type InvoiceInput struct {
	ProjectID     string    `json:"projectId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	IssueDate     time.Time `json:"issueDate"`
	DueDate       time.Time `json:"dueDate"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
}

func (in *InvoiceInput) Validate() error {
	var es Errors
	Required(&es, "projectId", in.ProjectID)
	Required(&es, "invoiceNumber", in.InvoiceNumber)
	Positive(&es, "amount", in.Amount)
	if in.Status != "" {
		if _, err := domain.ParseInvoiceStatus(in.Status); err != nil {
			es.Add("status", "%v", err)
		}
	}
	return es.OrNil()
}

func (in *InvoiceInput) Model(id string) *domain.Invoice {
	inv := &domain.Invoice{
		ID:            id,
		ProjectID:     in.ProjectID,
		InvoiceNumber: in.InvoiceNumber,
		Amount:        in.Amount,
		Currency:      in.Currency,
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,
		Status:        domain.InvoiceUnpaid,
		Notes:         NormalizeOptional(in.Notes),
	}
	if inv.Currency == "" {
		inv.Currency = "USD"
	}
	if in.Status != "" {
		inv.Status, _ = domain.ParseInvoiceStatus(in.Status)
	}
	return inv
}

// PaymentInput 请求体不带 id/createdAt/invoiceId（invoiceId 走路径参数）
type PaymentInput struct {
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"paymentDate"`
	PaymentMethod string    `json:"paymentMethod"`
	TransactionID string    `json:"transactionId"`
	Notes         string    `json:"notes"`
}

func (in *PaymentInput) Validate() error {
	var es Errors
	Positive(&es, "amount", in.Amount)
	Required(&es, "paymentMethod", in.PaymentMethod)
	return es.OrNil()
}

func (in *PaymentInput) Model(id, invoiceID string) *domain.Payment {
	date := in.PaymentDate
	if date.IsZero() {
		date = time.Now()
	}
	return &domain.Payment{
		ID:            id,
		InvoiceID:     invoiceID,
		Amount:        in.Amount,
		PaymentDate:   date,
		PaymentMethod: in.PaymentMethod,
		TransactionID: NormalizeOptional(in.TransactionID),
		Notes:         NormalizeOptional(in.Notes),
	}
}
