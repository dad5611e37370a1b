package domain

import "time"

// 站点内容类实体：博客 / 合作伙伴 / 服务项

type BlogPost struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Slug      string    `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Summary   string    `gorm:"size:512" json:"summary"`
	Content   string    `gorm:"type:text" json:"content"`
	Category  string    `gorm:"size:64" json:"category"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BlogPost) TableName() string { return "blog_posts" }

type Partner struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	LogoURL    string    `gorm:"size:512;not null" json:"logoUrl"`
	WebsiteURL string    `gorm:"size:512" json:"websiteUrl"` // 可空
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Partner) TableName() string { return "partners" }

type Service struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Description string    `gorm:"size:1024" json:"description"`
	Icon        string    `gorm:"size:64" json:"icon"`
	Slug        string    `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Order       int       `gorm:"column:display_order" json:"order"` // 展示顺序
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Service) TableName() string { return "services" }

type ContactMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Email     string    `gorm:"size:191;not null" json:"email"`
	Company   string    `gorm:"size:128" json:"company"`
	Service   string    `gorm:"size:128" json:"service"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"column:is_read" json:"read"` // 默认 false，仅管理端可置位
	CreatedAt time.Time `json:"createdAt"`
}

func (ContactMessage) TableName() string { return "contact_messages" }
