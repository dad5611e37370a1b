package domain

// AllModels 自动迁移用
func AllModels() []any {
	return []any{
		&User{},
		&BlogPost{},
		&Partner{},
		&Service{},
		&ContactMessage{},
		&Career{},
		&Application{},
		&Project{},
		&ProjectUpdate{},
		&Invoice{},
		&Payment{},
	}
}
