package models

// Product представляет товар каталога: учебный курс, пакет занятий, материалы.
type Product struct {
	ID                    int    `json:"id"`
	SKU                   string `json:"sku"`
	Title                 string `json:"title"`
	Description           string `json:"description"`
	PriceCents            int64  `json:"price_cents"`
	InstallmentsAvailable int    `json:"installments_available"` // Максимум месяцев рассрочки, 0 — недоступна
	IsActive              bool   `json:"is_active"`
}

// DummyProduct используется для приёма данных из JSON-запроса администратора.
type DummyProduct struct {
	SKU                   string `json:"sku" validate:"required,alphanum"`
	Title                 string `json:"title" validate:"required,min=3,max=200"`
	Description           string `json:"description"`
	PriceCents            int64  `json:"price_cents" validate:"required,gt=0"`
	InstallmentsAvailable int    `json:"installments_available" validate:"gte=0,lte=24"`
}

// InstallmentPlan месячный график рассрочки, рассчитанный для товара.
type InstallmentPlan struct {
	Months         int     `json:"months"`
	MonthlyAmounts []int64 `json:"monthly_amounts_cents"`
}
