package models

import "time"

// Alert представляет оповещение, показываемое баннером на публичных страницах.
type Alert struct {
	ID       int       `json:"id"`
	Message  string    `json:"message"`
	Severity string    `json:"severity"` // info, warning или critical
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	IsActive bool      `json:"is_active"`
}

// DummyAlert используется для приёма данных из JSON-запроса администратора.
// Даты приходят строками в формате RFC3339 и парсятся вручную.
type DummyAlert struct {
	Message  string `json:"message" validate:"required,min=3,max=500"`
	Severity string `json:"severity" validate:"required,oneof=info warning critical"`
	StartsAt string `json:"starts_at" validate:"required"`
	EndsAt   string `json:"ends_at" validate:"required"`
}
