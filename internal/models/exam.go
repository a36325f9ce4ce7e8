package models

// Exam представляет экзамен из каталога платформы.
type Exam struct {
	ID              int    `json:"id"`
	Code            string `json:"code"`  // Код экзамена, например "CPL-101"
	Title           string `json:"title"` // Название экзамена
	Provider        string `json:"provider"`
	PriceCents      int64  `json:"price_cents"`
	DurationMinutes int    `json:"duration_minutes"`
	IsActive        bool   `json:"is_active"`
}

// DummyExam используется для приёма данных из JSON-запроса администратора,
// прежде чем конвертировать их в Exam.
type DummyExam struct {
	Code            string `json:"code" validate:"required,min=2,max=32"`
	Title           string `json:"title" validate:"required,min=3,max=200"`
	Provider        string `json:"provider" validate:"required"`
	PriceCents      int64  `json:"price_cents" validate:"required,gt=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
}
