package models

import "time"

// Certificate представляет выданный сертификат о сдаче экзамена.
// Проверка подлинности выполняется по публичному коду сертификата.
type Certificate struct {
	Code       string     `json:"code"` // UUID сертификата, печатается на бланке
	UserUID    string     `json:"-"`
	ExamID     int        `json:"exam_id"`
	ExamTitle  string     `json:"exam_title"`
	HolderName string     `json:"holder_name"`
	IssuedAt   time.Time  `json:"issued_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"` // nil — бессрочный сертификат
	Revoked    bool       `json:"revoked"`
}

// CertificateReminder сообщение для очереди напоминаний об истечении сертификата.
type CertificateReminder struct {
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	ExamTitle  string    `json:"exam_title"`
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
	HolderName string    `json:"holder_name"`
}
