// Package models содержит доменные структуры платформы: пользователей,
// экзамены, мероприятия, товары, баннеры-оповещения, сертификаты и платежи.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID                   string     // Уникальный идентификатор пользователя
	Email                 string     // Электронная почта
	Username              string     // Имя пользователя (уникальное)
	PasswordHash          string     // Хэш пароля пользователя
	Role                  string     // Роль пользователя, admin или user
	IsVerified            bool       // Подтверждена ли электронная почта
	VerificationCode      string     // Актуальный код подтверждения почты
	VerificationExpiresAt *time.Time // Срок действия кода подтверждения
	CreatedAt             time.Time
}

// SessionUser публичное представление пользователя, отдаваемое клиенту.
// Хэш пароля и код подтверждения наружу не выходят.
type SessionUser struct {
	UID        string `json:"uid"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

// SessionView конвертирует User в SessionUser.
func (u *User) SessionView() SessionUser {
	return SessionUser{
		UID:        u.UID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}

// VerificationEmail сообщение для очереди отправки писем подтверждения.
type VerificationEmail struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Code     string `json:"code"`
}
