package models

import "time"

// Статусы платежа, синхронизированы со статусами платежного провайдера.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusCanceled  = "canceled"
)

// Payment представляет платеж пользователя за товар каталога.
type Payment struct {
	UID               string    `json:"uid"`
	ProviderPaymentID string    `json:"provider_payment_id"`
	UserUID           string    `json:"-"`
	ProductID         int       `json:"product_id"`
	AmountCents       int64     `json:"amount_cents"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// PaymentReceipt сообщение для очереди отправки чеков об оплате.
type PaymentReceipt struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	ProductTitle string `json:"product_title"`
	AmountCents  int64  `json:"amount_cents"`
}
