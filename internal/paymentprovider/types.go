package paymentprovider

import "time"

// Amount представляет денежную сумму.
type Amount struct {
	Value    string `json:"value"`    // сумма, например "380.00"
	Currency string `json:"currency"` // валюта, например "USD"
}

// Confirmation описывает способ подтверждения платежа покупателем.
type Confirmation struct {
	Type      string `json:"type"`                 // "redirect"
	ReturnURL string `json:"return_url,omitempty"` // куда вернуть после оплаты
	URL       string `json:"confirmation_url,omitempty"`
}

// CreatePaymentRequest представляет запрос на создание платежа.
type CreatePaymentRequest struct {
	Amount       Amount            `json:"amount"`
	Description  string            `json:"description,omitempty"`
	Confirmation Confirmation      `json:"confirmation"`
	Capture      bool              `json:"capture"`
	Metadata     map[string]string `json:"metadata,omitempty"` // user_uid, product_uid
}

// CreatePaymentResponse представляет ответ на создание платежа.
type CreatePaymentResponse struct {
	ID           string       `json:"id"`     // ID платежа у провайдера
	Status       string       `json:"status"` // "pending", "succeeded", "canceled"
	Amount       Amount       `json:"amount"`
	Confirmation Confirmation `json:"confirmation"`
	CreatedAt    time.Time    `json:"created_at"`
}

// WebhookEvent представляет событие, присылаемое провайдером на webhook.
type WebhookEvent struct {
	Event  string `json:"event"` // "payment.succeeded", "payment.canceled"
	Object struct {
		ID       string            `json:"id"`
		Status   string            `json:"status"`
		Amount   Amount            `json:"amount"`
		Metadata map[string]string `json:"metadata,omitempty"`
	} `json:"object"`
}
