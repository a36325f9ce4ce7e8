package rabbitmq

// NotificationsExchange — direct exchange для всех исходящих уведомлений.
const NotificationsExchange = "notifications"

// Названия очередей и ключи маршрутизации уведомлений.
const (
	QueueVerificationEmails   = "verification_emails"
	QueuePaymentReceipts      = "payment_receipts"
	QueueCertificateReminders = "certificate_reminders"

	RoutingKeyVerification = "verification"
	RoutingKeyReceipt      = "receipt"
	RoutingKeyReminder     = "reminder"
)

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueVerificationEmails, RoutingKey: RoutingKeyVerification},
		{QueueName: QueuePaymentReceipts, RoutingKey: RoutingKeyReceipt},
		{QueueName: QueueCertificateReminders, RoutingKey: RoutingKeyReminder},
	}
}
