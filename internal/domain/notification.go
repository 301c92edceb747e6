package domain

// Ключи содержимого уведомлений, известные сервису уведомлений
const (
	NotifyTransactionCompleted   = "transaction_completed"
	NotifyTransactionFailed      = "transaction_failed"
	NotifyTransactionTimeout     = "transaction_timeout"
	NotifySubscriptionExpiration = "subscription_expiration"
)

// Notification представляет собой уведомление для пользователя
type Notification struct {
	ToID        string `json:"to_id"`
	SendBy      string `json:"send_by"`
	ContentKey  string `json:"content_key"`
	ContentData string `json:"content_data"`
}

// NewNotification создает уведомление с каналом доставки по умолчанию
func NewNotification(toID, contentKey, contentData string) Notification {
	return Notification{
		ToID:        toID,
		SendBy:      "email",
		ContentKey:  contentKey,
		ContentData: contentData,
	}
}

// Role представляет собой роль в сервисе авторизации
type Role struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PrivilegeIDs []string `json:"privilege_ids"`
}
