package domain

import "time"

// NotificationType задаёт визуальную категорию уведомления.
type NotificationType string

const (
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Notification выводится из продаж и не хранится.
type Notification struct {
	ID           string
	Type         NotificationType
	Title        string
	Message      string
	Action       string
	SaleID       string
	CustomerName string
	ProductName  string
	DueDate      time.Time
}
