package domain

import "time"

// TimelineSource указывает, кто изменил статус продажи.
type TimelineSource string

const (
	TimelineSourceCreate  TimelineSource = "create"
	TimelineSourceManual  TimelineSource = "manual"
	TimelineSourceMonitor TimelineSource = "monitor"
)

// TimelineEvent описывает смену статуса продажи.
type TimelineEvent struct {
	SaleID   string
	From     SaleStatus
	To       SaleStatus
	Source   TimelineSource
	Occurred time.Time
}
