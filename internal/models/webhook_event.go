package models

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEvent is an audit record of a verified inbound callback. The raw
// payload is kept as received; processing beyond logging is out of scope.
type WebhookEvent struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Source     string         `gorm:"type:varchar(50);not null;index" json:"source"`
	Event      string         `gorm:"type:varchar(200)" json:"event"`
	Payload    datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	RemoteAddr string         `gorm:"type:varchar(64)" json:"remote_addr"`
	ReceivedAt time.Time      `gorm:"type:timestamptz;autoCreateTime;index" json:"received_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
