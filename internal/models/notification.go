package models

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationWarning, NotificationSuccess, NotificationError:
		return true
	}
	return false
}

type Notification struct {
	ID        uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Type      NotificationType `gorm:"type:varchar(20);not null;default:'info'" json:"type"`
	UserID    uint64           `gorm:"not null;index" json:"userId"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	TicketID  *uint64          `gorm:"index" json:"ticketId"`
	CreatedAt time.Time        `json:"createdAt"`
}
