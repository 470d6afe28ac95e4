package models

import "time"

// TicketHistory records one field change made by a ticket update.
type TicketHistory struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TicketID  uint64    `gorm:"not null;index" json:"ticketId"`
	UserID    *uint64   `json:"userId"`
	Field     string    `gorm:"type:varchar(50);not null" json:"field"`
	OldValue  *string   `gorm:"type:text" json:"oldValue"`
	NewValue  *string   `gorm:"type:text" json:"newValue"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName keeps the history table singular.
func (TicketHistory) TableName() string {
	return "ticket_history"
}
