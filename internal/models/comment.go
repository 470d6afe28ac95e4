package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	TicketID  uint64    `gorm:"not null;index" json:"ticketId"`
	UserID    uint64    `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
