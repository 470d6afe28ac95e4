package models

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

func (s TicketStatus) Valid() bool {
	return slices.Contains(TicketStatuses, s)
}

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
}

func (p TicketPriority) Valid() bool {
	return slices.Contains(TicketPriorities, p)
}

type Ticket struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Subject      string         `gorm:"type:varchar(255);not null" json:"subject"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Status       TicketStatus   `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Priority     TicketPriority `gorm:"type:varchar(20);not null;default:'medium';index" json:"priority"`
	CategoryID   *uint64        `gorm:"index" json:"categoryId"`
	CreatedByID  uint64         `gorm:"not null;index" json:"createdById"`
	AssignedToID *uint64        `gorm:"index" json:"assignedToId"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// TicketFilter selects tickets. Fields combine with AND; Statuses and
// Priorities match when the ticket's value is any of the listed ones. Zero
// values impose no constraint.
type TicketFilter struct {
	Statuses     []TicketStatus
	Priorities   []TicketPriority
	CategoryID   *uint64
	AssignedToID *uint64
	CreatedByID  *uint64
}

// Matches reports whether t satisfies every constraint in f.
func (f TicketFilter) Matches(t Ticket) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, t.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, t.Priority) {
		return false
	}
	if f.CategoryID != nil && !equalID(t.CategoryID, *f.CategoryID) {
		return false
	}
	if f.AssignedToID != nil && !equalID(t.AssignedToID, *f.AssignedToID) {
		return false
	}
	if f.CreatedByID != nil && t.CreatedByID != *f.CreatedByID {
		return false
	}
	return true
}

// FilterTickets returns the tickets matching f, preserving input order.
func FilterTickets(tickets []Ticket, f TicketFilter) []Ticket {
	out := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func equalID(p *uint64, v uint64) bool {
	return p != nil && *p == v
}

// OptionalID distinguishes an absent JSON field from an explicit null.
// Set is true whenever the key was present; Value is nil for null.
type OptionalID struct {
	Set   bool
	Value *uint64
}

// SomeID is a present, non-null OptionalID.
func SomeID(v uint64) OptionalID {
	return OptionalID{Set: true, Value: &v}
}

// NullID is a present OptionalID explicitly set to null.
func NullID() OptionalID {
	return OptionalID{Set: true}
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v uint64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// TicketPatch is a partial ticket update. Nil pointers and unset OptionalIDs
// leave the stored value untouched.
type TicketPatch struct {
	Subject      *string
	Description  *string
	Status       *TicketStatus
	Priority     *TicketPriority
	CategoryID   OptionalID
	AssignedToID OptionalID
}

// Apply merges p onto t.
func (p TicketPatch) Apply(t *Ticket) {
	if p.Subject != nil {
		t.Subject = *p.Subject
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.CategoryID.Set {
		t.CategoryID = cloneID(p.CategoryID.Value)
	}
	if p.AssignedToID.Set {
		t.AssignedToID = cloneID(p.AssignedToID.Value)
	}
}

func cloneID(p *uint64) *uint64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
