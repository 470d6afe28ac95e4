package models

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleAgent UserRole = "agent"
	RoleUser  UserRole = "user"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string   `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"type:varchar(255);not null" json:"-"`
	Name         string   `gorm:"type:varchar(255);not null" json:"name"`
	Email        string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Avatar       *string  `gorm:"type:varchar(512)" json:"avatar"`
}
