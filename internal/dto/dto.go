package dto

import (
	"time"

	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/services"
)

// UserDTO is the public view of a user. It never carries the password.
type UserDTO struct {
	ID       uint64          `json:"id"`
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
	Avatar   *string         `json:"avatar"`
}

// TicketDTO represents a ticket with its related records resolved
type TicketDTO struct {
	models.Ticket
	CreatedBy  *UserDTO         `json:"createdBy"`
	AssignedTo *UserDTO         `json:"assignedTo"`
	Category   *models.Category `json:"category"`
}

// TicketDetailDTO adds the comment thread to a ticket
type TicketDetailDTO struct {
	TicketDTO
	Comments []CommentDTO `json:"comments"`
}

// CommentDTO represents a comment with its author when still present
type CommentDTO struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	TicketID  uint64    `json:"ticketId"`
	UserID    uint64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	User      *UserDTO  `json:"user"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	User    UserDTO `json:"user"`
	Message string  `json:"message"`
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// MarkAllReadResponse reports how many notifications changed
type MarkAllReadResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		Avatar:   user.Avatar,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, user := range users {
		out[i] = ToUserDTO(user)
	}
	return out
}

func optionalUser(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	u := ToUserDTO(*user)
	return &u
}

// ToTicketDTO converts resolved ticket details to DTO
func ToTicketDTO(details services.TicketDetails) TicketDTO {
	return TicketDTO{
		Ticket:     details.Ticket,
		CreatedBy:  optionalUser(details.CreatedBy),
		AssignedTo: optionalUser(details.AssignedTo),
		Category:   details.Category,
	}
}

// ToTicketDTOs converts a slice of ticket details
func ToTicketDTOs(details []services.TicketDetails) []TicketDTO {
	out := make([]TicketDTO, len(details))
	for i, d := range details {
		out[i] = ToTicketDTO(d)
	}
	return out
}

// ToCommentDTOs converts comments, attaching authors found in users
func ToCommentDTOs(comments []models.Comment, users []models.User) []CommentDTO {
	byID := make(map[uint64]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	out := make([]CommentDTO, len(comments))
	for i, c := range comments {
		out[i] = CommentDTO{
			ID:        c.ID,
			Content:   c.Content,
			TicketID:  c.TicketID,
			UserID:    c.UserID,
			CreatedAt: c.CreatedAt,
			User:      optionalUser(byID[c.UserID]),
		}
	}
	return out
}
