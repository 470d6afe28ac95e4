package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/helpdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormStore implements Store on top of a relational database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

// translate maps gorm errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Users

func (s *GormStore) CreateUser(user *models.User) error {
	return translate(s.db.Create(user).Error)
}

func (s *GormStore) FindUserByID(id uint64) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) ListUsers() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) UpdateUser(user *models.User) error {
	if _, err := s.FindUserByID(user.ID); err != nil {
		return err
	}
	return translate(s.db.Save(user).Error)
}

func (s *GormStore) DeleteUser(id uint64) error {
	return affected(s.db.Delete(&models.User{}, id))
}

// Categories

func (s *GormStore) CreateCategory(category *models.Category) error {
	return translate(s.db.Create(category).Error)
}

func (s *GormStore) FindCategoryByID(id uint64) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *GormStore) FindCategoryByName(name string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *GormStore) ListCategories() ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := s.db.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *GormStore) UpdateCategory(category *models.Category) error {
	if _, err := s.FindCategoryByID(category.ID); err != nil {
		return err
	}
	return translate(s.db.Save(category).Error)
}

func (s *GormStore) DeleteCategory(id uint64) error {
	return affected(s.db.Delete(&models.Category{}, id))
}

// Tickets

func (s *GormStore) CreateTicket(ticket *models.Ticket) error {
	return translate(s.db.Create(ticket).Error)
}

func (s *GormStore) FindTicketByID(id uint64) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.First(&ticket, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}

func (s *GormStore) ListTickets(filter models.TicketFilter) ([]models.Ticket, error) {
	query := s.db.Model(&models.Ticket{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Priorities) > 0 {
		query = query.Where("priority IN ?", filter.Priorities)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.CreatedByID != nil {
		query = query.Where("created_by_id = ?", *filter.CreatedByID)
	}

	tickets := make([]models.Ticket, 0)
	if err := query.Order("id ASC").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func (s *GormStore) UpdateTicket(ticket *models.Ticket) error {
	if _, err := s.FindTicketByID(ticket.ID); err != nil {
		return err
	}
	return translate(s.db.Save(ticket).Error)
}

// DeleteTicket removes the ticket and its dependents in one transaction.
func (s *GormStore) DeleteTicket(id uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ticket_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ticket_id = ?", id).Delete(&models.TicketHistory{}).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&models.Ticket{}, id))
	})
}

// Comments

func (s *GormStore) CreateComment(comment *models.Comment) error {
	return translate(s.db.Create(comment).Error)
}

func (s *GormStore) FindCommentByID(id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (s *GormStore) ListCommentsByTicket(ticketID uint64) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := s.db.Where("ticket_id = ?", ticketID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *GormStore) ListComments() ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	if err := s.db.Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *GormStore) DeleteComment(id uint64) error {
	return affected(s.db.Delete(&models.Comment{}, id))
}

// Notifications

func (s *GormStore) CreateNotification(notification *models.Notification) error {
	return translate(s.db.Create(notification).Error)
}

func (s *GormStore) FindNotificationByID(id uint64) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.First(&notification, id).Error; err != nil {
		return nil, translate(err)
	}
	return &notification, nil
}

func (s *GormStore) ListNotificationsByUser(userID uint64, unreadOnly bool) ([]models.Notification, error) {
	// "read" is reserved in MySQL; map conditions get their columns quoted.
	conds := map[string]interface{}{"user_id": userID}
	if unreadOnly {
		conds["read"] = false
	}
	query := s.db.Where(conds)

	notifications := make([]models.Notification, 0)
	if err := query.Order("created_at DESC").Order("id DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *GormStore) MarkNotificationRead(id uint64) error {
	if _, err := s.FindNotificationByID(id); err != nil {
		return err
	}
	return s.db.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *GormStore) MarkAllNotificationsRead(userID uint64) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where(map[string]interface{}{"user_id": userID, "read": false}).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (s *GormStore) DeleteNotification(id uint64) error {
	return affected(s.db.Delete(&models.Notification{}, id))
}

// Ticket history

func (s *GormStore) CreateTicketHistory(entries []models.TicketHistory) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.Create(&entries).Error
}

func (s *GormStore) ListTicketHistory(ticketID uint64) ([]models.TicketHistory, error) {
	entries := make([]models.TicketHistory, 0)
	err := s.db.Where("ticket_id = ?", ticketID).
		Order("created_at DESC").Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
