package repository

import (
	"sort"
	"sync"

	"github.com/yukikurage/helpdesk-api/internal/models"
)

// table is an insertion-ordered collection with its own ID counter.
// IDs start at 1 and are never handed out twice.
type table[T any] struct {
	rows  map[uint64]T
	order []uint64
	last  uint64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uint64]T)}
}

func (t *table[T]) nextID() uint64 {
	t.last++
	return t.last
}

func (t *table[T]) put(id uint64, v T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id uint64) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) remove(id uint64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	filtered := t.order[:0]
	for _, item := range t.order {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	t.order = filtered
	return true
}

func (t *table[T]) all() []T {
	res := make([]T, 0, len(t.order))
	for _, id := range t.order {
		res = append(res, t.rows[id])
	}
	return res
}

// MemoryStore keeps every collection in-process behind one lock, so cascades
// and bulk updates are atomic with respect to other callers.
type MemoryStore struct {
	mu            sync.RWMutex
	users         *table[models.User]
	categories    *table[models.Category]
	tickets       *table[models.Ticket]
	comments      *table[models.Comment]
	notifications *table[models.Notification]
	history       *table[models.TicketHistory]
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         newTable[models.User](),
		categories:    newTable[models.Category](),
		tickets:       newTable[models.Ticket](),
		comments:      newTable[models.Comment](),
		notifications: newTable[models.Notification](),
		history:       newTable[models.TicketHistory](),
	}
}

var _ Store = (*MemoryStore)(nil)

// Users

func (m *MemoryStore) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userConflict(user) {
		return ErrDuplicate
	}
	user.ID = m.users.nextID()
	m.users.put(user.ID, *user)
	return nil
}

func (m *MemoryStore) FindUserByID(id uint64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) FindUserByUsername(username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users.all() {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindUserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users.all() {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListUsers() ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users.all(), nil
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users.get(user.ID); !ok {
		return ErrNotFound
	}
	if m.userConflict(user) {
		return ErrDuplicate
	}
	m.users.put(user.ID, *user)
	return nil
}

func (m *MemoryStore) DeleteUser(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.users.remove(id) {
		return ErrNotFound
	}
	return nil
}

// userConflict reports whether another user already holds user's username or email.
func (m *MemoryStore) userConflict(user *models.User) bool {
	for _, u := range m.users.rows {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return true
		}
	}
	return false
}

// Categories

func (m *MemoryStore) CreateCategory(category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.categoryConflict(category) {
		return ErrDuplicate
	}
	category.ID = m.categories.nextID()
	m.categories.put(category.ID, *category)
	return nil
}

func (m *MemoryStore) FindCategoryByID(id uint64) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) FindCategoryByName(name string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.categories.all() {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListCategories() ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.categories.all(), nil
}

func (m *MemoryStore) UpdateCategory(category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories.get(category.ID); !ok {
		return ErrNotFound
	}
	if m.categoryConflict(category) {
		return ErrDuplicate
	}
	m.categories.put(category.ID, *category)
	return nil
}

func (m *MemoryStore) DeleteCategory(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.categories.remove(id) {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryStore) categoryConflict(category *models.Category) bool {
	for _, c := range m.categories.rows {
		if c.ID != category.ID && c.Name == category.Name {
			return true
		}
	}
	return false
}

// Tickets

func (m *MemoryStore) CreateTicket(ticket *models.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket.ID = m.tickets.nextID()
	m.tickets.put(ticket.ID, *ticket)
	return nil
}

func (m *MemoryStore) FindTicketByID(id uint64) (*models.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tickets.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *MemoryStore) ListTickets(filter models.TicketFilter) ([]models.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.FilterTickets(m.tickets.all(), filter), nil
}

func (m *MemoryStore) UpdateTicket(ticket *models.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets.get(ticket.ID); !ok {
		return ErrNotFound
	}
	m.tickets.put(ticket.ID, *ticket)
	return nil
}

// DeleteTicket removes the ticket and everything that points at it. A
// missing ticket reports ErrNotFound and deletes nothing.
func (m *MemoryStore) DeleteTicket(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.tickets.remove(id) {
		return ErrNotFound
	}

	for _, c := range m.comments.all() {
		if c.TicketID == id {
			m.comments.remove(c.ID)
		}
	}
	for _, n := range m.notifications.all() {
		if n.TicketID != nil && *n.TicketID == id {
			m.notifications.remove(n.ID)
		}
	}
	for _, h := range m.history.all() {
		if h.TicketID == id {
			m.history.remove(h.ID)
		}
	}
	return nil
}

// Comments

func (m *MemoryStore) CreateComment(comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.ID = m.comments.nextID()
	m.comments.put(comment.ID, *comment)
	return nil
}

func (m *MemoryStore) FindCommentByID(id uint64) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.comments.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) ListCommentsByTicket(ticketID uint64) ([]models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]models.Comment, 0)
	for _, c := range m.comments.all() {
		if c.TicketID == ticketID {
			res = append(res, c)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStore) ListComments() ([]models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.comments.all(), nil
}

func (m *MemoryStore) DeleteComment(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.comments.remove(id) {
		return ErrNotFound
	}
	return nil
}

// Notifications

func (m *MemoryStore) CreateNotification(notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification.ID = m.notifications.nextID()
	m.notifications.put(notification.ID, *notification)
	return nil
}

func (m *MemoryStore) FindNotificationByID(id uint64) (*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notifications.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (m *MemoryStore) ListNotificationsByUser(userID uint64, unreadOnly bool) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]models.Notification, 0)
	for _, n := range m.notifications.all() {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		res = append(res, n)
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStore) MarkNotificationRead(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications.get(id)
	if !ok {
		return ErrNotFound
	}
	n.Read = true
	m.notifications.put(id, n)
	return nil
}

func (m *MemoryStore) MarkAllNotificationsRead(userID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var changed int64
	for _, n := range m.notifications.all() {
		if n.UserID == userID && !n.Read {
			n.Read = true
			m.notifications.put(n.ID, n)
			changed++
		}
	}
	return changed, nil
}

func (m *MemoryStore) DeleteNotification(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.notifications.remove(id) {
		return ErrNotFound
	}
	return nil
}

// Ticket history

func (m *MemoryStore) CreateTicketHistory(entries []models.TicketHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range entries {
		entries[i].ID = m.history.nextID()
		m.history.put(entries[i].ID, entries[i])
	}
	return nil
}

func (m *MemoryStore) ListTicketHistory(ticketID uint64) ([]models.TicketHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]models.TicketHistory, 0)
	for _, h := range m.history.all() {
		if h.TicketID == ticketID {
			res = append(res, h)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}
