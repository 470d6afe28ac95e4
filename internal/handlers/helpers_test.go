package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/helpdesk-api/internal/constants"
	"github.com/yukikurage/helpdesk-api/internal/database"
	apierrors "github.com/yukikurage/helpdesk-api/internal/errors"
	"github.com/yukikurage/helpdesk-api/internal/logger"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/repository"
	"github.com/yukikurage/helpdesk-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	apierrors.UseJSONFieldNames()
}

type testEnv struct {
	store         repository.Store
	auth          *services.AuthService
	users         *services.UserService
	categories    *services.CategoryService
	tickets       *services.TicketService
	notifications *services.NotificationService
	stats         *services.StatsService
}

// setupTestEnv backs the services with an in-memory SQLite database.
func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, logger.Discard()))

	store := repository.NewGormStore(db)
	notifications := services.NewNotificationService(store, nil, logger.Discard())
	return testEnv{
		store:         store,
		auth:          services.NewAuthService(store),
		users:         services.NewUserService(store),
		categories:    services.NewCategoryService(store),
		tickets:       services.NewTicketService(store, notifications, logger.Discard()),
		notifications: notifications,
		stats:         services.NewStatsService(store),
	}
}

func (e testEnv) createUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()
	user, err := e.users.CreateUser(services.CreateUserInput{
		Username: username,
		Password: "password123",
		Name:     username,
		Email:    username + "@example.com",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func (e testEnv) createTicket(t *testing.T, subject string, creatorID uint64, assigneeID *uint64) *models.Ticket {
	t.Helper()
	ticket, err := e.tickets.CreateTicket(t.Context(), services.CreateTicketInput{
		Subject:      subject,
		Description:  "Test Description",
		CreatedByID:  creatorID,
		AssignedToID: assigneeID,
	})
	require.NoError(t, err)
	return ticket
}

// asUser stands in for RequireAuth.
func asUser(userID uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

func perform(r http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func idPtr(v uint64) *uint64 { return &v }

func itoa(v uint64) string { return strconv.FormatUint(v, 10) }
