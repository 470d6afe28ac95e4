package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/services"
)

func TestToUserDTO_OmitsPassword(t *testing.T) {
	user := models.User{ID: 1, Username: "admin", PasswordHash: "$2a$10$secret", Name: "John Doe", Email: "admin@example.com", Role: models.RoleAdmin}

	raw, err := json.Marshal(ToUserDTO(user))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "secret")

	raw, err = json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
}

func TestToTicketDTO_MissingRelationsAreNull(t *testing.T) {
	assignee := uint64(7)
	details := services.TicketDetails{
		Ticket: models.Ticket{ID: 3, Subject: "s", Status: models.TicketStatusOpen, Priority: models.TicketPriorityLow, CreatedByID: 1, AssignedToID: &assignee},
		CreatedBy: &models.User{ID: 1, Username: "user", PasswordHash: "hash"},
	}

	raw, err := json.Marshal(ToTicketDTO(details))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.EqualValues(t, 3, body["id"])
	assert.EqualValues(t, 7, body["assignedToId"])
	assert.Nil(t, body["assignedTo"])
	assert.Nil(t, body["category"])
	createdBy, ok := body["createdBy"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user", createdBy["username"])
	assert.NotContains(t, string(raw), "hash")
}

func TestToCommentDTOs(t *testing.T) {
	comments := []models.Comment{
		{ID: 1, Content: "hi", TicketID: 1, UserID: 2, CreatedAt: time.Now()},
		{ID: 2, Content: "gone", TicketID: 1, UserID: 9, CreatedAt: time.Now()},
	}
	users := []models.User{{ID: 2, Username: "agent"}}

	out := ToCommentDTOs(comments, users)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].User)
	assert.Equal(t, "agent", out[0].User.Username)
	assert.Nil(t, out[1].User)
}
