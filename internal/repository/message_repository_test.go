package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamcollab-api/internal/model"
)

func TestMessageRepository_ListWithAuthors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)

	alice := createTestUser(t, db, "alice", "alice@example.com", model.RoleMember)
	bob := createTestUser(t, db, "bob", "bob@example.com", model.RoleMember)

	base := time.Now().Add(-time.Hour)
	older := &model.Message{UserID: bob.ID, Body: "first", CreatedAt: base}
	newer := &model.Message{UserID: alice.ID, Body: "second", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Create(newer))
	require.NoError(t, repo.Create(older))

	views, err := repo.ListWithAuthors()
	require.NoError(t, err)
	require.Len(t, views, 2)

	// ascending by creation time regardless of insert order
	assert.Equal(t, "first", views[0].Body)
	assert.Equal(t, "bob", views[0].Username)
	assert.Equal(t, bob.ID, views[0].UserID)
	assert.Equal(t, "second", views[1].Body)
	assert.Equal(t, "alice", views[1].Username)
}

func TestMessageRepository_EmptyRoom(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)

	views, err := repo.ListWithAuthors()
	require.NoError(t, err)
	assert.Empty(t, views)
}
