package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-service/models"
)

func TestUserStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	u := createTestUser(t, s, "alice")
	assert.NotZero(t, u.ID)

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, byID.Username)
	assert.Equal(t, u.Email, byID.Email)
	assert.Equal(t, u.Password, byID.Password)
	assert.True(t, byID.IsActive)
	assert.WithinDuration(t, u.Created, byID.Created, time.Second)

	byUsername, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byUsername.ID)

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserStorage_GetNotFound(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	_, err := s.GetUserByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStorage_UniqueViolations(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	createTestUser(t, s, "alice")

	tests := []struct {
		name  string
		user  *models.User
		field string
	}{
		{
			name: "duplicate username",
			user: func() *models.User {
				u := newTestUser("alice")
				u.Email = "other@example.com"
				return u
			}(),
			field: "username",
		},
		{
			name: "duplicate email",
			user: func() *models.User {
				u := newTestUser("bob")
				u.Email = "alice@example.com"
				return u
			}(),
			field: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx, tt.user)
			var uniqueErr *UniqueViolationError
			require.ErrorAs(t, err, &uniqueErr)
			assert.Equal(t, "users", uniqueErr.Table)
			assert.Equal(t, tt.field, uniqueErr.Field)
		})
	}
}

func TestUserStorage_Update(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	u := createTestUser(t, s, "alice")
	created := u.Created

	u.FirstName = "Alicia"
	u.IsActive = false
	u.Created = created.Add(-24 * time.Hour)
	u.Modified = time.Now().Add(time.Minute)
	require.NoError(t, s.UpdateUser(ctx, u))

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.FirstName)
	assert.False(t, got.IsActive)
	assert.WithinDuration(t, created, got.Created, time.Second)
	assert.WithinDuration(t, u.Modified, got.Modified, time.Second)
}

func TestUserStorage_UpdateUniqueAndMissing(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	bob.Username = "alice"
	var uniqueErr *UniqueViolationError
	assert.ErrorAs(t, s.UpdateUser(ctx, bob), &uniqueErr)

	ghost := newTestUser("ghost")
	ghost.ID = 999
	assert.ErrorIs(t, s.UpdateUser(ctx, ghost), ErrNotFound)
}

func TestUserStorage_DeleteCascadesRecipes(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	u := createTestUser(t, s, "alice")

	r := &models.Recipe{Name: "Soup", UserID: &u.ID}
	require.NoError(t, s.CreateRecipe(ctx, r))

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID), ErrNotFound)

	_, err := s.GetRecipe(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStorage_List(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	for _, seed := range []struct {
		username, first, last string
		active                bool
	}{
		{"zed", "Zed", "Zulu", true},
		{"amy", "Amy", "Adams", true},
		{"bob", "Bob", "Brown", false},
		{"amber", "Amy", "Allen", true},
	} {
		u := newTestUser(seed.username)
		u.FirstName, u.LastName, u.IsActive = seed.first, seed.last, seed.active
		require.NoError(t, s.CreateUser(ctx, u))
	}

	all, total, err := s.ListUsers(ctx, models.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"zed", "amy", "bob", "amber"}, usernames(all))

	byName, _, err := s.ListUsers(ctx, models.UserQuery{OrderBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"amber", "amy", "bob", "zed"}, usernames(byName))

	active := true
	filtered, total, err := s.ListUsers(ctx, models.UserQuery{IsActive: &active, OrderBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"amber", "amy", "zed"}, usernames(filtered))

	searched, total, err := s.ListUsers(ctx, models.UserQuery{Search: "AMY"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"amy", "amber"}, usernames(searched))

	page, total, err := s.ListUsers(ctx, models.UserQuery{OrderBy: "name", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"bob", "zed"}, usernames(page))

	none, total, err := s.ListUsers(ctx, models.UserQuery{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func usernames(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}
