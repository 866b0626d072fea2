package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/okellen/contactbook-be/internal/apperr"
	"github.com/okellen/contactbook-be/internal/models"
	"github.com/okellen/contactbook-be/internal/services"
)

func insertTestUser(t *testing.T, db *sql.DB) string {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Exec(
		"INSERT INTO users(id, name, email, password_hash) VALUES(?, ?, ?, ?)",
		id, "Owner", id+"@mail.com", "hash")
	require.NoError(t, err)
	return id
}

func TestContactCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewContactService(db)
	ctx := context.Background()
	owner := insertTestUser(t, db)

	created, err := svc.CreateContact(ctx, owner, models.Contact{
		Name:  "Bob",
		Email: "bob@mail.com",
		Phone: "123-45-67",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Bob", created.Name)

	got, err := svc.GetContact(ctx, owner, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	list, err := svc.ListContacts(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := svc.UpdateContact(ctx, owner, created.ID, models.Contact{
		Name:  "Bobby",
		Email: "bobby@mail.com",
		Phone: "765-43-21",
	})
	require.NoError(t, err)
	require.Equal(t, "Bobby", updated.Name)
	require.Equal(t, "765-43-21", updated.Phone)

	require.NoError(t, svc.DeleteContact(ctx, owner, created.ID))
	_, err = svc.GetContact(ctx, owner, created.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestContactOwnerScoping(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewContactService(db)
	ctx := context.Background()
	owner := insertTestUser(t, db)
	other := insertTestUser(t, db)

	created, err := svc.CreateContact(ctx, owner, models.Contact{
		Name:  "Bob",
		Email: "bob@mail.com",
		Phone: "123-45-67",
	})
	require.NoError(t, err)

	// Another user cannot see, change or delete someone else's contact.
	_, err = svc.GetContact(ctx, other, created.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.UpdateContact(ctx, other, created.ID, models.Contact{
		Name: "X", Email: "x@mail.com", Phone: "0",
	})
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = svc.DeleteContact(ctx, other, created.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))

	list, err := svc.ListContacts(ctx, other)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestContactUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewContactService(db)
	ctx := context.Background()
	owner := insertTestUser(t, db)

	_, err := svc.GetContact(ctx, owner, "missing")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = svc.DeleteContact(ctx, owner, "missing")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
