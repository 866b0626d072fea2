package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/okellen/contactbook-be/internal/apperr"
	"github.com/okellen/contactbook-be/internal/models"
)

// ContactServiceProvider defines the interface for contact management. Every
// operation is scoped to the owning user.
type ContactServiceProvider interface {
	ListContacts(ctx context.Context, ownerID string) ([]models.Contact, error)
	GetContact(ctx context.Context, ownerID, id string) (models.Contact, error)
	CreateContact(ctx context.Context, ownerID string, contact models.Contact) (models.Contact, error)
	UpdateContact(ctx context.Context, ownerID, id string, contact models.Contact) (models.Contact, error)
	DeleteContact(ctx context.Context, ownerID, id string) error
}

// ContactService provides business logic for the contacts resource.
type ContactService struct {
	db *sql.DB
}

// NewContactService creates a new ContactService.
func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{db: db}
}

// ListContacts returns all contacts belonging to the owner.
func (s *ContactService) ListContacts(ctx context.Context, ownerID string) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, email, phone, created_at, updated_at
		 FROM contacts WHERE owner_id = ? ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// GetContact retrieves a single contact owned by the given user.
func (s *ContactService) GetContact(ctx context.Context, ownerID, id string) (models.Contact, error) {
	var c models.Contact
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, email, phone, created_at, updated_at
		 FROM contacts WHERE id = ? AND owner_id = ?`, id, ownerID)
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Contact{}, apperr.NotFound("Not found")
		}
		return models.Contact{}, err
	}
	return c, nil
}

// CreateContact stores a new contact for the owner.
func (s *ContactService) CreateContact(ctx context.Context, ownerID string, contact models.Contact) (models.Contact, error) {
	contact.ID = uuid.New().String()
	contact.OwnerID = ownerID

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO contacts(id, owner_id, name, email, phone) VALUES(?, ?, ?, ?, ?)",
		contact.ID, contact.OwnerID, contact.Name, contact.Email, contact.Phone)
	if err != nil {
		return models.Contact{}, err
	}
	return s.GetContact(ctx, ownerID, contact.ID)
}

// UpdateContact replaces the mutable fields of a contact.
func (s *ContactService) UpdateContact(ctx context.Context, ownerID, id string, contact models.Contact) (models.Contact, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET name = ?, email = ?, phone = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner_id = ?`,
		contact.Name, contact.Email, contact.Phone, id, ownerID)
	if err != nil {
		return models.Contact{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Contact{}, err
	}
	if n == 0 {
		return models.Contact{}, apperr.NotFound("Not found")
	}
	return s.GetContact(ctx, ownerID, id)
}

// DeleteContact removes a contact owned by the given user.
func (s *ContactService) DeleteContact(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM contacts WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("Not found")
	}
	return nil
}
