package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/okellen/contactbook-be/internal/apperr"
	"github.com/okellen/contactbook-be/internal/auth"
	"github.com/okellen/contactbook-be/internal/models"
	"github.com/okellen/contactbook-be/internal/services"
)

// ContactHandler handles HTTP requests for the contacts resource. All routes
// sit behind the auth middleware, so the owner always comes from context.
type ContactHandler struct {
	service services.ContactServiceProvider
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service services.ContactServiceProvider) *ContactHandler {
	return &ContactHandler{service: service}
}

// ContactPayload defines the structure for contact create/update requests.
type ContactPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate checks the contact payload shape.
func (p ContactPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required),
		validation.Field(&p.Phone, validation.Required),
	)
}

// GetAll lists the contacts of the authenticated user.
func (h *ContactHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Not authorized"))
		return
	}

	contacts, err := h.service.ListContacts(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// Get retrieves a single contact by its ID.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Not authorized"))
		return
	}

	contact, err := h.service.GetContact(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// Create stores a new contact.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Not authorized"))
		return
	}

	var payload ContactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, apperr.Validation("Invalid request body"))
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, apperr.Validation(err.Error()))
		return
	}

	contact, err := h.service.CreateContact(r.Context(), user.ID, models.Contact{
		Name:  payload.Name,
		Email: payload.Email,
		Phone: payload.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

// Update replaces a contact's fields.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Not authorized"))
		return
	}

	var payload ContactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, apperr.Validation("Invalid request body"))
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, apperr.Validation(err.Error()))
		return
	}

	contact, err := h.service.UpdateContact(r.Context(), user.ID, chi.URLParam(r, "id"), models.Contact{
		Name:  payload.Name,
		Email: payload.Email,
		Phone: payload.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// Delete removes a contact.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Not authorized"))
		return
	}

	if err := h.service.DeleteContact(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Contact deleted"})
}
