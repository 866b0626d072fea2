package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/rs/zerolog/log"

	"github.com/okellen/contactbook-be/internal/apperr"
	"github.com/okellen/contactbook-be/internal/auth"
	"github.com/okellen/contactbook-be/internal/avatar"
	"github.com/okellen/contactbook-be/internal/services"
)

// emailRegexp mirrors the pattern enforced by the store schema of the
// original service: local part, @, domain, 2-3 letter TLD.
var emailRegexp = regexp.MustCompile(`^[a-z0-9]+@[a-z]+\.[a-z]{2,3}$`)

const maxAvatarBytes = 10 << 20

// UserHandler handles HTTP requests for the user lifecycle.
type UserHandler struct {
	service   services.UserServiceProvider
	avatarDir string
	tempDir   string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, avatarDir, tempDir string) *UserHandler {
	return &UserHandler{service: service, avatarDir: avatarDir, tempDir: tempDir}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the signup payload shape.
func (p SignupPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required, validation.Match(emailRegexp)),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 0)),
	)
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login payload shape.
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.Match(emailRegexp)),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 0)),
	)
}

// ResendPayload defines the structure for verification resend requests.
type ResendPayload struct {
	Email string `json:"email"`
}

// Validate checks the resend payload shape.
func (p ResendPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.Match(emailRegexp)),
	)
}

// Signup handles new user registration.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, apperr.Validation("Invalid request body"))
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, apperr.Validation(err.Error()))
		return
	}

	user, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Signup failed")
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"name":  user.Name,
		"email": user.Email,
	})
}

// VerifyToken confirms an email address from the emailed link.
func (h *UserHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := h.service.Verify(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Verification successful"})
}

// ResendVerify re-sends the verification email for an unverified account.
func (h *UserHandler) ResendVerify(w http.ResponseWriter, r *http.Request) {
	var payload ResendPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, apperr.Validation("Invalid request body"))
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, apperr.Validation(err.Error()))
		return
	}

	if err := h.service.ResendVerification(r.Context(), payload.Email); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Verification email sent"})
}

// Login handles authentication and session token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, apperr.Validation("Invalid request body"))
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, r, apperr.Validation(err.Error()))
		return
	}

	user, token, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]string{
			"email":        user.Email,
			"subscription": user.Subscription,
		},
	})
}

// Logout clears the current session token.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Not authorized"))
		return
	}

	if err := h.service.Logout(r.Context(), user.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Current returns the authenticated user's profile.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Not authorized"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"email":        user.Email,
		"subscription": user.Subscription,
	})
}

// UpdateAvatar accepts a multipart image upload, normalizes it and stores it
// under the avatars directory. The staged upload is removed on every exit
// path.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Not authorized"))
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeError(w, r, apperr.Validation("Invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, r, apperr.Validation("Missing avatar file"))
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.tempDir, 0o755); err != nil {
		writeError(w, r, err)
		return
	}
	tmp, err := os.CreateTemp(h.tempDir, "avatar-*")
	if err != nil {
		writeError(w, r, err)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, r, err)
		return
	}
	if err := tmp.Close(); err != nil {
		writeError(w, r, err)
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	if err := os.MkdirAll(h.avatarDir, 0o755); err != nil {
		writeError(w, r, err)
		return
	}
	filename := fmt.Sprintf("%s%s", user.ID, ext)
	dst := filepath.Join(h.avatarDir, filename)

	if err := avatar.Normalize(tmpPath, dst); err != nil {
		writeError(w, r, apperr.Validation("Unsupported image file"))
		return
	}

	avatarURL := "/avatars/" + filename
	if err := h.service.UpdateAvatar(r.Context(), user.ID, avatarURL); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"avatarURL": avatarURL})
}
