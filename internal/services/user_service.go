package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/okellen/contactbook-be/internal/apperr"
	"github.com/okellen/contactbook-be/internal/auth"
	"github.com/okellen/contactbook-be/internal/avatar"
	"github.com/okellen/contactbook-be/internal/mail"
	"github.com/okellen/contactbook-be/internal/models"
)

// UserServiceProvider defines the interface for the user lifecycle.
type UserServiceProvider interface {
	Register(ctx context.Context, name, email, password string) (models.User, error)
	Verify(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (models.User, string, error)
	Logout(ctx context.Context, userID string) error
	GetUserByID(ctx context.Context, id string) (models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
}

// UserService provides business logic for registration, email verification
// and JWT sessions.
type UserService struct {
	db         *sql.DB
	tokens     *auth.Manager
	mailer     mail.Mailer
	bcryptCost int
	baseURL    string
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, tokens *auth.Manager, mailer mail.Mailer, bcryptCost int, baseURL string) *UserService {
	return &UserService{
		db:         db,
		tokens:     tokens,
		mailer:     mailer,
		bcryptCost: bcryptCost,
		baseURL:    baseURL,
	}
}

const userColumns = `id, name, email, password_hash, avatar_url, subscription,
	verification_token, verified, token, created_at, updated_at`

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var avatarURL, verifTok, sessTok sql.NullString
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&avatarURL, &user.Subscription, &verifTok, &user.Verified, &sessTok,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	user.AvatarURL = avatarURL.String
	user.VerificationToken = verifTok.String
	user.Token = sessTok.String
	return user, nil
}

// GetUserByID retrieves a single user by their ID, including the stored
// session token. Satisfies auth.UserResolver.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// Register creates an unverified user and dispatches the verification email.
// The pre-insert existence check gives a friendly conflict without a failed
// insert; the unique index on email remains the authoritative guard, so a
// constraint violation from a racing signup maps to the same conflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	if _, err := s.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, apperr.Conflict("Email in use")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return models.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:                uuid.New().String(),
		Name:              name,
		Email:             email,
		PasswordHash:      string(hashed),
		AvatarURL:         avatar.GravatarURL(email),
		Subscription:      "starter",
		VerificationToken: uuid.New().String(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users(id, name, email, password_hash, avatar_url, subscription, verification_token)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.AvatarURL,
		user.Subscription, user.VerificationToken)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperr.Conflict("Email in use")
		}
		return models.User{}, err
	}

	if err := s.sendVerificationMail(user.Email, user.VerificationToken); err != nil {
		// The user row exists at this point; the caller is told the email
		// never left so the client can retry via the resend endpoint.
		return models.User{}, fmt.Errorf("send verification email: %w", err)
	}

	return user, nil
}

// Verify marks the user owning the verification token as verified and burns
// the token. A token that was already used (now NULL) no longer matches and
// yields not found.
func (s *UserService) Verify(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET verified = 1, verification_token = NULL,
		 updated_at = CURRENT_TIMESTAMP WHERE verification_token = ?`, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

// ResendVerification re-dispatches the verification email using the token
// already stored for the user.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Verified {
		return apperr.Validation("Verification has already been passed")
	}
	return s.sendVerificationMail(user.Email, user.VerificationToken)
}

// Login verifies credentials on a verified account, issues a fresh session
// token and stores it, replacing any previous session.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// Same message as a bad password so the response does not leak
			// which field was wrong.
			return models.User{}, "", apperr.Unauthorized("Email or password is wrong")
		}
		return models.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", apperr.Unauthorized("Email or password is wrong")
	}

	if !user.Verified {
		return models.User{}, "", apperr.Unauthorized("Email not verified")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE users SET token = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		token, user.ID)
	if err != nil {
		return models.User{}, "", err
	}

	user.Token = token
	return user, token, nil
}

// Logout clears the stored session token. Clearing an already-cleared token
// is harmless, which makes the operation idempotent.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET token = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?", userID)
	return err
}

// UpdateAvatar stores a new avatar URL for the user.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET avatar_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		avatarURL, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

func (s *UserService) sendVerificationMail(to, token string) error {
	link := fmt.Sprintf("%s/api/users/verify/%s", s.baseURL, token)
	body := fmt.Sprintf(`<a target="_blank" href="%s">Click here to confirm your mail</a>`, link)
	return s.mailer.Send(to, "Confirm your email address", body)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
