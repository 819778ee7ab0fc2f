package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

// User representa una cuenta del sistema. El hash de la contraseña nunca se serializa.
type User struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name" validate:"required,max=50"`
	Email        string            `json:"email" validate:"required,email"`
	Role         sharedDomain.Role `json:"role" validate:"required,oneof=user publisher admin"`
	PasswordHash string            `json:"-"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// NewUser valida los datos y genera el hash de la contraseña.
func NewUser(name, email, password string, role sharedDomain.Role) (*User, error) {
	if role == "" {
		role = sharedDomain.RoleUser
	}
	u := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) Validate() error {
	return sharedDomain.ValidateStruct(u)
}

// SetPassword reemplaza el hash tras validar la longitud mínima.
func (u *User) SetPassword(password string) error {
	if len(password) < MinPasswordLength {
		return sharedDomain.ValidationError{Fields: map[string]string{"password": "must be at least 6 characters"}}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// MatchPassword compara en tiempo constante con el hash almacenado.
func (u *User) MatchPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) Actor() sharedDomain.Actor {
	return sharedDomain.Actor{ID: u.ID, Role: u.Role}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
