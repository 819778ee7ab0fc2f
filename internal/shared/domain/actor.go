package domain

import "github.com/google/uuid"

type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	}
	return false
}

// Actor es el usuario autenticado que ejecuta un caso de uso.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanModify indica si el actor puede modificar un recurso cuyo dueño es owner.
func (a Actor) CanModify(owner uuid.UUID) bool {
	return a.IsAdmin() || a.ID == owner
}
