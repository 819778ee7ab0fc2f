package events

import (
	"github.com/google/uuid"
)

// Tipos de evento publicados por los contextos course y review.
const (
	CourseCreated = "course.created"
	CourseUpdated = "course.updated"
	CourseDeleted = "course.deleted"

	ReviewCreated = "review.created"
	ReviewUpdated = "review.updated"
	ReviewDeleted = "review.deleted"
)

// Estos son contratos de integración, NO entidades del dominio.
// El consumidor de bootcamp sólo necesita saber qué bootcamp recalcular.
type CourseChanged struct {
	ID         uuid.UUID `json:"id"`
	BootcampID uuid.UUID `json:"bootcampId"`
	Tuition    float64   `json:"tuition"`
}

type ReviewChanged struct {
	ID         uuid.UUID `json:"id"`
	BootcampID uuid.UUID `json:"bootcampId"`
	Rating     int       `json:"rating"`
}
