package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 10
)

// BootcampSummary es la vista del bootcamp incrustada al poblar "bootcamp".
type BootcampSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

type Review struct {
	ID         uuid.UUID        `json:"id"`
	Title      string           `json:"title" validate:"required,max=100"`
	Text       string           `json:"text" validate:"required"`
	Rating     int              `json:"rating" validate:"gte=1,lte=10"`
	BootcampID uuid.UUID        `json:"bootcampId"`
	Bootcamp   *BootcampSummary `json:"bootcamp,omitempty"`
	User       uuid.UUID        `json:"user"`
	CreatedAt  time.Time        `json:"createdAt"`
}

func NewReview(r Review, bootcampID, author uuid.UUID) (*Review, error) {
	r.ID = uuid.New()
	r.BootcampID = bootcampID
	r.Bootcamp = nil
	r.User = author
	r.Title = strings.TrimSpace(r.Title)
	r.CreatedAt = time.Now().UTC()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Review) Validate() error {
	return sharedDomain.ValidateStruct(r)
}
