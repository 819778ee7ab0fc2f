package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/google/uuid"
)

type Skill string

const (
	SkillBeginner     Skill = "beginner"
	SkillIntermediate Skill = "intermediate"
	SkillAdvanced     Skill = "advanced"
)

// BootcampSummary es la vista del bootcamp incrustada al poblar "bootcamp".
type BootcampSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

type Course struct {
	ID                   uuid.UUID        `json:"id"`
	Title                string           `json:"title" validate:"required,max=100"`
	Description          string           `json:"description" validate:"required"`
	Weeks                string           `json:"weeks" validate:"required"`
	Tuition              float64          `json:"tuition" validate:"gte=0"`
	MinimumSkill         Skill            `json:"minimumSkill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool             `json:"scholarshipAvailable"`
	BootcampID           uuid.UUID        `json:"bootcampId"`
	Bootcamp             *BootcampSummary `json:"bootcamp,omitempty"`
	User                 uuid.UUID        `json:"user"`
	CreatedAt            time.Time        `json:"createdAt"`
}

// NewCourse asigna identidad, bootcamp y dueño al curso y lo valida.
func NewCourse(c Course, bootcampID, owner uuid.UUID) (*Course, error) {
	c.ID = uuid.New()
	c.BootcampID = bootcampID
	c.Bootcamp = nil
	c.User = owner
	c.Title = strings.TrimSpace(c.Title)
	c.CreatedAt = time.Now().UTC()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Course) Validate() error {
	return sharedDomain.ValidateStruct(c)
}
