package domain

import (
	"math"
	"strings"
	"time"
	"unicode"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/geo"
	"github.com/google/uuid"
)

const DefaultPhoto = "no-photo.jpg"

// Careers admitidas.
var Careers = []string{"Web Development", "Mobile Development", "UI/UX", "Data Science", "Business", "Other"}

// Location es un punto GeoJSON más la dirección normalizada por el geocoder.
type Location struct {
	Type             string    `json:"type" validate:"eq=Point"`
	Coordinates      []float64 `json:"coordinates" validate:"len=2"` // [lng, lat]
	FormattedAddress string    `json:"formattedAddress,omitempty"`
	Street           string    `json:"street,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty"`
	Country          string    `json:"country,omitempty"`
}

func NewLocation(l geo.Location) *Location {
	return &Location{
		Type:             "Point",
		Coordinates:      []float64{l.Longitude, l.Latitude},
		FormattedAddress: l.FormattedAddress,
		Street:           l.Street,
		City:             l.City,
		State:            l.State,
		Zipcode:          l.Zipcode,
		Country:          l.Country,
	}
}

// CourseSummary es la vista de un curso incrustada al poblar "courses".
type CourseSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Weeks       string    `json:"weeks,omitempty"`
	Tuition     float64   `json:"tuition"`
}

type Bootcamp struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name" validate:"required,max=50"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description" validate:"required,max=500"`
	Website       string          `json:"website,omitempty" validate:"omitempty,url"`
	Phone         string          `json:"phone,omitempty" validate:"max=20"`
	Email         string          `json:"email,omitempty" validate:"omitempty,email"`
	Address       string          `json:"address" validate:"required"`
	Location      *Location       `json:"location,omitempty"`
	Careers       []string        `json:"careers" validate:"required,min=1,dive,oneof='Web Development' 'Mobile Development' 'UI/UX' 'Data Science' 'Business' 'Other'"`
	AverageRating *float64        `json:"averageRating,omitempty"`
	AverageCost   *float64        `json:"averageCost,omitempty"`
	Photo         string          `json:"photo"`
	Housing       bool            `json:"housing"`
	JobAssistance bool            `json:"jobAssistance"`
	JobGuarantee  bool            `json:"jobGuarantee"`
	AcceptGi      bool            `json:"acceptGi"`
	User          uuid.UUID       `json:"user"`
	CreatedAt     time.Time       `json:"createdAt"`
	Courses       []CourseSummary `json:"courses,omitzero"`
}

// NewBootcamp completa los campos derivados y valida.
func NewBootcamp(b Bootcamp, owner uuid.UUID) (*Bootcamp, error) {
	b.ID = uuid.New()
	b.User = owner
	b.CreatedAt = time.Now().UTC()
	b.AverageCost = nil
	b.AverageRating = nil
	b.Courses = nil
	if b.Photo == "" {
		b.Photo = DefaultPhoto
	}
	b.Name = strings.TrimSpace(b.Name)
	b.Slug = Slugify(b.Name)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Bootcamp) Validate() error {
	return sharedDomain.ValidateStruct(b)
}

// Rename cambia el nombre y regenera el slug.
func (b *Bootcamp) Rename(name string) {
	b.Name = strings.TrimSpace(name)
	b.Slug = Slugify(b.Name)
}

// Slugify pasa a minúsculas y une las palabras alfanuméricas con guiones.
func Slugify(s string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return sb.String()
}

// RoundCost redondea el coste medio hacia arriba al múltiplo de 10.
func RoundCost(avg float64) float64 {
	return math.Ceil(avg/10) * 10
}

// RoundRating deja la valoración media con un decimal.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
