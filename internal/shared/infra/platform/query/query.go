package query

import (
	"math"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// ---------- Tipos de filtrado / paginación / ordenamiento ----------

const (
	DefaultPage      = 1
	DefaultLimit     = 25
	DefaultSortField = "createdAt"
)

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// Sort indica campo y dirección.
type Sort struct {
	Field string // ej. "createdAt", "name", "averageCost"
	Desc  bool
}

// DefaultSort es el orden usado cuando el cliente no pide ninguno.
func DefaultSort() []Sort {
	return []Sort{{Field: DefaultSortField, Desc: true}}
}

// Descriptor es la consulta estructurada que produce Translate. Vive lo que dura la petición.
type Descriptor struct {
	Filter     sharedDomain.Filter
	Projection []string // vacío = todos los campos
	Sort       []Sort
	Page       int // base 1
	Limit      int
	Populate   []string
}

// Normalize garantiza page/limit >= 1 incluso para descriptores construidos a mano.
// Una página cuyo final (page*limit) no cabe en un int vuelve a la primera.
func (d Descriptor) Normalize() Descriptor {
	if d.Page < 1 {
		d.Page = DefaultPage
	}
	if d.Limit < 1 {
		d.Limit = DefaultLimit
	}
	if d.Page > math.MaxInt/d.Limit {
		d.Page = DefaultPage
	}
	return d
}

// Pagination traduce page/limit a la ventana offset/limit.
func (d Descriptor) Pagination() OffsetPagination {
	n := d.Normalize()
	return OffsetPagination{Limit: n.Limit, Offset: (n.Page - 1) * n.Limit}
}
