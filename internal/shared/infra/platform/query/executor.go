package query

import (
	"context"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// Collection es lo que el ejecutor necesita del almacén de documentos.
type Collection[T any] interface {
	Find(filter sharedDomain.Filter) Query[T]
	// CountAll cuenta la colección completa, sin filtro.
	CountAll(ctx context.Context) (int64, error)
	Count(ctx context.Context, filter sharedDomain.Filter) (int64, error)
}

// Query es un builder inmutable de consultas; All la ejecuta.
type Query[T any] interface {
	Select(fields ...string) Query[T]
	Sort(keys ...Sort) Query[T]
	Skip(n int64) Query[T]
	Limit(n int64) Query[T]
	Populate(names ...string) Query[T]
	All(ctx context.Context) ([]T, error)
}

// PageRef apunta a una página vecina.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type PaginationLinks struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Envelope es la respuesta de un listado. Count es el tamaño de la página, no el total.
type Envelope[T any] struct {
	Success    bool            `json:"success"`
	Count      int             `json:"count"`
	Pagination PaginationLinks `json:"pagination"`
	Data       []T             `json:"data"`
}

type execConfig struct {
	filteredTotal bool
}

type ExecOption func(*execConfig)

// WithFilteredTotal calcula next/prev con el número de coincidencias del filtro en lugar
// del tamaño total de la colección.
func WithFilteredTotal(enabled bool) ExecOption {
	return func(c *execConfig) { c.filteredTotal = enabled }
}

// Execute resuelve el descriptor contra la colección y arma el envelope.
// Por defecto el total es la colección SIN filtrar; el count y el find no son
// transaccionales, así que el total puede estar desfasado respecto a los resultados.
func Execute[T any](ctx context.Context, d Descriptor, coll Collection[T], opts ...ExecOption) (*Envelope[T], error) {
	cfg := execConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	d = d.Normalize()

	var (
		total int64
		err   error
	)
	if cfg.filteredTotal {
		total, err = coll.Count(ctx, d.Filter)
	} else {
		total, err = coll.CountAll(ctx)
	}
	if err != nil {
		return nil, &sharedDomain.QueryExecutionError{Op: "count", Err: err}
	}

	window := d.Pagination()
	startIndex := int64(window.Offset)
	endIndex := startIndex + int64(window.Limit)

	q := coll.Find(d.Filter)
	if len(d.Projection) > 0 {
		q = q.Select(d.Projection...)
	}
	if len(d.Sort) > 0 {
		q = q.Sort(d.Sort...)
	}
	q = q.Skip(startIndex).Limit(int64(window.Limit))
	if len(d.Populate) > 0 {
		q = q.Populate(d.Populate...)
	}

	results, err := q.All(ctx)
	if err != nil {
		return nil, &sharedDomain.QueryExecutionError{Op: "find", Err: err}
	}
	if results == nil {
		results = []T{}
	}

	env := &Envelope[T]{
		Success: true,
		Count:   len(results),
		Data:    results,
	}
	if endIndex < total {
		env.Pagination.Next = &PageRef{Page: d.Page + 1, Limit: d.Limit}
	}
	if startIndex > 0 {
		env.Pagination.Prev = &PageRef{Page: d.Page - 1, Limit: d.Limit}
	}
	return env, nil
}

// MapEnvelope convierte los documentos de almacenamiento en valores de dominio.
func MapEnvelope[From, To any](env *Envelope[From], fn func(From) To) *Envelope[To] {
	out := &Envelope[To]{
		Success:    env.Success,
		Count:      env.Count,
		Pagination: env.Pagination,
		Data:       make([]To, 0, len(env.Data)),
	}
	for _, item := range env.Data {
		out.Data = append(out.Data, fn(item))
	}
	return out
}
