// Package docstore define el puerto de almacén de documentos que usan los repositorios.
// Los documentos se identifican por un "_id" de tipo string.
package docstore

import (
	"context"
	"errors"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

var (
	ErrNoDocument = errors.New("docstore: no document")
	ErrDuplicate  = errors.New("docstore: duplicate key")
)

// IDField es el nombre del campo clave primaria en todos los documentos.
const IDField = "_id"

// Relation describe un campo poblable: los documentos de From cuyo ForeignField
// coincide con el LocalField del documento se incrustan bajo Name.
type Relation struct {
	Name         string
	From         string
	LocalField   string
	ForeignField string
	// Single incrusta el primer documento (o nada) en lugar de un array.
	Single bool
	// Fields limita los campos de los documentos incrustados; vacío = todos.
	Fields []string
}

type IndexKind int

const (
	Ascending IndexKind = iota
	Sphere2D
)

type IndexKey struct {
	Field string
	Kind  IndexKind
}

type Index struct {
	Keys   []IndexKey
	Unique bool
}

// Store es una colección tipada. T es el struct de persistencia con tags bson.
type Store[T any] interface {
	sharedQuery.Collection[T]

	Insert(ctx context.Context, doc T) error
	Get(ctx context.Context, id string) (T, error)
	FindOne(ctx context.Context, filter sharedDomain.Filter) (T, error)
	Replace(ctx context.Context, id string, doc T) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, filter sharedDomain.Filter) (int64, error)
	// Average devuelve la media de field sobre los documentos del filtro; ok=false si no hay ninguno.
	Average(ctx context.Context, filter sharedDomain.Filter, field string) (avg float64, ok bool, err error)
	EnsureIndexes(ctx context.Context, indexes ...Index) error
}
