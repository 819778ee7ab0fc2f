// Package memory implementa docstore.Store sobre documentos bson.M en memoria.
// Reproduce la semántica de MongoDB que usa la aplicación: rutas con puntos,
// arrays comparados elemento a elemento, $centerSphere y populate entre colecciones.
package memory

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// Database agrupa colecciones que pueden poblarse entre sí.
type Database struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
	uniques     map[string][][]string
}

func NewDatabase() *Database {
	return &Database{
		collections: make(map[string][]bson.M),
		uniques:     make(map[string][][]string),
	}
}

// Len devuelve el número de documentos de una colección.
func (db *Database) Len(collection string) int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.collections[collection])
}

func (db *Database) indexOf(collection, id string) int {
	for i, d := range db.collections[collection] {
		if d["_id"] == id {
			return i
		}
	}
	return -1
}

// violatesUnique comprueba los índices únicos ignorando el documento con skipID.
func (db *Database) violatesUnique(collection string, doc bson.M, skipID string) bool {
	for _, fields := range db.uniques[collection] {
		key, ok := tupleOf(doc, fields)
		if !ok {
			continue
		}
		for _, other := range db.collections[collection] {
			if other["_id"] == skipID {
				continue
			}
			if otherKey, ok := tupleOf(other, fields); ok && equalTuples(key, otherKey) {
				return true
			}
		}
	}
	return false
}

func tupleOf(doc bson.M, fields []string) ([]interface{}, bool) {
	values := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		v, ok := getPath(doc, f)
		if !ok {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func equalTuples(a, b []interface{}) bool {
	for i := range a {
		if c, ok := compare(a[i], b[i]); !ok || c != 0 {
			return false
		}
	}
	return true
}
