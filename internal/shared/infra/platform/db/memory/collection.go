package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/docstore"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"go.mongodb.org/mongo-driver/bson"
)

// Collection es una colección tipada sobre un Database en memoria.
type Collection[T any] struct {
	db        *Database
	name      string
	relations map[string]docstore.Relation
	schema    docstore.Schema
}

func NewCollection[T any](db *Database, name string, relations ...docstore.Relation) *Collection[T] {
	rels := make(map[string]docstore.Relation, len(relations))
	for _, r := range relations {
		rels[r.Name] = r
	}
	return &Collection[T]{db: db, name: name, relations: rels, schema: docstore.SchemaOf[T]()}
}

var _ docstore.Store[struct{}] = (*Collection[struct{}])(nil)

// --- Escritura ---

func (c *Collection[T]) Insert(ctx context.Context, doc T) error {
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	id, ok := m[docstore.IDField].(string)
	if !ok || id == "" {
		return fmt.Errorf("memory: document without string _id")
	}

	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	if c.db.indexOf(c.name, id) >= 0 || c.db.violatesUnique(c.name, m, id) {
		return docstore.ErrDuplicate
	}
	c.db.collections[c.name] = append(c.db.collections[c.name], m)
	return nil
}

func (c *Collection[T]) Replace(ctx context.Context, id string, doc T) error {
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	m[docstore.IDField] = id

	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	i := c.db.indexOf(c.name, id)
	if i < 0 {
		return docstore.ErrNoDocument
	}
	if c.db.violatesUnique(c.name, m, id) {
		return docstore.ErrDuplicate
	}
	c.db.collections[c.name][i] = m
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	i := c.db.indexOf(c.name, id)
	if i < 0 {
		return docstore.ErrNoDocument
	}
	docs := c.db.collections[c.name]
	c.db.collections[c.name] = append(docs[:i:i], docs[i+1:]...)
	return nil
}

func (c *Collection[T]) DeleteMany(ctx context.Context, filter sharedDomain.Filter) (int64, error) {
	filter = c.schema.Coerce(filter)
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	var kept []bson.M
	var deleted int64
	for _, d := range c.db.collections[c.name] {
		if matches(d, filter) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	c.db.collections[c.name] = kept
	return deleted, nil
}

// EnsureIndexes registra los índices únicos; los geoespaciales no necesitan estructura.
func (c *Collection[T]) EnsureIndexes(ctx context.Context, indexes ...docstore.Index) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	for _, idx := range indexes {
		if !idx.Unique {
			continue
		}
		fields := make([]string, 0, len(idx.Keys))
		for _, k := range idx.Keys {
			fields = append(fields, k.Field)
		}
		c.db.uniques[c.name] = append(c.db.uniques[c.name], fields)
	}
	return nil
}

// --- Lectura ---

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	return c.FindOne(ctx, sharedDomain.Filter{sharedDomain.Eq(docstore.IDField, id)})
}

func (c *Collection[T]) FindOne(ctx context.Context, filter sharedDomain.Filter) (T, error) {
	var zero T
	filter = c.schema.Coerce(filter)
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	for _, d := range c.db.collections[c.name] {
		if matches(d, filter) {
			return fromDoc[T](d)
		}
	}
	return zero, docstore.ErrNoDocument
}

func (c *Collection[T]) CountAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(c.db.Len(c.name)), nil
}

func (c *Collection[T]) Count(ctx context.Context, filter sharedDomain.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	filter = c.schema.Coerce(filter)
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	var n int64
	for _, d := range c.db.collections[c.name] {
		if matches(d, filter) {
			n++
		}
	}
	return n, nil
}

func (c *Collection[T]) Average(ctx context.Context, filter sharedDomain.Filter, field string) (float64, bool, error) {
	filter = c.schema.Coerce(filter)
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	var sum float64
	var n int
	for _, d := range c.db.collections[c.name] {
		if !matches(d, filter) {
			continue
		}
		v, ok := getPath(d, field)
		if !ok {
			continue
		}
		if f, ok := toFloat(v); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return sum / float64(n), true, nil
}

func (c *Collection[T]) Find(filter sharedDomain.Filter) sharedQuery.Query[T] {
	return &findQuery[T]{coll: c, filter: c.schema.Coerce(filter)}
}

// findQuery es inmutable: cada método devuelve una copia.
type findQuery[T any] struct {
	coll     *Collection[T]
	filter   sharedDomain.Filter
	fields   []string
	sort     []sharedQuery.Sort
	skip     int64
	limit    int64
	populate []string
}

func (q *findQuery[T]) Select(fields ...string) sharedQuery.Query[T] {
	n := *q
	n.fields = append([]string(nil), fields...)
	return &n
}

func (q *findQuery[T]) Sort(keys ...sharedQuery.Sort) sharedQuery.Query[T] {
	n := *q
	n.sort = append([]sharedQuery.Sort(nil), keys...)
	return &n
}

func (q *findQuery[T]) Skip(k int64) sharedQuery.Query[T] {
	n := *q
	n.skip = k
	return &n
}

func (q *findQuery[T]) Limit(k int64) sharedQuery.Query[T] {
	n := *q
	n.limit = k
	return &n
}

func (q *findQuery[T]) Populate(names ...string) sharedQuery.Query[T] {
	n := *q
	n.populate = append([]string(nil), names...)
	return &n
}

// All sigue el mismo orden que el pipeline de Mongo: match, sort, skip, limit, populate, project.
func (q *findQuery[T]) All(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db := q.coll.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	var docs []bson.M
	for _, d := range db.collections[q.coll.name] {
		if matches(d, q.filter) {
			docs = append(docs, d)
		}
	}

	if len(q.sort) > 0 {
		sort.SliceStable(docs, func(i, j int) bool { return less(docs[i], docs[j], q.sort) })
	}
	if q.skip > 0 {
		if q.skip >= int64(len(docs)) {
			docs = nil
		} else {
			docs = docs[q.skip:]
		}
	}
	if q.limit > 0 && int64(len(docs)) > q.limit {
		docs = docs[:q.limit]
	}

	out := make([]T, 0, len(docs))
	for _, d := range docs {
		view := d
		if len(q.populate) > 0 {
			var err error
			if view, err = q.coll.populate(d, q.populate); err != nil {
				return nil, err
			}
		}
		if len(q.fields) > 0 {
			view = project(view, append(append([]string(nil), q.fields...), q.populate...))
		}
		item, err := fromDoc[T](view)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// populate devuelve una copia superficial de doc con las relaciones incrustadas.
// Se llama con el lock de lectura tomado.
func (c *Collection[T]) populate(doc bson.M, names []string) (bson.M, error) {
	out := make(bson.M, len(doc)+len(names))
	for k, v := range doc {
		out[k] = v
	}
	for _, name := range names {
		rel, ok := c.relations[name]
		if !ok {
			return nil, fmt.Errorf("memory: unknown relation %q on %s", name, c.name)
		}
		local, hasLocal := getPath(doc, rel.LocalField)

		var joined bson.A
		if hasLocal {
			for _, other := range c.db.collections[rel.From] {
				foreign, ok := getPath(other, rel.ForeignField)
				if !ok {
					continue
				}
				if cmp, ok := compare(local, foreign); ok && cmp == 0 {
					joined = append(joined, project(other, rel.Fields))
				}
			}
		}

		switch {
		case rel.Single && len(joined) > 0:
			out[name] = joined[0]
		case rel.Single:
			delete(out, name)
		default:
			if joined == nil {
				joined = bson.A{}
			}
			out[name] = joined
		}
	}
	return out, nil
}

// project conserva _id y los campos pedidos; sin campos devuelve doc tal cual.
func project(doc bson.M, fields []string) bson.M {
	if len(fields) == 0 {
		return doc
	}
	out := bson.M{docstore.IDField: doc[docstore.IDField]}
	for _, f := range fields {
		if v, ok := getPath(doc, f); ok {
			setPath(out, f, v)
		}
	}
	return out
}

func less(a, b bson.M, keys []sharedQuery.Sort) bool {
	for _, k := range keys {
		av, aok := getPath(a, k.Field)
		bv, bok := getPath(b, k.Field)
		if !aok {
			av = nil
		}
		if !bok {
			bv = nil
		}
		c := orderOf(av, bv)
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func orderOf(a, b interface{}) int {
	if c, ok := compare(a, b); ok {
		return c
	}
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return cmp3(ra < rb, ra > rb)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// --- Conversión T <-> bson.M ---

func toDoc[T any](v T) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromDoc[T any](m bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(m)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}
