package mongodb

import (
	"context"
	"errors"
	"fmt"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/docstore"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection implementa docstore.Store sobre una colección de MongoDB.
type Collection[T any] struct {
	coll      *mongo.Collection
	relations map[string]docstore.Relation
	schema    docstore.Schema
}

func NewCollection[T any](db *mongo.Database, name string, relations ...docstore.Relation) *Collection[T] {
	rels := make(map[string]docstore.Relation, len(relations))
	for _, r := range relations {
		rels[r.Name] = r
	}
	return &Collection[T]{coll: db.Collection(name), relations: rels, schema: docstore.SchemaOf[T]()}
}

var _ docstore.Store[struct{}] = (*Collection[struct{}])(nil)

// --- Escritura ---

func (c *Collection[T]) Insert(ctx context.Context, doc T) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return mapError(err)
}

func (c *Collection[T]) Replace(ctx context.Context, id string, doc T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.M{docstore.IDField: id}, doc)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNoDocument
	}
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{docstore.IDField: id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNoDocument
	}
	return nil
}

func (c *Collection[T]) DeleteMany(ctx context.Context, filter sharedDomain.Filter) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, criteriaToMongoFilter(c.schema.Coerce(filter)))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *Collection[T]) EnsureIndexes(ctx context.Context, indexes ...docstore.Index) error {
	if len(indexes) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, idx := range indexes {
		keys := bson.D{}
		for _, k := range idx.Keys {
			switch k.Kind {
			case docstore.Sphere2D:
				keys = append(keys, bson.E{Key: k.Field, Value: "2dsphere"})
			default:
				keys = append(keys, bson.E{Key: k.Field, Value: 1})
			}
		}
		models = append(models, mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(idx.Unique)})
	}
	if _, err := c.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes on %s: %w", c.coll.Name(), err)
	}
	return nil
}

// --- Lectura ---

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	return c.FindOne(ctx, sharedDomain.Filter{sharedDomain.Eq(docstore.IDField, id)})
}

func (c *Collection[T]) FindOne(ctx context.Context, filter sharedDomain.Filter) (T, error) {
	var out T
	err := c.coll.FindOne(ctx, criteriaToMongoFilter(c.schema.Coerce(filter))).Decode(&out)
	return out, mapError(err)
}

func (c *Collection[T]) CountAll(ctx context.Context) (int64, error) {
	return c.coll.CountDocuments(ctx, bson.D{})
}

func (c *Collection[T]) Count(ctx context.Context, filter sharedDomain.Filter) (int64, error) {
	return c.coll.CountDocuments(ctx, criteriaToMongoFilter(c.schema.Coerce(filter)))
}

func (c *Collection[T]) Average(ctx context.Context, filter sharedDomain.Filter, field string) (float64, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: criteriaToMongoFilter(c.schema.Coerce(filter))}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$" + field}}},
		}}},
	}
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg *float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, false, err
	}
	if len(rows) == 0 || rows[0].Avg == nil {
		return 0, false, nil
	}
	return *rows[0].Avg, true, nil
}

func (c *Collection[T]) Find(filter sharedDomain.Filter) sharedQuery.Query[T] {
	return &findQuery[T]{coll: c, filter: c.schema.Coerce(filter)}
}

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

// All usa Find cuando no hay relaciones que poblar y un pipeline de agregación cuando las hay.
func (q *findQuery[T]) All(ctx context.Context) ([]T, error) {
	var (
		cursor *mongo.Cursor
		err    error
	)
	if len(q.populate) == 0 {
		opts := options.Find()
		if len(q.fields) > 0 {
			opts.SetProjection(projectionToMongo(q.fields))
		}
		if len(q.sort) > 0 {
			opts.SetSort(sortToMongo(q.sort))
		}
		if q.skip > 0 {
			opts.SetSkip(q.skip)
		}
		if q.limit > 0 {
			opts.SetLimit(q.limit)
		}
		cursor, err = q.coll.coll.Find(ctx, criteriaToMongoFilter(q.filter), opts)
	} else {
		var pipeline mongo.Pipeline
		if pipeline, err = q.pipeline(); err != nil {
			return nil, err
		}
		cursor, err = q.coll.coll.Aggregate(ctx, pipeline)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (q *findQuery[T]) pipeline() (mongo.Pipeline, error) {
	p := mongo.Pipeline{{{Key: "$match", Value: criteriaToMongoFilter(q.filter)}}}
	if len(q.sort) > 0 {
		p = append(p, bson.D{{Key: "$sort", Value: sortToMongo(q.sort)}})
	}
	if q.skip > 0 {
		p = append(p, bson.D{{Key: "$skip", Value: q.skip}})
	}
	if q.limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: q.limit}})
	}

	for _, name := range q.populate {
		rel, ok := q.coll.relations[name]
		if !ok {
			return nil, fmt.Errorf("mongodb: unknown relation %q", name)
		}
		inner := mongo.Pipeline{{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
			{Key: "$eq", Value: bson.A{"$" + rel.ForeignField, "$$local"}},
		}}}}}}
		if len(rel.Fields) > 0 {
			inner = append(inner, bson.D{{Key: "$project", Value: projectionToMongo(rel.Fields)}})
		}
		p = append(p, bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: rel.From},
			{Key: "let", Value: bson.D{{Key: "local", Value: "$" + rel.LocalField}}},
			{Key: "pipeline", Value: inner},
			{Key: "as", Value: rel.Name},
		}}})
		if rel.Single {
			p = append(p, bson.D{{Key: "$unwind", Value: bson.D{
				{Key: "path", Value: "$" + rel.Name},
				{Key: "preserveNullAndEmptyArrays", Value: true},
			}}})
		}
	}

	if len(q.fields) > 0 {
		p = append(p, bson.D{{Key: "$project", Value: projectionToMongo(withPopulated(q.fields, q.populate))}})
	}
	return p, nil
}

// withPopulated añade a la proyección los campos poblados que no estén ya.
func withPopulated(fields, populate []string) []string {
	out := append([]string(nil), fields...)
	for _, name := range populate {
		found := false
		for _, f := range fields {
			if f == name {
				found = true
				break
			}
		}
		if !found {
			out = append(out, name)
		}
	}
	return out
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return docstore.ErrNoDocument
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", docstore.ErrDuplicate, err)
	}
	return err
}
