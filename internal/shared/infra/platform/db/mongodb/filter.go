package mongodb

import (
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"go.mongodb.org/mongo-driver/bson"
)

// criteriaToMongoFilter agrupa las condiciones por campo: {"averageCost": {"$gte": 1, "$lt": 9}}.
// Si un mismo operador se repite sobre un campo se recurre a $and.
func criteriaToMongoFilter(filter sharedDomain.Filter) bson.D {
	if len(filter) == 0 {
		return bson.D{}
	}

	seen := make(map[string]bool, len(filter))
	for _, c := range filter {
		key := c.Field + "\x00" + string(c.Op)
		if seen[key] {
			clauses := make(bson.A, 0, len(filter))
			for _, c := range filter {
				clauses = append(clauses, bson.D{{Key: c.Field, Value: bson.D{conditionFor(c)}}})
			}
			return bson.D{{Key: "$and", Value: clauses}}
		}
		seen[key] = true
	}

	out := bson.D{}
	for _, field := range filter.Fields() {
		ops := bson.D{}
		for _, c := range filter {
			if c.Field == field {
				ops = append(ops, conditionFor(c))
			}
		}
		out = append(out, bson.E{Key: field, Value: ops})
	}
	return out
}

// Mapeo de operadores genéricos a operadores de MongoDB
func conditionFor(c sharedDomain.Criterion) bson.E {
	switch c.Op {
	case sharedDomain.OpGt:
		return bson.E{Key: "$gt", Value: c.Value}
	case sharedDomain.OpGte:
		return bson.E{Key: "$gte", Value: c.Value}
	case sharedDomain.OpLt:
		return bson.E{Key: "$lt", Value: c.Value}
	case sharedDomain.OpLte:
		return bson.E{Key: "$lte", Value: c.Value}
	case sharedDomain.OpIn:
		return bson.E{Key: "$in", Value: inArray(c.Value)}
	case sharedDomain.OpWithinSphere:
		s, _ := c.Value.(sharedDomain.CenterSphere)
		return bson.E{Key: "$geoWithin", Value: bson.D{{
			Key:   "$centerSphere",
			Value: bson.A{bson.A{s.Longitude, s.Latitude}, s.Radius},
		}}}
	default:
		return bson.E{Key: "$eq", Value: c.Value}
	}
}

func inArray(v interface{}) bson.A {
	switch t := v.(type) {
	case []interface{}:
		return bson.A(t)
	case []string:
		out := make(bson.A, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	return bson.A{v}
}

func sortToMongo(keys []sharedQuery.Sort) bson.D {
	out := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		out = append(out, bson.E{Key: k.Field, Value: dir})
	}
	return out
}

func projectionToMongo(fields []string) bson.D {
	out := make(bson.D, 0, len(fields))
	for _, f := range fields {
		out = append(out, bson.E{Key: f, Value: 1})
	}
	return out
}
