package mongodb

import (
	"testing"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/docstore"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCriteriaToMongoFilter_GroupsByField(t *testing.T) {
	filter := sharedDomain.Filter{
		{Field: "averageCost", Op: sharedDomain.OpGte, Value: int64(5000)},
		sharedDomain.Eq("location.state", "MA"),
		{Field: "averageCost", Op: sharedDomain.OpLt, Value: int64(10000)},
		{Field: "careers", Op: sharedDomain.OpIn, Value: []interface{}{"Web Development", "UI/UX"}},
	}

	got := criteriaToMongoFilter(filter)

	assert.Equal(t, bson.D{
		{Key: "averageCost", Value: bson.D{{Key: "$gte", Value: int64(5000)}, {Key: "$lt", Value: int64(10000)}}},
		{Key: "location.state", Value: bson.D{{Key: "$eq", Value: "MA"}}},
		{Key: "careers", Value: bson.D{{Key: "$in", Value: bson.A{"Web Development", "UI/UX"}}}},
	}, got)
}

func TestCriteriaToMongoFilter_RepeatedOperatorUsesAnd(t *testing.T) {
	filter := sharedDomain.Filter{sharedDomain.Eq("careers", "A"), sharedDomain.Eq("careers", "B")}

	got := criteriaToMongoFilter(filter)

	require.Len(t, got, 1)
	assert.Equal(t, "$and", got[0].Key)
	assert.Equal(t, bson.A{
		bson.D{{Key: "careers", Value: bson.D{{Key: "$eq", Value: "A"}}}},
		bson.D{{Key: "careers", Value: bson.D{{Key: "$eq", Value: "B"}}}},
	}, got[0].Value)
}

func TestCriteriaToMongoFilter_CenterSphere(t *testing.T) {
	filter := sharedDomain.Filter{{
		Field: "location",
		Op:    sharedDomain.OpWithinSphere,
		Value: sharedDomain.CenterSphere{Longitude: -71.07, Latitude: 42.34, Radius: 0.0025},
	}}

	got := criteriaToMongoFilter(filter)

	assert.Equal(t, bson.D{{Key: "location", Value: bson.D{{
		Key:   "$geoWithin",
		Value: bson.D{{Key: "$centerSphere", Value: bson.A{bson.A{-71.07, 42.34}, 0.0025}}},
	}}}}, got)
	assert.Equal(t, bson.D{}, criteriaToMongoFilter(nil))
}

func TestSortAndProjection(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "name", Value: 1}},
		sortToMongo([]sharedQuery.Sort{{Field: "createdAt", Desc: true}, {Field: "name"}}))
	assert.Equal(t, bson.D{{Key: "name", Value: 1}, {Key: "description", Value: 1}},
		projectionToMongo([]string{"name", "description"}))
}

func TestPopulatePipeline(t *testing.T) {
	coll := &Collection[struct{}]{relations: map[string]docstore.Relation{
		"bootcamp": {Name: "bootcamp", From: "bootcamps", LocalField: "bootcamp", ForeignField: "_id", Single: true, Fields: []string{"name", "description"}},
	}}
	q := &findQuery[struct{}]{
		coll:     coll,
		filter:   sharedDomain.Filter{sharedDomain.Eq("bootcamp", "b1")},
		fields:   []string{"title"},
		sort:     sharedQuery.DefaultSort(),
		skip:     25,
		limit:    25,
		populate: []string{"bootcamp"},
	}

	pipeline, err := q.pipeline()
	require.NoError(t, err)

	stages := make([]string, 0, len(pipeline))
	for _, stage := range pipeline {
		stages = append(stages, stage[0].Key)
	}
	assert.Equal(t, []string{"$match", "$sort", "$skip", "$limit", "$lookup", "$unwind", "$project"}, stages)

	project := pipeline[len(pipeline)-1][0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "title", Value: 1}, {Key: "bootcamp", Value: 1}}, project)

	q.populate = []string{"nope"}
	_, err = q.pipeline()
	assert.ErrorContains(t, err, "unknown relation")
}
