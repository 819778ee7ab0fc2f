package memory

import (
	"strings"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/geo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func matches(doc bson.M, filter sharedDomain.Filter) bool {
	for _, c := range filter {
		if !matchCriterion(doc, c) {
			return false
		}
	}
	return true
}

func matchCriterion(doc bson.M, c sharedDomain.Criterion) bool {
	if c.Op == sharedDomain.OpWithinSphere {
		return withinSphere(doc, c)
	}

	candidates := lookup(doc, strings.Split(c.Field, "."))
	for _, v := range candidates {
		if matchValue(v, c) {
			return true
		}
	}
	// Igual que en Mongo: {field: null} coincide con el campo ausente.
	return len(candidates) == 0 && c.Op == sharedDomain.OpEq && c.Value == nil
}

func matchValue(v interface{}, c sharedDomain.Criterion) bool {
	switch c.Op {
	case sharedDomain.OpIn:
		for _, want := range inValues(c.Value) {
			if cmp, ok := compare(v, want); ok && cmp == 0 {
				return true
			}
		}
		return false
	}

	cmp, ok := compare(v, c.Value)
	if !ok {
		return false
	}
	switch c.Op {
	case sharedDomain.OpEq:
		return cmp == 0
	case sharedDomain.OpGt:
		return cmp > 0
	case sharedDomain.OpGte:
		return cmp >= 0
	case sharedDomain.OpLt:
		return cmp < 0
	case sharedDomain.OpLte:
		return cmp <= 0
	}
	return false
}

func inValues(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	return []interface{}{v}
}

func withinSphere(doc bson.M, c sharedDomain.Criterion) bool {
	sphere, ok := c.Value.(sharedDomain.CenterSphere)
	if !ok {
		return false
	}
	raw, ok := getPath(doc, c.Field+".coordinates")
	if !ok {
		return false
	}
	coords, ok := asArray(raw)
	if !ok || len(coords) != 2 {
		return false
	}
	lng, ok1 := toFloat(coords[0])
	lat, ok2 := toFloat(coords[1])
	if !ok1 || !ok2 {
		return false
	}
	return geo.CentralAngle(sphere.Longitude, sphere.Latitude, lng, lat) <= sphere.Radius
}

// lookup devuelve los valores candidatos en path; atraviesa arrays y, en la hoja,
// expande el array para comparar elemento a elemento.
func lookup(v interface{}, path []string) []interface{} {
	if len(path) == 0 {
		if arr, ok := asArray(v); ok {
			return arr
		}
		return []interface{}{v}
	}
	if m, ok := asMap(v); ok {
		child, found := m[path[0]]
		if !found {
			return nil
		}
		return lookup(child, path[1:])
	}
	if arr, ok := asArray(v); ok {
		var out []interface{}
		for _, elem := range arr {
			out = append(out, lookup(elem, path)...)
		}
		return out
	}
	return nil
}

// getPath devuelve el valor exacto en una ruta con puntos, sin atravesar arrays.
func getPath(doc interface{}, path string) (interface{}, bool) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func setPath(doc bson.M, path string, value interface{}) {
	segs := strings.Split(path, ".")
	cur := doc
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(bson.M)
		if !ok {
			next = bson.M{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = value
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case primitive.M:
		return t, true
	case map[string]interface{}:
		return t, true
	case primitive.D:
		return t.Map(), true
	}
	return nil, false
}

func asArray(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case primitive.A:
		return t, true
	case []interface{}:
		return t, true
	}
	return nil, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}

// compare ordena dos valores del mismo tipo lógico; ok=false si no son comparables.
func compare(a, b interface{}) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		return cmp3(fa < fb, fa > fb), true
	}
	if ta, ok := toTime(a); ok {
		tb, ok := toTime(b)
		if !ok {
			return 0, false
		}
		return cmp3(ta.Before(tb), ta.After(tb)), true
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		return cmp3(!av && bv, av && !bv), true
	case nil:
		if b == nil {
			return 0, true
		}
	}
	return 0, false
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

// typeRank sigue el orden de tipos BSON para ordenar valores heterogéneos.
func typeRank(v interface{}) int {
	if _, ok := toFloat(v); ok {
		return 1
	}
	if _, ok := toTime(v); ok {
		return 9
	}
	switch v.(type) {
	case nil:
		return 0
	case string:
		return 2
	case bool:
		return 8
	}
	return 5
}
