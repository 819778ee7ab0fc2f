package docstore

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldKind es el tipo lógico con el que un campo se guarda en el documento.
type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindString
	KindNumber
	KindBool
	KindTime
)

// Schema asocia cada ruta con puntos ("location.zipcode") a su tipo lógico.
type Schema map[string]FieldKind

const maxSchemaDepth = 6

var (
	refType      = reflect.TypeOf(Ref{})
	timeType     = reflect.TypeOf(time.Time{})
	dateTimeType = reflect.TypeOf(primitive.DateTime(0))
)

// SchemaOf recorre los tags bson de T, con el mismo parser que usa el driver al codificar.
// Los arrays toman el tipo de su elemento; una Ref cuenta como string (el _id referenciado).
func SchemaOf[T any]() Schema {
	s := Schema{}
	s.walk(reflect.TypeOf((*T)(nil)).Elem(), "", 0)
	return s
}

func (s Schema) walk(t reflect.Type, path string, depth int) {
	if depth > maxSchemaDepth {
		return
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case refType:
		s.set(path, KindString)
		return
	case timeType, dateTimeType:
		s.set(path, KindTime)
		return
	}

	switch t.Kind() {
	case reflect.String:
		s.set(path, KindString)
	case reflect.Bool:
		s.set(path, KindBool)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		s.set(path, KindNumber)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() != reflect.Uint8 {
			s.walk(t.Elem(), path, depth+1)
		}
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.PkgPath != "" && !sf.Anonymous {
				continue
			}
			tags, err := bsoncodec.DefaultStructTagParser(sf)
			if err != nil || tags.Skip {
				continue
			}
			if tags.Inline {
				s.walk(sf.Type, path, depth+1)
				continue
			}
			s.walk(sf.Type, joinPath(path, tags.Name), depth+1)
		}
	}
}

func (s Schema) set(path string, kind FieldKind) {
	if path != "" {
		s[path] = kind
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Coerce devuelve una copia del filtro con cada valor convertido al tipo del campo:
// "8" sobre un número pasa a 8, 98101 sobre un string pasa a "98101" y una fecha ISO
// sobre un campo de tiempo pasa a time.Time. Campos fuera del esquema y valores que no
// se pueden convertir se dejan como vienen.
func (s Schema) Coerce(filter sharedDomain.Filter) sharedDomain.Filter {
	if len(s) == 0 || len(filter) == 0 {
		return filter
	}
	out := make(sharedDomain.Filter, len(filter))
	for i, c := range filter {
		if kind, ok := s[c.Field]; ok && c.Op != sharedDomain.OpWithinSphere {
			c.Value = coerceOperand(kind, c.Op, c.Value)
		}
		out[i] = c
	}
	return out
}

func coerceOperand(kind FieldKind, op sharedDomain.Operator, v interface{}) interface{} {
	if op != sharedDomain.OpIn {
		return coerceScalar(kind, v)
	}
	switch list := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(list))
		for i, item := range list {
			out[i] = coerceScalar(kind, item)
		}
		return out
	case []string:
		out := make([]interface{}, len(list))
		for i, item := range list {
			out[i] = coerceScalar(kind, item)
		}
		return out
	}
	return []interface{}{coerceScalar(kind, v)}
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func coerceScalar(kind FieldKind, v interface{}) interface{} {
	switch kind {
	case KindString:
		switch t := v.(type) {
		case int64:
			return strconv.FormatInt(t, 10)
		case int:
			return strconv.Itoa(t)
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(t)
		}
	case KindNumber:
		if str, ok := v.(string); ok {
			str = strings.TrimSpace(str)
			if n, err := strconv.ParseInt(str, 10, 64); err == nil {
				return n
			}
			if f, err := strconv.ParseFloat(str, 64); err == nil {
				return f
			}
		}
	case KindBool:
		if str, ok := v.(string); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(str)); err == nil {
				return b
			}
		}
	case KindTime:
		if str, ok := v.(string); ok {
			for _, layout := range timeLayouts {
				if ts, err := time.Parse(layout, strings.TrimSpace(str)); err == nil {
					return ts.UTC()
				}
			}
		}
	}
	return v
}
