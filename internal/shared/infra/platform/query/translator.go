package query

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

const (
	ParamSelect   = "select"
	ParamSort     = "sort"
	ParamPage     = "page"
	ParamLimit    = "limit"
	ParamPopulate = "populate"
)

var reservedParams = map[string]bool{
	ParamSelect:   true,
	ParamSort:     true,
	ParamPage:     true,
	ParamLimit:    true,
	ParamPopulate: true,
}

// Tokens de comparación aceptados en la posición de clave: field[gte]=10 o field={"gte":"10"}.
var comparisonOps = map[string]sharedDomain.Operator{
	"gt":  sharedDomain.OpGt,
	"gte": sharedDomain.OpGte,
	"lt":  sharedDomain.OpLt,
	"lte": sharedDomain.OpLte,
	"in":  sharedDomain.OpIn,
}

// FromValues aplana los query params de la URL quedándose con el primer valor de cada clave.
func FromValues(values url.Values) map[string]string {
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

// Translate convierte query params no confiables en un Descriptor. Nunca falla:
// lo que no se entiende se descarta o vuelve a su valor por defecto.
// populate son las relaciones que declara el llamador, no el cliente.
func Translate(params map[string]string, populate ...string) Descriptor {
	d := Descriptor{
		Filter:     parseFilter(params),
		Projection: parseFields(params[ParamSelect]),
		Sort:       parseSort(params[ParamSort]),
		Page:       parsePositive(params[ParamPage], DefaultPage),
		Limit:      parsePositive(params[ParamLimit], DefaultLimit),
	}
	if len(populate) > 0 {
		d.Populate = append([]string(nil), populate...)
	}
	return d.Normalize()
}

func parseFilter(params map[string]string) sharedDomain.Filter {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys) // orden estable del árbol de filtros

	var filter sharedDomain.Filter
	for _, key := range keys {
		field, token, hasOp := splitOperatorKey(key)
		if !isSafePath(field) || reservedParams[field] {
			continue
		}
		raw := params[key]

		if hasOp {
			op, ok := comparisonOps[token]
			if !ok {
				continue
			}
			filter = append(filter, comparison(field, op, raw))
			continue
		}

		if conds, ok := parseOperatorObject(field, raw); ok {
			filter = append(filter, conds...)
			continue
		}
		filter = append(filter, sharedDomain.Eq(field, coerce(raw)))
	}
	return filter
}

// splitOperatorKey separa "averageCost[gte]" en ("averageCost", "gte", true).
// Una clave con corchetes mal formados devuelve un campo vacío para que se descarte.
func splitOperatorKey(key string) (field, token string, hasOp bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, "", false
	}
	if !strings.HasSuffix(key, "]") || strings.Count(key, "[") != 1 || strings.Count(key, "]") != 1 {
		return "", "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// parseOperatorObject acepta un valor JSON {"gte":"1000","lt":5} o {"in":["a","b"]} solo si
// TODAS sus claves son operadores conocidos; cualquier otra cosa se trata como literal.
func parseOperatorObject(field, raw string) ([]sharedDomain.Criterion, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil || len(obj) == 0 {
		return nil, false
	}

	tokens := make([]string, 0, len(obj))
	for t := range obj {
		if _, known := comparisonOps[t]; !known {
			return nil, false
		}
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)

	conds := make([]sharedDomain.Criterion, 0, len(tokens))
	for _, t := range tokens {
		op := comparisonOps[t]
		list, isList := obj[t].([]interface{})
		if !isList {
			str, ok := scalarString(obj[t])
			if !ok {
				return nil, false
			}
			conds = append(conds, comparison(field, op, str))
			continue
		}
		// Solo $in admite lista, y solo de escalares.
		if op != sharedDomain.OpIn {
			return nil, false
		}
		values := make([]interface{}, 0, len(list))
		for _, item := range list {
			str, ok := scalarString(item)
			if !ok {
				return nil, false
			}
			values = append(values, coerce(str))
		}
		conds = append(conds, sharedDomain.Criterion{Field: field, Op: op, Value: values})
	}
	return conds, true
}

func scalarString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	}
	return "", false
}

func comparison(field string, op sharedDomain.Operator, raw string) sharedDomain.Criterion {
	if op != sharedDomain.OpIn {
		return sharedDomain.Criterion{Field: field, Op: op, Value: coerce(raw)}
	}
	values := []interface{}{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, coerce(part))
		}
	}
	return sharedDomain.Criterion{Field: field, Op: op, Value: values}
}

func parseFields(raw string) []string {
	var fields []string
	seen := map[string]bool{}
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if !isSafePath(f) || seen[f] {
			continue
		}
		seen[f] = true
		fields = append(fields, f)
	}
	return fields
}

func parseSort(raw string) []Sort {
	var keys []Sort
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		desc := strings.HasPrefix(token, "-")
		field := strings.TrimPrefix(token, "-")
		if !isSafePath(field) {
			continue
		}
		keys = append(keys, Sort{Field: field, Desc: desc})
	}
	if len(keys) == 0 {
		return DefaultSort()
	}
	return keys
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// isSafePath admite rutas "a.b.c" con segmentos no vacíos. Nada que el almacén pueda
// interpretar como operador ($) ni corchetes.
func isSafePath(path string) bool {
	if path == "" {
		return false
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return false
		}
	}
	return !strings.ContainsAny(path, "$[]{}\x00 ")
}

// coerce interpreta números canónicos y booleanos; el resto se queda como string
// ("02118" sigue siendo un código postal, no el entero 2118).
func coerce(raw string) interface{} {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil && strconv.FormatInt(n, 10) == raw {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && isCanonicalDecimal(raw) {
		return f
	}
	return raw
}

func isCanonicalDecimal(raw string) bool {
	s := strings.TrimPrefix(raw, "-")
	dot := strings.IndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return false
	}
	intPart, frac := s[:dot], s[dot+1:]
	if len(intPart) > 1 && intPart[0] == '0' {
		return false
	}
	for _, r := range intPart + frac {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
