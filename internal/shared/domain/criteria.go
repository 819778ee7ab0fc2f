package domain

// ---------------- Operadores ----------------

type Operator string

const (
	OpEq           Operator = "="
	OpGt           Operator = ">"
	OpGte          Operator = ">="
	OpLt           Operator = "<"
	OpLte          Operator = "<="
	OpIn           Operator = "IN"
	OpWithinSphere Operator = "WITHIN_SPHERE"
)

// ---------------- Criterion ----------------

// Criterion describe una condición neutral de filtrado sobre una ruta de campo ("location.state").
type Criterion struct {
	Field string
	Op    Operator
	Value interface{}
}

// CenterSphere es el valor de un criterio OpWithinSphere: un casquete esférico
// centrado en (Longitude, Latitude) con radio en radianes.
type CenterSphere struct {
	Longitude float64
	Latitude  float64
	Radius    float64
}

// Filter es una lista plana de condiciones unidas por AND.
type Filter []Criterion

// Fields devuelve los campos distintos del filtro en orden de aparición.
func (f Filter) Fields() []string {
	seen := make(map[string]bool, len(f))
	var fields []string
	for _, c := range f {
		if !seen[c.Field] {
			seen[c.Field] = true
			fields = append(fields, c.Field)
		}
	}
	return fields
}

// Eq es un atajo para una condición de igualdad.
func Eq(field string, value interface{}) Criterion {
	return Criterion{Field: field, Op: OpEq, Value: value}
}
