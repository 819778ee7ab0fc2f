package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError indica un payload de recurso mal formado. Fields lleva el detalle por campo.
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Msg == "" {
			return "validation error"
		}
		return e.Msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	if e.Msg == "" {
		return strings.Join(parts, ", ")
	}
	return e.Msg + ": " + strings.Join(parts, ", ")
}

// NotFoundError indica que el identificador referenciado no existe.
// Un NotFoundError sin ID actúa como centinela del recurso para errors.Is.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found with id of %s", e.Resource, e.ID)
}

// Is permite errors.Is(err, ErrXNotFound) sin importar el ID concreto.
func (e NotFoundError) Is(target error) bool {
	t, ok := target.(NotFoundError)
	if !ok {
		return false
	}
	return t.Resource == e.Resource && (t.ID == "" || t.ID == e.ID)
}

// QueryExecutionError envuelve un fallo del almacén durante count/find. No se reintenta.
type QueryExecutionError struct {
	Op  string
	Err error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("query execution failed during %s: %v", e.Op, e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

// LocationNotFoundError indica que el geocoder no devolvió resultados para el lugar.
type LocationNotFoundError struct {
	Place string
}

func (e LocationNotFoundError) Error() string {
	return fmt.Sprintf("location not found for %q", e.Place)
}

type ConflictError struct {
	Resource string
	Msg      string
}

func (e ConflictError) Error() string {
	if e.Resource == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
}

type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg == "" {
		return "not authorized to access this route"
	}
	return e.Msg
}

type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg == "" {
		return "forbidden"
	}
	return e.Msg
}

// ---------- Helpers ----------

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsQueryExecution(err error) bool {
	var target *QueryExecutionError
	return errors.As(err, &target)
}

func IsLocationNotFound(err error) bool {
	var target LocationNotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}
