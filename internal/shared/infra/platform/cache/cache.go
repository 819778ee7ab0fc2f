package cache

import "context"

// Cache es la caché clave-valor que usan los servicios en modo cache-aside.
// Los valores viajan serializados en JSON; dest debe ser un puntero.
type Cache interface {
	// Get rellena dest y devuelve true en un hit. Un miss no es un error.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set guarda val durante ttlSecs segundos; 0 usa el TTL por defecto del backend.
	Set(ctx context.Context, key string, val interface{}, ttlSecs int) error
	Delete(ctx context.Context, key string) error
}
