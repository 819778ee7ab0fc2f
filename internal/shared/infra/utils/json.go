package utils

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap"
)

// DecodePayload decodifica el payload de un evento en T y se lo pasa a handler.
// Un payload vacío o inválido se descarta con un aviso; devuelve si handler se ejecutó.
func DecodePayload[T any](log *zap.Logger, eventType string, data json.RawMessage, handler func(T)) bool {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		log.Warn("Discarding event without payload", zap.String("type", eventType))
		return false
	}
	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Warn("Failed to decode event payload", zap.String("type", eventType), zap.Error(err))
		return false
	}
	handler(payload)
	return true
}
