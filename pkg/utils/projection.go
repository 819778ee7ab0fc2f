package utils

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

// SendEnvelope responde con el envelope del listado. Si el descriptor trae proyección,
// cada elemento se recorta a los campos pedidos (más "id" y las relaciones pobladas),
// ya que las entidades tipadas rellenan con cero los campos no seleccionados.
func SendEnvelope[T any](c *gin.Context, env *sharedQuery.Envelope[T], d sharedQuery.Descriptor) {
	if len(d.Projection) == 0 {
		c.JSON(http.StatusOK, env)
		return
	}
	data, err := projectJSON(env.Data, keepSet(d))
	if err != nil {
		SendInternalServerError(c, serverErrorMessage)
		return
	}
	c.JSON(http.StatusOK, sharedQuery.Envelope[map[string]json.RawMessage]{
		Success:    env.Success,
		Count:      env.Count,
		Pagination: env.Pagination,
		Data:       data,
	})
}

func keepSet(d sharedQuery.Descriptor) map[string]bool {
	keep := map[string]bool{"id": true}
	for _, f := range d.Projection {
		keep[strings.SplitN(f, ".", 2)[0]] = true
	}
	for _, p := range d.Populate {
		keep[p] = true
	}
	return keep
}

func projectJSON[T any](items []T, keep map[string]bool) ([]map[string]json.RawMessage, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	var objs []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, err
	}
	out := make([]map[string]json.RawMessage, 0, len(objs))
	for _, obj := range objs {
		for k := range obj {
			if !keep[k] {
				delete(obj, k)
			}
		}
		out = append(out, obj)
	}
	return out, nil
}
