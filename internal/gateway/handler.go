package gateway

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HCMUS-Project/saas-gateway/internal/envelope"
	"github.com/HCMUS-Project/saas-gateway/internal/errormap"
	"github.com/HCMUS-Project/saas-gateway/internal/middleware"
	"github.com/HCMUS-Project/saas-gateway/internal/observability"
	"github.com/HCMUS-Project/saas-gateway/internal/rpc"
)

// handler builds gin handlers that forward route payloads to the downstream
// adapter and shape the result.
type handler struct {
	adapter    rpc.Adapter
	translator *errormap.Translator
	logger     observability.Logger
}

// newHandler creates a call-through handler factory.
func newHandler(adapter rpc.Adapter, translator *errormap.Translator, logger observability.Logger) *handler {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &handler{
		adapter:    adapter,
		translator: translator,
		logger:     logger,
	}
}

// callThrough returns the gin handler for a route. The handler merges body,
// query and path parameters into one payload, invokes the downstream
// operation with the verified principal attached, and writes either a
// success envelope or a translated error envelope.
func (h *handler) callThrough(route Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := buildPayload(c)
		if err != nil {
			envelope.WriteError(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		principal := middleware.GetPrincipal(c)

		result, failure := h.adapter.Invoke(c.Request.Context(), route.Operation, payload, principal)
		if failure != nil {
			httpErr := h.translator.Translate(c.Request.Context(), route.Operation, failure)
			h.logger.WithContext(c.Request.Context()).Warn("downstream operation failed",
				observability.String("operation", route.Operation),
				observability.String("kind", string(httpErr.Kind)),
				observability.Int("status", httpErr.Status))
			envelope.WriteError(c, httpErr.Status, httpErr.Message)
			return
		}

		var data interface{}
		if len(result) > 0 {
			if err := json.Unmarshal(result, &data); err != nil {
				h.logger.WithContext(c.Request.Context()).Error("malformed downstream response",
					observability.String("operation", route.Operation),
					observability.Error(err))
				envelope.WriteError(c, http.StatusBadGateway, "Malformed downstream response")
				return
			}
		}

		envelope.WriteSuccess(c, route.EffectiveSuccessStatus(), route.SuccessMessage, data)
	}
}

// buildPayload merges the JSON body, query parameters and path parameters
// into one map. Later sources win on key collision so a path parameter
// cannot be shadowed by the body.
func buildPayload(c *gin.Context) (map[string]interface{}, error) {
	payload := make(map[string]interface{})

	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, err
			}
		}
	}

	for key, values := range c.Request.URL.Query() {
		if len(values) == 1 {
			payload[key] = values[0]
		} else {
			payload[key] = values
		}
	}

	for _, param := range c.Params {
		payload[param.Key] = param.Value
	}

	return payload, nil
}
