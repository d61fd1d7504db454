package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/http/dto"
)

// SchemaHandler publishes the JSON Schema of request bodies so clients can
// build forms from the same declarations the validator enforces.
type SchemaHandler struct {
	schemas map[string]*jsonschema.Schema
}

var requestBodies = map[string]any{
	"create-poll":            &dto.CreatePollRequest{},
	"create-message":         &dto.CreateMessageRequest{},
	"replace-featured-items": &dto.ReplaceFeaturedItemsRequest{},
	"create-faq":             &dto.CreateFaqRequest{},
	"update-faq":             &dto.UpdateFaqRequest{},
	"create-need":            &dto.CreateNeedRequest{},
	"create-article":         &dto.CreateArticleRequest{},
}

func NewSchemaHandler() *SchemaHandler {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	schemas := make(map[string]*jsonschema.Schema, len(requestBodies))
	for name, body := range requestBodies {
		schema := reflector.Reflect(body)
		schema.Title = name
		schemas[name] = schema
	}
	return &SchemaHandler{schemas: schemas}
}

// Names lists the published schema names in sorted order.
func (h *SchemaHandler) Names() []string {
	names := make([]string, 0, len(h.schemas))
	for name := range h.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *SchemaHandler) List(c *gin.Context) {
	respondData(c, http.StatusOK, h.Names())
}

func (h *SchemaHandler) Get(c *gin.Context) {
	schema, ok := h.schemas[c.Param("name")]
	if !ok {
		fail(c, apperr.NotFound("schema not found"))
		return
	}
	c.JSON(http.StatusOK, schema)
}
