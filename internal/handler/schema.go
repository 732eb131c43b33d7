package handler

import (
	"net/http"

	"reportdesk/internal/httputil"
	"reportdesk/internal/schema"
)

// SchemaHandler serves the report layout for the editor.
type SchemaHandler struct {
	schema *schema.Schema
}

// NewSchemaHandler creates a new schema handler
func NewSchemaHandler(s *schema.Schema) *SchemaHandler {
	return &SchemaHandler{schema: s}
}

type schemaResponse struct {
	Name     string            `json:"name"`
	Title    string            `json:"title"`
	Layout   schema.Layout     `json:"layout"`
	Sections []*schema.Section `json:"sections"`
}

// GetSchema returns the section tree and layout constants
// GET /api/schema
func (h *SchemaHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, schemaResponse{
		Name:     h.schema.Name(),
		Title:    h.schema.Title(),
		Layout:   h.schema.Layout(),
		Sections: h.schema.TopLevel(),
	})
}

// HealthCheck reports liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
