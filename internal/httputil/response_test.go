package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusUnprocessableEntity, "page 1 of abstract is too long", map[string]interface{}{
		"page_index": 0,
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["page_index"] != float64(0) {
		t.Errorf("page_index = %v", body["page_index"])
	}
	if body["type"] == "about:blank" {
		t.Error("type not mapped for 422")
	}
}

func TestPathIndex(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"12", 12, false},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/pages/"+tt.value, nil)
			r.SetPathValue("index", tt.value)
			got, err := PathIndex(r, "index")
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("PathIndex() = %d, %v", got, err)
			}
		})
	}
}
