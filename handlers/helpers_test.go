package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/rentaspace/rentals_backend/utils"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing row", utils.ErrorRecordNotFound, http.StatusNotFound},
		{"missing row with context", fmt.Errorf("lease not found: %w", utils.ErrorRecordNotFound), http.StatusNotFound},
		{"twice wrapped", fmt.Errorf("no lease covers the requested period: %w",
			fmt.Errorf("lease not found: %w", utils.ErrorRecordNotFound)), http.StatusNotFound},
		{"driver failure", &mysql.MySQLError{Number: 1213, Message: "deadlock found"}, http.StatusInternalServerError},
		{"validation", errors.New("month must be between 1 and 12"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tt.err)
		if w.Code != tt.want {
			t.Fatalf("%s: status = %d, want %d", tt.name, w.Code, tt.want)
		}
	}
}

func TestRespondErrorHidesDriverDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, &mysql.MySQLError{Number: 1045, Message: "access denied for user root"})

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["error"] != "internal error" {
		t.Fatalf("driver message leaked to the client: %q", body["error"])
	}
}

func TestRespondBindErrorFieldTags(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type payload struct {
		Email string `validate:"required"`
	}
	err := validator.New().Struct(payload{})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondBindError(c, err)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Fields["Email"] != "required" {
		t.Fatalf("fields = %v, want Email=required", body.Fields)
	}
}

func TestRespondBindErrorPlainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondBindError(c, errors.New("unexpected EOF"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
