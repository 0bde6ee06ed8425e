package utils

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, 201, map[string]string{"message": "created"})

	if rec.Code != 201 {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "created" {
		t.Errorf("body = %v", body)
	}
}

func TestSendJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONError(rec, "All fields are required", 400)

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "All fields are required" {
		t.Errorf("error = %q", body["error"])
	}
	if _, ok := body["detail"]; ok {
		t.Error("detail present without an underlying error")
	}
}

func TestSendJSONErrorWithDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONErrorWithDetail(rec, "Failed to add expense", errors.New("database is locked"), 500)

	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Failed to add expense" {
		t.Errorf("error = %q", body["error"])
	}
	if body["detail"] != "database is locked" {
		t.Errorf("detail = %q", body["detail"])
	}
}
