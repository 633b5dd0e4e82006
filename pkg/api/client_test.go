package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_SendMessage(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, "abc-123", time.Second)
	if err := c.SendMessage(context.Background(), "hello there"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotPath != "/chat/abc-123/send" {
		t.Errorf("Expected path '/chat/abc-123/send', got %q", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("Expected JSON content type, got %q", gotContentType)
	}

	var req SendRequest
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("Failed to parse request body: %v", err)
	}
	if req.Message != "hello there" {
		t.Errorf("Expected message 'hello there', got %q", req.Message)
	}
}

func TestClient_SendMessage_ErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail": "session not found"}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "nope", time.Second)
	err := c.SendMessage(context.Background(), "hi")
	if err == nil {
		t.Fatal("Expected an error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "session not found" {
		t.Errorf("Expected detail 'session not found', got %q", apiErr.Detail)
	}
}

func TestClient_ListPlugins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plugins" || r.Method != http.MethodGet {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `[{"name": "persona", "enabled": true}, {"name": "imagegen", "enabled": false}]`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "s", time.Second)
	plugins, err := c.ListPlugins(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(plugins) != 2 {
		t.Fatalf("Expected 2 plugins, got %d", len(plugins))
	}
	if plugins[0].Name != "persona" || !plugins[0].Enabled {
		t.Errorf("Unexpected first plugin: %+v", plugins[0])
	}
	if plugins[1].Name != "imagegen" || plugins[1].Enabled {
		t.Errorf("Unexpected second plugin: %+v", plugins[1])
	}
}

func TestClient_SavePlugins(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plugins" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer server.Close()

	c := NewClient(server.URL, "s", time.Second)
	err := c.SavePlugins(context.Background(), []Plugin{{Name: "persona", Enabled: false}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var sent []Plugin
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("Failed to parse submitted plugins: %v", err)
	}
	if len(sent) != 1 || sent[0].Name != "persona" || sent[0].Enabled {
		t.Errorf("Unexpected submitted plugins: %+v", sent)
	}
}

func TestClient_ListPersonas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/personas/local" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		io.WriteString(w, `[{"name": "Assistant"}, {"name": "Reviewer"}]`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "s", time.Second)
	refs, err := c.ListPersonas(context.Background(), "local")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(refs) != 2 || refs[0].Name != "Assistant" {
		t.Errorf("Unexpected personas: %+v", refs)
	}
}

func TestClient_GetPersona(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/personas/shared/Assistant" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		io.WriteString(w, `{"name": "Assistant", "description": "helps out", "moderated": true}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "s", time.Second)
	persona, err := c.GetPersona(context.Background(), "shared", "Assistant")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if persona.Name != "Assistant" || !persona.Moderated {
		t.Errorf("Unexpected persona: %+v", persona)
	}
}

func TestClient_GetPersona_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail": "Persona not found"}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "s", time.Second)
	_, err := c.GetPersona(context.Background(), "local", "ghost")

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 *Error, got %v", err)
	}
}
