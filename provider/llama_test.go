package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLlamaSendPrompt(t *testing.T) {
	var req map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &req)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"llama2","created_at":"2024-03-01T00:00:00Z","message":{"role":"assistant","content":"Item,Qty\nBolts,500"},"done":true}`)
	}))
	defer srv.Close()

	p := NewLlamaProvider(Config{Type: ProviderTypeLlama, BaseURL: srv.URL})
	res := p.SendPrompt(context.Background(), "to csv")

	if res.Error != "" || res.Content != "Item,Qty\nBolts,500" {
		t.Fatalf("SendPrompt() = %+v", res)
	}
	if req["model"] != "llama2" {
		t.Errorf("model = %v", req["model"])
	}
	if req["stream"] != false {
		t.Errorf("stream = %v, want false", req["stream"])
	}
	opts, _ := req["options"].(map[string]any)
	if opts["temperature"] != 0.7 || opts["num_predict"] != float64(2000) {
		t.Errorf("options = %v", opts)
	}
}

func TestLlamaErrors(t *testing.T) {
	t.Run("invalid endpoint", func(t *testing.T) {
		for _, url := range []string{"", "localhost:11434", "ftp://host"} {
			res := NewLlamaProvider(Config{BaseURL: url}).SendPrompt(context.Background(), "hi")
			if res.Error != "LLaMA endpoint URL is missing or invalid" {
				t.Errorf("BaseURL %q: %+v", url, res)
			}
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"model \"llama2\" not found, try pulling it first"}`)
		}))
		defer srv.Close()

		res := NewLlamaProvider(Config{BaseURL: srv.URL}).SendPrompt(context.Background(), "hi")
		if res.Error != `model "llama2" not found, try pulling it first` {
			t.Errorf("SendPrompt() = %+v", res)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"model":"llama2","message":{"role":"assistant","content":""},"done":true}`)
		}))
		defer srv.Close()

		res := NewLlamaProvider(Config{BaseURL: srv.URL}).SendPrompt(context.Background(), "hi")
		if res.Error != "No response generated" {
			t.Errorf("SendPrompt() = %+v", res)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		res := NewLlamaProvider(Config{BaseURL: url}).SendPrompt(context.Background(), "hi")
		if res.Error != msgNetwork {
			t.Errorf("SendPrompt() = %+v", res)
		}
	})
}
