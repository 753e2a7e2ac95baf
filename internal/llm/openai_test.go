package llm

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// chatServer fakes the chat-completions endpoint, recording request
// bodies and answering every call with the same reply.
func chatServer(t *testing.T, reply string, bodies *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*bodies = append(*bodies, string(b))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
}

func TestOpenAIInitGreets(t *testing.T) {
	var bodies []string
	srv := chatServer(t, "Hello, I'm Iris.", &bodies)
	defer srv.Close()

	client := openai.NewClient(option.WithAPIKey("test"), option.WithBaseURL(srv.URL))
	b := NewOpenAI(client, "gpt-test")

	greeting, err := b.Init("system prompt here")
	if err != nil {
		t.Fatal(err)
	}
	if greeting != "Hello, I'm Iris." {
		t.Errorf("greeting = %q", greeting)
	}
	if len(bodies) != 1 {
		t.Fatalf("requests = %d, want 1", len(bodies))
	}
	if !strings.Contains(bodies[0], "Introduce yourself briefly.") {
		t.Errorf("opening request missing the introduction prompt:\n%s", bodies[0])
	}
	if !strings.Contains(bodies[0], "system prompt here") {
		t.Error("opening request missing the system prompt")
	}
}

func TestOpenAIInitSurvivesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "nope"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := openai.NewClient(
		option.WithAPIKey("test"),
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0))
	b := NewOpenAI(client, "gpt-test")

	greeting, err := b.Init("sys")
	if err != nil {
		t.Fatalf("greeting failure must not be fatal: %v", err)
	}
	if greeting != "" {
		t.Errorf("greeting = %q, want empty", greeting)
	}
}
