package support

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

// stubServer is a minimal chat-completions endpoint for scenarios.
type stubServer struct {
	*httptest.Server
}

// newStubServer answers every request with a chat-completion body
// whose content is the given text.
func newStubServer(content string) *stubServer {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{"content": content},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	return &stubServer{Server: httptest.NewServer(handler)}
}

// newFailingStubServer answers every request with a 500.
func newFailingStubServer() *stubServer {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("inference worker crashed"))
	})
	return &stubServer{Server: httptest.NewServer(handler)}
}
