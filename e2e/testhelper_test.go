package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"

	"github.com/retoneapp/api/internal/client"
	"github.com/retoneapp/api/internal/config"
	"github.com/retoneapp/api/internal/handler"
	"github.com/retoneapp/api/internal/middleware"
	"github.com/retoneapp/api/internal/service"
)

// testApp holds all components needed for testing
type testApp struct {
	app      *fiber.App
	upstream *fakeUpstream
}

// fakeUpstream impersonates the generative language API. It inspects the
// prompt of each request to tell rewrite calls apart from the two
// classification calls.
type fakeUpstream struct {
	mu             sync.Mutex
	rewritePrompts []string
	emotionCalls   int
	languageCalls  int

	// rewriteReply returns the text for the nth rewrite call (0-based)
	rewriteReply  func(call int) string
	emotionReply  string
	languageReply string

	// rewriteStatus, when non-zero, makes rewrite calls fail with that status
	rewriteStatus int
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(body, &req); err != nil || len(req.Contents) == 0 || len(req.Contents[0].Parts) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	prompt := req.Contents[0].Parts[0].Text

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.Contains(prompt, "dominant emotion"):
		f.emotionCalls++
		writeCandidate(w, f.emotionReply)
	case strings.Contains(prompt, "Identify the language"):
		f.languageCalls++
		writeCandidate(w, f.languageReply)
	default:
		call := len(f.rewritePrompts)
		f.rewritePrompts = append(f.rewritePrompts, prompt)
		if f.rewriteStatus != 0 {
			w.WriteHeader(f.rewriteStatus)
			fmt.Fprint(w, `{"error":{"message":"upstream unhappy"}}`)
			return
		}
		writeCandidate(w, f.rewriteReply(call))
	}
}

func (f *fakeUpstream) rewriteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rewritePrompts)
}

func (f *fakeUpstream) rewritePrompt(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rewritePrompts[i]
}

func writeCandidate(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]string{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// newFakeUpstream returns an upstream that echoes fixed classification
// answers and serves rewrite replies from the given function.
func newFakeUpstream(rewriteReply func(call int) string) *fakeUpstream {
	return &fakeUpstream{
		rewriteReply:  rewriteReply,
		emotionReply:  "Joy",
		languageReply: "English",
	}
}

// setupApp builds the Fiber app the same way main.go does, but pointed at
// the fake upstream. Redis is not required: the rate limiter fails open.
func setupApp(t *testing.T, upstream *fakeUpstream) *testApp {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	return setupAppWithBaseURL(t, upstream, srv.URL)
}

func setupAppWithBaseURL(t *testing.T, upstream *fakeUpstream, baseURL string) *testApp {
	t.Helper()

	geminiClient := client.NewGeminiClient(&config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gemini-test",
		Timeout: 5,
	})

	validate := validator.New()
	generateService := service.NewGenerateService(geminiClient)
	generateHandler := handler.NewGenerateHandler(generateService, validate)

	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // use DB 15 for tests to avoid collision
	})
	rateLimiter := middleware.NewRateLimiter(redisClient)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST,OPTIONS",
		AllowHeaders: "Content-Type",
		MaxAge:       86400,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"gemini": geminiClient.IsConfigured(),
				"redis":  redisClient.Ping(c.Context()).Err() == nil,
			},
		})
	})
	app.Post("/generate", rateLimiter.GenerateLimit(10000), generateHandler.Generate)

	return &testApp{app: app, upstream: upstream}
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}
