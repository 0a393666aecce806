package server

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"markov-qa-be/internal/bootstrap"
	"markov-qa-be/internal/config"
	"markov-qa-be/internal/constant"
	"markov-qa-be/internal/pkg/logger"
	"markov-qa-be/pkg/knowledge"
	"markov-qa-be/pkg/markov"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sequenceSampler replays picks in order and then keeps repeating the last one.
type sequenceSampler struct {
	mu    sync.Mutex
	picks []int
}

func (s *sequenceSampler) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	pick := s.picks[0]
	if len(s.picks) > 1 {
		s.picks = s.picks[1:]
	}
	return pick % n
}

func newTestServer(t *testing.T) (*Server, *bootstrap.Container) {
	t.Helper()
	return newTestServerWithSampler(t, nil)
}

func newTestServerWithSampler(t *testing.T, sampler markov.Sampler) (*Server, *bootstrap.Container) {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "production",
			CorsAllowedOrigins: "*",
		},
		Responder: config.ResponderConfig{
			MaxMessageSize: config.DefaultMaxMessageSize,
			PongWait:       5 * time.Second,
			WriteWait:      time.Second,
		},
	}
	nop := logger.NewFromZap(zap.NewNop())
	container := bootstrap.NewContainerWith(cfg, nop, nop, sampler)
	return New(cfg, container), container
}

func startListening(t *testing.T, srv *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.GetApp().ShutdownWithTimeout(time.Second) })

	return "ws://" + ln.Addr().String() + constant.ResponderWebSocketPath
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestWebSocketRepliesWithKnownTexts(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, startListening(t, srv))
	defer conn.Close()

	allowed := map[string]bool{
		constant.ResponderGreetingText:    true,
		constant.ResponderClarifyText:     true,
		"The capital of France is Paris.": true,
	}

	for i := 0; i < 30; i++ {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("What is the capital of France?")))

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		messageType, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, messageType)
		assert.True(t, allowed[string(payload)], "unexpected reply %q", payload)
	}
}

func TestWebSocketUnknownQuestionNeverLeaksAnswer(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, startListening(t, srv))
	defer conn.Close()

	allowed := map[string]bool{
		constant.ResponderGreetingText: true,
		constant.ResponderClarifyText:  true,
		constant.ResponderFallbackText: true,
	}

	for i := 0; i < 30; i++ {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("what is the capital of france?")))

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.True(t, allowed[string(payload)], "unexpected reply %q", payload)
	}
}

func TestConversationRegistryTracksOpenChannels(t *testing.T) {
	srv, container := newTestServer(t)
	url := startListening(t, srv)

	conn := dial(t, url)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hi")))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.NoError(t, err)

	assert.Equal(t, 1, container.Conversations.Count())

	resp, err := srv.GetApp().Test(httptest.NewRequest("GET", "/api/conversations/active", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			Active int `json:"active"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.True(t, parsed.Success)
	assert.Equal(t, 1, parsed.Data.Active)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	assert.Eventually(t, func() bool {
		return container.Conversations.Count() == 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestPlainRequestToSocketNeedsUpgrade(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.GetApp().Test(httptest.NewRequest("GET", constant.ResponderWebSocketPath, nil))
	require.NoError(t, err)
	assert.Equal(t, 426, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":false,"code":426,"message":"Upgrade Required"}`, string(body))
}

func TestKnowledgeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.GetApp().Test(httptest.NewRequest("GET", "/api/knowledge", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var parsed struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Len(t, parsed.Data, 5)
	assert.Contains(t, parsed.Data, "What is the capital of France?")
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.GetApp().Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestWebSocketAnswersLargeTextFrames(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, startListening(t, srv))
	defer conn.Close()

	allowed := map[string]bool{
		constant.ResponderGreetingText: true,
		constant.ResponderClarifyText:  true,
		constant.ResponderFallbackText: true,
	}

	for _, size := range []int{5000, 64 * 1024, 1024 * 1024} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(strings.Repeat("a", size))))

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		messageType, payload, err := conn.ReadMessage()
		require.NoError(t, err, "frame of %d bytes", size)
		assert.Equal(t, websocket.TextMessage, messageType)
		assert.True(t, allowed[string(payload)], "unexpected reply %q", payload)
	}
}

func TestWebSocketPipelinedRepliesKeepOrderAndSkipBinary(t *testing.T) {
	// greeting -> answer on the first pick, then answer -> answer forever.
	srv, _ := newTestServerWithSampler(t, &sequenceSampler{picks: []int{1, 0}})
	conn := dial(t, startListening(t, srv))
	defer conn.Close()

	entries := knowledge.DefaultEntries()
	const total = 20

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte(entries[0].Question)))
	for i := 0; i < total; i++ {
		q := entries[i%len(entries)].Question
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(q)))
	}

	for i := 0; i < total; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err, "reply %d", i)
		assert.Equal(t, entries[i%len(entries)].Answer, string(payload), "reply %d", i)
	}

	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, extra, err := conn.ReadMessage()
	require.Error(t, err, "unexpected extra reply %q", extra)
	var netErr net.Error
	require.True(t, errors.As(err, &netErr) && netErr.Timeout(), "want read timeout, got %v", err)
}
