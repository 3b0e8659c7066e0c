package responder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"etegie-bot/backend/pkg/logger"
	"etegie-bot/backend/pkg/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteSuccess(t *testing.T) {
	received := make(chan ChatRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received <- body
		json.NewEncoder(w).Encode(ChatResponse{Response: "From server", SessionID: "session_42"})
	}))
	defer srv.Close()

	r, err := NewRemote(srv.URL, 0, PolicyApology, nil, logger.Discard())
	require.NoError(t, err)

	reply, err := r.Respond(context.Background(), Request{Text: "  hello  ", CompanyID: "acme"})
	require.NoError(t, err)
	assert.Equal(t, "From server", reply.Response)
	assert.Equal(t, "session_42", reply.SessionID)
	assert.Equal(t, SourceRemote, reply.Source)

	got := <-received
	assert.Equal(t, "hello", got.Message)
	assert.Equal(t, "acme", got.CompanyID)
	assert.Empty(t, got.SessionID)
}

func TestRemoteReplaysSessionAndSubstitutesMissingResponse(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		received <- body
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	r, err := NewRemote(srv.URL, 0, PolicyApology, nil, logger.Discard())
	require.NoError(t, err)

	reply, err := r.Respond(context.Background(), Request{Text: "hi", SessionID: "session_1"})
	require.NoError(t, err)
	assert.Equal(t, NoInfoReply, reply.Response)
	assert.Equal(t, "session_1", reply.SessionID)
	got := <-received
	assert.Equal(t, "session_1", got["sessionId"])
	_, hasCompany := got["companyId"]
	assert.False(t, hasCompany)
}

func TestRemoteFailurePolicies(t *testing.T) {
	var calls atomic.Int32
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer failing.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer garbage.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	local := NewLocal(exampleKB())

	for _, url := range []string{failing.URL, garbage.URL, closedURL} {
		apology, err := NewRemote(url, 0, PolicyApology, nil, logger.Discard())
		require.NoError(t, err)
		reply, err := apology.Respond(context.Background(), Request{Text: "install", SessionID: "s"})
		require.NoError(t, err)
		assert.Equal(t, ApologyReply, reply.Response)
		assert.Equal(t, SourceApology, reply.Source)
		assert.Equal(t, "s", reply.SessionID)

		viaLocal, err := NewRemote(url, 0, PolicyLocal, local, logger.Discard())
		require.NoError(t, err)
		reply, err = viaLocal.Respond(context.Background(), Request{Text: "How do I install this?"})
		require.NoError(t, err)
		assert.Equal(t, "Run the installer.", reply.Response)
		assert.Equal(t, SourceLocal, reply.Source)

		reply, err = viaLocal.Respond(context.Background(), Request{Text: "weather"})
		require.NoError(t, err)
		assert.Equal(t, "I don't understand.", reply.Response)
		assert.Equal(t, SourceFallback, reply.Source)
	}

	// one attempt per Respond, no retries
	assert.Equal(t, int32(3), calls.Load())
}

func TestNewRemoteValidation(t *testing.T) {
	_, err := NewRemote("", 0, PolicyApology, nil, nil)
	assert.Error(t, err)

	_, err = NewRemote("http://example.com", 0, PolicyLocal, nil, nil)
	assert.Error(t, err)

	_, err = NewRemote("http://example.com", 0, "retry", nil, nil)
	assert.Error(t, err)
}

func TestRemoteBreakerSkipsDeadEndpoint(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r, err := New(Config{
		Mode:             ModeRemote,
		RemoteURL:        srv.URL,
		FailurePolicy:    PolicyApology,
		BreakerThreshold: 2,
		BreakerCooldown:  time.Hour,
	}, Deps{KnowledgeBase: exampleKB(), Logger: logger.Discard()})
	require.NoError(t, err)
	remote := r.(*RemoteResponder)

	for i := 0; i < 4; i++ {
		reply, err := remote.Respond(context.Background(), Request{Text: "hello", SessionID: "session_1"})
		require.NoError(t, err)
		assert.Equal(t, ApologyReply, reply.Response)
		assert.Equal(t, SourceApology, reply.Source)
	}
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, resilience.StateOpen, remote.State())
}
