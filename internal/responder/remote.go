package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"etegie-bot/backend/pkg/logger"
	"etegie-bot/backend/pkg/resilience"
)

// FailurePolicy decides what the remote matcher answers when the call fails
type FailurePolicy string

const (
	PolicyApology FailurePolicy = "apology"
	PolicyLocal   FailurePolicy = "local"
)

const maxRemoteBody = 1 << 20

// ChatRequest is the wire body posted to the chat endpoint
type ChatRequest struct {
	Message   string `json:"message"`
	CompanyID string `json:"companyId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse is the wire body returned by the chat endpoint
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId,omitempty"`
}

// RemoteResponder posts each message to an HTTP chat endpoint. A failed call
// is never retried: it ends in the apology reply or one local resolution.
type RemoteResponder struct {
	client  *http.Client
	url     string
	policy  FailurePolicy
	local   *LocalResponder
	logger  *logger.Logger
	breaker *resilience.Breaker
}

// NewRemote creates a remote responder. timeout zero means no client timeout.
// local is required when policy is PolicyLocal.
func NewRemote(url string, timeout time.Duration, policy FailurePolicy, local *LocalResponder, log *logger.Logger) (*RemoteResponder, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("remote responder needs an api url")
	}
	switch policy {
	case PolicyApology:
	case PolicyLocal:
		if local == nil {
			return nil, fmt.Errorf("local failure policy needs a knowledge base")
		}
	default:
		return nil, fmt.Errorf("unknown failure policy %q", policy)
	}
	if log == nil {
		log = logger.GetGlobal()
	}

	return &RemoteResponder{
		client: &http.Client{Timeout: timeout},
		url:    url,
		policy: policy,
		local:  local,
		logger: log,
	}, nil
}

// Respond never returns an error unless ctx is done before a fallback is produced
func (r *RemoteResponder) Respond(ctx context.Context, req Request) (Reply, error) {
	var resp *ChatResponse
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = r.call(ctx, req)
		return callErr
	})
	if err == nil {
		text := resp.Response
		if strings.TrimSpace(text) == "" {
			text = NoInfoReply
		}
		session := resp.SessionID
		if session == "" {
			session = req.SessionID
		}
		return Reply{Response: text, SessionID: session, Source: SourceRemote}, nil
	}

	r.logger.WithSessionID(req.SessionID).Warn("remote chat call failed",
		"url", r.url,
		"policy", string(r.policy),
		"error", err.Error(),
	)

	if r.policy == PolicyLocal {
		res := r.local.Resolve(req.Text)
		source := SourceLocal
		if res.Intent == "" {
			source = SourceFallback
		}
		return Reply{Response: res.Response, Intent: res.Intent, SessionID: req.SessionID, Source: source}, nil
	}
	return Reply{Response: ApologyReply, SessionID: req.SessionID, Source: SourceApology}, nil
}

func (r *RemoteResponder) call(ctx context.Context, req Request) (*ChatResponse, error) {
	body, err := json.Marshal(ChatRequest{
		Message:   strings.TrimSpace(req.Text),
		CompanyID: req.CompanyID,
		SessionID: req.SessionID,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(httpResp.Body, maxRemoteBody))
		return nil, fmt.Errorf("unexpected status %d", httpResp.StatusCode)
	}

	var out ChatResponse
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxRemoteBody)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// IssuesSessions is true: the chat endpoint issues ids for new conversations
func (r *RemoteResponder) IssuesSessions() bool {
	return true
}

// State reports the breaker guarding the endpoint
func (r *RemoteResponder) State() resilience.State {
	return r.breaker.State()
}

// Ping reports whether the endpoint is reachable. Any HTTP answer counts.
func (r *RemoteResponder) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodOptions, r.url, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(httpReq)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
