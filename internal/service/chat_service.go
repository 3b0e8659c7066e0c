package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"etegie-bot/backend/internal/faq"
	"etegie-bot/backend/internal/models"
	"etegie-bot/backend/internal/responder"
	"etegie-bot/backend/internal/session"
	"etegie-bot/backend/pkg/cache"
	"etegie-bot/backend/pkg/logger"
	"etegie-bot/backend/shared/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrEmptyMessage   = errors.New("message is required")
	ErrInvalidSession = errors.New("session id is malformed")
)

const maxMessageLength = 4000

// ChatInput is one user turn as received from a channel
type ChatInput struct {
	Message   string
	CompanyID string
	SessionID string
	Channel   string
}

// ChatOutput is what the channel sends back
type ChatOutput struct {
	Response  string           `json:"response"`
	SessionID string           `json:"sessionId"`
	Intent    string           `json:"intent,omitempty"`
	Source    responder.Source `json:"source"`
}

// ChatService answers chat turns, keeps session bindings and logs exchanges
type ChatService struct {
	responder responder.Responder
	store     faq.Store
	sessions  session.Store
	metrics   *observability.Metrics
	logger    *logger.Logger
	companies *cache.Cache
}

// NewChatService wires the chat pipeline. metrics may be nil.
func NewChatService(r responder.Responder, store faq.Store, sessions session.Store, metrics *observability.Metrics, log *logger.Logger) *ChatService {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &ChatService{
		responder: r,
		store:     store,
		sessions:  sessions,
		metrics:   metrics,
		logger:    log,
		companies: cache.New(5*time.Minute, 10000),
	}
}

// Chat resolves one message. Responder failures never surface here: they are
// already turned into a reply. Only invalid input, a session owned by another
// company or a cancelled ctx fail. A company the store does not know is
// answered like any other; its exchanges are just not logged.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	start := time.Now()
	ctx, span := otel.Tracer("etegie-bot/chat").Start(ctx, "chat.reply")
	defer span.End()

	text := strings.TrimSpace(in.Message)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if r := []rune(text); len(r) > maxMessageLength {
		text = string(r[:maxMessageLength])
	}
	companyID := strings.TrimSpace(in.CompanyID)
	channel := in.Channel
	if channel == "" {
		channel = "http"
	}

	registered := companyID != "" && s.registered(ctx, companyID)

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID != "" && !session.Valid(sessionID) {
		return nil, ErrInvalidSession
	}
	upstreamIssues := sessionID == "" && issuesSessions(s.responder)
	if sessionID == "" && !upstreamIssues {
		sessionID = session.NewID()
	}

	log := s.logger.WithCompanyID(companyID)
	if sessionID != "" {
		if err := s.bind(ctx, log, sessionID, companyID); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(
		attribute.String("chat.company_id", companyID),
		attribute.String("chat.channel", channel),
	)

	reply, err := s.responder.Respond(ctx, responder.Request{Text: text, CompanyID: companyID, SessionID: sessionID})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("chat.source", string(reply.Source)))

	if reply.SessionID != "" && reply.SessionID != sessionID && session.Valid(reply.SessionID) {
		sessionID = reply.SessionID
		// the id came from upstream; a clash is logged rather than failing an answered turn
		if err := s.bind(ctx, log, sessionID, companyID); err != nil {
			log.Warn("upstream session id already bound elsewhere", "session_id", sessionID)
		}
	} else if sessionID == "" {
		sessionID = session.NewID()
		_ = s.bind(ctx, log, sessionID, companyID)
	}
	log = log.WithSessionID(sessionID)

	if registered {
		msg := &models.ChatMessage{CompanyID: companyID, SessionID: sessionID, Message: text, Response: reply.Response}
		if err := s.store.LogMessage(ctx, msg); err != nil {
			log.LogError(err, "failed to log chat message")
			s.metrics.RecordLogFailure(ctx)
		}
	}

	s.metrics.RecordReply(ctx, string(reply.Source), channel, time.Since(start))
	log.Debug("chat reply", "source", string(reply.Source), "intent", reply.Intent, "channel", channel)

	return &ChatOutput{
		Response:  reply.Response,
		SessionID: sessionID,
		Intent:    reply.Intent,
		Source:    reply.Source,
	}, nil
}

// History returns the logged exchanges of one session, oldest first
func (s *ChatService) History(ctx context.Context, companyID, sessionID string) ([]models.ChatMessage, error) {
	if companyID == "" {
		return nil, faq.ErrCompanyRequired
	}
	return s.store.GetHistory(ctx, companyID, sessionID)
}

// registered reports whether companyID exists in the local store. A lookup
// failure counts as registered so the exchange is still offered to LogMessage.
func (s *ChatService) registered(ctx context.Context, companyID string) bool {
	if _, ok := s.companies.Get(companyID); ok {
		return true
	}
	_, err := s.store.GetCompany(ctx, companyID)
	switch {
	case errors.Is(err, faq.ErrCompanyNotFound):
		s.logger.WithCompanyID(companyID).Debug("company not registered locally, answering without history")
		return false
	case err != nil:
		s.logger.WithCompanyID(companyID).LogError(err, "company lookup failed, answering anyway")
		return true
	}
	s.companies.Set(companyID, true)
	return true
}

func (s *ChatService) bind(ctx context.Context, log *logger.Logger, sessionID, companyID string) error {
	err := s.sessions.Bind(ctx, sessionID, companyID)
	if err == nil {
		return nil
	}
	if errors.Is(err, session.ErrSessionMismatch) {
		return err
	}
	log.Warn("session store unavailable, continuing unbound", "session_id", sessionID, "error", err.Error())
	return nil
}

func issuesSessions(r responder.Responder) bool {
	issuer, ok := r.(responder.SessionIssuer)
	return ok && issuer.IssuesSessions()
}
