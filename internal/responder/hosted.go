package responder

import (
	"context"

	"etegie-bot/backend/internal/faq"
	"etegie-bot/backend/pkg/logger"
)

// AnswerFinder is satisfied by *faq.Matcher
type AnswerFinder interface {
	FindAnswer(ctx context.Context, question, companyID string) (faq.Answer, bool, error)
}

// HostedResponder answers from the company's FAQ rows. Without an answer it
// consults the local matcher when one is set, or returns the fallback reply.
type HostedResponder struct {
	finder   AnswerFinder
	local    *LocalResponder
	fallback string
	logger   *logger.Logger
}

// NewHosted creates a hosted responder. local may be nil.
func NewHosted(finder AnswerFinder, local *LocalResponder, fallback string, log *logger.Logger) *HostedResponder {
	if log == nil {
		log = logger.GetGlobal()
	}
	if fallback == "" && local != nil {
		fallback = local.Fallback()
	}
	return &HostedResponder{finder: finder, local: local, fallback: fallback, logger: log}
}

// Respond answers from the company's FAQs, then the local matcher, then the fallback
func (h *HostedResponder) Respond(ctx context.Context, req Request) (Reply, error) {
	if req.CompanyID != "" {
		ans, found, err := h.finder.FindAnswer(ctx, req.Text, req.CompanyID)
		switch {
		case err != nil && ctx.Err() != nil:
			return Reply{}, ctx.Err()
		case err != nil:
			h.logger.WithCompanyID(req.CompanyID).LogError(err, "faq lookup failed")
		case found:
			return Reply{Response: ans.Text, SessionID: req.SessionID, Source: SourceHosted}, nil
		}
	}

	if h.local != nil {
		return h.local.Respond(ctx, req)
	}
	return Reply{Response: h.fallback, SessionID: req.SessionID, Source: SourceFallback}, nil
}
