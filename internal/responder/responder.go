// Package responder resolves raw user text to a bot reply. Three variants are
// available: a local intent matcher, a remote HTTP matcher and a hosted FAQ
// matcher backed by the faq store.
package responder

import (
	"context"
)

// Source records which stage produced a reply
type Source string

const (
	SourceLocal    Source = "local"
	SourceRemote   Source = "remote"
	SourceHosted   Source = "hosted"
	SourceFallback Source = "fallback"
	SourceApology  Source = "apology"
)

// Fixed replies used by the remote matcher
const (
	NoInfoReply  = "Sorry, I don't have info on that."
	ApologyReply = "Sorry, I'm having trouble connecting right now. Please try again later."
)

// Request is one user turn. CompanyID and SessionID are optional.
type Request struct {
	Text      string
	CompanyID string
	SessionID string
}

// Reply is the resolved answer
type Reply struct {
	Response  string
	Intent    string
	SessionID string
	Source    Source
}

// Responder turns a user message into a reply. Implementations only return an
// error when ctx is done; every other failure ends in a reply.
type Responder interface {
	Respond(ctx context.Context, req Request) (Reply, error)
}

// SessionIssuer is implemented by responders whose backend issues session
// ids. Callers leave Request.SessionID empty for a new conversation and adopt
// the id the reply carries.
type SessionIssuer interface {
	IssuesSessions() bool
}

// Func adapts a function to the Responder interface
type Func func(ctx context.Context, req Request) (Reply, error)

// Respond calls f
func (f Func) Respond(ctx context.Context, req Request) (Reply, error) {
	return f(ctx, req)
}
