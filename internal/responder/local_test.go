package responder

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"etegie-bot/backend/internal/knowledge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleKB() *knowledge.KnowledgeBase {
	return &knowledge.KnowledgeBase{
		Intents: []knowledge.Intent{
			{Tag: "install", Patterns: []string{"install"}, Responses: []string{"Run the installer."}},
		},
		Fallback: "I don't understand.",
	}
}

func TestLocalExample(t *testing.T) {
	l := NewLocal(exampleKB())

	res := l.Resolve("How do I install this?")
	assert.Equal(t, "Run the installer.", res.Response)
	assert.Equal(t, "install", res.Intent)

	res = l.Resolve("What's the weather?")
	assert.Equal(t, "I don't understand.", res.Response)
	assert.Empty(t, res.Intent)
}

func TestLocalCaseInsensitive(t *testing.T) {
	kb := &knowledge.KnowledgeBase{
		Intents:  []knowledge.Intent{{Tag: "install", Patterns: []string{"How To Install"}, Responses: []string{"npm i"}}},
		Fallback: "?",
	}
	l := NewLocal(kb)

	assert.Equal(t, l.Resolve("how to install"), l.Resolve("HOW TO INSTALL"))
	assert.Equal(t, "install", l.Resolve("  HOW TO INSTALL  ").Intent)
}

func TestLocalFirstMatchWins(t *testing.T) {
	kb := &knowledge.KnowledgeBase{
		Intents: []knowledge.Intent{
			{Tag: "generic", Patterns: []string{"help"}, Responses: []string{"generic help"}},
			{Tag: "specific", Patterns: []string{"help with billing"}, Responses: []string{"billing help"}},
		},
		Fallback: "?",
	}
	l := NewLocal(kb)

	res := l.Resolve("I need help with billing")
	assert.Equal(t, "generic", res.Intent)
	assert.Equal(t, "generic help", res.Response)
}

func TestLocalPicksAmongResponses(t *testing.T) {
	responses := []string{"a", "b", "c"}
	kb := &knowledge.KnowledgeBase{
		Intents:  []knowledge.Intent{{Tag: "hi", Patterns: []string{"hi"}, Responses: responses}},
		Fallback: "?",
	}
	l := NewLocal(kb, WithRand(rand.New(rand.NewPCG(1, 2))))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		res := l.Resolve("hi")
		assert.Contains(t, responses, res.Response)
		seen[res.Response] = true
	}
	assert.Len(t, seen, len(responses))
}

func TestLocalEmptyInputUsesFallback(t *testing.T) {
	l := NewLocal(exampleKB())
	assert.Equal(t, "I don't understand.", l.Resolve("   ").Response)
}

func TestLocalBlankPatternNeverMatches(t *testing.T) {
	// constructed directly to bypass knowledge base validation
	kb := &knowledge.KnowledgeBase{
		Intents:  []knowledge.Intent{{Tag: "blank", Patterns: []string{"", " "}, Responses: []string{"matched"}}},
		Fallback: "fallback",
	}
	l := NewLocal(kb)
	assert.Equal(t, "fallback", l.Resolve("anything").Response)
	assert.Equal(t, "fallback", l.Resolve("").Response)
}

func TestLocalRespondDelayHonoursContext(t *testing.T) {
	l := NewLocal(exampleKB(), WithDelay(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := l.Respond(ctx, Request{Text: "install"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocalRespond(t *testing.T) {
	l := NewLocal(exampleKB(), WithDelay(time.Millisecond))

	reply, err := l.Respond(context.Background(), Request{Text: "install please", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, reply.Source)
	assert.Equal(t, "s1", reply.SessionID)

	reply, err = l.Respond(context.Background(), Request{Text: "weather"})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, reply.Source)
}
