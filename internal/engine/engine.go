// Package engine orchestrates intent routing, session state and
// retrieval-augmented answer synthesis for inbound chat messages.
package engine

import (
	"context"
	"fmt"
	"strings"

	"tripmate/internal/booking"
	"tripmate/internal/index"
	"tripmate/internal/logger"
	"tripmate/internal/memory"
	"tripmate/internal/router"
	"tripmate/internal/session"
)

// Canned reply texts.
const (
	// WelcomeMessage greets a user on their very first contact.
	WelcomeMessage = "Hello! Welcome to TripMate. How can I assist you with your travel plans today?"
	// WelcomeBackMessage greets a returning user.
	WelcomeBackMessage = "Welcome back! What can I help you with today?"
	// ApologyMessage is the fixed fallback when answer synthesis fails.
	ApologyMessage = "I apologize, but I'm having trouble processing your request at the moment."
)

// topK is the number of chunks retrieved per query.
const topK = 4

// Completer obtains an answer from the language model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Embedder turns a query into a vector for index search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Engine ties the stores and model clients together. One Engine serves
// concurrent requests; all shared state lives in the injected stores.
type Engine struct {
	sessions       session.Store
	conversation   *memory.Conversation
	index          *index.Index
	embedder       Embedder
	llm            Completer
	bookingBaseURL string
}

// New creates an Engine with its collaborators injected.
func New(sessions session.Store, conversation *memory.Conversation, ix *index.Index, embedder Embedder, completer Completer, bookingBaseURL string) *Engine {
	if bookingBaseURL == "" {
		bookingBaseURL = booking.DefaultBaseURL
	}
	return &Engine{
		sessions:       sessions,
		conversation:   conversation,
		index:          ix,
		embedder:       embedder,
		llm:            completer,
		bookingBaseURL: bookingBaseURL,
	}
}

// HandleMessage produces the reply text for one inbound message. The user ID
// doubles as the session ID. It never returns an error; every failure path
// degrades to a sensible reply.
func (e *Engine) HandleMessage(ctx context.Context, userID, text string) string {
	// Session store failures fail open as first contact so the user still
	// gets a sensible greeting.
	first, err := e.sessions.Touch(ctx, userID)
	if err != nil {
		logger.Error("session store unreachable for %s, treating as first contact: %v", userID, err)
		first = true
	}

	intent := router.Route(text)
	logger.Info("message from %s classified as %s", userID, intent.Kind)

	switch intent.Kind {
	case router.KindGreeting:
		if first {
			return WelcomeMessage
		}
		return WelcomeBackMessage

	case router.KindBooking:
		url := booking.BuildURL(e.bookingBaseURL, intent.Destination)
		return fmt.Sprintf("Booking page for %s: %s", intent.Destination, url)

	default:
		return e.Answer(ctx, userID, strings.TrimSpace(text))
	}
}

// Answer runs retrieval-augmented synthesis for a general query: embed the
// query, retrieve the top chunks, fold in the session transcript, and ask
// the model. On success the (query, answer) turns are appended to the
// transcript. Any failure is logged and converted into the fixed apology
// text with the transcript left untouched — no partial turns.
func (e *Engine) Answer(ctx context.Context, sessionID, query string) string {
	queryVec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		logger.Error("answer: failed to embed query for %s: %v", sessionID, err)
		return ApologyMessage
	}

	chunks := e.index.Search(queryVec, topK)
	history := e.conversation.History(sessionID)

	prompt := buildPrompt(chunks, history, query)

	answer, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		logger.Error("answer: completion failed for %s: %v", sessionID, err)
		return ApologyMessage
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		logger.Error("answer: completion returned empty text for %s", sessionID)
		return ApologyMessage
	}

	e.conversation.Append(sessionID, memory.RoleUser, query)
	e.conversation.Append(sessionID, memory.RoleAssistant, answer)

	return answer
}

// ClearMemory empties the session's transcript. The session record and its
// message count are untouched.
func (e *Engine) ClearMemory(sessionID string) {
	e.conversation.Clear(sessionID)
}
