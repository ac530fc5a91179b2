// Package server exposes the webhook and document-upload HTTP endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"tripmate/internal/logger"
	"tripmate/internal/whatsapp"
)

// MessageHandler produces the reply for one inbound message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, userID, text string) string
}

// Ingestor loads an uploaded document into the semantic index.
type Ingestor interface {
	Ingest(ctx context.Context, path string) bool
}

// Sender delivers a reply to the messaging channel.
type Sender interface {
	SendMessage(ctx context.Context, to, body string) (string, error)
}

// Server wires the engine, the ingestion pipeline and the messaging channel
// behind HTTP.
type Server struct {
	handler     MessageHandler
	ingestor    Ingestor
	sender      Sender
	verifyToken string
	uploadDir   string
}

// New creates a Server.
func New(handler MessageHandler, ingestor Ingestor, sender Sender, verifyToken, uploadDir string) *Server {
	return &Server{
		handler:     handler,
		ingestor:    ingestor,
		sender:      sender,
		verifyToken: verifyToken,
		uploadDir:   uploadDir,
	}
}

// Routes builds the request mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook/whatsapp", s.handleVerify)
	mux.HandleFunc("POST /webhook/whatsapp", s.handleWebhook)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return mux
}

// ListenAndServe runs the HTTP server until it fails.
func (s *Server) ListenAndServe(addr string) error {
	logger.Info("listening on %s", addr)
	return http.ListenAndServe(addr, s.Routes())
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":     "Welcome to the TripMate API",
		"webhook_url": "/webhook/whatsapp",
	})
}

// handleVerify answers the subscribe handshake: echo hub.challenge when the
// verify token matches, 403 otherwise.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == s.verifyToken {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, q.Get("hub.challenge"))
		return
	}
	http.Error(w, "Verification token mismatch", http.StatusForbidden)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("webhook %s: failed to read body: %v", reqID, err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
		return
	}

	inbound, err := whatsapp.ParseWebhook(body)
	if err != nil {
		logger.Error("webhook %s: %v", reqID, err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
		return
	}

	logger.Info("webhook %s: message %s from %s", reqID, inbound.MessageID, inbound.From)

	reply := s.handler.HandleMessage(r.Context(), inbound.From, inbound.Text)

	if _, err := s.sender.SendMessage(r.Context(), inbound.From, reply); err != nil {
		logger.Error("webhook %s: failed to send reply to %s: %v", reqID, inbound.From, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleUpload stores the uploaded document and runs it through the
// ingestion pipeline.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		logger.Error("upload: failed to create upload directory: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store file"})
		return
	}

	name := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(header.Filename))
	path := filepath.Join(s.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		logger.Error("upload: failed to create %s: %v", path, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store file"})
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		logger.Error("upload: failed to write %s: %v", path, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store file"})
		return
	}
	dst.Close()

	if !s.ingestor.Ingest(r.Context(), path) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to process document"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "document processed successfully"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
