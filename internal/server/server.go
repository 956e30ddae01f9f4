// Package server exposes the conversation store and answerer over
// HTTP. The API is the one the chat client speaks: list, fetch and
// create conversations, and ask a question within one.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joss/lawchat/internal/answer"
	"github.com/joss/lawchat/internal/domain"
	"github.com/joss/lawchat/internal/logging"
)

// Server provides the HTTP API for the chat backend.
type Server struct {
	store    domain.ServerStore
	answerer answer.Answerer
	mux      *http.ServeMux
	addr     string
	log      *logging.Logger
}

func New(store domain.ServerStore, answerer answer.Answerer, addr string) *Server {
	s := &Server{
		store:    store,
		answerer: answerer,
		mux:      http.NewServeMux(),
		addr:     addr,
		log:      logging.New("server"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /conversations", s.handleListConversations)
	s.mux.HandleFunc("POST /conversations", s.handleCreateConversation)
	s.mux.HandleFunc("GET /conversations/{id}", s.handleGetMessages)
	s.mux.HandleFunc("POST /ask", s.handleAsk)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.store.ListConversations(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if conversations == nil {
		conversations = []domain.Conversation{}
	}

	json.NewEncoder(w).Encode(conversations)
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	id, err := s.store.CreateConversation(r.Context(), req.Title)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int64{"conversation_id": id})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid conversation id", http.StatusBadRequest)
		return
	}

	if _, err := s.store.GetConversation(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	messages, err := s.store.GetMessages(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	json.NewEncoder(w).Encode(messages)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question       string `json:"question"`
		ConversationID int64  `json:"conversation_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	if _, err := s.store.GetConversation(ctx, req.ConversationID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	// The answerer sees the transcript as it was before this
	// question; it appends the question itself.
	history, err := s.store.GetMessages(ctx, req.ConversationID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.store.AppendMessage(ctx, req.ConversationID, domain.UserMessage(req.Question)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	reply, err := s.answerer.Answer(ctx, req.Question, history)
	if err != nil {
		s.log.WithConversation(req.ConversationID).Error("answer_failed", nil, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.store.AppendMessage(ctx, req.ConversationID, domain.AssistantMessage(reply)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"answer": reply})
}

// Middleware for CORS
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Middleware for JSON content type
func JSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AccessLog logs one event per request with a generated request id.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logging.RequestEvent(uuid.NewString(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// Combined middleware
func (s *Server) Handler() http.Handler {
	return AccessLog(CORS(JSON(s.mux)))
}

// Serve starts the server with context for graceful shutdown
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", map[string]any{"addr": s.addr})
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
