package slack

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

type Server struct {
	messageHandler  *MessageHandler
	approvalHandler *ApprovalHandler
	signingSecret   string
	mux             *http.ServeMux
	httpServer      *http.Server
}

func NewServer(messageHandler *MessageHandler, approvalHandler *ApprovalHandler, signingSecret string) *Server {
	log.Printf("🔐 Slack signing secret configured (length: %d)", len(signingSecret))
	s := &Server{
		messageHandler:  messageHandler,
		approvalHandler: approvalHandler,
		signingSecret:   signingSecret,
		mux:             http.NewServeMux(),
	}
	s.mux.HandleFunc("/slack/events", s.handleEvents)
	s.mux.HandleFunc("/health", s.healthCheck)
	return s
}

// Handler exposes the routes for embedding or tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Error reading body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Verify the request signature
	sv, err := slack.NewSecretsVerifier(r.Header, s.signingSecret)
	if err != nil {
		log.Printf("❌ Error creating secrets verifier: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if _, err := sv.Write(body); err != nil {
		log.Printf("❌ Error writing to verifier: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := sv.Ensure(); err != nil {
		log.Printf("❌ Error verifying signature: %v", err)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		log.Printf("❌ Error parsing event: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Handle URL verification challenge
	if eventsAPIEvent.Type == slackevents.URLVerification {
		var r *slackevents.ChallengeResponse
		err := json.Unmarshal(body, &r)
		if err != nil {
			log.Printf("❌ Error unmarshaling challenge: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		log.Printf("✅ Responding to URL verification challenge")
		w.Header().Set("Content-Type", "text")
		w.Write([]byte(r.Challenge))
		return
	}

	if eventsAPIEvent.Type == slackevents.CallbackEvent {
		innerEvent := eventsAPIEvent.InnerEvent
		log.Printf("📬 Inner event type: %s", innerEvent.Type)

		// Slack retries unless acknowledged within three seconds, so work runs detached
		go s.dispatch(innerEvent)
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) dispatch(innerEvent slackevents.EventsAPIInnerEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch ev := innerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		log.Printf("💬 Message event received")
		if err := s.messageHandler.HandleMessage(ctx, ev); err != nil {
			log.Printf("❌ Error handling message: %v", err)
		}

	case *slackevents.AppMentionEvent:
		log.Printf("📣 App mention event received")
		if err := s.messageHandler.HandleAppMention(ctx, ev); err != nil {
			log.Printf("❌ Error handling mention: %v", err)
		}

	case *slackevents.ReactionAddedEvent:
		log.Printf("👍 Reaction added event received")
		if err := s.approvalHandler.HandleReaction(ctx, ev); err != nil {
			log.Printf("❌ Error handling reaction: %v", err)
		}

	default:
		log.Printf("⚠️ Unsupported event type: %v", innerEvent.Type)
	}
}

// Start starts the Slack event server and blocks until it stops
func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 Slack server starting on port %s", port)
	log.Printf("📡 Event endpoint: http://localhost:%s/slack/events", port)
	log.Printf("🏥 Health check: http://localhost:%s/health", port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting events and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// healthCheck provides a simple health check endpoint
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
