// Package web exposes the relay's HTTP surface: liveness, health, and
// status endpoints, a JSON statistics view, and the /notify webhook that
// ingests generation events from the AuraFX editors and forwards them to
// the outbound notifier.
package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sleepsweetly/aurafx-relay/notify"
	"github.com/sleepsweetly/aurafx-relay/stats"
)

const (
	serviceName  = "AuraFX Discord Bot"
	maxBodyBytes = 1 << 20 // 1MB

	// recentLimit caps the notifications included in the /stats payload.
	recentLimit = 5
)

// Server handles the relay's HTTP endpoints.
type Server struct {
	store    *stats.Store
	notifier notify.Notifier
	logger   *slog.Logger
	version  string
	secret   string
	started  time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithVersion sets the version string reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithSecret enables HMAC-SHA256 verification of the X-Signature-256
// header on /notify requests.
func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = secret }
}

// New creates a Server over the given store and notifier.
func New(store *stats.Store, notifier notify.Notifier, opts ...Option) *Server {
	s := &Server{
		store:    store,
		notifier: notifier,
		logger:   slog.Default(),
		version:  "dev",
		started:  time.Now(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler builds the chi router. CORS is wide open: the editors post
// from arbitrary browser origins.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Get("/stats", s.handleStats)
	r.Post("/notify", s.handleNotify)
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "AuraFX Bot is alive! Ready to receive notifications.")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
		"version": s.version,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := s.notifier.Status()
	tag := st.Tag
	if tag == "" {
		tag = "Not connected"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "online",
		"uptime": time.Since(s.started).Seconds(),
		"bot": map[string]any{
			"connected": st.Connected,
			"tag":       tag,
			"ping":      st.Latency.Milliseconds(),
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	rec := s.store.Snapshot()
	recent := rec.History
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"totalUses":           rec.TotalUses,
			"todayUses":           rec.TodayUses,
			"weeklyUses":          rec.WeeklyUses,
			"lastReset":           rec.LastReset,
			"mentionEnabled":      rec.MentionEnabled,
			"mentionUserId":       rec.MentionUserID,
			"recentNotifications": recent,
		},
	})
}

// handleNotify is the ingestion path: normalize the payload (both shapes
// the editors send), record the event, forward the embed, then the
// optional mention follow-up via the notifier.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body failed"})
		return
	}
	if !s.verifySignature(body, r.Header.Get("X-Signature-256")) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid signature"})
		return
	}

	var p notifyPayload
	if err := json.Unmarshal(body, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	ev, err := p.normalize()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing notification details."})
		return
	}

	// Invalid canvas images are dropped, never fatal: the notification
	// still goes out without the preview.
	var image *notify.Attachment
	if p.CanvasImage != "" {
		data, err := decodeCanvasImage(p.CanvasImage)
		if err != nil {
			s.logger.Warn("canvas image dropped", "error", err)
		} else {
			image = &notify.Attachment{Filename: previewFilename(), Data: data}
		}
	}

	receipt := s.store.RecordEvent(ev)
	s.logger.Info("generation event recorded",
		"skill", ev.SkillName, "source", ev.Source, "total", receipt.TotalUses)

	if err := s.notifier.Send(r.Context(), buildNotification(ev, receipt, image)); err != nil {
		var notFound *notify.ErrChannelNotFound
		if errors.As(err, &notFound) {
			s.logger.Error("notification channel missing", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Channel not found."})
			return
		}
		s.logger.Error("notification send failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to send Discord message."})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Notification sent."})
}

// verifySignature checks the X-Signature-256 header against the body.
// Returns true if verification passes or no secret is configured.
func (s *Server) verifySignature(body []byte, signature string) bool {
	if s.secret == "" {
		return true
	}
	if signature == "" {
		return false
	}
	// Strip optional "sha256=" prefix (GitHub-style).
	signature = strings.TrimPrefix(signature, "sha256=")
	decoded, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), decoded)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
