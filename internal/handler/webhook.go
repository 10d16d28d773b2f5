package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/arenaretail/pos/internal/domain"
)

// WebhookHandler receives user sync events from the identity provider so
// cashier profiles stay current without blocking checkout.
type WebhookHandler struct {
	users  domain.UserStore
	secret []byte
	logger *slog.Logger
}

func NewWebhookHandler(users domain.UserStore, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{users: users, secret: []byte(secret), logger: logger}
}

type identityEvent struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// verifySignature checks the X-Webhook-Signature header, a hex HMAC-SHA256
// of the raw body under the shared secret.
func (h *WebhookHandler) verifySignature(body []byte, header string) bool {
	header = strings.TrimPrefix(header, "sha256=")
	sig, err := hex.DecodeString(header)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(sig, mac.Sum(nil))
}

// SyncIdentity handles POST /webhooks/identity
func (h *WebhookHandler) SyncIdentity(w http.ResponseWriter, r *http.Request) {
	const op = "webhook.sync_identity"

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "failed to read request body"))
		return
	}

	if !h.verifySignature(body, r.Header.Get("X-Webhook-Signature")) {
		ErrorResponse(w, r, h.logger, domain.Unauthorized(op, "invalid webhook signature"))
		return
	}

	var event identityEvent
	if err := unmarshalJSON(body, &event); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if event.Subject == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "subject is required"))
		return
	}

	user := &domain.User{Subject: event.Subject, Name: event.Name, Email: event.Email}
	if err := h.users.UpsertUser(r.Context(), user); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.logger.Info("identity synced", "subject", event.Subject)
	respondJSON(w, http.StatusOK, map[string]string{"id": user.ID.String()})
}
