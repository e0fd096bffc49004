package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mitchellh/mapstructure"
)

// Telex session ids are namespaced so they never collide with web chat cookies.
const (
	telexSessionPrefix  = "telex:"
	defaultTelexSession = "default-session"
	errorTelexSession   = "error-session"
)

// Webhook event types reported by Telex.
const (
	EventMessageDelivered = "message_delivered"
	EventMessageRead      = "message_read"
	EventMessageFailed    = "message_failed"
)

type telexRequest struct {
	Message struct {
		Text string `mapstructure:"text"`
	} `mapstructure:"message"`
	SessionID string `mapstructure:"sessionId"`
}

type telexReply struct {
	Text string `json:"text"`
}

type telexResponse struct {
	Reply     telexReply `json:"reply"`
	SessionID string     `json:"sessionId"`
}

type telexEvent struct {
	Type string `mapstructure:"type"`
}

// decodeLoose reads a JSON object and decodes it into out, tolerating
// scalar type drift (numbers for strings) and unknown fields.
func decodeLoose(r *http.Request, out any) error {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("invalid json: not an object")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// TelexA2A handles POST /telex/a2a: {message:{text}, sessionId} -> {reply:{text}, sessionId}.
func (s *Server) TelexA2A(w http.ResponseWriter, r *http.Request) {
	var req telexRequest
	if err := decodeLoose(r, &req); err != nil {
		s.logger.Warn("telex: invalid request body", "err", err)
		writeJSON(w, http.StatusOK, telexResponse{
			Reply:     telexReply{Text: ReplyTelexApology},
			SessionID: errorTelexSession,
		}, s.logger)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultTelexSession
	}
	s.logger.Debug("telex: a2a request", "session_id", sessionID)

	reply, err := s.Engine.HandleMessage(r.Context(), telexSessionPrefix+sessionID, req.Message.Text)
	if err != nil {
		s.logger.Error("telex: turn failed", "session_id", sessionID, "err", err)
		reply = ReplyTelexApology
	}
	writeJSON(w, http.StatusOK, telexResponse{
		Reply:     telexReply{Text: reply},
		SessionID: sessionID,
	}, s.logger)
}

// TelexWebhook handles POST /telex/webhook delivery events.
func (s *Server) TelexWebhook(w http.ResponseWriter, r *http.Request) {
	var ev telexEvent
	if err := decodeLoose(r, &ev); err != nil {
		s.logger.Error("telex: webhook decode failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error"}, s.logger)
		return
	}

	switch ev.Type {
	case EventMessageDelivered:
		s.logger.Info("telex: message delivered")
	case EventMessageRead:
		s.logger.Info("telex: message read")
	case EventMessageFailed:
		s.logger.Warn("telex: message failed to deliver")
	default:
		s.logger.Debug("telex: unhandled webhook event", "type", ev.Type)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"}, s.logger)
}
