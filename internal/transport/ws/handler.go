package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inflecto-api/internal/assessment"
	"inflecto-api/internal/metrics"
	"inflecto-api/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	closeWait  = time.Second

	recordTimeout = 2 * time.Second
)

// ResultRecorder stores the result of a session that carried an assessment id
type ResultRecorder interface {
	RecordResult(ctx context.Context, assessmentID string, result model.Result) error
}

// Options tunes the protocol handler
type Options struct {
	CloseGrace      time.Duration // Delay between complete and the close frame
	MaxMessageBytes int64
	AllowedOrigins  []string // Empty or "*" allows any origin
}

// Handler serves the AI readiness assessment socket
type Handler struct {
	hub      *Hub
	machine  *assessment.Machine
	recorder ResultRecorder
	metrics  *metrics.Collector
	logger   *slog.Logger
	opts     Options
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. recorder and m may be nil.
func NewHandler(hub *Hub, machine *assessment.Machine, recorder ResultRecorder, m *metrics.Collector, logger *slog.Logger, opts Options) *Handler {
	h := &Handler{
		hub:      hub,
		machine:  machine,
		recorder: recorder,
		metrics:  m,
		logger:   logger,
		opts:     opts,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range h.opts.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// AIReadinessWS handles GET /ws/ai-readiness
func (h *Handler) AIReadinessWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn := newConnection(uuid.NewString(), h.hub)
	h.hub.Register(conn)
	h.metrics.ConnectionOpened()
	h.logger.Info("assessment connection opened", "conn_id", conn.ID, "remote", r.RemoteAddr)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// readPump owns the connection's session; nothing else mutates it
func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	log := h.logger.With("conn_id", conn.ID)
	defer func() {
		conn.finish()
		h.hub.Unregister(conn)
		h.metrics.ConnectionClosed()
		wsConn.Close()
		log.Info("assessment connection closed")
	}()

	if h.opts.MaxMessageBytes > 0 {
		wsConn.SetReadLimit(h.opts.MaxMessageBytes)
	}
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	var session assessment.Session
	for {
		msgType, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("websocket read failed", "error", err)
			}
			return
		}
		if conn.Closing() {
			continue
		}
		// Any traffic proves the peer is alive.
		wsConn.SetReadDeadline(time.Now().Add(pongWait))

		ev, err := decodeEvent(msgType, data)
		if err != nil {
			log.Debug("malformed message", "error", err)
			h.metrics.ProtocolError()
			h.send(conn, assessment.NewError(assessment.ErrTextInvalidFormat))
			continue
		}

		next, out := h.machine.Transition(session, ev)
		h.dispatch(log, conn, next, ev, out)
		session = next
	}
}

func (h *Handler) dispatch(log *slog.Logger, conn *Connection, s assessment.Session, ev assessment.Event, out assessment.Output) {
	if len(out.Messages) > 0 && ev.Type == assessment.EventStart {
		h.metrics.SessionStarted(string(s.Persona), s.Total() > 0)
		log.Info("assessment started", "persona", s.Persona, "total", s.Total())
	}

	// Record before the client hears complete so a finalize call can find it.
	if out.Result != nil {
		h.metrics.SessionScored(string(out.Result.Stage), out.Result.Score)
		log.Info("assessment complete", "persona", s.Persona, "score", out.Result.Score, "stage", out.Result.Stage)
		h.record(log, s, *out.Result)
	}

	for _, msg := range out.Messages {
		h.send(conn, msg)
	}

	switch out.Close {
	case assessment.CloseComplete:
		conn.CloseAfter(h.opts.CloseGrace, websocket.CloseNormalClosure, string(assessment.CloseComplete))
	case assessment.CloseNoQuestions:
		h.metrics.SessionRejected()
		log.Info("assessment rejected", "persona", s.Persona)
		conn.Close(websocket.CloseNormalClosure, string(assessment.CloseNoQuestions))
	}
}

func (h *Handler) record(log *slog.Logger, s assessment.Session, result model.Result) {
	if h.recorder == nil || s.AssessmentID == nil || *s.AssessmentID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := h.recorder.RecordResult(ctx, *s.AssessmentID, result); err != nil {
		log.Warn("failed to record assessment result", "assessment_id", *s.AssessmentID, "error", err)
	}
}

func (h *Handler) send(conn *Connection, msg assessment.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode message", "conn_id", conn.ID, "type", msg.MessageType(), "error", err)
		return
	}
	conn.Send(data)
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case f := <-conn.send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if f.close != nil {
				if err := wsConn.WriteMessage(websocket.CloseMessage, f.closeMessage()); err != nil {
					wsConn.Close()
					return
				}
				// Give the peer a moment to answer the close before the read loop gives up.
				wsConn.SetReadDeadline(time.Now().Add(closeWait))
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, f.data); err != nil {
				wsConn.Close()
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				wsConn.Close()
				return
			}

		case <-conn.done:
			return
		}
	}
}

var errNotObject = errors.New("message is not a JSON object")

// inbound is the wire shape of a client event
type inbound struct {
	Type         assessment.EventType `json:"type"`
	Persona      model.Persona        `json:"persona"`
	AssessmentID json.RawMessage      `json:"assessmentId"`
	Answer       model.RawAnswer      `json:"answer"`
}

func decodeEvent(msgType int, data []byte) (assessment.Event, error) {
	if msgType != websocket.TextMessage {
		return assessment.Event{}, errNotObject
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return assessment.Event{}, errNotObject
	}

	var in inbound
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return assessment.Event{}, err
	}
	id, err := decodeAssessmentID(in.AssessmentID)
	if err != nil {
		return assessment.Event{}, err
	}
	return assessment.Event{
		Type:         in.Type,
		Persona:      in.Persona,
		AssessmentID: id,
		Answer:       in.Answer,
	}, nil
}

// decodeAssessmentID accepts a string or a number and keeps its text
func decodeAssessmentID(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, errors.New("assessmentId must be a string or a number")
	}
	s := n.String()
	return &s, nil
}
