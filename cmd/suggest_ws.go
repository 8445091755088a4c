package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"travelFront/internal/models"
	"travelFront/internal/services"
)

const (
	readLimit     = 4 << 10
	readDeadline  = 120 * time.Second // extended by every pong
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type suggestRequest struct {
	Field    string `json:"field"`
	Query    string `json:"query"`
	PageType string `json:"page_type"`
}

type suggestResponse struct {
	Field   string   `json:"field"`
	Query   string   `json:"query"`
	Results []string `json:"results"`
}

// suggestConn serves one browser tab. Every input field gets its own
// Typeahead, so typing in "from" never cancels a lookup for "to".
type suggestConn struct {
	conn    *websocket.Conn
	backend services.SuggestionBackend
	log     services.Logger

	writeMu sync.Mutex

	mu     sync.Mutex
	fields map[string]*services.Typeahead
	latest map[string]uint64
}

// SuggestionWebSocketHandler streams location suggestions while the user types.
func (app *application) SuggestionWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Suggestions WS upgrade error:", err)
		return
	}

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	sc := &suggestConn{
		conn:    conn,
		backend: app.backend,
		log:     stdLogger{info: app.infoLog, err: app.errorLog},
		fields:  make(map[string]*services.Typeahead),
		latest:  make(map[string]uint64),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go sc.pingLoop(ctx)
	sc.readLoop(ctx)
	cancel()
	sc.close()
}

func (sc *suggestConn) readLoop(ctx context.Context) {
	for {
		var req suggestRequest
		if err := sc.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sc.log.Errorf("suggestions ws read: %v", err)
			}
			return
		}
		if req.Field == "" {
			req.Field = "from"
		}
		pageType, ok := models.ParseSearchType(req.PageType)
		if !ok {
			pageType = models.SearchAir
		}
		go sc.answer(ctx, sc.typeahead(req.Field), sc.begin(req.Field), req, pageType)
	}
}

func (sc *suggestConn) answer(ctx context.Context, t *services.Typeahead, seq uint64, req suggestRequest, pageType models.SearchType) {
	results, err := t.Suggest(ctx, req.Query, pageType)
	if errors.Is(err, models.ErrSuperseded) {
		return
	}
	if err != nil {
		sc.log.Errorf("suggestions ws %s: %v", req.Field, err)
		return
	}
	if err := sc.deliver(req.Field, seq, suggestResponse{Field: req.Field, Query: req.Query, Results: results}); err != nil {
		sc.log.Errorf("suggestions ws write: %v", err)
	}
}

// begin numbers a new query for field.
func (sc *suggestConn) begin(field string) uint64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.latest[field]++
	return sc.latest[field]
}

func (sc *suggestConn) current(field string, seq uint64) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.latest[field] == seq
}

// deliver writes an answer unless a newer query for the same field came in
// meanwhile. The check runs under the write lock so an older answer can
// never follow a newer one on the wire.
func (sc *suggestConn) deliver(field string, seq uint64, resp suggestResponse) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	if !sc.current(field, seq) {
		return nil
	}
	_ = sc.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return sc.conn.WriteJSON(resp)
}

func (sc *suggestConn) typeahead(field string) *services.Typeahead {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	t, ok := sc.fields[field]
	if !ok {
		t = services.NewTypeahead(sc.backend, sc.log)
		sc.fields[field] = t
	}
	return t
}

func (sc *suggestConn) pingLoop(ctx context.Context) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sc.writeMu.Lock()
			err := sc.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline))
			sc.writeMu.Unlock()
			if err != nil {
				_ = sc.conn.Close()
				return
			}
		}
	}
}

func (sc *suggestConn) close() {
	sc.mu.Lock()
	for _, t := range sc.fields {
		t.Close()
	}
	sc.mu.Unlock()

	sc.writeMu.Lock()
	_ = sc.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeDeadline),
	)
	sc.writeMu.Unlock()
	_ = sc.conn.Close()
}
