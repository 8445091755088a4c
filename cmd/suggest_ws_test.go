package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"travelFront/internal/backend"
)

func TestSuggestionWebSocketPerField(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search/suggestions/" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query().Get("query")
		json.NewEncoder(w).Encode(map[string][]string{
			"results": {q + " (" + r.URL.Query().Get("page_type") + ")"},
		})
	}))
	defer upstream.Close()

	client, err := backend.NewClient(nil, upstream.URL, time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	app := &application{
		infoLog:  log.New(io.Discard, "", 0),
		errorLog: log.New(io.Discard, "", 0),
		backend:  client,
	}
	srv := httptest.NewServer(http.HandlerFunc(app.SuggestionWebSocketHandler))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(suggestRequest{Field: "from", Query: "Моск", PageType: "train"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(suggestRequest{Field: "to", Query: "Сочи", PageType: "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := map[string][]string{}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for len(got) < 2 {
		var resp suggestResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		got[resp.Field] = resp.Results
	}

	if len(got["from"]) != 1 || got["from"][0] != "Моск (train)" {
		t.Fatalf("unexpected from results: %v", got["from"])
	}
	if len(got["to"]) != 1 || got["to"][0] != "Сочи (air)" {
		t.Fatalf("unexpected to results: %v", got["to"])
	}
}

func TestSuggestConnDropsSupersededAnswer(t *testing.T) {
	sc := &suggestConn{latest: make(map[string]uint64)}

	first := sc.begin("from")
	second := sc.begin("from")
	other := sc.begin("to")

	// the older "from" answer is dropped before the connection is touched
	if err := sc.deliver("from", first, suggestResponse{Field: "from", Query: "М"}); err != nil {
		t.Fatalf("expected stale answer to be dropped silently, got %v", err)
	}
	if sc.current("from", first) {
		t.Fatalf("expected the first query to be superseded")
	}
	if !sc.current("from", second) || !sc.current("to", other) {
		t.Fatalf("expected the latest query per field to stay current")
	}
}
