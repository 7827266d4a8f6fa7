package statusd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sherlocksearch/holmes/pkg/scheduler"
)

type fakeLister struct {
	n     int
	state scheduler.State
	depth int
	known bool
}

func (f fakeLister) Len() int { return f.n }
func (f fakeLister) HostState(scheduler.HostKey) (scheduler.State, int, bool) {
	return f.state, f.depth, f.known
}

func TestHealthz(t *testing.T) {
	s := New(fakeLister{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
}

func TestQueueReportsHostCount(t *testing.T) {
	s := New(fakeLister{n: 3})
	req := httptest.NewRequest(http.MethodGet, "/queue", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if int(body["hosts"].(float64)) != 3 {
		t.Fatalf("got %v", body)
	}
}

func TestHostNotFound(t *testing.T) {
	s := New(fakeLister{known: false})
	req := httptest.NewRequest(http.MethodGet, "/hosts/example.com", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d", rec.Code)
	}
}

func TestHostFound(t *testing.T) {
	s := New(fakeLister{state: scheduler.StateActive, depth: 4, known: true})
	req := httptest.NewRequest(http.MethodGet, "/hosts/example.com", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["state"] != "active" || int(body["queueDepth"].(float64)) != 4 {
		t.Fatalf("got %v", body)
	}
}
