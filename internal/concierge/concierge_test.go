package concierge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/oasis-hotel/portal/internal/backend"
	apperrors "github.com/oasis-hotel/portal/pkg/util/errorutil"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	transport, err := backend.New(backend.Options{BaseURL: srv.URL, Service: ServiceName})
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(transport)
}

func TestAsk(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rag/ask" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["question"] != "When is breakfast?" {
			t.Errorf("unexpected question %q", req["question"])
		}
		_, _ = w.Write([]byte(`{"type":"concierge_response","answer":"7 to 10am"}`))
	}))

	answer, err := c.Ask(context.Background(), "When is breakfast?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "7 to 10am" {
		t.Fatalf("unexpected answer %q", answer)
	}
}

func TestAskEnvelopedAnswer(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"answer":"pool opens at 8"}}`))
	}))
	answer, err := c.Ask(context.Background(), "pool?")
	if err != nil || answer != "pool opens at 8" {
		t.Fatalf("unexpected %q %v", answer, err)
	}
}

func TestAskRejectsBlank(t *testing.T) {
	c := NewClient(nil)
	if _, err := c.Ask(context.Background(), "  "); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIngestSendsPDFField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rag/ingest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		file, header, err := r.FormFile("pdf")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		if header.Filename != "policy.pdf" || string(content) != "%PDF-1.4" {
			t.Errorf("unexpected upload %s %q", header.Filename, content)
		}
		_, _ = w.Write([]byte(`{"message":"PDF ingested successfully","file":"policy.pdf"}`))
	}))

	result, err := c.Ingest(context.Background(), "/tmp/policy.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Message != "PDF ingested successfully" || result.File != "policy.pdf" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestIngestRejectsNonPDF(t *testing.T) {
	if _, err := NewClient(nil).Ingest(context.Background(), "notes.txt", strings.NewReader("x")); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type fakeAsker struct {
	answer string
	err    error
	block  chan struct{}
}

func (f *fakeAsker) Ask(ctx context.Context, question string) (string, error) {
	if f.block != nil {
		<-f.block
	}
	return f.answer, f.err
}

func TestWidgetConversation(t *testing.T) {
	w := NewWidget(&fakeAsker{answer: "Parking is free."}, nil)

	msgs := w.Messages()
	if len(msgs) != 1 || msgs[0].Text != Greeting || msgs[0].Author != AuthorBot {
		t.Fatalf("expected greeting, got %+v", msgs)
	}

	if _, ok := w.Send(context.Background(), "   "); ok {
		t.Fatal("blank input must be ignored")
	}

	reply, ok := w.Send(context.Background(), "Is parking free?")
	if !ok || reply.Text != "Parking is free." {
		t.Fatalf("unexpected reply %+v", reply)
	}
	msgs = w.Messages()
	if len(msgs) != 3 || msgs[1].Author != AuthorUser || msgs[1].Text != "Is parking free?" {
		t.Fatalf("unexpected conversation %+v", msgs)
	}
	if msgs[0].ID == msgs[1].ID {
		t.Fatal("message ids must be unique")
	}
}

func TestWidgetFallback(t *testing.T) {
	w := NewWidget(&fakeAsker{err: errors.New("connection refused")}, nil)
	reply, ok := w.Send(context.Background(), "hello")
	if !ok || reply.Text != Fallback || reply.Author != AuthorBot {
		t.Fatalf("expected fallback, got %+v", reply)
	}
}

func TestWidgetLoading(t *testing.T) {
	asker := &fakeAsker{answer: "yes", block: make(chan struct{})}
	w := NewWidget(asker, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Send(context.Background(), "spa?")
	}()

	for !w.Loading() {
		runtime.Gosched()
	}
	close(asker.block)
	wg.Wait()
	if w.Loading() {
		t.Fatal("expected idle after answer")
	}
}

func TestWidgetKeepsLatestMessages(t *testing.T) {
	w := NewWidget(&fakeAsker{answer: "ok"}, nil)
	w.limit = 4

	for _, q := range []string{"one", "two", "three"} {
		w.Send(context.Background(), q)
	}

	msgs := w.Messages()
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "two" || msgs[2].Text != "three" || msgs[3].Author != AuthorBot {
		t.Fatalf("expected the latest exchanges, got %+v", msgs)
	}
}
