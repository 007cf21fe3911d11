package mockbackend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mgomes/pfind/internal/search"
	"github.com/mgomes/pfind/internal/view"
)

func newTestClient(t *testing.T) (*search.Client, *Server) {
	t.Helper()

	backend := New()
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	return search.NewClient(server.URL + "/search"), backend
}

func TestPonantEndToEnd(t *testing.T) {
	client, backend := newTestClient(t)

	outcome := client.Submit(context.Background(), search.Query{
		Company:     "PONANT",
		Designation: "Chief Executive Officer, Americas",
	})

	if outcome.Kind != search.KindResult {
		t.Fatalf("expected result, got %s (%s)", outcome.Kind, outcome.Message)
	}

	calls := backend.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}

	if calls[0].Method != http.MethodPost || calls[0].Path != "/search" {
		t.Errorf("expected POST /search, got %s %s", calls[0].Method, calls[0].Path)
	}

	expectedBody := `{"company":"PONANT","designation":"Chief Executive Officer, Americas"}`
	if string(calls[0].Body) != expectedBody {
		t.Errorf("expected body %s, got %s", expectedBody, calls[0].Body)
	}

	r, ok := view.FromOutcome(outcome)
	if !ok {
		t.Fatal("expected a renderable result")
	}

	if r.ConfidenceLabel() != "87%" {
		t.Errorf("expected '87%%', got '%s'", r.ConfidenceLabel())
	}

	if r.BarWidth() != "87%" {
		t.Errorf("expected bar width '87%%', got '%s'", r.BarWidth())
	}

	if r.SourcesLabel() != "3" {
		t.Errorf("expected sources used '3', got '%s'", r.SourcesLabel())
	}
}

func TestStringSourcesUsed(t *testing.T) {
	client, _ := newTestClient(t)

	outcome := client.Submit(context.Background(), search.Query{Company: "fareharbor", Designation: "Manager"})

	if outcome.Kind != search.KindResult {
		t.Fatalf("expected result, got %s", outcome.Kind)
	}

	if outcome.SourcesUsed != "LinkedIn, company site" {
		t.Errorf("expected string label, got '%s'", outcome.SourcesUsed)
	}
}

func TestNoMatch(t *testing.T) {
	client, _ := newTestClient(t)

	outcome := client.Submit(context.Background(), search.Query{Company: "Unknown Ltd", Designation: "CEO"})

	if outcome.Kind != search.KindApplicationError {
		t.Fatalf("expected application error, got %s", outcome.Kind)
	}

	if outcome.Message != noMatchError {
		t.Errorf("expected '%s', got '%s'", noMatchError, outcome.Message)
	}
}

func TestMissingFieldsReturnsBadRequest(t *testing.T) {
	backend := New()
	server := httptest.NewServer(backend.Handler())
	defer server.Close()

	res, err := http.Post(server.URL+"/search", "application/json", strings.NewReader(`{"company":"PONANT","designation":" "}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", res.StatusCode)
	}
}

func TestMalformedBody(t *testing.T) {
	backend := New()
	server := httptest.NewServer(backend.Handler())
	defer server.Close()

	res, err := http.Post(server.URL+"/search", "application/json", strings.NewReader(`{`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", res.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t)

	if err := client.Health(context.Background()); err != nil {
		t.Errorf("expected healthy mock backend, got %v", err)
	}
}

func TestAddOverridesAnswer(t *testing.T) {
	client, backend := newTestClient(t)

	backend.Add("Acme", search.Person{FirstName: "Ada", LastName: "Lovelace", Confidence: 0.5}, 2)

	outcome := client.Submit(context.Background(), search.Query{Company: " ACME ", Designation: "CTO"})
	if outcome.Kind != search.KindResult || outcome.Person.FirstName != "Ada" {
		t.Errorf("expected Ada, got %+v", outcome)
	}
}
