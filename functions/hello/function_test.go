package hello

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHelloHandlerGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	helloHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := rr.Body.String(); body != Greeting {
		t.Fatalf("expected %q, got %q", Greeting, body)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain, got %q", ct)
	}
}

func TestHelloHandlerIgnoresInput(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?name=Alice", strings.NewReader(`{"name":"Bob"}`))
	rr := httptest.NewRecorder()

	helloHandler(rr, req)

	if body := rr.Body.String(); body != Greeting {
		t.Fatalf("expected %q, got %q", Greeting, body)
	}
}

func TestHelloHandlerRejectsOtherMethods(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/", nil)
			rr := httptest.NewRecorder()

			helloHandler(rr, req)

			if rr.Code != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405, got %d", rr.Code)
			}
			if allow := rr.Header().Get("Allow"); allow != http.MethodGet {
				t.Fatalf("expected Allow GET, got %q", allow)
			}
			if strings.Contains(rr.Body.String(), Greeting) {
				t.Fatal("non-GET must not return the greeting")
			}
		})
	}
}
