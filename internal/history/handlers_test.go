package history

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"calc-history-api/internal/testutil"
)

type listBody struct {
	OK   bool     `json:"ok"`
	Data []Record `json:"data"`
}

type messageBody struct {
	OK    bool   `json:"ok"`
	Msg   string `json:"msg"`
	Error string `json:"error"`
}

func TestListHandler(t *testing.T) {
	log := New(NewMemoryStore())
	for _, expr := range []string{"1", "2", "3"} {
		if _, err := log.AppendResult(context.Background(), expr, 1); err != nil {
			t.Fatalf("AppendResult: %v", err)
		}
	}

	h := NewHandler(log)
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/history", nil), http.HandlerFunc(h.List))

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var body listBody
	testutil.DecodeJSONBody(t, w.Body, &body)

	if !body.OK || len(body.Data) != 3 {
		t.Fatalf("expected 3 records, got ok=%t len=%d", body.OK, len(body.Data))
	}
	if body.Data[0].Expression != "3" {
		t.Fatalf("expected newest first, got %q", body.Data[0].Expression)
	}
}

func TestClearHandler(t *testing.T) {
	store := NewMemoryStore()
	log := New(store)
	if _, err := log.AppendResult(context.Background(), "1", 1); err != nil {
		t.Fatalf("AppendResult: %v", err)
	}

	h := NewHandler(log)
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/history/clear", nil), http.HandlerFunc(h.Clear))

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var body messageBody
	testutil.DecodeJSONBody(t, w.Body, &body)
	if !body.OK || body.Msg != "history cleared" {
		t.Fatalf("unexpected body %+v", body)
	}
	if log.Len() != 0 {
		t.Fatalf("expected empty log, got %d", log.Len())
	}
	if records := persisted(t, store); len(records) != 0 {
		t.Fatalf("expected empty persisted log, got %d", len(records))
	}
}

func TestClearHandlerReportsPersistFailure(t *testing.T) {
	h := NewHandler(New(failingStore{err: errors.New("read-only file system")}))

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/history/clear", nil), http.HandlerFunc(h.Clear))

	testutil.CheckResponseCode(t, http.StatusInternalServerError, w.Code)

	var body messageBody
	testutil.DecodeJSONBody(t, w.Body, &body)
	if body.OK || body.Error != "failed to persist history" {
		t.Fatalf("unexpected body %+v", body)
	}
}
