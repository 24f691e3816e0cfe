package observability

import "testing"

func TestServiceName(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("OTEL_SERVICE_NAME", "")
		if got := ServiceName(); got != "calc-history-api" {
			t.Fatalf("expected %q, got %q", "calc-history-api", got)
		}
	})

	t.Run("from env", func(t *testing.T) {
		t.Setenv("OTEL_SERVICE_NAME", "calc-staging")
		if got := ServiceName(); got != "calc-staging" {
			t.Fatalf("expected %q, got %q", "calc-staging", got)
		}
	})
}
