package telemetry

import (
	"context"
	"testing"
)

func TestSetupDisabled(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Setup(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}
	defer shutdown(ctx)

	_, span := Tracer("test").Start(ctx, "noop")
	if span.SpanContext().IsValid() {
		t.Error("disabled tracing should produce invalid span contexts")
	}
	span.End()
}
