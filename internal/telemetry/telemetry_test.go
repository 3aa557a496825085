package telemetry

import (
	"context"
	"errors"
	"testing"
)

func TestStart_DefaultBuildIsNoop(t *testing.T) {
	ctx := context.Background()
	gotCtx, span := Start(ctx, "discover")
	if gotCtx != ctx {
		t.Errorf("Start() returned a different context in the default (non-otel) build")
	}
	span.SetError(errors.New("boom"))
	span.End()
}

func TestShutdown_DefaultBuildIsNoop(t *testing.T) {
	if err := Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v, want nil", err)
	}
}
