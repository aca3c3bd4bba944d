package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct{ err error }

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

type fakeChecker struct{ err error }

func (f *fakeChecker) HealthCheck(_ context.Context) error { return f.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&fakePinger{}, &fakeChecker{})

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("Status = %q, want %q", report.Status, Healthy)
	}
	if !report.Ready() {
		t.Error("expected Ready")
	}
	if report.Checks["index"] != CheckOK || report.Checks["embedding"] != CheckOK {
		t.Errorf("Checks = %v", report.Checks)
	}
}

func TestCheck_IndexDown(t *testing.T) {
	svc := New(&fakePinger{err: errors.New("refused")}, &fakeChecker{})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("Status = %q, want %q", report.Status, Degraded)
	}
	if report.Ready() {
		t.Error("degraded must not be ready")
	}
	if report.Checks["index"] != CheckError {
		t.Errorf("index check = %q, want error", report.Checks["index"])
	}
}

func TestCheck_EmbeddingDown(t *testing.T) {
	svc := New(&fakePinger{}, &fakeChecker{err: errors.New("quota")})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("Status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["embedding"] != CheckError {
		t.Errorf("embedding check = %q, want error", report.Checks["embedding"])
	}
}

func TestCheck_NilEmbeddingCheckerSkipped(t *testing.T) {
	svc := New(&fakePinger{}, nil)

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("Status = %q, want %q", report.Status, Healthy)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("embedding check should be absent when no checker is configured")
	}
}
