package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"sponsor-platform/backend/internal/telemetry"
)

func TestNewEventEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewEventEmitter(nil)
	if em == nil {
		t.Fatal("NewEventEmitter(nil) returned nil")
	}
	if err := em.Emit(context.Background(), nil); err != nil {
		t.Errorf("noop Emit(ctx, nil): %v", err)
	}
	if err := em.Emit(context.Background(), &telemetry.Event{SponsorID: "sponsor-1"}); err != nil {
		t.Errorf("noop Emit(ctx, event): %v", err)
	}
}

func TestEmit_NilEvent_ReturnsNil(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	em := NewEventEmitter(provider)
	if err := em.Emit(context.Background(), nil); err != nil {
		t.Errorf("Emit(ctx, nil): %v", err)
	}
}

// recordCapture stores the last Record passed to Emit for assertion.
type recordCapture struct {
	rec otellog.Record
}

func (r *recordCapture) Emit(ctx context.Context, rec otellog.Record) {
	r.rec = rec
}

func TestEmit_AttributeAndBodyMapping(t *testing.T) {
	cap := &recordCapture{}
	em := NewEventEmitterWithLogger(cap)
	now := time.Now().UTC()
	event := &telemetry.Event{
		SponsorID: "sponsor-1",
		UserID:    "user-1",
		EventType: telemetry.EventRbacProvisioned,
		Source:    "backend",
		Severity:  telemetry.SeverityInfo,
		Metadata:  `{"roles":3}`,
		CreatedAt: now,
	}
	if err := em.Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	rec := cap.rec

	if got := rec.Body().AsString(); got != `{"roles":3}` {
		t.Errorf("body = %q, want %q", got, event.Metadata)
	}
	if !rec.Timestamp().Equal(now) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp(), now)
	}
	if rec.Severity() != otellog.SeverityInfo {
		t.Errorf("severity = %v, want %v", rec.Severity(), otellog.SeverityInfo)
	}

	attrs := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	want := map[string]string{
		"sponsor_id": "sponsor-1",
		"user_id":    "user-1",
		"event_type": telemetry.EventRbacProvisioned,
		"source":     "backend",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %s = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestEmit_ErrorSeverity(t *testing.T) {
	cap := &recordCapture{}
	em := NewEventEmitterWithLogger(cap)
	event := telemetry.NewEvent("sponsor-1", "", telemetry.EventSponsorValidationFailed)
	event.Severity = telemetry.SeverityError

	if err := em.Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if cap.rec.Severity() != otellog.SeverityError {
		t.Errorf("severity = %v, want %v", cap.rec.Severity(), otellog.SeverityError)
	}
	if cap.rec.SeverityText() != telemetry.SeverityError {
		t.Errorf("severity text = %q, want %q", cap.rec.SeverityText(), telemetry.SeverityError)
	}
}

func TestEmit_ZeroTimestampDefaultsToNow(t *testing.T) {
	cap := &recordCapture{}
	em := NewEventEmitterWithLogger(cap)
	event := &telemetry.Event{SponsorID: "sponsor-1", EventType: telemetry.EventSponsorSaved}

	before := time.Now().UTC()
	if err := em.Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if cap.rec.Timestamp().Before(before) {
		t.Errorf("timestamp %v should not be before %v", cap.rec.Timestamp(), before)
	}
}

func TestEmit_EmptyFieldsOmitted(t *testing.T) {
	cap := &recordCapture{}
	em := NewEventEmitterWithLogger(cap)
	event := &telemetry.Event{EventType: telemetry.EventSponsorSaved}

	if err := em.Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	count := 0
	cap.rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		count++
		return true
	})
	if count != 1 {
		t.Errorf("attribute count = %d, want 1 (only event_type)", count)
	}
}

func TestNewEventEmitterWithLogger_Nil_ReturnsNoop(t *testing.T) {
	em := NewEventEmitterWithLogger(nil)
	if err := em.Emit(context.Background(), telemetry.NewEvent("s", "u", "e")); err != nil {
		t.Errorf("noop Emit: %v", err)
	}
}
