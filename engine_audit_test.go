package authgate

import (
	"context"
	"testing"
	"time"
)

func collectEvent(t *testing.T, sink *ChannelSink) AuditEvent {
	t.Helper()

	select {
	case event := <-sink.Events():
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
		return AuditEvent{}
	}
}

func TestEngineEmitsAuditEvents(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := newFakeStore()
	seedAccount(t, store, "u1", "alice", "alice@example.com", "password-1")
	sink := NewChannelSink(16)

	cfg := testConfig()
	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithStore(store).
		WithHasher(plainHasher{}).
		WithMailer(&captureMailer{}).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	ctx := WithClientIP(context.Background(), "192.0.2.7")

	if _, err := engine.Login(ctx, "alice", "wrong"); err == nil {
		t.Fatal("expected login failure")
	}
	event := collectEvent(t, sink)
	if event.EventType != "login_failure" {
		t.Fatalf("event type = %s", event.EventType)
	}
	if event.Success {
		t.Fatal("failure event marked successful")
	}
	if event.IP != "192.0.2.7" {
		t.Fatalf("event IP = %s", event.IP)
	}
	if event.Error != "invalid_credentials" {
		t.Fatalf("event error = %s", event.Error)
	}

	if _, err := engine.Login(ctx, "alice", "password-1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	event = collectEvent(t, sink)
	if event.EventType != "login_success" || !event.Success {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.AccountID != "u1" {
		t.Fatalf("event account = %s", event.AccountID)
	}
	if event.Error != "" {
		t.Fatalf("success event carries error %q", event.Error)
	}
}

func TestAuditDisabledIsSafe(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := newFakeStore()
	seedAccount(t, store, "u1", "alice", "alice@example.com", "password-1")

	cfg := testConfig()
	cfg.Audit.Enabled = false
	engine := newTestEngine(t, rdb, store, &captureMailer{}, cfg)

	if _, err := engine.Login(context.Background(), "alice", "password-1"); err != nil {
		t.Fatalf("login with audit disabled failed: %v", err)
	}
	if engine.AuditDropped() != 0 {
		t.Fatal("disabled audit reported drops")
	}
}
