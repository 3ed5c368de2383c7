package mailer

import (
	"strings"
	"testing"
)

func TestNewSMTPValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing host", Config{Port: 587, From: "noreply@example.com"}},
		{"bad port", Config{Host: "smtp.example.com", Port: 0, From: "noreply@example.com"}},
		{"port too large", Config{Host: "smtp.example.com", Port: 70000, From: "noreply@example.com"}},
		{"missing from", Config{Host: "smtp.example.com", Port: 587}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSMTP(tt.cfg); err == nil {
				t.Fatal("expected config error")
			}
		})
	}

	if _, err := NewSMTP(Config{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@example.com", "alice@example.com", "Password reset code", "line one\nline two\n"))

	for _, want := range []string{
		"From: noreply@example.com\r\n",
		"To: alice@example.com\r\n",
		"Subject: Password reset code\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	header, body, ok := strings.Cut(msg, "\r\n\r\n")
	if !ok {
		t.Fatal("no header/body separator")
	}
	if strings.Contains(header, "line one") {
		t.Fatal("body leaked into header")
	}
	if body != "line one\r\nline two\r\n" {
		t.Fatalf("bare newlines not normalized: %q", body)
	}
}
