package db

import (
	"context"
	"errors"
	"testing"
	"time"
)

type flakyPinger struct {
	failures int
	calls    int
}

func (p *flakyPinger) Ping(_ context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("not yet")
	}
	return nil
}

func TestPollReady_Immediate(t *testing.T) {
	p := &flakyPinger{}
	if err := PollReady(context.Background(), p, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.calls != 1 {
		t.Errorf("calls = %d, want 1", p.calls)
	}
}

func TestPollReady_Retries(t *testing.T) {
	p := &flakyPinger{failures: 2}
	if err := PollReady(context.Background(), p, 5*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.calls != 3 {
		t.Errorf("calls = %d, want 3", p.calls)
	}
}

func TestPollReady_Timeout(t *testing.T) {
	p := &flakyPinger{failures: 1 << 30}
	err := PollReady(context.Background(), p, 150*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"users", true},
		{"test-users", true},
		{"users_v2.bak", true},
		{"_internal", true},
		{"", false},
		{".hidden", false},
		{"..", false},
		{"a/b", false},
		{`a\b`, false},
		{"with space", false},
	}
	for _, tc := range tests {
		err := ValidateName(tc.name)
		if tc.ok && err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", tc.name, err)
		}
	}
}

func TestError_Format(t *testing.T) {
	base := errors.New("disk full")
	err := &Error{Op: OpSave, Key: "users", Err: base}
	if err.Error() != "SAVE users: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("expected Unwrap to expose the cause")
	}
	noKey := &Error{Op: OpList, Err: base}
	if noKey.Error() != "LIST: disk full" {
		t.Errorf("Error() = %q", noKey.Error())
	}
}
