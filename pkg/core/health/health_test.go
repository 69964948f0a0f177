package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestNewChecker(t *testing.T) {
	checker := NewChecker("reader", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "parse ok"}
	})

	if checker.Name() != "reader" {
		t.Errorf("Name() = %v, want reader", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy || result.Message != "parse ok" {
		t.Errorf("Check() = %+v", result)
	}

	if CheckFunc(nil).Name() != "unknown" {
		t.Error("CheckFunc name should be unknown")
	}
}

func TestRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"no checks", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("sexpad", "0.1.0")
			for i, s := range tt.statuses {
				status := s
				registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}

			report := registry.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Errorf("Checks count = %v, want %v", len(report.Checks), len(tt.statuses))
			}
			if report.Service != "sexpad" || report.Version != "0.1.0" {
				t.Errorf("report identity = %s/%s", report.Service, report.Version)
			}
		})
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry("sexpad", "0.1.0")
	registry.Register(AlwaysHealthy("temp"))
	registry.Unregister("temp")

	if report := registry.CheckWithTimeout(time.Second); len(report.Checks) != 0 {
		t.Errorf("After unregister: Checks count = %v, want 0", len(report.Checks))
	}
}

func TestRegistry_ConcurrentChecks(t *testing.T) {
	registry := NewRegistry("sexpad", "0.1.0")

	var counter int32
	for i := 0; i < 5; i++ {
		registry.RegisterFunc("check"+string(rune('A'+i)), func(ctx context.Context) CheckResult {
			atomic.AddInt32(&counter, 1)
			time.Sleep(10 * time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		})
	}

	start := time.Now()
	report := registry.Check(context.Background())

	if atomic.LoadInt32(&counter) != 5 || len(report.Checks) != 5 {
		t.Errorf("ran %d checks, reported %d", counter, len(report.Checks))
	}
	if time.Since(start) > 200*time.Millisecond {
		t.Error("checks should run concurrently")
	}
	for _, c := range report.Checks {
		if c.Name == "" || c.Timestamp.IsZero() {
			t.Errorf("check result not stamped: %+v", c)
		}
	}
}

func TestPingCheck(t *testing.T) {
	ok := PingCheck("store", pingFunc(func(ctx context.Context) error { return nil }))
	if got := ok.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("healthy ping: %+v", got)
	}

	failing := PingCheck("store", pingFunc(func(ctx context.Context) error { return errors.New("database is locked") }))
	got := failing.Check(context.Background())
	if got.Status != StatusUnhealthy || got.Message != "database is locked" {
		t.Errorf("failing ping: %+v", got)
	}
}
