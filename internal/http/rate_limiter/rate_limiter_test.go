package rate_limiter

import (
	"testing"
	"time"
)

func TestGetVisitor_SharedPerIP(t *testing.T) {
	t.Cleanup(CleanupAllVisitors)
	Configure(1, 2)

	a := GetVisitor("10.0.0.1")
	if a != GetVisitor("10.0.0.1") {
		t.Fatal("expected the same limiter for the same ip")
	}
	if a == GetVisitor("10.0.0.2") {
		t.Fatal("expected a different limiter for another ip")
	}

	if !a.Allow() || !a.Allow() {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if a.Allow() {
		t.Error("expected third request to be limited")
	}
}

func TestCleanup_RemovesIdleVisitors(t *testing.T) {
	t.Cleanup(CleanupAllVisitors)
	GetVisitor("10.0.0.3")

	mu.Lock()
	visitors["10.0.0.3"].lastSeen = time.Now().Add(-10 * time.Minute)
	mu.Unlock()
	GetVisitor("10.0.0.4")

	cleanup(5 * time.Minute)

	mu.Lock()
	defer mu.Unlock()
	if _, ok := visitors["10.0.0.3"]; ok {
		t.Error("expected idle visitor to be removed")
	}
	if _, ok := visitors["10.0.0.4"]; !ok {
		t.Error("expected active visitor to be kept")
	}
}
