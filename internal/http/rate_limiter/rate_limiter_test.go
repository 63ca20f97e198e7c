package rate_limiter

import "testing"

func TestGetVisitorBurst(t *testing.T) {
	t.Cleanup(CleanupAllVisitors)
	CleanupAllVisitors()

	l := GetVisitor("192.0.2.1")
	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if GetVisitor("192.0.2.1").Allow() {
		t.Error("fourth immediate request should be limited")
	}
	if !GetVisitor("192.0.2.2").Allow() {
		t.Error("other visitors must have their own limiter")
	}
}
