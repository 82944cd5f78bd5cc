package store

import "testing"

func TestNumericKey_TimestampPrefix(t *testing.T) {
	t.Parallel()

	if got := NumericKey("job_1717243800123_ab12cd34"); got != 1717243800123 {
		t.Fatalf("expected timestamp segment 1717243800123, got %d", got)
	}
}

func TestNumericKey_HashFallback(t *testing.T) {
	t.Parallel()

	a := NumericKey("some-opaque-handle")
	b := NumericKey("some-opaque-handle")
	if a != b {
		t.Fatalf("key mapping not stable: %d vs %d", a, b)
	}
	if a <= 0 {
		t.Fatalf("expected positive key, got %d", a)
	}
	if NumericKey("another-handle") == a {
		t.Fatalf("distinct handles mapped to the same key")
	}
}

func TestNumericKey_WriteReadSymmetry(t *testing.T) {
	t.Parallel()

	// The same mapping must serve both paths: no per-call state.
	ids := []string{"job_1700000000000_deadbeef", "job_5_x", "legacy-id", "job_"}
	for _, id := range ids {
		if NumericKey(id) != NumericKey(id) {
			t.Fatalf("mapping for %q not deterministic", id)
		}
	}
}
