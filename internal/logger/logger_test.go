package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"email", "a@b.c", "Password", "hunter2", "access_token", "xyz", "dangling"})
	want := []interface{}{"email", "a@b.c", "Password", "[REDACTED]", "access_token", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("len mismatch: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kv[%d]: got=%v want=%v", i, got[i], want[i])
		}
	}
}
