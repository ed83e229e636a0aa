package availability

import (
	"testing"
)

func TestAvailabilityKeyOrderIndependent(t *testing.T) {
	checkIn := date(2025, 7, 1)
	checkOut := date(2025, 7, 3)

	a := AvailabilityKey([]string{"r2", "r1", "r3"}, checkIn, checkOut)
	b := AvailabilityKey([]string{"r1", "r3", "r2"}, checkIn, checkOut)

	if a != b {
		t.Errorf("keys differ for same room set: %q vs %q", a, b)
	}
	if want := "avail:2025-07-01:2025-07-03:r1,r2,r3"; a != want {
		t.Errorf("key = %q, want %q", a, want)
	}
}

func TestAvailabilityKeyDoesNotMutateInput(t *testing.T) {
	ids := []string{"r2", "r1"}
	AvailabilityKey(ids, date(2025, 7, 1), date(2025, 7, 3))

	if ids[0] != "r2" || ids[1] != "r1" {
		t.Errorf("input slice mutated: %v", ids)
	}
}

func TestSearchKeyNormalizesDestination(t *testing.T) {
	a := SearchKey("  Tel Aviv ", date(2025, 7, 1), date(2025, 7, 3), 2, 1, 10)
	b := SearchKey("tel aviv", date(2025, 7, 1), date(2025, 7, 3), 2, 1, 10)

	if a != b {
		t.Errorf("destination normalization failed: %q vs %q", a, b)
	}
}

func TestSearchKeyPagesAreDistinct(t *testing.T) {
	ci, co := date(2025, 7, 1), date(2025, 7, 3)
	if SearchKey("paris", ci, co, 2, 1, 10) == SearchKey("paris", ci, co, 2, 2, 10) {
		t.Error("different pages must produce different keys")
	}
}

func TestKeyReferencesRoom(t *testing.T) {
	key := AvailabilityKey([]string{"r1", "r10", "r2"}, date(2025, 7, 1), date(2025, 7, 3))

	tests := []struct {
		roomID string
		want   bool
	}{
		{"r1", true},
		{"r10", true},
		{"r2", true},
		// "r1" is a prefix of "r10"; membership must be exact.
		{"r", false},
		{"r100", false},
	}
	for _, tt := range tests {
		if got := KeyReferencesRoom(key, tt.roomID); got != tt.want {
			t.Errorf("KeyReferencesRoom(%q, %q) = %v, want %v", key, tt.roomID, got, tt.want)
		}
	}

	if KeyReferencesRoom(BrowseKey(1, 10), "r1") {
		t.Error("browse keys never reference rooms")
	}
	if KeyReferencesRoom(CountKey, "rooms") {
		t.Error("count key never references rooms")
	}
}

func TestKindPrefixes(t *testing.T) {
	keys := map[string]string{
		AvailabilityKey([]string{"r1"}, date(2025, 7, 1), date(2025, 7, 2)): KindAvailability,
		SearchKey("paris", date(2025, 7, 1), date(2025, 7, 2), 2, 1, 10):    KindSearch,
		BrowseKey(1, 10): KindBrowse,
		CountKey:         KindCount,
	}
	for key, prefix := range keys {
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			t.Errorf("key %q does not start with %q", key, prefix)
		}
	}
}
