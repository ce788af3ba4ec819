package media

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestStoredNameDeterministic(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("6f1c1c1e-0b5e-4a3e-9f6a-2d1f0e9b8c7d")
	first := StoredName(id, ".webp")
	second := StoredName(id, ".webp")
	if first != second {
		t.Fatalf("expected deterministic name, got %q vs %q", first, second)
	}
	if !strings.HasSuffix(first, ".webp") {
		t.Fatalf("expected .webp suffix, got %q", first)
	}
	if len(first) != storedNameHexLen+len(".webp") {
		t.Fatalf("unexpected name length %d", len(first))
	}
}

func TestStoredNamesDistinctUnderConcurrency(t *testing.T) {
	t.Parallel()

	const n = 64
	names := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			names[slot] = StoredName(uuid.New(), ".webp")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, name := range names {
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate stored name %q", name)
		}
		seen[name] = struct{}{}
	}
}
