package workflows

import (
	"sync"
	"testing"

	"gemini-chat/models"
)

func TestUserLockIdentity(t *testing.T) {
	w := NewUserWorkflows(nil)

	tests := []struct {
		name   string
		first  string
		second string
		same   bool
	}{
		{
			name:   "same email returns the same mutex",
			first:  "ada@example.com",
			second: "ada@example.com",
			same:   true,
		},
		{
			name:   "distinct emails get distinct mutexes",
			first:  "ada@example.com",
			second: "grace@example.com",
			same:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := w.userLock(tt.first)
			second := w.userLock(tt.second)
			if (first == second) != tt.same {
				t.Errorf("userLock(%q) == userLock(%q) is %v, want %v",
					tt.first, tt.second, first == second, tt.same)
			}
		})
	}
}

func TestUserLockConcurrentLookup(t *testing.T) {
	w := NewUserWorkflows(nil)

	const goroutines = 32
	results := make([]*sync.Mutex, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = w.userLock("ada@example.com")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if results[i] != results[0] {
			t.Fatalf("concurrent userLock calls returned different mutexes for one email")
		}
	}
}

// Each workflow holds the user's lock across its whole read-modify-write,
// so interleaved upserts for one user must not drop each other's titles.
// This drives the same load/mutate/save sequence the workflows run,
// against a shared document standing in for the user's row.
func TestUserLockSerializesReadModifyWrite(t *testing.T) {
	w := NewUserWorkflows(nil)

	stored := models.Chats{}
	load := func() models.Chats {
		copied := models.Chats{}
		for title, msgs := range stored {
			copied[title] = msgs
		}
		return copied
	}
	save := func(chats models.Chats) {
		stored = chats
	}

	const writers = 16
	titles := []string{
		"first conversation", "second conversation", "third conversation",
		"fourth conversation", "fifth conversation", "sixth conversation",
		"seventh conversation", "eighth conversation", "ninth conversation",
		"tenth conversation", "eleventh conversation", "twelfth conversation",
		"thirteenth conversation", "fourteenth conversation",
		"fifteenth conversation", "sixteenth conversation",
	}

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			lock := w.userLock("ada@example.com")
			lock.Lock()
			defer lock.Unlock()

			chats := load()
			chats.Upsert(titles[i], []models.Message{{Role: "user", Content: titles[i]}})
			save(chats)
		}(i)
	}
	wg.Wait()

	for _, title := range titles {
		if _, ok := stored[title]; !ok {
			t.Errorf("title %q was dropped by a concurrent write", title)
		}
	}
	if len(stored) != writers {
		t.Errorf("stored document has %d titles, want %d", len(stored), writers)
	}
}
