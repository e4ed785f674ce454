package quiz

import (
	"testing"
	"time"

	"github.com/mroshb/quiz_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("", "")
	m.Run()
}

func testRoom(id string) *Room {
	return newRoom(id, "topic-1", "اطلاعات عمومی", 100, "Ali", Settings{QuestionCount: 5, TimeLimit: 10})
}

func TestRegistry_CreateDuplicate(t *testing.T) {
	reg := NewRegistry(time.Hour)

	if !reg.Create(testRoom("room-1")) {
		t.Fatal("first Create should succeed")
	}
	if reg.Create(testRoom("room-1")) {
		t.Fatal("duplicate Create should fail")
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistry_MutateMissing(t *testing.T) {
	reg := NewRegistry(time.Hour)

	if reg.Mutate("nope", func(*Room) {}) {
		t.Fatal("Mutate on missing room should report false")
	}
}

func TestRegistry_MutateAndDelete(t *testing.T) {
	reg := NewRegistry(time.Hour)
	reg.Create(testRoom("room-1"))

	called := false
	if !reg.Mutate("room-1", func(room *Room) {
		called = true
		room.QuestionCount = 10
	}) {
		t.Fatal("Mutate should find the room")
	}
	if !called {
		t.Fatal("Mutate should run fn")
	}

	var count int
	reg.Mutate("room-1", func(room *Room) { count = room.QuestionCount })
	if count != 10 {
		t.Fatalf("QuestionCount = %d, want 10", count)
	}

	reg.Delete("room-1")
	if reg.Len() != 0 {
		t.Fatalf("Len() after Delete = %d, want 0", reg.Len())
	}
}

func TestRegistry_Settings(t *testing.T) {
	reg := NewRegistry(time.Hour)

	if _, ok := reg.GetSettings("room-1"); ok {
		t.Fatal("GetSettings on empty registry should report false")
	}

	reg.PutSettings("room-1", Settings{QuestionCount: 15, TimeLimit: 20})
	s, ok := reg.GetSettings("room-1")
	if !ok {
		t.Fatal("GetSettings should find stored settings")
	}
	if s.QuestionCount != 15 || s.TimeLimit != 20 {
		t.Fatalf("settings = %+v, want {15 20}", s)
	}

	reg.DropSettings("room-1")
	if _, ok := reg.GetSettings("room-1"); ok {
		t.Fatal("GetSettings after Drop should report false")
	}
}

func TestRegistry_SweepSettings(t *testing.T) {
	reg := NewRegistry(time.Hour)
	reg.PutSettings("old", Settings{QuestionCount: 5, TimeLimit: 10})
	reg.PutSettings("fresh", Settings{QuestionCount: 5, TimeLimit: 10})

	reg.settingsMu.Lock()
	entry := reg.settings["old"]
	entry.touched = time.Now().Add(-2 * time.Hour)
	reg.settings["old"] = entry
	reg.settingsMu.Unlock()

	reg.sweepSettings(time.Now())

	if _, ok := reg.GetSettings("old"); ok {
		t.Fatal("expired settings should be swept")
	}
	if _, ok := reg.GetSettings("fresh"); !ok {
		t.Fatal("fresh settings should survive the sweep")
	}
}
