package quiz

import (
	"sync"
	"time"
)

// Settings are the pre-room knobs a creator tunes before anyone joins.
// They live outside the room map because no Room exists yet.
type Settings struct {
	QuestionCount int
	TimeLimit     int
}

type settingsEntry struct {
	Settings
	touched time.Time
}

type roomEntry struct {
	mu   sync.Mutex
	room *Room
}

// Registry holds every live room and the ephemeral pre-start settings.
// Rooms are mutated only through Mutate so all per-room state changes
// happen under the room's own lock.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry

	settingsMu  sync.Mutex
	settings    map[string]settingsEntry
	settingsTTL time.Duration
}

func NewRegistry(settingsTTL time.Duration) *Registry {
	g := &Registry{
		rooms:       make(map[string]*roomEntry),
		settings:    make(map[string]settingsEntry),
		settingsTTL: settingsTTL,
	}
	go g.sweepLoop()
	return g
}

// Create inserts the room and reports false if the ID is already taken.
func (g *Registry) Create(room *Room) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.rooms[room.ID]; exists {
		return false
	}
	g.rooms[room.ID] = &roomEntry{room: room}
	return true
}

// Mutate runs fn with the room locked. It reports false when no such
// room exists, which callers surface as NOT_FOUND.
func (g *Registry) Mutate(roomID string, fn func(*Room)) bool {
	g.mu.RLock()
	entry, ok := g.rooms[roomID]
	g.mu.RUnlock()
	if !ok {
		return false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	fn(entry.room)
	return true
}

func (g *Registry) Delete(roomID string) {
	g.mu.Lock()
	delete(g.rooms, roomID)
	g.mu.Unlock()
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// PutSettings records pre-start settings for a room that may never be
// created. Entries are refreshed on every write and swept after the TTL.
func (g *Registry) PutSettings(roomID string, s Settings) {
	g.settingsMu.Lock()
	g.settings[roomID] = settingsEntry{Settings: s, touched: time.Now()}
	g.settingsMu.Unlock()
}

func (g *Registry) GetSettings(roomID string) (Settings, bool) {
	g.settingsMu.Lock()
	defer g.settingsMu.Unlock()
	entry, ok := g.settings[roomID]
	if !ok {
		return Settings{}, false
	}
	return entry.Settings, true
}

func (g *Registry) DropSettings(roomID string) {
	g.settingsMu.Lock()
	delete(g.settings, roomID)
	g.settingsMu.Unlock()
}

func (g *Registry) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		g.sweepSettings(time.Now())
	}
}

func (g *Registry) sweepSettings(now time.Time) {
	g.settingsMu.Lock()
	defer g.settingsMu.Unlock()
	for roomID, entry := range g.settings {
		if now.Sub(entry.touched) > g.settingsTTL {
			delete(g.settings, roomID)
		}
	}
}
