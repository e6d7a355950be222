package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 4
)

// Registry is the process-wide mapping from game code to room. It owns code
// generation and room lifecycle; room internals are the service's business.
type Registry struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	rng         *rand.Rand // guarded by mu
	maxAttempts int
	generate    func() string
}

// NewRegistry creates an empty registry. maxAttempts bounds the code
// collision retry loop.
func NewRegistry(maxAttempts int) *Registry {
	if maxAttempts <= 0 {
		maxAttempts = 100
	}
	r := &Registry{
		rooms:       make(map[string]*Room),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		maxAttempts: maxAttempts,
	}
	r.generate = r.randomCode
	return r
}

// Create allocates a unique code, builds the room with it, and registers it
// atomically. Returns ErrCodeSpaceExhausted if no free code is found within
// the attempt budget.
func (r *Registry) Create(build func(code string) *Room) (*Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		code := r.generate()
		if _, taken := r.rooms[code]; taken {
			continue
		}
		room := build(code)
		r.rooms[code] = room
		return room, nil
	}
	return nil, ErrCodeSpaceExhausted
}

// Lookup returns the room registered under code.
func (r *Registry) Lookup(code string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[code]
	return room, ok
}

// Remove deletes a room from the registry.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, code)
}

// Rooms returns a snapshot of all live rooms, for disconnect scans.
func (r *Registry) Rooms() []*Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out
}

// Len reports the number of live rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) randomCode() string {
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[r.rng.Intn(len(codeAlphabet))])
	}
	return b.String()
}
