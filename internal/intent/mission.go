package intent

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/truthgate/internal/model"
)

// MissionStore holds the intents declared during one working session.
// It is the only stateful, mutable component in the core, so it guards
// its map with a mutex and must be constructed explicitly per session,
// never reached through a hidden global.
type MissionStore struct {
	mu         sync.Mutex
	missions   map[string]model.Mission
	defaultTTL time.Duration
	now        func() time.Time // Injectable for tests
}

// NewMissionStore creates an empty session store
func NewMissionStore(defaultTTL time.Duration) *MissionStore {
	return &MissionStore{
		missions:   make(map[string]model.Mission),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Declare records a new mission and returns it
func (s *MissionStore) Declare(description string, scope model.IntentScope) model.Mission {
	s.mu.Lock()
	defer s.mu.Unlock()

	mission := model.Mission{
		ID:          uuid.NewString(),
		Description: description,
		Scope:       scope,
		Status:      model.MissionActive,
		CreatedAt:   s.now().UTC(),
	}
	if s.defaultTTL > 0 {
		expires := mission.CreatedAt.Add(s.defaultTTL)
		mission.ExpiresAt = &expires
	}
	s.missions[mission.ID] = mission
	return mission
}

// Active returns the currently active missions, pruning expired ones
func (s *MissionStore) Active() []model.Mission {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var active []model.Mission
	for id, m := range s.missions {
		if m.ExpiresAt != nil && now.After(*m.ExpiresAt) {
			m.Status = model.MissionExpired
			s.missions[id] = m
			continue
		}
		if m.Status == model.MissionActive {
			active = append(active, m)
		}
	}
	return active
}

// Expire marks one mission expired. Unknown ids are a no-op.
func (s *MissionStore) Expire(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.missions[id]; ok {
		m.Status = model.MissionExpired
		s.missions[id] = m
	}
}

// Reset clears the session
func (s *MissionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missions = make(map[string]model.Mission)
}
