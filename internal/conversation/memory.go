package conversation

import (
	"context"
	"sync"
)

// DefaultHistoryLimit bounds each user's message log. Oldest entries are
// evicted first when the bound is exceeded.
const DefaultHistoryLimit = 20

// HistoryStore is the per-user ordered message log.
type HistoryStore interface {
	Append(ctx context.Context, userID string, msg ChatMessage) error
	AppendPair(ctx context.Context, userID string, userMsg, assistantMsg ChatMessage) error
	History(ctx context.Context, userID string) ([]ChatMessage, error)
}

// Profile is the accumulating customer profile. Fields merge in turn by
// turn, last write wins per field; the profile is never reset wholesale.
type Profile struct {
	Age           int      `json:"age,omitempty"`
	Location      string   `json:"location,omitempty"`
	RiskTolerance string   `json:"risk_tolerance,omitempty"`
	FamilySize    int      `json:"family_size,omitempty"`
	IncomeRange   string   `json:"income_range,omitempty"`
	VehicleType   string   `json:"vehicle_type,omitempty"`
	Interests     []string `json:"interests,omitempty"`
}

// merge overlays incoming non-zero fields; Interests are unioned.
func (p Profile) merge(in Profile) Profile {
	out := p
	if in.Age != 0 {
		out.Age = in.Age
	}
	if in.Location != "" {
		out.Location = in.Location
	}
	if in.RiskTolerance != "" {
		out.RiskTolerance = in.RiskTolerance
	}
	if in.FamilySize != 0 {
		out.FamilySize = in.FamilySize
	}
	if in.IncomeRange != "" {
		out.IncomeRange = in.IncomeRange
	}
	if in.VehicleType != "" {
		out.VehicleType = in.VehicleType
	}
	for _, interest := range in.Interests {
		found := false
		for _, existing := range out.Interests {
			if existing == interest {
				found = true
				break
			}
		}
		if !found {
			out.Interests = append(out.Interests, interest)
		}
	}
	return out
}

// ProfileStore accumulates per-user customer profiles.
type ProfileStore interface {
	MergeProfile(ctx context.Context, userID string, in Profile) error
	Profile(ctx context.Context, userID string) (Profile, error)
}

// MemoryStore keeps histories and profiles in process memory, keyed by user
// id. Mutations for the same user are serialized through a per-user lock so
// concurrent turns cannot interleave writes; different users never contend.
type MemoryStore struct {
	limit int

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
	histories map[string][]ChatMessage
	profiles  map[string]Profile
}

// NewMemoryStore creates a store bounded to limit messages per user
// (DefaultHistoryLimit when limit <= 0).
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &MemoryStore{
		limit:     limit,
		userLocks: make(map[string]*sync.Mutex),
		histories: make(map[string][]ChatMessage),
		profiles:  make(map[string]Profile),
	}
}

func (s *MemoryStore) lockUser(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// Append adds one message to the user's log, evicting from the front when
// the bound is exceeded.
func (s *MemoryStore) Append(ctx context.Context, userID string, msg ChatMessage) error {
	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()
	s.appendLocked(userID, msg)
	return nil
}

// AppendPair adds the user turn and the assistant turn as one unit so a
// concurrent turn for the same user cannot split the pair.
func (s *MemoryStore) AppendPair(ctx context.Context, userID string, userMsg, assistantMsg ChatMessage) error {
	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()
	s.appendLocked(userID, userMsg)
	s.appendLocked(userID, assistantMsg)
	return nil
}

func (s *MemoryStore) appendLocked(userID string, msg ChatMessage) {
	history := append(s.histories[userID], msg)
	if len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}
	s.histories[userID] = history
}

// History returns a copy of the user's message log in insertion order.
func (s *MemoryStore) History(ctx context.Context, userID string) ([]ChatMessage, error) {
	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()
	history := s.histories[userID]
	out := make([]ChatMessage, len(history))
	copy(out, history)
	return out, nil
}

// MergeProfile folds incoming fields into the stored profile.
func (s *MemoryStore) MergeProfile(ctx context.Context, userID string, in Profile) error {
	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()
	s.profiles[userID] = s.profiles[userID].merge(in)
	return nil
}

// Profile returns the accumulated profile for the user (zero value when the
// user is unknown).
func (s *MemoryStore) Profile(ctx context.Context, userID string) (Profile, error) {
	lock := s.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()
	return s.profiles[userID], nil
}
