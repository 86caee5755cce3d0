package conversation

import (
	"math/rand/v2"
	"sync"

	"movie-chat/internal/models"
)

// Store holds the ordered message list and the transient UI flags. Messages
// are only ever appended; Reset replaces the whole list with one greeting.
type Store struct {
	mu              sync.RWMutex
	messages        []models.Message
	loading         bool
	suggestion      string
	suggestions     []string
	clearedGreeting string
	rng             *rand.Rand
	observers       []func()
}

type StoreOptions struct {
	WelcomeGreeting string
	ClearedGreeting string
	Suggestions     []string

	// Rand picks suggestions; nil uses a randomly seeded source.
	Rand *rand.Rand
}

func NewStore(opts StoreOptions) *Store {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s := &Store{
		suggestions:     append([]string(nil), opts.Suggestions...),
		clearedGreeting: opts.ClearedGreeting,
		rng:             rng,
	}
	s.messages = []models.Message{models.NewMessage(models.RoleAssistant, opts.WelcomeGreeting)}
	s.pickSuggestionLocked()
	return s
}

// Subscribe registers fn to be called after every change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Store) Append(msg models.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.pickSuggestionLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Reset() {
	s.mu.Lock()
	s.messages = []models.Message{models.NewMessage(models.RoleAssistant, s.clearedGreeting)}
	s.loading = false
	s.pickSuggestionLocked()
	s.mu.Unlock()
	s.notify()
}

// TryBegin appends msg and sets loading in one step. It returns false and
// leaves the store untouched when an exchange is already in flight.
func (s *Store) TryBegin(msg models.Message) bool {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return false
	}
	s.messages = append(s.messages, msg)
	s.loading = true
	s.mu.Unlock()
	s.notify()
	return true
}

// TryReset resets the conversation unless an exchange is in flight.
func (s *Store) TryReset() bool {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return false
	}
	s.messages = []models.Message{models.NewMessage(models.RoleAssistant, s.clearedGreeting)}
	s.pickSuggestionLocked()
	s.mu.Unlock()
	s.notify()
	return true
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.pickSuggestionLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// PickSuggestion draws a new suggestion while idle and returns the current one.
func (s *Store) PickSuggestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickSuggestionLocked()
	return s.suggestion
}

func (s *Store) Suggestion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suggestion
}

// Messages returns a copy of the message list.
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

func (s *Store) pickSuggestionLocked() {
	if s.loading || len(s.suggestions) == 0 {
		return
	}
	s.suggestion = s.suggestions[s.rng.IntN(len(s.suggestions))]
}

func (s *Store) notify() {
	s.mu.RLock()
	observers := append([]func(){}, s.observers...)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn()
	}
}
