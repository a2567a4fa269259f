package tasklist

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tasks/internal/model"
	"github.com/Makepad-fr/tasks/internal/store"
)

// StorageKey is the key the list is persisted under.
const StorageKey = "tasks"

// Snapshot is the pair of derived views handed to subscribers.
type Snapshot struct {
	Uncompleted []model.Task
	Completed   []model.Task
}

func (s Snapshot) HasUncompleted() bool { return len(s.Uncompleted) > 0 }
func (s Snapshot) HasCompleted() bool   { return len(s.Completed) > 0 }

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is the task list state container.
type Store struct {
	mu      sync.Mutex
	kv      store.KV
	logger  *slog.Logger
	tasks   []model.Task
	saveErr error

	subs   map[int]func(Snapshot)
	nextID int
}

// Open reads the persisted list from kv. A missing or empty value gives an
// empty list; a value that does not decode is an error wrapping
// ErrCorruptState.
func Open(kv store.KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kv,
		logger: slog.New(slog.DiscardHandler),
		subs:   make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}

	value, ok, err := kv.Load(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", StorageKey, err)
	}
	s.tasks = []model.Task{}
	if ok {
		s.tasks, err = Decode(value)
		if err != nil {
			return nil, err
		}
	}
	s.logger.Debug("task list loaded", "tasks", len(s.tasks), "stored", ok)
	return s, nil
}

// Add appends a new uncompleted task. Empty or whitespace titles are
// rejected with ErrValidationRejected and nothing is written.
func (s *Store) Add(title string) (model.Task, error) {
	title, err := Validate(title)
	if err != nil {
		return model.Task{}, err
	}
	t := model.New(title)
	s.commit(func(tasks []model.Task) ([]model.Task, bool) {
		next := make([]model.Task, 0, len(tasks)+1)
		next = append(next, tasks...)
		return append(next, t), true
	})
	return t, nil
}

// Submit adds the validator's candidate as a new task and clears it.
func (s *Store) Submit(v *Validator) (model.Task, error) {
	title, err := v.Submit()
	if err != nil {
		return model.Task{}, err
	}
	return s.Add(title)
}

// MarkCompleted replaces the task with a completed copy at the same
// position. Marking an already completed task changes nothing.
func (s *Store) MarkCompleted(id uuid.UUID) (model.Task, error) {
	var (
		out   model.Task
		found bool
	)
	s.commit(func(tasks []model.Task) ([]model.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 {
			return tasks, false
		}
		found = true
		if tasks[i].IsCompleted {
			out = tasks[i]
			return tasks, false
		}
		next := make([]model.Task, len(tasks))
		for j, t := range tasks {
			if j == i {
				t = t.Completed()
				out = t
			}
			next[j] = t
		}
		return next, true
	})
	if !found {
		return model.Task{}, ErrTaskNotFound
	}
	return out, nil
}

// Remove deletes the task from the list. The order of the rest is kept.
func (s *Store) Remove(id uuid.UUID) (model.Task, error) {
	var (
		out   model.Task
		found bool
	)
	s.commit(func(tasks []model.Task) ([]model.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 {
			return tasks, false
		}
		found = true
		out = tasks[i]
		next := make([]model.Task, 0, len(tasks)-1)
		next = append(next, tasks[:i]...)
		next = append(next, tasks[i+1:]...)
		return next, true
	})
	if !found {
		return model.Task{}, ErrTaskNotFound
	}
	return out, nil
}

// commit runs mutate under the lock. When it reports a change, the new list
// replaces the old one, is written to the store in full, and subscribers are
// notified after the lock is released.
func (s *Store) commit(mutate func([]model.Task) ([]model.Task, bool)) {
	s.mu.Lock()
	next, changed := mutate(s.tasks)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.tasks = next
	s.saveErr = s.save(next)
	snap := snapshot(next)
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// save writes the list. Failures are logged, not returned to the mutation's
// caller; the in-memory list stays authoritative.
func (s *Store) save(tasks []model.Task) error {
	value, err := Encode(tasks)
	if err == nil {
		err = s.kv.Save(StorageKey, value)
	}
	if err != nil {
		s.logger.Warn("saving task list failed", "key", StorageKey, "tasks", len(tasks), "error", err)
		return fmt.Errorf("save: %w", err)
	}
	s.logger.Debug("task list saved", "key", StorageKey, "tasks", len(tasks))
	return nil
}

// Err returns the error from the most recent write, or nil if it succeeded.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// Subscribe registers fn to be called after every change. The returned
// function removes it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Tasks returns a copy of the full list in order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Uncompleted returns the tasks still to do, in list order.
func (s *Store) Uncompleted() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.tasks, false)
}

// Completed returns the completed tasks, in list order.
func (s *Store) Completed() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.tasks, true)
}

func (s *Store) HasUncompleted() bool { return s.Snapshot().HasUncompleted() }
func (s *Store) HasCompleted() bool   { return s.Snapshot().HasCompleted() }

// Snapshot returns both derived views from the same list state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.tasks)
}

// Get looks a task up by identity.
func (s *Store) Get(id uuid.UUID) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.tasks, id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// At returns the task at a 1-based position in the full list.
func (s *Store) At(position int) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if position < 1 || position > len(s.tasks) {
		return model.Task{}, false
	}
	return s.tasks[position-1], true
}

// Position returns the 1-based position of the task, or 0.
func (s *Store) Position(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.tasks, id) + 1
}

func snapshot(tasks []model.Task) Snapshot {
	return Snapshot{
		Uncompleted: filter(tasks, false),
		Completed:   filter(tasks, true),
	}
}

func filter(tasks []model.Task, completed bool) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.IsCompleted == completed {
			out = append(out, t)
		}
	}
	return out
}

func indexOf(tasks []model.Task, id uuid.UUID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
