package tasklist_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tasks/internal/model"
	"github.com/Makepad-fr/tasks/internal/tasklist"
	"github.com/Makepad-fr/tasks/internal/testutil"
)

func openStore(t *testing.T, kv *testutil.FakeKV) *tasklist.Store {
	t.Helper()
	s, err := tasklist.Open(kv)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func checkPartition(t *testing.T, s *tasklist.Store) {
	t.Helper()
	all := s.Tasks()
	snap := s.Snapshot()
	if len(snap.Uncompleted)+len(snap.Completed) != len(all) {
		t.Fatalf("views cover %d+%d tasks, list has %d", len(snap.Uncompleted), len(snap.Completed), len(all))
	}
	seen := make(map[uuid.UUID]bool)
	for _, task := range snap.Uncompleted {
		if task.IsCompleted {
			t.Errorf("uncompleted view holds completed task %q", task.Title)
		}
		seen[task.ID] = true
	}
	for _, task := range snap.Completed {
		if !task.IsCompleted {
			t.Errorf("completed view holds uncompleted task %q", task.Title)
		}
		if seen[task.ID] {
			t.Errorf("task %q appears in both views", task.Title)
		}
		seen[task.ID] = true
	}
	for _, task := range all {
		if !seen[task.ID] {
			t.Errorf("task %q missing from views", task.Title)
		}
	}
}

func TestOpen_Absent(t *testing.T) {
	s := openStore(t, testutil.NewFakeKV())
	if s.Len() != 0 {
		t.Errorf("expected empty list, got %d tasks", s.Len())
	}
	if s.HasCompleted() || s.HasUncompleted() {
		t.Error("expected both views empty")
	}
}

func TestOpen_EmptyValue(t *testing.T) {
	for _, value := range []string{"", "   ", "[]"} {
		kv := testutil.NewFakeKV()
		kv.Seed(tasklist.StorageKey, value)
		s := openStore(t, kv)
		if s.Len() != 0 {
			t.Errorf("value %q: expected empty list, got %d", value, s.Len())
		}
	}
}

func TestOpen_Existing(t *testing.T) {
	kv := testutil.NewFakeKV()
	kv.Seed(tasklist.StorageKey, `[{"title":"a","isCompleted":false},{"title":"b","isCompleted":true}]`)
	s := openStore(t, kv)

	if got := titles(s.Uncompleted()); len(got) != 1 || got[0] != "a" {
		t.Errorf("uncompleted = %v", got)
	}
	if got := titles(s.Completed()); len(got) != 1 || got[0] != "b" {
		t.Errorf("completed = %v", got)
	}
	if len(kv.Saves()) != 0 {
		t.Errorf("opening should not write, got %d saves", len(kv.Saves()))
	}
}

func TestOpen_Corrupt(t *testing.T) {
	kv := testutil.NewFakeKV()
	kv.Seed(tasklist.StorageKey, `{not json`)
	if _, err := tasklist.Open(kv); !errors.Is(err, tasklist.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestOpen_LoadError(t *testing.T) {
	kv := testutil.NewFakeKV()
	kv.LoadErr = errors.New("disk gone")
	if _, err := tasklist.Open(kv); err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestAdd_AppendsInOrder(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := openStore(t, kv)

	want := []string{"one", "two", "two", "three"}
	for _, title := range want {
		if _, err := s.Add(title); err != nil {
			t.Fatalf("Add(%q): %v", title, err)
		}
	}

	got := titles(s.Tasks())
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
	if len(kv.Saves()) != len(want) {
		t.Errorf("expected %d saves, got %d", len(want), len(kv.Saves()))
	}
	tasks := s.Tasks()
	if tasks[1].ID == tasks[2].ID {
		t.Error("tasks with equal titles must have distinct identity")
	}
	checkPartition(t, s)
}

func TestAdd_TrimsTitle(t *testing.T) {
	s := openStore(t, testutil.NewFakeKV())
	task, err := s.Add("  Buy milk \n")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
}

func TestAdd_RejectsEmpty(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := openStore(t, kv)

	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := s.Add(title); !errors.Is(err, tasklist.ErrValidationRejected) {
			t.Errorf("Add(%q): expected ErrValidationRejected, got %v", title, err)
		}
	}
	if s.Len() != 0 {
		t.Errorf("expected empty list, got %d", s.Len())
	}
	if len(kv.Saves()) != 0 {
		t.Errorf("rejected adds must not write, got %d saves", len(kv.Saves()))
	}
}

func TestMarkCompleted(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := openStore(t, kv)
	a, _ := s.Add("a")
	b, _ := s.Add("b")
	c, _ := s.Add("c")

	done, err := s.MarkCompleted(b.ID)
	if err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if !done.IsCompleted || done.ID != b.ID || done.Title != "b" {
		t.Errorf("unexpected result %+v", done)
	}

	tasks := s.Tasks()
	if tasks[0].ID != a.ID || tasks[1].ID != b.ID || tasks[2].ID != c.ID {
		t.Error("completion must not reorder the list")
	}
	if got := titles(s.Completed()); len(got) != 1 || got[0] != "b" {
		t.Errorf("completed = %v", got)
	}
	for _, task := range s.Uncompleted() {
		if task.ID == b.ID {
			t.Error("completed task still in uncompleted view")
		}
	}
	checkPartition(t, s)

	value, _ := kv.Value(tasklist.StorageKey)
	want := `[{"title":"a","isCompleted":false},{"title":"b","isCompleted":true},{"title":"c","isCompleted":false}]`
	if value != want {
		t.Errorf("persisted %s, want %s", value, want)
	}
}

func TestMarkCompleted_AlreadyCompleted(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := openStore(t, kv)
	a, _ := s.Add("a")
	if _, err := s.MarkCompleted(a.ID); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	before := len(kv.Saves())

	again, err := s.MarkCompleted(a.ID)
	if err != nil {
		t.Fatalf("second MarkCompleted: %v", err)
	}
	if !again.IsCompleted {
		t.Error("expected task to stay completed")
	}
	if len(kv.Saves()) != before {
		t.Error("no-op completion must not write")
	}
}

func TestRemove(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := openStore(t, kv)
	a, _ := s.Add("a")
	b, _ := s.Add("b")
	c, _ := s.Add("c")

	removed, err := s.Remove(b.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.ID != b.ID {
		t.Errorf("removed wrong task %+v", removed)
	}

	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != a.ID || tasks[1].ID != c.ID {
		t.Error("remaining tasks changed identity or order")
	}
	if _, ok := s.Get(b.ID); ok {
		t.Error("removed task still reachable")
	}
	checkPartition(t, s)
}

func TestRemove_DuplicateTitles(t *testing.T) {
	s := openStore(t, testutil.NewFakeKV())
	first, _ := s.Add("same")
	second, _ := s.Add("same")

	if _, err := s.Remove(second.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != first.ID {
		t.Errorf("expected only the first task to remain, got %+v", tasks)
	}
}

func TestNotFound(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := openStore(t, kv)
	a, _ := s.Add("a")
	if _, err := s.Remove(a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	saves := len(kv.Saves())

	if _, err := s.MarkCompleted(a.ID); !errors.Is(err, tasklist.ErrTaskNotFound) {
		t.Errorf("MarkCompleted: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := s.Remove(a.ID); !errors.Is(err, tasklist.ErrTaskNotFound) {
		t.Errorf("Remove: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := s.Remove(uuid.New()); !errors.Is(err, tasklist.ErrTaskNotFound) {
		t.Errorf("Remove unknown: expected ErrTaskNotFound, got %v", err)
	}
	if len(kv.Saves()) != saves {
		t.Error("not-found mutations must not write")
	}
}

func TestScenario_BuyMilk(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := openStore(t, kv)

	milk, err := s.Add("Buy milk")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if u := s.Uncompleted(); len(u) != 1 || u[0].Title != "Buy milk" || u[0].IsCompleted {
		t.Fatalf("uncompleted = %+v", u)
	}
	if s.HasCompleted() {
		t.Fatal("expected no completed tasks")
	}

	if _, err := s.MarkCompleted(milk.ID); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if s.HasUncompleted() {
		t.Fatal("expected no uncompleted tasks")
	}
	if c := s.Completed(); len(c) != 1 || c[0].Title != "Buy milk" || !c[0].IsCompleted {
		t.Fatalf("completed = %+v", c)
	}

	if _, err := s.Remove(milk.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.HasUncompleted() || s.HasCompleted() {
		t.Fatal("expected both views empty")
	}
	if value, _ := kv.Value(tasklist.StorageKey); value != "[]" {
		t.Errorf("expected persisted [], got %s", value)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := openStore(t, kv)
	a, _ := s.Add("a")
	s.Add("b")
	s.MarkCompleted(a.ID)

	reopened := openStore(t, kv)
	got := reopened.Tasks()
	if len(got) != 2 || got[0].Title != "a" || !got[0].IsCompleted || got[1].Title != "b" || got[1].IsCompleted {
		t.Errorf("reopened list = %+v", got)
	}
}

func TestSaveFailure_LogsAndContinues(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	kv := testutil.NewFakeKV()
	s, err := tasklist.Open(kv, tasklist.WithLogger(logger))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	kv.SaveErr = errors.New("quota exceeded")

	task, err := s.Add("a")
	if err != nil {
		t.Fatalf("Add must not fail on persistence errors: %v", err)
	}
	if _, ok := s.Get(task.ID); !ok {
		t.Error("mutation should stand after a failed save")
	}
	if err := s.Err(); err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected Err to report the failure, got %v", err)
	}
	if !strings.Contains(logs.String(), "level=WARN") || !strings.Contains(logs.String(), "saving task list failed") {
		t.Errorf("expected the failure logged as a warning, got %q", logs.String())
	}

	kv.SaveErr = nil
	if _, err := s.Add("b"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Err(); err != nil {
		t.Errorf("successful save should clear Err, got %v", err)
	}
	if value, _ := kv.Value(tasklist.StorageKey); !strings.Contains(value, `"a"`) {
		t.Errorf("full list should be written on the next save, got %s", value)
	}
}

func TestSubmit(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := openStore(t, kv)
	var v tasklist.Validator

	v.Set("   ")
	if _, err := s.Submit(&v); !errors.Is(err, tasklist.ErrValidationRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if v.Value() != "   " {
		t.Error("rejected candidate should be kept")
	}
	if s.Len() != 0 || len(kv.Saves()) != 0 {
		t.Error("rejected submit must not mutate or write")
	}

	v.Set("Walk dog")
	task, err := s.Submit(&v)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if task.Title != "Walk dog" || task.IsCompleted {
		t.Errorf("unexpected task %+v", task)
	}
	if v.Value() != "" {
		t.Errorf("candidate should be cleared, got %q", v.Value())
	}
}

func TestSubscribe(t *testing.T) {
	s := openStore(t, testutil.NewFakeKV())

	var got []tasklist.Snapshot
	unsubscribe := s.Subscribe(func(snap tasklist.Snapshot) {
		got = append(got, snap)
	})

	a, _ := s.Add("a")
	s.MarkCompleted(a.ID)
	s.Add("")
	s.Remove(uuid.New())

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if len(got[1].Completed) != 1 || len(got[1].Uncompleted) != 0 {
		t.Errorf("unexpected snapshot %+v", got[1])
	}

	unsubscribe()
	s.Add("b")
	if len(got) != 2 {
		t.Error("unsubscribed callback still called")
	}
}

func TestAtAndPosition(t *testing.T) {
	s := openStore(t, testutil.NewFakeKV())
	s.Add("a")
	b, _ := s.Add("b")

	if got, ok := s.At(2); !ok || got.ID != b.ID {
		t.Errorf("At(2) = %+v, %v", got, ok)
	}
	for _, pos := range []int{0, 3, -1} {
		if _, ok := s.At(pos); ok {
			t.Errorf("At(%d) should be out of range", pos)
		}
	}
	if s.Position(b.ID) != 2 {
		t.Errorf("Position = %d", s.Position(b.ID))
	}
	if s.Position(uuid.New()) != 0 {
		t.Error("unknown task should have position 0")
	}
}

func TestViewsAreCopies(t *testing.T) {
	s := openStore(t, testutil.NewFakeKV())
	s.Add("a")

	view := s.Uncompleted()
	view[0].Title = "changed"
	if s.Tasks()[0].Title != "a" {
		t.Error("mutating a view must not change the list")
	}
}

func TestSnapshotFlags(t *testing.T) {
	s := openStore(t, testutil.NewFakeKV())
	a, _ := s.Add("a")

	snap := s.Snapshot()
	if !snap.HasUncompleted() || snap.HasCompleted() {
		t.Errorf("after add: uncompleted=%v completed=%v", snap.HasUncompleted(), snap.HasCompleted())
	}

	s.MarkCompleted(a.ID)
	snap = s.Snapshot()
	if snap.HasUncompleted() || !snap.HasCompleted() {
		t.Errorf("after complete: uncompleted=%v completed=%v", snap.HasUncompleted(), snap.HasCompleted())
	}
	if s.HasUncompleted() != snap.HasUncompleted() || s.HasCompleted() != snap.HasCompleted() {
		t.Error("store flags should match its snapshot")
	}
}
