package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/nibzard/taskman-go/internal/store"
	"github.com/nibzard/taskman-go/internal/task"
)

func newRepo(t *testing.T, seed ...task.Task) (*Repository, *store.MemoryKV, *store.Adapter) {
	t.Helper()
	kv := store.NewMemoryKV()
	adapter := store.NewAdapter(kv)
	if len(seed) > 0 {
		if err := adapter.Save(context.Background(), seed); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	r := New(adapter)
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return r, kv, adapter
}

func mk(id, title string, status task.Status, deadline string) task.Task {
	return task.Task{ID: id, Title: title, Status: status, Deadline: task.MustParseDate(deadline)}
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func assertPersisted(t *testing.T, r *Repository, a *store.Adapter) {
	t.Helper()
	stored := a.Load(context.Background())
	if !equalIDs(ids(stored), ids(r.Tasks())) {
		t.Fatalf("persisted %v != in-memory %v", ids(stored), ids(r.Tasks()))
	}
	for i, st := range stored {
		mem := r.Tasks()[i]
		if st.Title != mem.Title || st.Status != mem.Status || !st.Deadline.Equal(mem.Deadline) {
			t.Fatalf("task %d differs: persisted %+v, in-memory %+v", i, st, mem)
		}
	}
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewAdapter(store.NewMemoryKV()))

	if _, err := r.Add(ctx, "x", ""); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Add before Initialize: got %v", err)
	}
	if err := r.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 0 || r.Tasks() == nil {
		t.Errorf("expected empty non-nil list, got %v", r.Tasks())
	}
	if err := r.Initialize(ctx); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Initialize: got %v", err)
	}
}

func TestInitializeLoadsPersisted(t *testing.T) {
	r, _, _ := newRepo(t,
		mk("a", "one", task.StatusDone, ""),
		mk("b", "two", task.StatusNotDone, "2024-03-01"),
	)
	if !equalIDs(ids(r.Tasks()), []string{"a", "b"}) {
		t.Fatalf("got %v", ids(r.Tasks()))
	}
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	r, _, a := newRepo(t, mk("a", "one", task.StatusDone, ""))

	got, err := r.Add(ctx, "Buy milk", "2 liters")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("len: got %d, want 2", r.Len())
	}
	last := r.Tasks()[1]
	if last.ID != got.ID || last.Title != "Buy milk" || last.Summary != "2 liters" {
		t.Errorf("unexpected task: %+v", last)
	}
	if last.Status != task.StatusNotDone || last.HasDeadline() {
		t.Errorf("new task should be Not done without deadline: %+v", last)
	}
	if got.ID == "" || got.ID == "a" {
		t.Errorf("expected fresh id, got %q", got.ID)
	}
	assertPersisted(t, r, a)
}

func TestAddRejectsBlankTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		r, kv, _ := newRepo(t)
		before := kv.Sets()
		_, err := r.Add(context.Background(), title, "summary")
		if !errors.Is(err, task.ErrValidation) {
			t.Fatalf("Add(%q): expected validation error, got %v", title, err)
		}
		var ve *task.ValidationError
		if !errors.As(err, &ve) || ve.Field != "title" {
			t.Errorf("Add(%q): expected title field error, got %v", title, err)
		}
		if r.Len() != 0 || kv.Sets() != before {
			t.Errorf("Add(%q) changed state", title)
		}
	}
}

func TestRemoveAt(t *testing.T) {
	ctx := context.Background()
	r, _, a := newRepo(t,
		mk("a", "one", task.StatusDone, ""),
		mk("b", "two", task.StatusDone, ""),
		mk("c", "three", task.StatusDone, ""),
	)

	if err := r.RemoveAt(ctx, 1); err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if !equalIDs(ids(r.Tasks()), []string{"a", "c"}) {
		t.Fatalf("got %v, want [a c]", ids(r.Tasks()))
	}
	assertPersisted(t, r, a)

	for _, idx := range []int{-1, 2, 100} {
		err := r.RemoveAt(ctx, idx)
		if !errors.Is(err, ErrIndex) {
			t.Errorf("RemoveAt(%d): expected ErrIndex, got %v", idx, err)
		}
		var ie *IndexError
		if !errors.As(err, &ie) || ie.Index != idx || ie.Len != 2 {
			t.Errorf("RemoveAt(%d): unexpected error %#v", idx, err)
		}
	}
}

func TestRemoveByID(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newRepo(t, mk("a", "one", task.StatusDone, ""), mk("b", "two", task.StatusDone, ""))

	if err := r.Remove(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(r.Tasks()), []string{"b"}) {
		t.Fatalf("got %v", ids(r.Tasks()))
	}
	err := r.Remove(ctx, "zzz")
	var ie *IndexError
	if !errors.As(err, &ie) || ie.ID != "zzz" {
		t.Fatalf("expected IndexError for unknown id, got %v", err)
	}
	if !errors.Is(err, ErrIndex) || !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("unknown id should match ErrIndex and ErrTaskNotFound: %v", err)
	}
	if errors.Is(r.RemoveAt(ctx, 5), ErrTaskNotFound) {
		t.Error("position errors should not match ErrTaskNotFound")
	}
}

func TestUpdateAt(t *testing.T) {
	ctx := context.Background()
	r, _, a := newRepo(t, mk("a", "one", task.StatusNotDone, ""), mk("b", "two", task.StatusNotDone, ""))

	f := task.Fields{
		Title:    "two!",
		Summary:  "edited",
		Status:   task.StatusInProgress,
		Deadline: task.MustParseDate("2024-05-06"),
	}
	if err := r.UpdateAt(ctx, 1, f); err != nil {
		t.Fatalf("UpdateAt: %v", err)
	}
	got := r.Tasks()[1]
	if got.ID != "b" || got.Fields() != f {
		t.Errorf("unexpected task: %+v", got)
	}
	if r.Tasks()[0].Title != "one" {
		t.Errorf("other task changed: %+v", r.Tasks()[0])
	}
	assertPersisted(t, r, a)
}

func TestUpdateRejectsInvalidFields(t *testing.T) {
	ctx := context.Background()
	r, kv, _ := newRepo(t, mk("a", "one", task.StatusNotDone, ""))
	before := kv.Sets()

	tests := []task.Fields{
		{Title: "", Status: task.StatusDone},
		{Title: "x", Status: "Later"},
	}
	for _, f := range tests {
		if err := r.UpdateAt(ctx, 0, f); !errors.Is(err, task.ErrValidation) {
			t.Errorf("UpdateAt(%+v): expected validation error, got %v", f, err)
		}
	}
	if r.Tasks()[0].Title != "one" || kv.Sets() != before {
		t.Error("rejected update changed state")
	}
}

func TestUpdateAtOnEmptyListLeavesStoreUntouched(t *testing.T) {
	r, kv, _ := newRepo(t)
	err := r.UpdateAt(context.Background(), 0, task.Fields{Title: "x", Status: task.StatusDone})
	if !errors.Is(err, ErrIndex) {
		t.Fatalf("expected ErrIndex, got %v", err)
	}
	if kv.Sets() != 0 {
		t.Errorf("store written %d times", kv.Sets())
	}
	if kv.Raw(store.TasksKey) != nil {
		t.Errorf("store should be empty, got %s", kv.Raw(store.TasksKey))
	}
}

func TestSortByStatus(t *testing.T) {
	tests := []struct {
		name   string
		seed   []task.Task
		target task.Status
		want   []string
	}{
		{
			name: "single of each",
			seed: []task.Task{
				mk("d", "d", task.StatusDone, ""),
				mk("n", "n", task.StatusNotDone, ""),
				mk("p", "p", task.StatusInProgress, ""),
			},
			target: task.StatusInProgress,
			want:   []string{"p", "d", "n"},
		},
		{
			name: "stable in both groups",
			seed: []task.Task{
				mk("n1", "n1", task.StatusNotDone, ""),
				mk("d1", "d1", task.StatusDone, ""),
				mk("n2", "n2", task.StatusNotDone, ""),
				mk("p1", "p1", task.StatusInProgress, ""),
				mk("d2", "d2", task.StatusDone, ""),
			},
			target: task.StatusDone,
			want:   []string{"d1", "d2", "n1", "n2", "p1"},
		},
		{
			name:   "no matches keeps order",
			seed:   []task.Task{mk("a", "a", task.StatusDone, ""), mk("b", "b", task.StatusDone, "")},
			target: task.StatusNotDone,
			want:   []string{"a", "b"},
		},
		{
			name:   "empty",
			target: task.StatusDone,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, a := newRepo(t, tt.seed...)
			if err := r.SortByStatus(context.Background(), tt.target); err != nil {
				t.Fatalf("SortByStatus: %v", err)
			}
			if got := ids(r.Tasks()); !equalIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			assertPersisted(t, r, a)
		})
	}
}

func TestSortByDeadline(t *testing.T) {
	r, _, a := newRepo(t,
		mk("none1", "x", task.StatusDone, ""),
		mk("late", "x", task.StatusDone, "2024-12-01"),
		mk("none2", "x", task.StatusDone, ""),
		mk("early", "x", task.StatusDone, "2024-01-15"),
		mk("early2", "x", task.StatusDone, "2024-01-15"),
	)
	if err := r.SortByDeadline(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"early", "early2", "late", "none1", "none2"}
	if got := ids(r.Tasks()); !equalIDs(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	assertPersisted(t, r, a)
}

func TestFilterByStatusIsReadOnly(t *testing.T) {
	ctx := context.Background()
	r, kv, a := newRepo(t,
		mk("a", "a", task.StatusDone, ""),
		mk("b", "b", task.StatusNotDone, ""),
		mk("c", "c", task.StatusDone, ""),
	)
	before := kv.Sets()

	got, err := r.FilterByStatus(ctx, task.StatusDone)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []string{"a", "c"}) {
		t.Errorf("filtered: got %v", ids(got))
	}
	if kv.Sets() != before {
		t.Error("filter persisted")
	}
	if r.Len() != 3 {
		t.Errorf("filter changed in-memory list: %v", ids(r.Tasks()))
	}
	if len(a.Load(ctx)) != 3 {
		t.Error("persisted list changed")
	}

	none, err := r.FilterByStatus(ctx, task.StatusInProgress)
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil result, got %v, %v", none, err)
	}
}

func TestFilterReadsPersistedList(t *testing.T) {
	ctx := context.Background()
	r, _, a := newRepo(t, mk("a", "a", task.StatusDone, ""))

	// Written behind the repository's back.
	if err := a.Save(ctx, []task.Task{mk("a", "a", task.StatusDone, ""), mk("z", "z", task.StatusDone, "")}); err != nil {
		t.Fatal(err)
	}
	got, err := r.FilterByStatus(ctx, task.StatusDone)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []string{"a", "z"}) {
		t.Errorf("got %v", ids(got))
	}
	if r.Len() != 1 {
		t.Errorf("in-memory list changed: %v", ids(r.Tasks()))
	}
}

func TestStorageFailureLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	seed := []task.Task{
		mk("a", "one", task.StatusDone, "2024-02-01"),
		mk("b", "two", task.StatusNotDone, "2024-01-01"),
	}

	ops := map[string]func(r *Repository) error{
		"add": func(r *Repository) error {
			_, err := r.Add(ctx, "new", "")
			return err
		},
		"removeAt": func(r *Repository) error { return r.RemoveAt(ctx, 0) },
		"updateAt": func(r *Repository) error {
			return r.UpdateAt(ctx, 0, task.Fields{Title: "changed", Status: task.StatusDone})
		},
		"sortByStatus":   func(r *Repository) error { return r.SortByStatus(ctx, task.StatusNotDone) },
		"sortByDeadline": func(r *Repository) error { return r.SortByDeadline(ctx) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			r, kv, a := newRepo(t, seed...)
			kv.SetErr = errors.New("quota exceeded")

			err := op(r)
			if !errors.Is(err, store.ErrStorage) {
				t.Fatalf("expected storage error, got %v", err)
			}
			if !equalIDs(ids(r.Tasks()), []string{"a", "b"}) || r.Tasks()[0].Title != "one" {
				t.Errorf("in-memory list changed: %+v", r.Tasks())
			}
			kv.SetErr = nil
			assertPersisted(t, r, a)
		})
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	r, _, _ := newRepo(t, mk("a", "one", task.StatusDone, ""))
	list := r.Tasks()
	list[0].Title = "mutated"
	if r.Tasks()[0].Title != "one" {
		t.Error("Tasks exposes internal slice")
	}
}

func TestGetAndIndexOf(t *testing.T) {
	r, _, _ := newRepo(t, mk("a", "one", task.StatusDone, ""), mk("b", "two", task.StatusDone, ""))
	if got, ok := r.Get("b"); !ok || got.Title != "two" {
		t.Errorf("Get(b): got %+v, %v", got, ok)
	}
	if _, ok := r.Get("zzz"); ok {
		t.Error("Get(zzz) should fail")
	}
	if r.IndexOf("b") != 1 || r.IndexOf("zzz") != -1 {
		t.Error("IndexOf mismatch")
	}
}

func TestBuyMilkWalkthrough(t *testing.T) {
	ctx := context.Background()
	r, _, a := newRepo(t)

	if _, err := r.Add(ctx, "Buy milk", ""); err != nil {
		t.Fatal(err)
	}
	stored := a.Load(ctx)
	if len(stored) != 1 || stored[0].Title != "Buy milk" || stored[0].Status != task.StatusNotDone || stored[0].HasDeadline() {
		t.Fatalf("after add: %+v", stored)
	}

	f := stored[0].Fields()
	f.Status = task.StatusDone
	f.Deadline = task.MustParseDate("2024-06-01")
	if err := r.UpdateAt(ctx, 0, f); err != nil {
		t.Fatal(err)
	}

	done, err := r.FilterByStatus(ctx, task.StatusDone)
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 1 || done[0].Deadline.String() != "2024-06-01" {
		t.Fatalf("filter Done: %+v", done)
	}

	if err := r.RemoveAt(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if len(a.Load(ctx)) != 0 {
		t.Error("expected empty persisted list")
	}
}

// listStore returns its list as-is, without the id checks the adapter does.
type listStore struct {
	tasks []task.Task
}

func (s *listStore) Load(context.Context) []task.Task { return clone(s.tasks) }

func (s *listStore) Save(_ context.Context, tasks []task.Task) error {
	s.tasks = clone(tasks)
	return nil
}

func TestDuplicateStoredIDs(t *testing.T) {
	ctx := context.Background()
	doc := `[{"id":"same","title":"first","summary":"","status":"Done","deadline":""},` +
		`{"id":"same","title":"second","summary":"","status":"Done","deadline":""}]`

	t.Run("adapter load makes ids unique", func(t *testing.T) {
		kv := store.NewMemoryKV()
		if err := kv.Set(ctx, store.TasksKey, []byte(doc)); err != nil {
			t.Fatal(err)
		}
		r := New(store.NewAdapter(kv))
		if err := r.Initialize(ctx); err != nil {
			t.Fatal(err)
		}
		got := r.Tasks()
		if len(got) != 2 || got[0].ID != "same" || got[1].ID == "same" || got[1].ID == "" {
			t.Fatalf("ids: %v", ids(got))
		}

		if err := r.RemoveAt(ctx, 1); err != nil {
			t.Fatal(err)
		}
		if got := r.Tasks(); len(got) != 1 || got[0].Title != "first" {
			t.Errorf("RemoveAt(1) removed the wrong task: %+v", got)
		}
	})

	tests := []struct {
		name  string
		op    func(r *Repository) error
		check func(t *testing.T, got []task.Task)
	}{
		{
			name: "RemoveAt",
			op:   func(r *Repository) error { return r.RemoveAt(ctx, 1) },
			check: func(t *testing.T, got []task.Task) {
				if len(got) != 1 || got[0].Title != "first" {
					t.Errorf("remaining: %+v", got)
				}
			},
		},
		{
			name: "UpdateAt",
			op: func(r *Repository) error {
				return r.UpdateAt(ctx, 1, task.Fields{Title: "edited", Status: task.StatusNotDone})
			},
			check: func(t *testing.T, got []task.Task) {
				if got[0].Title != "first" || got[1].Title != "edited" {
					t.Errorf("titles: %q, %q", got[0].Title, got[1].Title)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name+" acts on the position", func(t *testing.T) {
			s := &listStore{tasks: []task.Task{
				mk("same", "first", task.StatusDone, ""),
				mk("same", "second", task.StatusDone, ""),
			}}
			r := New(s)
			if err := r.Initialize(ctx); err != nil {
				t.Fatal(err)
			}
			if err := tt.op(r); err != nil {
				t.Fatal(err)
			}
			tt.check(t, r.Tasks())
			tt.check(t, s.tasks)
		})
	}
}
