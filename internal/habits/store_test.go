package habits

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
)

// memoryProvider records every snapshot it is asked to save.
type memoryProvider struct {
	habits  []models.Habit
	saves   int
	loadErr error
	saveErr error
}

func (m *memoryProvider) Init() error { return nil }

func (m *memoryProvider) Load() ([]models.Habit, error) {
	if m.loadErr != nil {
		return []models.Habit{}, m.loadErr
	}
	out := make([]models.Habit, 0, len(m.habits))
	for _, h := range m.habits {
		out = append(out, h.Clone())
	}
	return out, nil
}

func (m *memoryProvider) Save(habits []models.Habit) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.habits = make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		m.habits = append(m.habits, h.Clone())
	}
	return nil
}

func (m *memoryProvider) Close() error          { return nil }
func (m *memoryProvider) GetConfigPath() string { return "memory" }

var fixedNow = time.Date(2025, 3, 4, 15, 0, 0, 0, time.Local)

func setupStore(t *testing.T) (*Store, *memoryProvider) {
	t.Helper()
	provider := &memoryProvider{}
	seq := 0
	store := New(provider,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("habit-%d", seq)
		}),
	)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store, provider
}

func daysAgo(n int) time.Time {
	return utils.AddDays(fixedNow, -n)
}

func TestAddHabit(t *testing.T) {
	store, provider := setupStore(t)

	h := store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Daily()})

	if h.ID != "habit-1" {
		t.Errorf("expected generated id habit-1, got %s", h.ID)
	}
	if !h.CreatedAt.Equal(fixedNow) {
		t.Errorf("expected CreatedAt = now, got %s", h.CreatedAt)
	}
	if len(h.CompletedDates) != 0 || h.Streak != 0 {
		t.Errorf("expected a fresh habit, got %+v", h)
	}
	if provider.saves != 1 || len(provider.habits) != 1 {
		t.Errorf("expected one snapshot with one habit, got %d saves, %d habits", provider.saves, len(provider.habits))
	}
}

func TestAddHabit_DefaultIDsAreUnique(t *testing.T) {
	store := New(&memoryProvider{})

	a := store.AddHabit(models.HabitInput{Name: "A", Frequency: models.Daily()})
	b := store.AddHabit(models.HabitInput{Name: "B", Frequency: models.Daily()})

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
}

func TestToggleCompletion_Idempotence(t *testing.T) {
	store, _ := setupStore(t)
	h := store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Daily()})

	toggled, err := store.ToggleCompletion(h.ID, fixedNow)
	if err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	if len(toggled.CompletedDates) != 1 || toggled.Streak != 1 {
		t.Errorf("expected one completion and streak 1, got %+v", toggled)
	}
	if !toggled.CompletedDates[0].Equal(utils.StartOfDay(fixedNow)) {
		t.Errorf("expected completion stored at midnight, got %s", toggled.CompletedDates[0])
	}

	// A different time on the same day toggles it back off.
	toggled, err = store.ToggleCompletion(h.ID, fixedNow.Add(-10*time.Hour))
	if err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	if len(toggled.CompletedDates) != 0 || toggled.Streak != 0 {
		t.Errorf("expected membership restored, got %+v", toggled)
	}
}

func TestToggleCompletion_RemovesTodayResetsStreak(t *testing.T) {
	store, provider := setupStore(t)
	h := store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Daily()})
	if _, err := store.ToggleCompletion(h.ID, fixedNow); err != nil {
		t.Fatal(err)
	}

	got, err := store.ToggleCompletion(h.ID, fixedNow)
	if err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	if got.Streak != 0 {
		t.Errorf("expected streak 0 after removing today, got %d", got.Streak)
	}
	if provider.habits[0].Streak != 0 || len(provider.habits[0].CompletedDates) != 0 {
		t.Errorf("expected persisted snapshot to reflect the removal, got %+v", provider.habits[0])
	}
}

func TestToggleCompletion_BuildsStreak(t *testing.T) {
	store, _ := setupStore(t)
	h := store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Daily()})

	for _, n := range []int{2, 1, 0} {
		if _, err := store.ToggleCompletion(h.ID, daysAgo(n)); err != nil {
			t.Fatal(err)
		}
	}

	got, _ := store.GetHabit(h.ID)
	if got.Streak != 3 {
		t.Errorf("expected streak 3, got %d", got.Streak)
	}

	// Un-marking yesterday breaks the chain after today.
	got, _ = store.ToggleCompletion(h.ID, daysAgo(1))
	if got.Streak != 1 {
		t.Errorf("expected streak 1 after removing yesterday, got %d", got.Streak)
	}
}

func TestToggleCompletion_NotFound(t *testing.T) {
	store, provider := setupStore(t)

	_, err := store.ToggleCompletion("missing", fixedNow)
	if !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
	if provider.saves != 0 {
		t.Errorf("expected no save, got %d", provider.saves)
	}
}

func TestUpdateHabit(t *testing.T) {
	store, provider := setupStore(t)
	h := store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Daily()})

	edited := h.Apply(models.HabitInput{Name: "Read more", Frequency: models.EveryNDays(2)})
	edited.CreatedAt = fixedNow.AddDate(-1, 0, 0)
	edited.CompletedDates = []time.Time{daysAgo(1), daysAgo(0)}
	edited.Streak = 99

	if err := store.UpdateHabit(edited); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}

	got, ok := store.GetHabit(h.ID)
	if !ok {
		t.Fatal("expected habit to exist")
	}
	if got.Name != "Read more" || got.Frequency.Type != models.FrequencyCustom {
		t.Errorf("expected edited fields, got %+v", got)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("expected CreatedAt to be preserved, got %s", got.CreatedAt)
	}
	if got.Streak != 2 {
		t.Errorf("expected recomputed streak 2, got %d", got.Streak)
	}
	if provider.saves != 2 {
		t.Errorf("expected 2 saves, got %d", provider.saves)
	}
}

func TestUpdateHabit_NotFound(t *testing.T) {
	store, provider := setupStore(t)
	store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Daily()})

	err := store.UpdateHabit(models.Habit{ID: "missing", Name: "Ghost"})
	if !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
	if store.Len() != 1 || provider.saves != 1 {
		t.Errorf("expected collection and saves unchanged, got len %d saves %d", store.Len(), provider.saves)
	}
}

func TestUpdateHabit_CollapsesSameDayCompletions(t *testing.T) {
	store, _ := setupStore(t)
	h := store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Daily()})

	morning := time.Date(2025, 3, 3, 8, 0, 0, 0, time.Local)
	evening := time.Date(2025, 3, 3, 21, 30, 0, 0, time.Local)
	h.CompletedDates = []time.Time{morning, evening, fixedNow}
	if err := store.UpdateHabit(h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}

	got, _ := store.GetHabit(h.ID)
	if len(got.CompletedDates) != 2 {
		t.Fatalf("expected one completion per day, got %v", got.CompletedDates)
	}
	for _, d := range got.CompletedDates {
		if !d.Equal(utils.StartOfDay(d)) {
			t.Errorf("expected completion at start of day, got %s", d)
		}
	}
	if !utils.IsSameDay(got.CompletedDates[0], morning) {
		t.Errorf("expected first completion on %s, got %s", utils.FormatDay(morning), got.CompletedDates[0])
	}
	if got.Streak != 2 {
		t.Errorf("expected streak 2, got %d", got.Streak)
	}
}

func TestDeleteHabit(t *testing.T) {
	store, provider := setupStore(t)
	a := store.AddHabit(models.HabitInput{Name: "A", Frequency: models.Daily()})
	b := store.AddHabit(models.HabitInput{Name: "B", Frequency: models.Daily()})

	store.DeleteHabit(a.ID)

	if _, ok := store.GetHabit(a.ID); ok {
		t.Error("expected habit to be deleted")
	}
	if _, ok := store.GetHabit(b.ID); !ok {
		t.Error("expected other habit to remain")
	}
	if len(provider.habits) != 1 {
		t.Errorf("expected snapshot with 1 habit, got %d", len(provider.habits))
	}
}

func TestDeleteHabit_UnknownIDIsNoOp(t *testing.T) {
	store, provider := setupStore(t)
	store.AddHabit(models.HabitInput{Name: "A", Frequency: models.Daily()})
	before := store.Habits()

	store.DeleteHabit("missing")

	after := store.Habits()
	if len(after) != len(before) || after[0].ID != before[0].ID {
		t.Errorf("expected collection unchanged, got %+v", after)
	}
	if provider.saves != 1 {
		t.Errorf("expected no extra save, got %d saves", provider.saves)
	}
}

func TestReturnedHabitsAreCopies(t *testing.T) {
	store, _ := setupStore(t)
	h := store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Weekly(time.Monday)})
	if _, err := store.ToggleCompletion(h.ID, fixedNow); err != nil {
		t.Fatal(err)
	}

	got, _ := store.GetHabit(h.ID)
	got.CompletedDates[0] = time.Time{}
	got.Frequency.Days[0] = 5
	got.Name = "changed"

	again, _ := store.GetHabit(h.ID)
	if again.Name != "Read" || again.CompletedDates[0].IsZero() || again.Frequency.Days[0] != int(time.Monday) {
		t.Errorf("expected store state to be unaffected by caller mutation, got %+v", again)
	}
}

func TestSearch(t *testing.T) {
	store, _ := setupStore(t)
	store.AddHabit(models.HabitInput{Name: "Morning Run", Frequency: models.Daily()})
	store.AddHabit(models.HabitInput{Name: "Read", Description: "before bed, no phone", Frequency: models.Daily()})
	store.AddHabit(models.HabitInput{Name: "Journal", Frequency: models.Daily()})

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"run", 1},
		{"BED", 1},
		{"o", 3},
		{"swim", 0},
	}

	for _, tt := range tests {
		if got := store.Search(tt.query); len(got) != tt.want {
			t.Errorf("Search(%q) returned %d habits, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestFindByName(t *testing.T) {
	store, _ := setupStore(t)
	h := store.AddHabit(models.HabitInput{Name: "Morning Run", Frequency: models.Daily()})

	if got, ok := store.FindByName("  morning run "); !ok || got.ID != h.ID {
		t.Errorf("expected case-insensitive name match, got %v %v", got, ok)
	}
	if got, ok := store.FindByName(h.ID); !ok || got.ID != h.ID {
		t.Errorf("expected id match, got %v %v", got, ok)
	}
	if _, ok := store.FindByName("Run"); ok {
		t.Error("expected partial names not to match")
	}
}

func TestSaveFailureKeepsInMemoryState(t *testing.T) {
	store, provider := setupStore(t)
	provider.saveErr = &storage.WriteError{Path: "memory", Err: errors.New("disk full")}

	h := store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Daily()})

	if _, ok := store.GetHabit(h.ID); !ok {
		t.Error("expected habit to remain in memory after failed save")
	}
	var writeErr *storage.WriteError
	if !errors.As(store.SaveErr(), &writeErr) {
		t.Errorf("expected SaveErr to hold the write error, got %v", store.SaveErr())
	}

	provider.saveErr = nil
	if _, err := store.ToggleCompletion(h.ID, fixedNow); err != nil {
		t.Fatal(err)
	}
	if store.SaveErr() != nil {
		t.Errorf("expected SaveErr to clear after a successful save, got %v", store.SaveErr())
	}
	if len(provider.habits) != 1 {
		t.Errorf("expected the next snapshot to include the habit, got %d habits", len(provider.habits))
	}
}

func TestLoad_RefreshesStaleStreaks(t *testing.T) {
	provider := &memoryProvider{habits: []models.Habit{{
		ID:             "1",
		Name:           "Read",
		CreatedAt:      daysAgo(10),
		CompletedDates: []time.Time{daysAgo(5), daysAgo(4)},
		Frequency:      models.Daily(),
		Streak:         2,
	}}}
	store := New(provider, WithClock(func() time.Time { return fixedNow }))

	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got, _ := store.GetHabit("1")
	if got.Streak != 0 {
		t.Errorf("expected stale streak to be recomputed to 0, got %d", got.Streak)
	}
	if provider.saves != 0 {
		t.Errorf("expected Load not to save, got %d saves", provider.saves)
	}

	provider.habits[0].Streak = 2
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	store.RefreshStreaks()
	if provider.saves != 0 {
		t.Errorf("expected RefreshStreaks not to save when nothing changed, got %d saves", provider.saves)
	}
}

func TestLoad_ReadErrorStartsEmpty(t *testing.T) {
	provider := &memoryProvider{
		habits:  []models.Habit{{ID: "1", Name: "Read", Frequency: models.Daily()}},
		loadErr: &storage.ReadError{Path: "memory", Err: errors.New("bad json")},
	}
	store := New(provider)

	err := store.Load()

	var readErr *storage.ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *storage.ReadError, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty collection, got %d habits", store.Len())
	}
}

func TestLoad_IOErrorBlocksSaves(t *testing.T) {
	provider := &memoryProvider{
		habits:  []models.Habit{{ID: "1", Name: "Read", Frequency: models.Daily()}},
		loadErr: fmt.Errorf("failed to read habit file: %w", os.ErrPermission),
	}
	store := New(provider, WithClock(func() time.Time { return fixedNow }))

	err := store.Load()
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	var readErr *storage.ReadError
	if errors.As(err, &readErr) {
		t.Fatalf("I/O failure must not be reported as *storage.ReadError")
	}

	store.AddHabit(models.HabitInput{Name: "Walk", Frequency: models.Daily()})
	if provider.saves != 0 {
		t.Errorf("expected no save after a failed read, got %d", provider.saves)
	}
	if store.SaveErr() == nil {
		t.Error("expected SaveErr to report the skipped save")
	}
	if len(provider.habits) != 1 || provider.habits[0].Name != "Read" {
		t.Errorf("expected stored collection untouched, got %+v", provider.habits)
	}

	provider.loadErr = nil
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	store.AddHabit(models.HabitInput{Name: "Walk", Frequency: models.Daily()})
	if provider.saves != 1 {
		t.Errorf("expected saves to resume after a successful load, got %d", provider.saves)
	}
}

func TestStore_WithJSONProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")
	store := New(storage.NewJSONStore(path), WithClock(func() time.Time { return fixedNow }))
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	h := store.AddHabit(models.HabitInput{Name: "Read", Frequency: models.Daily()})
	if _, err := store.ToggleCompletion(h.ID, daysAgo(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ToggleCompletion(h.ID, daysAgo(0)); err != nil {
		t.Fatal(err)
	}

	reloaded := New(storage.NewJSONStore(path), WithClock(func() time.Time { return fixedNow }))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	got, ok := reloaded.GetHabit(h.ID)
	if !ok {
		t.Fatal("expected habit to survive a reload")
	}
	if got.Streak != 2 || len(got.CompletedDates) != 2 {
		t.Errorf("expected 2 completions and streak 2, got %+v", got)
	}
}
