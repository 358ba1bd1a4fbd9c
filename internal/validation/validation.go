package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/streak"
	"github.com/julianstephens/habitlit/internal/utils"
)

// ValidationError describes a single invalid field of a habit form.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateID         ConflictType = "duplicate_id"
	ConflictDuplicateHabitName  ConflictType = "duplicate_habit_name"
	ConflictDuplicateCompletion ConflictType = "duplicate_completion_day"
	ConflictFutureCompletion    ConflictType = "future_completion"
	ConflictStaleStreak         ConflictType = "stale_streak"
	ConflictInvalidFrequency    ConflictType = "invalid_frequency"
)

// Conflict represents an invariant violation found in a stored collection
type Conflict struct {
	Type        ConflictType
	Description string
	HabitIDs    []string
	Fixable     bool
}

// ValidationResult contains all detected field errors and conflicts
type ValidationResult struct {
	Errors    []ValidationError
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// Valid returns true if no field errors were found
func (vr *ValidationResult) Valid() bool {
	return len(vr.Errors) == 0
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Err joins the field errors into a single error, or returns nil.
func (vr *ValidationResult) Err() error {
	if vr.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("invalid habit: %s", strings.Join(msgs, "; "))
}

// FieldError returns the first error reported for field, if any.
func (vr *ValidationResult) FieldError(field string) (ValidationError, bool) {
	for _, e := range vr.Errors {
		if e.Field == field {
			return e, true
		}
	}
	return ValidationError{}, false
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator validates habit forms and stored habit collections
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateInput checks the user-editable fields of a habit.
func (v *Validator) ValidateInput(in models.HabitInput) ValidationResult {
	result := ValidationResult{Errors: []ValidationError{}}
	add := func(field, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		add("name", "name is required")
	case utf8.RuneCountInString(in.Name) > constants.MaxNameLength:
		add("name", "name must be %d characters or less", constants.MaxNameLength)
	}

	if utf8.RuneCountInString(in.Description) > constants.MaxDescriptionLength {
		add("description", "description must be %d characters or less", constants.MaxDescriptionLength)
	}

	result.Errors = append(result.Errors, validateFrequency(in.Frequency)...)

	if in.Goal != nil && *in.Goal < constants.MinGoal {
		add("goal", "goal must be at least %d", constants.MinGoal)
	}

	return result
}

func validateFrequency(f models.Frequency) []ValidationError {
	var errs []ValidationError
	switch f.Type {
	case models.FrequencyDaily, models.FrequencyMonthly:
	case models.FrequencyWeekly:
		seen := make(map[int]bool, len(f.Days))
		for _, d := range f.Days {
			if d < 0 || d > constants.MaxWeekday {
				errs = append(errs, ValidationError{Field: "frequency.days", Message: fmt.Sprintf("invalid weekday %d (must be 0-%d)", d, constants.MaxWeekday)})
				continue
			}
			if seen[d] {
				errs = append(errs, ValidationError{Field: "frequency.days", Message: fmt.Sprintf("weekday %s listed more than once", time.Weekday(d))})
			}
			seen[d] = true
		}
	case models.FrequencyCustom:
		if f.CustomDays < constants.MinCustomDays {
			errs = append(errs, ValidationError{Field: "frequency.customDays", Message: fmt.Sprintf("custom interval must be at least %d day", constants.MinCustomDays)})
		}
	default:
		errs = append(errs, ValidationError{Field: "frequency.type", Message: fmt.Sprintf("unknown frequency type %q", f.Type)})
	}
	return errs
}

// ValidateCollection checks a stored collection for broken invariants.
// today is the reference day for streak and future-date checks.
func (v *Validator) ValidateCollection(habits []models.Habit, today time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	idCount := make(map[string]int)
	nameIDs := make(map[string][]string)
	for _, h := range habits {
		idCount[h.ID]++
		key := strings.ToLower(strings.TrimSpace(h.Name))
		if key != "" {
			nameIDs[key] = append(nameIDs[key], h.ID)
		}
	}

	ids := make([]string, 0, len(idCount))
	for id, n := range idCount {
		if n > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateID,
			Description: fmt.Sprintf("Duplicate habit id: %s (%d habits)", id, idCount[id]),
			HabitIDs:    []string{id},
		})
	}

	names := make([]string, 0, len(nameIDs))
	for name, ids := range nameIDs {
		if len(ids) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateHabitName,
			Description: fmt.Sprintf("Duplicate habit name: \"%s\" (IDs: %v)", name, nameIDs[name]),
			HabitIDs:    nameIDs[name],
		})
	}

	for _, h := range habits {
		if errs := validateFrequency(h.Frequency); len(errs) > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidFrequency,
				Description: fmt.Sprintf("Habit \"%s\" has an invalid frequency: %s", h.Name, errs[0].Message),
				HabitIDs:    []string{h.ID},
			})
		}

		if dups := duplicateDays(h.CompletedDates); len(dups) > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateCompletion,
				Description: fmt.Sprintf("Habit \"%s\" has more than one completion on %s", h.Name, strings.Join(dups, ", ")),
				HabitIDs:    []string{h.ID},
				Fixable:     true,
			})
		}

		for _, d := range h.CompletedDates {
			if utils.IsFutureDay(d, today) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictFutureCompletion,
					Description: fmt.Sprintf("Habit \"%s\" has a completion in the future (%s)", h.Name, utils.FormatDay(d)),
					HabitIDs:    []string{h.ID},
					Fixable:     true,
				})
				break
			}
		}

		if want := streak.Compute(h.CompletedDates, today); want != h.Streak {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictStaleStreak,
				Description: fmt.Sprintf("Habit \"%s\" has stored streak %d, expected %d", h.Name, h.Streak, want),
				HabitIDs:    []string{h.ID},
				Fixable:     true,
			})
		}
	}

	return result
}

// Fix repairs the fixable conflicts of a single habit: completions are
// collapsed to one per calendar day, future completions are dropped and the
// streak is recomputed. It returns the repaired copy and the actions taken.
func (v *Validator) Fix(h models.Habit, today time.Time) (models.Habit, []FixAction) {
	fixed := h.Clone()
	var actions []FixAction

	if dups := duplicateDays(fixed.CompletedDates); len(dups) > 0 {
		fixed.CompletedDates = uniqueDays(fixed.CompletedDates)
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Collapsed duplicate completions of \"%s\" on %s", h.Name, strings.Join(dups, ", ")),
			SourceConflict: Conflict{Type: ConflictDuplicateCompletion, HabitIDs: []string{h.ID}, Fixable: true},
		})
	}

	kept := make([]time.Time, 0, len(fixed.CompletedDates))
	dropped := 0
	for _, d := range fixed.CompletedDates {
		if utils.IsFutureDay(d, today) {
			dropped++
			continue
		}
		kept = append(kept, d)
	}
	if dropped > 0 {
		fixed.CompletedDates = kept
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Removed %d future completion(s) from \"%s\"", dropped, h.Name),
			SourceConflict: Conflict{Type: ConflictFutureCompletion, HabitIDs: []string{h.ID}, Fixable: true},
		})
	}

	if want := streak.Compute(fixed.CompletedDates, today); want != fixed.Streak {
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Recomputed streak of \"%s\": %d -> %d", h.Name, fixed.Streak, want),
			SourceConflict: Conflict{Type: ConflictStaleStreak, HabitIDs: []string{h.ID}, Fixable: true},
		})
		fixed.Streak = want
	}

	return fixed, actions
}

func duplicateDays(dates []time.Time) []string {
	seen := make(map[string]int)
	var order []string
	for _, d := range dates {
		key := utils.FormatDay(d)
		if seen[key] == 1 {
			order = append(order, key)
		}
		seen[key]++
	}
	return order
}

func uniqueDays(dates []time.Time) []time.Time {
	seen := make(map[string]bool)
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		key := utils.FormatDay(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}
