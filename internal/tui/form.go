package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

// HabitFormModel holds the add/edit form's field values as entered.
type HabitFormModel struct {
	Name        string
	Description string
	Icon        string
	Frequency   models.FrequencyType
	Days        []int
	CustomDays  string
	Goal        string
	Reminder    string
}

type ConfirmationFormModel struct {
	Message   string
	Confirmed bool
}

func newHabitFormModel() *HabitFormModel {
	return &HabitFormModel{Frequency: models.FrequencyDaily}
}

func habitFormModelFrom(h models.Habit) *HabitFormModel {
	fm := &HabitFormModel{
		Name:        h.Name,
		Description: h.Description,
		Icon:        h.Icon,
		Frequency:   h.Frequency.Type,
		Days:        h.Frequency.Clone().Days,
		Reminder:    h.ReminderTime,
	}
	if h.Frequency.CustomDays > 0 {
		fm.CustomDays = strconv.Itoa(h.Frequency.CustomDays)
	}
	if h.Goal != nil {
		fm.Goal = strconv.Itoa(*h.Goal)
	}
	return fm
}

// Input converts the form values into a HabitInput. color is carried over
// from the habit being edited since the form does not expose it.
func (fm *HabitFormModel) Input(color string) (models.HabitInput, error) {
	in := models.HabitInput{
		Name:         strings.TrimSpace(fm.Name),
		Description:  strings.TrimSpace(fm.Description),
		Icon:         strings.TrimSpace(fm.Icon),
		Color:        color,
		Frequency:    models.Frequency{Type: fm.Frequency},
		ReminderTime: strings.TrimSpace(fm.Reminder),
	}

	switch fm.Frequency {
	case models.FrequencyWeekly:
		in.Frequency.Days = append([]int(nil), fm.Days...)
	case models.FrequencyCustom:
		n, err := strconv.Atoi(strings.TrimSpace(fm.CustomDays))
		if err != nil {
			return models.HabitInput{}, fmt.Errorf("interval must be a number of days")
		}
		in.Frequency.CustomDays = n
	}

	if s := strings.TrimSpace(fm.Goal); s != "" {
		g, err := strconv.Atoi(s)
		if err != nil {
			return models.HabitInput{}, fmt.Errorf("goal must be a number of days")
		}
		in.Goal = &g
	}
	return in, nil
}

// NewHabitForm creates the form for adding or editing a habit
func NewHabitForm(fm *HabitFormModel, title string) *huh.Form {
	weekdays := make([]huh.Option[int], 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekdays = append(weekdays, huh.NewOption(d.String(), int(d)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					if utf8.RuneCountInString(s) > constants.MaxNameLength {
						return fmt.Errorf("name must be %d characters or less", constants.MaxNameLength)
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				CharLimit(constants.MaxDescriptionLength).
				Value(&fm.Description),
			huh.NewInput().
				Title("Icon").
				Description("Optional, e.g. 📚").
				Value(&fm.Icon),
			huh.NewSelect[models.FrequencyType]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
					huh.NewOption("Monthly", models.FrequencyMonthly),
					huh.NewOption("Every N Days", models.FrequencyCustom),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Days").
				Description("None selected means the weekday the habit was created").
				Options(weekdays...).
				Value(&fm.Days),
		).WithHideFunc(func() bool { return fm.Frequency != models.FrequencyWeekly }),
		huh.NewGroup(
			huh.NewInput().
				Title("Interval (days)").
				Value(&fm.CustomDays).
				Validate(func(s string) error {
					if fm.Frequency != models.FrequencyCustom {
						return nil
					}
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("interval must be a number of days")
					}
					if i < constants.MinCustomDays {
						return fmt.Errorf("interval must be at least %d day", constants.MinCustomDays)
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Frequency != models.FrequencyCustom }),
		huh.NewGroup(
			huh.NewInput().
				Title("Goal (days)").
				Description("Optional target streak").
				Value(&fm.Goal).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("goal must be a number of days")
					}
					if i < constants.MinGoal {
						return fmt.Errorf("goal must be at least %d", constants.MinGoal)
					}
					return nil
				}),
			huh.NewInput().
				Title("Reminder").
				Description("Optional, e.g. 07:30").
				Value(&fm.Reminder),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmationForm creates a yes/no form
func NewConfirmationForm(fm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fm.Message).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
