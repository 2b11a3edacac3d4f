package reminder

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Separator splits trigger time from task text in the reminders file.
const Separator = " | "

// TimeLayout is the minute-granularity layout reminders are stored and matched in.
const TimeLayout = "15:04"

var (
	ErrNoTask  = errors.New("reminder: expected \"<HH:MM> <task>\"")
	ErrBadTime = errors.New("reminder: invalid time")
	ErrBadTask = errors.New("reminder: task cannot be stored")
)

// Reminder is a (trigger time, task) pair with no date component.
type Reminder struct {
	At   string
	Task string
}

func (r Reminder) String() string {
	return r.At + Separator + r.Task
}

// Parse reads "<time> <task...>" as spoken to the assistant. The time is the
// first whitespace delimited token, the task is everything after the first
// space.
func Parse(utterance string) (Reminder, error) {
	at, task, ok := strings.Cut(strings.TrimSpace(utterance), " ")
	task = strings.TrimSpace(task)
	if !ok || task == "" {
		return Reminder{}, ErrNoTask
	}

	canonical, err := NormalizeTime(at)
	if err != nil {
		return Reminder{}, err
	}

	r := Reminder{At: canonical, Task: task}
	if err := r.Validate(); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// Validate reports whether r survives a write and reload of the reminders
// file unchanged.
func (r Reminder) Validate() error {
	if _, err := NormalizeTime(r.At); err != nil || len(r.At) != len(TimeLayout) {
		return fmt.Errorf("%w: %q", ErrBadTime, r.At)
	}
	switch {
	case r.Task == "", strings.TrimSpace(r.Task) != r.Task:
		return fmt.Errorf("%w: %q", ErrBadTask, r.Task)
	case strings.Contains(r.Task, Separator), strings.ContainsAny(r.Task, "\r\n"):
		return fmt.Errorf("%w: %q", ErrBadTask, r.Task)
	}
	return nil
}

// NormalizeTime validates a 24-hour hour:minute value and returns it zero padded.
func NormalizeTime(s string) (string, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	return t.Format(TimeLayout), nil
}

func parseLine(line string) (Reminder, bool) {
	parts := strings.Split(strings.TrimSpace(line), Separator)
	if len(parts) != 2 {
		return Reminder{}, false
	}
	return Reminder{At: parts[0], Task: parts[1]}, true
}
