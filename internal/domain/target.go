package domain

import "strings"

type Target struct {
	Record
	Title    string  `json:"title" db:"title" validate:"notblank"`
	Goal     float64 `json:"goal" db:"goal" validate:"gt=0"`
	Current  float64 `json:"current" db:"current_value" validate:"gte=0"`
	Deadline string  `json:"deadline" db:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

type TargetDraft struct {
	ID       string  `json:"id,omitempty"`
	Version  int     `json:"version,omitempty"`
	Title    string  `json:"title" validate:"notblank"`
	Goal     float64 `json:"goal" validate:"gt=0"`
	Current  float64 `json:"current" validate:"gte=0"`
	Deadline string  `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

func (d TargetDraft) Validate() error {
	return Validate(d)
}

func (d TargetDraft) Apply(t *Target) {
	t.Title = strings.TrimSpace(d.Title)
	t.Goal = d.Goal
	t.Current = d.Current
	t.Deadline = d.Deadline
}

func (t Target) Draft() TargetDraft {
	return TargetDraft{
		ID:       t.ID,
		Version:  t.Version,
		Title:    t.Title,
		Goal:     t.Goal,
		Current:  t.Current,
		Deadline: t.Deadline,
	}
}
