package domain

import "strings"

type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

type Task struct {
	Record
	Title      string     `json:"title" db:"title" validate:"notblank"`
	ProjectID  string     `json:"project_id" db:"project_id"`
	AssignedTo string     `json:"assigned_to" db:"assigned_to"`
	DueDate    string     `json:"due_date" db:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Priority   Priority   `json:"priority" db:"priority" validate:"oneof=high medium low"`
	Status     TaskStatus `json:"status" db:"status" validate:"oneof=todo doing done"`
}

type TaskDraft struct {
	ID         string     `json:"id,omitempty"`
	Version    int        `json:"version,omitempty"`
	Title      string     `json:"title" validate:"notblank"`
	ProjectID  string     `json:"project_id"`
	AssignedTo string     `json:"assigned_to"`
	DueDate    string     `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Priority   Priority   `json:"priority" validate:"omitempty,oneof=high medium low"`
	Status     TaskStatus `json:"status" validate:"omitempty,oneof=todo doing done"`
}

func (d TaskDraft) Validate() error {
	return Validate(d)
}

func (d TaskDraft) Apply(t *Task) {
	t.Title = strings.TrimSpace(d.Title)
	t.ProjectID = d.ProjectID
	t.AssignedTo = d.AssignedTo
	t.DueDate = d.DueDate
	t.Priority = d.Priority
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	t.Status = d.Status
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
}

func (t Task) Draft() TaskDraft {
	return TaskDraft{
		ID:         t.ID,
		Version:    t.Version,
		Title:      t.Title,
		ProjectID:  t.ProjectID,
		AssignedTo: t.AssignedTo,
		DueDate:    t.DueDate,
		Priority:   t.Priority,
		Status:     t.Status,
	}
}
