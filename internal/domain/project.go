package domain

import "strings"

type ProjectStatus string

const (
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusDone      ProjectStatus = "done"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

var projectStatusBn = map[ProjectStatus]string{
	ProjectStatusPending:   "পেন্ডিং",
	ProjectStatusOngoing:   "চলমান",
	ProjectStatusDone:      "সম্পন্ন",
	ProjectStatusCancelled: "বাতিল",
}

func (s ProjectStatus) Label(lang Language) string {
	if lang == LanguageBN {
		if bn, ok := projectStatusBn[s]; ok {
			return bn
		}
	}
	return string(s)
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityBn = map[Priority]string{
	PriorityHigh:   "বেশি",
	PriorityMedium: "মাঝারি",
	PriorityLow:    "কম",
}

func (p Priority) Label(lang Language) string {
	if lang == LanguageBN {
		if bn, ok := priorityBn[p]; ok {
			return bn
		}
	}
	return string(p)
}

type Project struct {
	Record
	Name        string        `json:"name" db:"name" validate:"notblank"`
	ClientID    string        `json:"client_id" db:"client_id" validate:"required"`
	Deadline    string        `json:"deadline" db:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Status      ProjectStatus `json:"status" db:"status" validate:"oneof=pending ongoing done cancelled"`
	Priority    Priority      `json:"priority" db:"priority" validate:"oneof=high medium low"`
	Budget      float64       `json:"budget" db:"budget" validate:"gte=0"`
	DueAmount   float64       `json:"due_amount" db:"due_amount" validate:"gte=0"`
	Description string        `json:"description" db:"description"`
}

type ProjectDraft struct {
	ID          string        `json:"id,omitempty"`
	Version     int           `json:"version,omitempty"`
	Name        string        `json:"name" validate:"notblank"`
	ClientID    string        `json:"client_id" validate:"required"`
	Deadline    string        `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Status      ProjectStatus `json:"status" validate:"omitempty,oneof=pending ongoing done cancelled"`
	Priority    Priority      `json:"priority" validate:"omitempty,oneof=high medium low"`
	Budget      float64       `json:"budget" validate:"gte=0"`
	DueAmount   float64       `json:"due_amount" validate:"gte=0"`
	Description string        `json:"description"`
}

func (d ProjectDraft) Validate() error {
	return Validate(d)
}

func (d ProjectDraft) Apply(p *Project) {
	p.Name = strings.TrimSpace(d.Name)
	p.ClientID = d.ClientID
	p.Deadline = d.Deadline
	p.Status = d.Status
	if p.Status == "" {
		p.Status = ProjectStatusPending
	}
	p.Priority = d.Priority
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	p.Budget = d.Budget
	p.DueAmount = d.DueAmount
	p.Description = d.Description
}

func (p Project) Draft() ProjectDraft {
	return ProjectDraft{
		ID:          p.ID,
		Version:     p.Version,
		Name:        p.Name,
		ClientID:    p.ClientID,
		Deadline:    p.Deadline,
		Status:      p.Status,
		Priority:    p.Priority,
		Budget:      p.Budget,
		DueAmount:   p.DueAmount,
		Description: p.Description,
	}
}
