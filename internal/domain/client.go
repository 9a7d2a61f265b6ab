package domain

import "strings"

type ClientStatus string

const (
	ClientStatusActive    ClientStatus = "active"
	ClientStatusCompleted ClientStatus = "completed"
	ClientStatusClosed    ClientStatus = "closed"
)

var clientStatusBn = map[ClientStatus]string{
	ClientStatusActive:    "সক্রিয়",
	ClientStatusCompleted: "সম্পন্ন",
	ClientStatusClosed:    "বন্ধ",
}

func (s ClientStatus) Label(lang Language) string {
	if lang == LanguageBN {
		if bn, ok := clientStatusBn[s]; ok {
			return bn
		}
	}
	return string(s)
}

type Client struct {
	Record
	Name     string       `json:"name" db:"name" validate:"notblank"`
	Company  string       `json:"company" db:"company"`
	Email    string       `json:"email" db:"email"`
	Phone    string       `json:"phone" db:"phone"`
	Status   ClientStatus `json:"status" db:"status" validate:"oneof=active completed closed"`
	Revenue  float64      `json:"revenue" db:"revenue" validate:"gte=0"`
	JoinDate string       `json:"join_date" db:"join_date" validate:"omitempty,datetime=2006-01-02"`
}

// ClientDraft é o formulário de cliente. ID vazio significa inserção.
type ClientDraft struct {
	ID       string       `json:"id,omitempty"`
	Version  int          `json:"version,omitempty"`
	Name     string       `json:"name" validate:"notblank"`
	Company  string       `json:"company"`
	Email    string       `json:"email" validate:"omitempty,email"`
	Phone    string       `json:"phone"`
	Status   ClientStatus `json:"status" validate:"omitempty,oneof=active completed closed"`
	Revenue  float64      `json:"revenue" validate:"gte=0"`
	JoinDate string       `json:"join_date" validate:"omitempty,datetime=2006-01-02"`
}

func (d ClientDraft) Validate() error {
	return Validate(d)
}

// Apply copia os campos editáveis do rascunho para o cliente, aplicando os valores padrão
func (d ClientDraft) Apply(c *Client) {
	c.Name = strings.TrimSpace(d.Name)
	c.Company = d.Company
	c.Email = d.Email
	c.Phone = d.Phone
	c.Status = d.Status
	if c.Status == "" {
		c.Status = ClientStatusActive
	}
	c.Revenue = d.Revenue
	c.JoinDate = d.JoinDate
	if c.JoinDate == "" {
		c.JoinDate = today()
	}
}

func (c Client) Draft() ClientDraft {
	return ClientDraft{
		ID:       c.ID,
		Version:  c.Version,
		Name:     c.Name,
		Company:  c.Company,
		Email:    c.Email,
		Phone:    c.Phone,
		Status:   c.Status,
		Revenue:  c.Revenue,
		JoinDate: c.JoinDate,
	}
}
