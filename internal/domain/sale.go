package domain

type SaleStatus string

const (
	SaleStatusPaid    SaleStatus = "paid"
	SaleStatusPending SaleStatus = "pending"
	SaleStatusDue     SaleStatus = "due"
)

var saleStatusBn = map[SaleStatus]string{
	SaleStatusPaid:    "পরিশোধিত",
	SaleStatusPending: "পেন্ডিং",
	SaleStatusDue:     "বকেয়া",
}

func (s SaleStatus) Label(lang Language) string {
	if lang == LanguageBN {
		if bn, ok := saleStatusBn[s]; ok {
			return bn
		}
	}
	return string(s)
}

type Sale struct {
	Record
	ClientID  string     `json:"client_id" db:"client_id" validate:"required"`
	ProjectID string     `json:"project_id" db:"project_id"`
	Amount    float64    `json:"amount" db:"amount" validate:"gt=0"`
	Date      string     `json:"date" db:"date" validate:"required,datetime=2006-01-02"`
	Status    SaleStatus `json:"status" db:"status" validate:"oneof=paid pending due"`
}

type SaleDraft struct {
	ID        string     `json:"id,omitempty"`
	Version   int        `json:"version,omitempty"`
	ClientID  string     `json:"client_id" validate:"required"`
	ProjectID string     `json:"project_id"`
	Amount    float64    `json:"amount" validate:"gt=0"`
	Date      string     `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status    SaleStatus `json:"status" validate:"omitempty,oneof=paid pending due"`
}

func (d SaleDraft) Validate() error {
	return Validate(d)
}

func (d SaleDraft) Apply(s *Sale) {
	s.ClientID = d.ClientID
	s.ProjectID = d.ProjectID
	s.Amount = d.Amount
	s.Date = d.Date
	if s.Date == "" {
		s.Date = today()
	}
	s.Status = d.Status
	if s.Status == "" {
		s.Status = SaleStatusPaid
	}
}

func (s Sale) Draft() SaleDraft {
	return SaleDraft{
		ID:        s.ID,
		Version:   s.Version,
		ClientID:  s.ClientID,
		ProjectID: s.ProjectID,
		Amount:    s.Amount,
		Date:      s.Date,
		Status:    s.Status,
	}
}
