package domain

type PaymentMethod string

const (
	PaymentMethodBKash       PaymentMethod = "bKash"
	PaymentMethodNagad       PaymentMethod = "Nagad"
	PaymentMethodRocket      PaymentMethod = "Rocket"
	PaymentMethodUpay        PaymentMethod = "Upay"
	PaymentMethodBankAccount PaymentMethod = "Bank Account"
	PaymentMethodCreditCard  PaymentMethod = "Credit Card"
	PaymentMethodDebitCard   PaymentMethod = "Debit Card"
)

var PaymentMethods = []PaymentMethod{
	PaymentMethodBKash,
	PaymentMethodNagad,
	PaymentMethodRocket,
	PaymentMethodUpay,
	PaymentMethodBankAccount,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
}

func (m PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// IsMobileWallet indica se o detalhe do pagamento é um número de telefone
func (m PaymentMethod) IsMobileWallet() bool {
	switch m {
	case PaymentMethodBKash, PaymentMethodNagad, PaymentMethodRocket, PaymentMethodUpay:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusFailed  PaymentStatus = "failed"
)

var paymentStatusBn = map[PaymentStatus]string{
	PaymentStatusSuccess: "সম্পন্ন",
	PaymentStatusPending: "পেন্ডিং",
	PaymentStatusFailed:  "ব্যর্থ",
}

func (s PaymentStatus) Label(lang Language) string {
	if lang == LanguageBN {
		if bn, ok := paymentStatusBn[s]; ok {
			return bn
		}
	}
	return string(s)
}

type Payment struct {
	Record
	ClientID string        `json:"client_id" db:"client_id" validate:"required"`
	Amount   float64       `json:"amount" db:"amount" validate:"gt=0"`
	Date     string        `json:"date" db:"date" validate:"omitempty,datetime=2006-01-02"`
	Method   PaymentMethod `json:"method" db:"method" validate:"payment_method"`
	Details  string        `json:"details" db:"details"`
	Status   PaymentStatus `json:"status" db:"status" validate:"oneof=success pending failed"`
}

type PaymentDraft struct {
	ID       string        `json:"id,omitempty"`
	Version  int           `json:"version,omitempty"`
	ClientID string        `json:"client_id" validate:"required"`
	Amount   float64       `json:"amount" validate:"gt=0"`
	Date     string        `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Method   PaymentMethod `json:"method" validate:"omitempty,payment_method"`
	Details  string        `json:"details"`
	Status   PaymentStatus `json:"status" validate:"omitempty,oneof=success pending failed"`
}

func (d PaymentDraft) Validate() error {
	return Validate(d)
}

func (d PaymentDraft) Apply(p *Payment) {
	p.ClientID = d.ClientID
	p.Amount = d.Amount
	p.Date = d.Date
	if p.Date == "" {
		p.Date = today()
	}
	p.Method = d.Method
	if p.Method == "" {
		p.Method = PaymentMethodBKash
	}
	p.Details = d.Details
	p.Status = d.Status
	if p.Status == "" {
		p.Status = PaymentStatusSuccess
	}
}

func (p Payment) Draft() PaymentDraft {
	return PaymentDraft{
		ID:       p.ID,
		Version:  p.Version,
		ClientID: p.ClientID,
		Amount:   p.Amount,
		Date:     p.Date,
		Method:   p.Method,
		Details:  p.Details,
		Status:   p.Status,
	}
}
