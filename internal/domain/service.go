package domain

import "strings"

// Service é um item do catálogo de serviços oferecidos
type Service struct {
	Record
	Name        string  `json:"name" db:"name" validate:"notblank"`
	BnName      string  `json:"bn_name" db:"bn_name"`
	Price       float64 `json:"price" db:"price" validate:"gte=0"`
	Description string  `json:"description" db:"description"`
}

type ServiceDraft struct {
	ID          string  `json:"id,omitempty"`
	Version     int     `json:"version,omitempty"`
	Name        string  `json:"name" validate:"notblank"`
	BnName      string  `json:"bn_name"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

func (d ServiceDraft) Validate() error {
	return Validate(d)
}

func (d ServiceDraft) Apply(s *Service) {
	s.Name = strings.TrimSpace(d.Name)
	s.BnName = d.BnName
	s.Price = d.Price
	s.Description = d.Description
}

func (s Service) Draft() ServiceDraft {
	return ServiceDraft{
		ID:          s.ID,
		Version:     s.Version,
		Name:        s.Name,
		BnName:      s.BnName,
		Price:       s.Price,
		Description: s.Description,
	}
}

// DisplayName retorna o nome no idioma selecionado, caindo para o nome em inglês
func (s Service) DisplayName(lang Language) string {
	if lang == LanguageBN && s.BnName != "" {
		return s.BnName
	}
	return s.Name
}
