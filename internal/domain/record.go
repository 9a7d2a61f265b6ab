package domain

import "time"

// DateLayout é o formato das datas de negócio (prazo, vencimento, data da venda)
const DateLayout = "2006-01-02"

// Record contém os campos comuns a toda linha de coleção pertencente a um usuário
type Record struct {
	ID        string    `json:"id" db:"id" validate:"required"`
	UserID    string    `json:"user_id" db:"user_id" validate:"required"`
	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (r Record) RecordID() string {
	return r.ID
}

type Language string

const (
	LanguageEN Language = "en"
	LanguageBN Language = "bn"

	DefaultLanguage = LanguageBN
)

func (l Language) IsValid() bool {
	return l == LanguageEN || l == LanguageBN
}

// Collection identifica cada coleção sincronizada
type Collection string

const (
	CollectionClients  Collection = "clients"
	CollectionProjects Collection = "projects"
	CollectionSales    Collection = "sales"
	CollectionPayments Collection = "payments"
	CollectionTasks    Collection = "tasks"
	CollectionServices Collection = "services"
	CollectionTargets  Collection = "targets"
	CollectionSettings Collection = "settings"
)

// Collections lista as coleções de entidades na ordem em que aparecem no menu
var Collections = []Collection{
	CollectionClients,
	CollectionProjects,
	CollectionSales,
	CollectionPayments,
	CollectionTasks,
	CollectionServices,
	CollectionTargets,
}

// ListFilter filtra uma listagem. Apenas clientes usam Query hoje.
type ListFilter struct {
	Query string
}

func today() string {
	return time.Now().Format(DateLayout)
}
