package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrNavItemNotFound  = errors.New("item de menu não encontrado")
	ErrNavDuplicatedID  = errors.New("item de menu com id duplicado")
	ErrNavInvalidPath   = errors.New("caminho do menu deve começar com /")
	ErrNavEmptyName     = errors.New("nome do menu é obrigatório")
	ErrNavPathDuplicate = errors.New("já existe um menu com este caminho")
)

// NavItem é uma entrada do menu lateral. O ID é estável entre edições.
type NavItem struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"notblank"`
	BnName   string `json:"bn_name"`
	Path     string `json:"path" validate:"required,startswith=/"`
	IconName string `json:"icon_name"`
	Visible  bool   `json:"visible"`
}

func (n NavItem) DisplayName(lang Language) string {
	if lang == LanguageBN && n.BnName != "" {
		return n.BnName
	}
	return n.Name
}

// DefaultNavItems retorna uma cópia nova do menu padrão
func DefaultNavItems() []NavItem {
	return []NavItem{
		{ID: "1", Name: "Dashboard", BnName: "ড্যাশবোর্ড", Path: "/dashboard", IconName: "LayoutGrid", Visible: true},
		{ID: "2", Name: "Clients", BnName: "ক্লায়েন্ট", Path: "/clients", IconName: "Users", Visible: true},
		{ID: "3", Name: "Projects", BnName: "প্রজেক্ট", Path: "/projects", IconName: "Briefcase", Visible: true},
		{ID: "4", Name: "Sales", BnName: "বিক্রয়", Path: "/sales", IconName: "DollarSign", Visible: true},
		{ID: "5", Name: "Payments", BnName: "পেমেন্ট", Path: "/payments", IconName: "CreditCard", Visible: true},
		{ID: "6", Name: "Targets", BnName: "টার্গেট", Path: "/targets", IconName: "Target", Visible: true},
		{ID: "7", Name: "Services", BnName: "সার্ভিস", Path: "/services", IconName: "Layers", Visible: true},
		{ID: "8", Name: "Tasks", BnName: "টাস্ক", Path: "/tasks", IconName: "CheckSquare", Visible: true},
		{ID: "9", Name: "Settings", BnName: "সেটিংস", Path: "/settings", IconName: "Settings", Visible: true},
	}
}

// ValidateNav garante ids únicos e caminhos absolutos
func ValidateNav(items []NavItem) error {
	seenIDs := make(map[string]bool, len(items))
	seenPaths := make(map[string]bool, len(items))
	for _, item := range items {
		if err := Validate(item); err != nil {
			return fmt.Errorf("menu %q: %w", item.ID, err)
		}
		if seenIDs[item.ID] {
			return fmt.Errorf("%w: %s", ErrNavDuplicatedID, item.ID)
		}
		if seenPaths[item.Path] {
			return fmt.Errorf("%w: %s", ErrNavPathDuplicate, item.Path)
		}
		seenIDs[item.ID] = true
		seenPaths[item.Path] = true
	}
	return nil
}

// OverlayNav aplica o menu persistido sobre o padrão. Um menu persistido vazio mantém o padrão.
func OverlayNav(persisted []NavItem) []NavItem {
	if len(persisted) == 0 {
		return DefaultNavItems()
	}
	out := make([]NavItem, len(persisted))
	copy(out, persisted)
	return out
}

func VisibleNavItems(items []NavItem) []NavItem {
	out := make([]NavItem, 0, len(items))
	for _, item := range items {
		if item.Visible {
			out = append(out, item)
		}
	}
	return out
}

func ToggleVisibility(items []NavItem, id string) ([]NavItem, error) {
	return updateNavItem(items, id, func(item *NavItem) {
		item.Visible = !item.Visible
	})
}

func RenameLocalized(items []NavItem, id, bnName string) ([]NavItem, error) {
	return updateNavItem(items, id, func(item *NavItem) {
		item.BnName = bnName
	})
}

var slugSpaces = regexp.MustCompile(`\s+`)

// AddCustomItem adiciona um menu personalizado com caminho /custom-<slug>
func AddCustomItem(items []NavItem, name string) ([]NavItem, NavItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return items, NavItem{}, ErrNavEmptyName
	}

	id, err := gonanoid.New(9)
	if err != nil {
		return items, NavItem{}, err
	}

	item := NavItem{
		ID:       id,
		Name:     name,
		BnName:   name,
		Path:     "/custom-" + slugSpaces.ReplaceAllString(strings.ToLower(name), "-"),
		IconName: "Settings",
		Visible:  true,
	}

	for _, existing := range items {
		if existing.Path == item.Path {
			return items, NavItem{}, fmt.Errorf("%w: %s", ErrNavPathDuplicate, item.Path)
		}
	}

	out := make([]NavItem, 0, len(items)+1)
	out = append(out, items...)
	out = append(out, item)
	return out, item, nil
}

func updateNavItem(items []NavItem, id string, fn func(*NavItem)) ([]NavItem, error) {
	out := make([]NavItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
			return out, nil
		}
	}
	return items, fmt.Errorf("%w: %s", ErrNavItemNotFound, id)
}
