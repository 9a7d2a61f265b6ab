package domain

import "time"

// Settings é o registro de preferências por usuário. O menu é persistido como um único blob JSON.
type Settings struct {
	UserID    string    `json:"user_id"`
	Language  Language  `json:"language"`
	NavItems  []NavItem `json:"nav_items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:   userID,
		Language: DefaultLanguage,
		NavItems: DefaultNavItems(),
	}
}
