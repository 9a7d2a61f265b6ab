package bizclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vfg2006/bizdash-api/internal/domain"
)

func (c *Client) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var settings domain.Settings
	if err := c.do(ctx, http.MethodGet, "/v1/settings", nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveNav persiste o menu inteiro como um único blob
func (c *Client) SaveNav(ctx context.Context, items []domain.NavItem) (*domain.Settings, error) {
	body := map[string]any{"nav_items": items}

	var settings domain.Settings
	if err := c.do(ctx, http.MethodPut, "/v1/settings/nav", nil, body, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *Client) SetLanguage(ctx context.Context, lang domain.Language) (*domain.Settings, error) {
	body := map[string]any{"language": lang}

	var settings domain.Settings
	if err := c.do(ctx, http.MethodPut, "/v1/settings/language", nil, body, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *Client) Dashboard(ctx context.Context, r domain.RevenueRange) (*domain.DashboardStats, error) {
	query := url.Values{"range": {string(r)}}

	var stats domain.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/v1/dashboard", query, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
