package domain

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vfg2006/bizdash-api/pkg/utils"
)

const (
	TakaSymbol       = "৳"
	seriesLabelFmt   = "Jan 2"
	maxProgressValue = 100.0
)

// RevenueRange é a janela de tempo do gráfico de receita
type RevenueRange string

const (
	RangeToday RevenueRange = "today"
	RangeWeek  RevenueRange = "week"
	RangeMonth RevenueRange = "month"
	RangeYear  RevenueRange = "year"
)

// ParseRevenueRange aceita today, week, month ou year. Qualquer outro valor vira month.
func ParseRevenueRange(s string) RevenueRange {
	switch RevenueRange(strings.ToLower(strings.TrimSpace(s))) {
	case RangeToday:
		return RangeToday
	case RangeWeek:
		return RangeWeek
	case RangeYear:
		return RangeYear
	default:
		return RangeMonth
	}
}

// Window retorna o intervalo [start, end) do range relativo a now
func (r RevenueRange) Window(now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch r {
	case RangeToday:
		return day, day.AddDate(0, 0, 1)
	case RangeWeek:
		// semana de segunda a domingo
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case RangeYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	default:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	}
}

type RevenuePoint struct {
	Date   string  `json:"date"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type TargetProgressView struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Goal     float64 `json:"goal"`
	Current  float64 `json:"current"`
	Progress float64 `json:"progress"`
}

type DashboardStats struct {
	Range          RevenueRange         `json:"range"`
	TotalRevenue   float64              `json:"total_revenue"`
	ClientRevenue  float64              `json:"client_revenue"`
	DueAmount      float64              `json:"due_amount"`
	ActiveProjects int                  `json:"active_projects"`
	PendingTasks   int                  `json:"pending_tasks"`
	TotalClients   int                  `json:"total_clients"`
	RevenueSeries  []RevenuePoint       `json:"revenue_series"`
	Targets        []TargetProgressView `json:"targets"`
}

// TotalRevenue é a receita oficial do painel: soma dos valores das vendas
func TotalRevenue(sales []Sale) float64 {
	var total float64
	for _, s := range sales {
		total += s.Amount
	}
	return total
}

// ClientRevenueTotal soma o campo receita de cada cliente. Exibido separado, não substitui TotalRevenue.
func ClientRevenueTotal(clients []Client) float64 {
	var total float64
	for _, c := range clients {
		total += c.Revenue
	}
	return total
}

// DueAmount soma as vendas ainda não pagas
func DueAmount(sales []Sale) float64 {
	var total float64
	for _, s := range sales {
		if s.Status == SaleStatusDue || s.Status == SaleStatusPending {
			total += s.Amount
		}
	}
	return total
}

func ActiveProjectCount(projects []Project) int {
	count := 0
	for _, p := range projects {
		if p.Status == ProjectStatusOngoing {
			count++
		}
	}
	return count
}

func PendingTaskCount(tasks []Task) int {
	count := 0
	for _, t := range tasks {
		if t.Status == TaskStatusTodo {
			count++
		}
	}
	return count
}

// TargetProgress = min(100, current/goal*100). Meta sem objetivo positivo tem progresso 0.
func TargetProgress(t Target) float64 {
	if t.Goal <= 0 || t.Current <= 0 {
		return 0
	}
	return math.Min(maxProgressValue, t.Current/t.Goal*100)
}

// RevenueSeries agrupa as vendas da janela por dia, em ordem cronológica.
// Sem vendas na janela, retorna um único ponto zerado com o dia de now.
func RevenueSeries(sales []Sale, r RevenueRange, now time.Time) []RevenuePoint {
	start, end := r.Window(now)

	buckets := make(map[string]float64)
	for _, s := range sales {
		date, err := utils.ParseDate(s.Date, now.Location())
		if err != nil {
			continue
		}
		if date.Before(start) || !date.Before(end) {
			continue
		}
		buckets[s.Date] += s.Amount
	}

	if len(buckets) == 0 {
		return []RevenuePoint{{
			Date:   utils.Today(now),
			Label:  now.Format(seriesLabelFmt),
			Amount: 0,
		}}
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	// datas ISO ordenam lexicograficamente
	sort.Strings(days)

	points := make([]RevenuePoint, 0, len(days))
	for _, day := range days {
		date, _ := utils.ParseDate(day, now.Location())
		points = append(points, RevenuePoint{
			Date:   day,
			Label:  date.Format(seriesLabelFmt),
			Amount: utils.RoundWithTwoDecimalPlace(buckets[day]),
		})
	}
	return points
}

// FilterClients filtra por nome, empresa ou email sem diferenciar maiúsculas
func FilterClients(clients []Client, query string) []Client {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Client, len(clients))
		copy(out, clients)
		return out
	}

	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Company), query) ||
			strings.Contains(strings.ToLower(c.Email), query) {
			out = append(out, c)
		}
	}
	return out
}

// FormatTaka formata um valor em taka, ex: 15000 -> "৳15,000"
func FormatTaka(amount float64) string {
	if amount < 0 {
		return "-" + TakaSymbol + humanize.Commaf(-amount)
	}
	return TakaSymbol + humanize.Commaf(amount)
}

// ComputeDashboard reduz as coleções nas estatísticas do painel
func ComputeDashboard(
	clients []Client,
	projects []Project,
	sales []Sale,
	tasks []Task,
	targets []Target,
	r RevenueRange,
	now time.Time,
) DashboardStats {
	views := make([]TargetProgressView, 0, len(targets))
	for _, t := range targets {
		views = append(views, TargetProgressView{
			ID:       t.ID,
			Title:    t.Title,
			Goal:     t.Goal,
			Current:  t.Current,
			Progress: utils.RoundWithTwoDecimalPlace(TargetProgress(t)),
		})
	}

	return DashboardStats{
		Range:          r,
		TotalRevenue:   TotalRevenue(sales),
		ClientRevenue:  ClientRevenueTotal(clients),
		DueAmount:      DueAmount(sales),
		ActiveProjects: ActiveProjectCount(projects),
		PendingTasks:   PendingTaskCount(tasks),
		TotalClients:   len(clients),
		RevenueSeries:  RevenueSeries(sales, r, now),
		Targets:        views,
	}
}
