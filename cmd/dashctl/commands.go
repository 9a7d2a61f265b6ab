package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/workspace"
	"github.com/vfg2006/bizdash-api/pkg/utils"
)

var errNoSession = errors.New("sem sessão ativa, execute dashctl login")

func newFlags(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}

func printJSON(v any) {
	fmt.Println(utils.PrettyJson(v))
}

// restore reabre a sessão salva e sincroniza as coleções
func (a *app) restore(ctx context.Context) (workspace.SyncReport, error) {
	if !a.client.HasToken() {
		return workspace.SyncReport{Skipped: true}, errNoSession
	}
	report := a.ws.Gate.Start(ctx)
	if !a.ws.Store.Authenticated() {
		return report, errNoSession
	}
	warnFailures(report)
	return report, nil
}

func warnFailures(report workspace.SyncReport) {
	for collection, err := range report.Failures {
		fmt.Fprintf(os.Stderr, "aviso: %s não sincronizou: %v\n", collection, err)
	}
	for collection, dropped := range report.Dropped {
		fmt.Fprintf(os.Stderr, "aviso: %s ignorou %d registro(s) inválido(s)\n", collection, dropped)
	}
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "senha")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report, err := a.ws.Gate.SignIn(ctx, strings.TrimSpace(*email), *password)
	if err != nil {
		return err
	}
	warnFailures(report)

	profile := a.ws.Store.Snapshot().Profile
	fmt.Printf("Bem-vindo, %s\n", profile.Name)
	return nil
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register")
	var req domain.SignUpRequest
	fs.StringVar(&req.Name, "name", "", "nome")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Phone, "phone", "", "telefone")
	fs.StringVar(&req.Password, "password", "", "senha (mínimo 6 caracteres)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	verificationRequired, err := a.ws.Gate.SignUp(ctx, req)
	if err != nil {
		return err
	}
	if verificationRequired {
		fmt.Println("Cadastro criado. Confira o código enviado por email e execute dashctl verify.")
		return nil
	}
	fmt.Println("Cadastro criado. Execute dashctl login.")
	return nil
}

func runVerify(ctx context.Context, a *app, args []string) error {
	fs := newFlags("verify")
	email := fs.String("email", "", "email")
	code := fs.String("code", "", "código recebido")
	resend := fs.Bool("resend", false, "envia um novo código para o email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *resend {
		if err := a.ws.Gate.ResendVerification(ctx, *email); err != nil {
			return err
		}
		fmt.Println("Novo código enviado. Execute dashctl verify --email E --code C.")
		return nil
	}

	if err := a.ws.Gate.Verify(ctx, *email, *code); err != nil {
		return err
	}
	fmt.Println("Email confirmado. Execute dashctl login.")
	return nil
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	if !a.client.HasToken() {
		fmt.Println("Nenhuma sessão ativa.")
		return nil
	}
	if err := a.ws.Gate.Logout(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "aviso: a sessão foi encerrada apenas localmente:", err)
	}
	fmt.Println("Sessão encerrada.")
	return nil
}

func runWhoami(ctx context.Context, a *app, _ []string) error {
	session, err := a.client.GetSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return errNoSession
	}
	printJSON(session)
	return nil
}

func runProfile(ctx context.Context, a *app, args []string) error {
	fs := newFlags("profile")
	name := fs.String("name", "", "novo nome")
	phone := fs.String("phone", "", "novo telefone")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.restore(ctx); err != nil {
		return err
	}

	var req domain.UpdateMetadataRequest
	if fs.Changed("name") {
		req.Name = name
	}
	if fs.Changed("phone") {
		req.Phone = phone
	}
	if err := a.ws.Gate.UpdateProfile(ctx, req); err != nil {
		return err
	}
	printJSON(a.ws.Store.Snapshot().Profile)
	return nil
}

func runSync(ctx context.Context, a *app, _ []string) error {
	started := time.Now()
	report, err := a.restore(ctx)
	if err != nil {
		return err
	}

	snap := a.ws.Store.Snapshot()
	counts := map[domain.Collection]int{
		domain.CollectionClients:  len(snap.Clients),
		domain.CollectionProjects: len(snap.Projects),
		domain.CollectionSales:    len(snap.Sales),
		domain.CollectionPayments: len(snap.Payments),
		domain.CollectionTasks:    len(snap.Tasks),
		domain.CollectionServices: len(snap.Services),
		domain.CollectionTargets:  len(snap.Targets),
	}
	for _, c := range domain.Collections {
		fmt.Printf("%-9s %d\n", c, counts[c])
	}
	fmt.Printf("%d coleções sincronizadas em %s\n", len(report.Updated), time.Since(started).Round(time.Millisecond))
	return nil
}

func runDashboard(ctx context.Context, a *app, args []string) error {
	fs := newFlags("dashboard")
	rangeName := fs.String("range", string(domain.RangeMonth), "today, week, month ou year")
	remote := fs.Bool("remote", false, "calcular no servidor em vez de localmente")
	if err := fs.Parse(args); err != nil {
		return err
	}
	r := domain.ParseRevenueRange(*rangeName)

	var stats domain.DashboardStats
	if *remote {
		if !a.client.HasToken() {
			return errNoSession
		}
		remoteStats, err := a.client.Dashboard(ctx, r)
		if err != nil {
			return err
		}
		stats = *remoteStats
	} else {
		if _, err := a.restore(ctx); err != nil {
			return err
		}
		stats = a.ws.Store.Dashboard(r, time.Now())
	}

	fmt.Printf("Receita total:      %s\n", domain.FormatTaka(stats.TotalRevenue))
	fmt.Printf("Receita de clientes: %s\n", domain.FormatTaka(stats.ClientRevenue))
	fmt.Printf("Em aberto:          %s\n", domain.FormatTaka(stats.DueAmount))
	fmt.Printf("Clientes: %d  Projetos ativos: %d  Tarefas pendentes: %d\n",
		stats.TotalClients, stats.ActiveProjects, stats.PendingTasks)

	fmt.Println()
	for _, p := range stats.RevenueSeries {
		fmt.Printf("  %-7s %s\n", p.Label, domain.FormatTaka(p.Amount))
	}
	for _, t := range stats.Targets {
		fmt.Printf("  meta %-20s %5.1f%%\n", t.Title, t.Progress)
	}
	return nil
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := newFlags("list")
	query := fs.String("q", "", "busca por nome, empresa ou email (clientes)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("uso: dashctl list <coleção>")
	}

	ops, err := lookupCollection(fs.Arg(0))
	if err != nil {
		return err
	}
	if _, err := a.restore(ctx); err != nil {
		return err
	}

	snap := a.ws.Store.Snapshot()
	if domain.Collection(fs.Arg(0)) == domain.CollectionClients {
		printJSON(domain.FilterClients(snap.Clients, *query))
		return nil
	}
	printJSON(ops.rows(snap))
	return nil
}

func runSave(ctx context.Context, a *app, args []string) error {
	fs := newFlags("save")
	data := fs.String("data", "", "campos do registro em JSON")
	id := fs.String("id", "", "id do registro a editar (vazio cria um novo)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("uso: dashctl save <coleção> --data '{...}'")
	}

	ops, err := lookupCollection(fs.Arg(0))
	if err != nil {
		return err
	}
	if _, err := a.restore(ctx); err != nil {
		return err
	}

	report, err := ops.save(ctx, a.ws, *id, []byte(*data))
	if err != nil {
		var fields domain.ValidationErrors
		if errors.As(err, &fields) {
			printJSON(fields)
		}
		return err
	}
	warnFailures(report)
	printJSON(ops.rows(a.ws.Store.Snapshot()))
	return nil
}

// stdinConfirmer pergunta no terminal antes de excluir
type stdinConfirmer struct {
	assumeYes bool
}

func (c stdinConfirmer) Confirm(prompt string) bool {
	if c.assumeYes {
		return true
	}
	fmt.Fprintf(os.Stderr, "%s [s/N] ", prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "s" || answer == "y"
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlags("delete")
	yes := fs.Bool("yes", false, "não pedir confirmação")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("uso: dashctl delete <coleção> <id>")
	}

	ops, err := lookupCollection(fs.Arg(0))
	if err != nil {
		return err
	}
	if _, err := a.restore(ctx); err != nil {
		return err
	}

	deleted, err := ops.remove(a.ws.Mutations, ctx, fs.Arg(1), stdinConfirmer{assumeYes: *yes})
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Println("Nada foi excluído.")
		return nil
	}
	fmt.Println("Registro excluído.")
	return nil
}

func runNav(ctx context.Context, a *app, args []string) error {
	if _, err := a.restore(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"list"}
	}

	m := a.ws.Mutations
	var err error
	switch {
	case args[0] == "list" && len(args) == 1:
	case args[0] == "toggle" && len(args) == 2:
		err = m.ToggleNavItem(ctx, args[1])
	case args[0] == "rename" && len(args) == 3:
		err = m.RenameNavItem(ctx, args[1], args[2])
	case args[0] == "add" && len(args) == 2:
		_, err = m.AddNavItem(ctx, args[1])
	default:
		return fmt.Errorf("uso: dashctl %s", commands["nav"].usage)
	}
	if err != nil {
		return err
	}

	lang := a.ws.Store.Language()
	for _, item := range a.ws.Store.NavItems() {
		mark := " "
		if item.Visible {
			mark = "x"
		}
		fmt.Printf("[%s] %-3s %-20s %s\n", mark, item.ID, item.DisplayName(lang), item.Path)
	}
	return nil
}

func runLang(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("uso: dashctl lang <en|bn>")
	}
	if _, err := a.restore(ctx); err != nil {
		return err
	}
	if err := a.ws.Mutations.SetLanguage(ctx, domain.Language(args[0])); err != nil {
		return err
	}
	fmt.Printf("Idioma: %s\n", a.ws.Store.Language())
	return nil
}
