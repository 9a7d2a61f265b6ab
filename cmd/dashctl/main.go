// Command dashctl é o cliente de linha de comando do painel: sessão, sincronização, painel e cadastros.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vfg2006/bizdash-api/internal/workspace"
	"github.com/vfg2006/bizdash-api/pkg/bizclient"
	"github.com/vfg2006/bizdash-api/pkg/log"
)

const (
	defaultURL     = "http://localhost:8080"
	sessionFileRel = ".bizdash/session"
)

type settings struct {
	URL      string
	Session  string
	LogLevel string
}

type command struct {
	usage string
	run   func(ctx context.Context, app *app, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"login":     {"login --email E --password P", runLogin},
		"register":  {"register --name N --email E --phone T --password P", runRegister},
		"verify":    {"verify --email E (--code C | --resend)", runVerify},
		"logout":    {"logout", runLogout},
		"whoami":    {"whoami", runWhoami},
		"profile":   {"profile [--name N] [--phone T]", runProfile},
		"sync":      {"sync", runSync},
		"dashboard": {"dashboard [--range today|week|month|year] [--remote]", runDashboard},
		"list":      {"list <coleção> [--q texto]", runList},
		"save":      {"save <coleção> --data '{json}' [--id ID]", runSave},
		"delete":    {"delete <coleção> <id> [--yes]", runDelete},
		"nav":       {"nav list | toggle <id> | rename <id> <nome bn> | add <nome>", runNav},
		"lang":      {"lang <en|bn>", runLang},
	}
}

func main() {
	_ = godotenv.Load()

	global := pflag.NewFlagSet("dashctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.String("url", defaultURL, "endereço da API (BIZDASH_URL)")
	global.String("session", defaultSessionPath(), "arquivo do token da sessão (BIZDASH_SESSION)")
	global.String("log-level", "warn", "nível de log (BIZDASH_LOG_LEVEL)")
	global.Usage = func() { usage(global) }

	if err := global.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := loadSettings(global)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.Setup(cfg.LogLevel, "cli")

	args := global.Args()
	if len(args) == 0 {
		usage(global)
		os.Exit(2)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "comando desconhecido: %s\n\n", args[0])
		usage(global)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cmd.run(ctx, app, args[1:]); err != nil {
		logrus.WithError(err).Debug("Comando falhou")
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

// loadSettings combina flags e ambiente. Flags explícitas vencem o ambiente.
func loadSettings(flags *pflag.FlagSet) (settings, error) {
	v := viper.New()
	v.SetEnvPrefix("bizdash")
	v.AutomaticEnv()

	for key, flag := range map[string]string{"url": "url", "session": "session", "log_level": "log-level"} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return settings{}, fmt.Errorf("flag %s: %w", flag, err)
		}
	}

	return settings{
		URL:      v.GetString("url"),
		Session:  v.GetString("session"),
		LogLevel: v.GetString("log_level"),
	}, nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return sessionFileRel
	}
	return filepath.Join(home, sessionFileRel)
}

func usage(flags *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "uso: dashctl [flags] <comando> [argumentos]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "comandos:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "flags:")
	fmt.Fprint(os.Stderr, flags.FlagUsages())
	fmt.Fprintf(os.Stderr, "\ncoleções: %s\n", strings.Join(collectionNames(), ", "))
}

type app struct {
	client *bizclient.Client
	ws     *workspace.Workspace
}

func newApp(cfg settings) (*app, error) {
	client, err := bizclient.New(cfg.URL, bizclient.WithTokenStore(bizclient.NewFileTokenStore(cfg.Session)))
	if err != nil {
		return nil, err
	}
	return &app{client: client, ws: workspace.New(client)}, nil
}
