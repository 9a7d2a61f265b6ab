package workspace

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
	"github.com/vfg2006/bizdash-api/pkg/bizclient"
)

const (
	RouteHome      = "/"
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteVerify    = "/verify"
	RouteDashboard = "/dashboard"
)

// MessageAlreadyRegistered é a mensagem exibida quando o email já tem conta
const MessageAlreadyRegistered = "This email is already registered. Please sign in instead."

var publicRoutes = map[string]bool{
	RouteHome:     true,
	RouteLogin:    true,
	RouteRegister: true,
	RouteVerify:   true,
}

var protectedRoutes = map[string]bool{
	RouteDashboard: true,
	"/clients":     true,
	"/projects":    true,
	"/tasks":       true,
	"/sales":       true,
	"/payments":    true,
	"/targets":     true,
	"/services":    true,
	"/settings":    true,
}

// Navigation é o destino final de uma navegação depois do guard
type Navigation struct {
	Path       string
	Redirected bool
}

// Gate controla a sessão da aplicação: checagem inicial, login, logout e a assinatura
// de mudanças de sessão.
type Gate struct {
	auth  AuthBackend
	store *Store
	sync  *Synchronizer

	events chan domain.AuthEvent

	mu           sync.Mutex
	remoteCancel context.CancelFunc
	// listenCtx é o contexto do ouvinte ativo; nil quando nenhum está rodando
	listenCtx context.Context
}

func NewGate(auth AuthBackend, store *Store, synchronizer *Synchronizer) *Gate {
	return &Gate{
		auth:   auth,
		store:  store,
		sync:   synchronizer,
		events: make(chan domain.AuthEvent, 8),
	}
}

// Start consulta a sessão existente e registra o ouvinte de mudanças de sessão até ctx terminar.
// Erros na checagem inicial deixam a aplicação sem sessão, sem retry.
func (g *Gate) Start(ctx context.Context) SyncReport {
	g.mu.Lock()
	if g.listenCtx == nil || g.listenCtx.Err() != nil {
		g.listenCtx = ctx
		go g.listen(ctx)
	}
	g.mu.Unlock()

	session, err := g.auth.GetSession(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Falha ao consultar a sessão, seguindo sem autenticação")
		return SyncReport{Skipped: true}
	}
	if session == nil {
		return SyncReport{Skipped: true}
	}

	return g.signedIn(ctx, session.User)
}

func (g *Gate) listen(ctx context.Context) {
	defer func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		// um Start posterior pode já ter aberto outro ouvinte
		if g.listenCtx != ctx {
			return
		}
		g.listenCtx = nil
		if g.remoteCancel != nil {
			g.remoteCancel()
			g.remoteCancel = nil
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-g.events:
			g.handleRemote(ctx, event)
		}
	}
}

// handleRemote trata eventos vindos de outras sessões do mesmo usuário
func (g *Gate) handleRemote(ctx context.Context, event domain.AuthEvent) {
	switch event.Type {
	case domain.AuthEventSignedIn:
		if g.store.Authenticated() {
			return
		}
		session, err := g.auth.GetSession(ctx)
		if err == nil && session != nil {
			g.signedIn(ctx, session.User)
		}
	case domain.AuthEventSignedOut, domain.AuthEventUserUpdated:
		// o evento pode ser de outro dispositivo, então a sessão local é reconsultada
		session, err := g.auth.GetSession(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Falha ao reconsultar a sessão")
			return
		}
		if session == nil {
			g.signedOut()
			return
		}
		g.store.SetSession(session.User)
	}
}

// signedIn autentica o store, dispara a sincronização e abre o fluxo remoto de eventos
func (g *Gate) signedIn(ctx context.Context, profile domain.UserProfile) SyncReport {
	g.store.SetSession(profile)
	g.startRemote(ctx)
	return g.sync.Refresh(ctx)
}

func (g *Gate) signedOut() {
	g.stopRemote()
	g.store.ClearSession()
}

func (g *Gate) startRemote(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.remoteCancel != nil {
		g.remoteCancel()
	}

	remoteCtx, cancel := context.WithCancel(ctx)
	g.remoteCancel = cancel

	events, err := g.auth.SubscribeAuthEvents(remoteCtx)
	if err != nil {
		// sem o fluxo remoto o Gate ainda reage aos eventos locais
		logrus.WithError(err).Debug("Fluxo de eventos de sessão indisponível")
		return
	}

	go func() {
		for event := range events {
			select {
			case g.events <- event:
			case <-remoteCtx.Done():
				return
			}
		}
	}()
}

func (g *Gate) stopRemote() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.remoteCancel != nil {
		g.remoteCancel()
		g.remoteCancel = nil
	}
}

func (g *Gate) SignIn(ctx context.Context, email, password string) (SyncReport, error) {
	session, err := g.auth.SignIn(ctx, email, password)
	if err != nil {
		return SyncReport{Skipped: true}, err
	}
	return g.signedIn(ctx, session.User), nil
}

// SignUp cadastra o usuário. Retorna true quando ainda é preciso confirmar o email.
// Email já cadastrado vira uma mensagem própria.
func (g *Gate) SignUp(ctx context.Context, req domain.SignUpRequest) (bool, error) {
	if err := domain.Validate(req); err != nil {
		return false, err
	}

	result, err := g.auth.SignUp(ctx, req)
	if err != nil {
		var apiErr *bizclient.APIError
		if errors.As(err, &apiErr) && apiErr.Code == apiErrors.ErrUserAlreadyExists {
			return false, errors.New(MessageAlreadyRegistered)
		}
		return false, err
	}
	return result.VerificationRequired, nil
}

func (g *Gate) Verify(ctx context.Context, email, code string) error {
	return g.auth.Verify(ctx, strings.TrimSpace(email), strings.TrimSpace(code))
}

// ResendVerification pede um novo código quando o anterior venceu ou não chegou
func (g *Gate) ResendVerification(ctx context.Context, email string) error {
	return g.auth.ResendVerification(ctx, strings.TrimSpace(email))
}

// Logout revoga a sessão e limpa o estado local mesmo que a revogação falhe
func (g *Gate) Logout(ctx context.Context) error {
	err := g.auth.SignOut(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Falha ao revogar a sessão no backend")
	}

	g.signedOut()
	return err
}

// UpdateProfile atualiza nome e telefone e o perfil do store
func (g *Gate) UpdateProfile(ctx context.Context, req domain.UpdateMetadataRequest) error {
	profile, err := g.auth.UpdateUser(ctx, req)
	if err != nil {
		return err
	}
	g.store.SetSession(*profile)
	return nil
}

// Navigate aplica o guard de rotas. Nunca dispara sincronização.
func (g *Gate) Navigate(path string) Navigation {
	authenticated := g.store.Authenticated()

	switch {
	case g.isProtected(path):
		if !authenticated {
			return Navigation{Path: RouteLogin, Redirected: true}
		}
		return Navigation{Path: path}
	case publicRoutes[path]:
		if authenticated && (path == RouteLogin || path == RouteRegister) {
			return Navigation{Path: RouteDashboard, Redirected: true}
		}
		return Navigation{Path: path}
	case authenticated:
		return Navigation{Path: RouteDashboard, Redirected: true}
	default:
		return Navigation{Path: RouteHome, Redirected: true}
	}
}

// isProtected considera também os menus personalizados do usuário
func (g *Gate) isProtected(path string) bool {
	if protectedRoutes[path] {
		return true
	}
	if !strings.HasPrefix(path, "/custom-") {
		return false
	}
	for _, item := range g.store.NavItems() {
		if item.Path == path {
			return true
		}
	}
	return !g.store.Authenticated()
}
