package workspace

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/pkg/bizclient"
)

func signedIn(t *testing.T, b *testBackend, email string) (*Workspace, *bizclient.Client, *countingTransport) {
	t.Helper()
	ws, c, transport := b.registerOwner(t, email)

	_, err := ws.Gate.SignIn(context.Background(), email, "secret1")
	require.NoError(t, err)
	require.True(t, ws.Store.Authenticated())
	return ws, c, transport
}

func TestStart_WithoutSessionNeverSyncs(t *testing.T) {
	b := newTestBackend(t)
	c, transport := b.newClient(t)
	ws := New(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report := ws.Gate.Start(ctx)

	assert.True(t, report.Skipped)
	assert.False(t, ws.Store.Authenticated())

	nav := ws.Gate.Navigate("/clients")
	assert.Equal(t, Navigation{Path: RouteLogin, Redirected: true}, nav)
	assert.Equal(t, int64(0), transport.requests.Load())
	assert.Empty(t, ws.Store.Clients())
}

func TestStart_RestoresPersistedSession(t *testing.T) {
	b := newTestBackend(t)
	ws, c, _ := signedIn(t, b, "owner@example.com")

	_, err := ws.Mutations.SaveClient(context.Background(), domain.ClientDraft{Name: "Rahim Traders", Revenue: 15000})
	require.NoError(t, err)

	// nova "aba" reaproveitando o token salvo
	reopened, err := bizclient.New(b.url, bizclient.WithTokenStore(c.Tokens()))
	require.NoError(t, err)
	next := New(reopened)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report := next.Gate.Start(ctx)

	assert.True(t, report.OK())
	snap := next.Store.Snapshot()
	assert.True(t, snap.Authenticated)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "owner@example.com", snap.Profile.Email)
	assert.Equal(t, domain.AvatarURL(snap.Profile.ID), snap.Profile.AvatarURL)
	require.Len(t, snap.Clients, 1)
	assert.Equal(t, "৳15,000", domain.FormatTaka(snap.Clients[0].Revenue))
}

func TestRefresh_Idempotent(t *testing.T) {
	b := newTestBackend(t)
	ws, _, _ := signedIn(t, b, "owner@example.com")
	ctx := context.Background()

	_, err := ws.Mutations.SaveClient(ctx, domain.ClientDraft{Name: "Rahim Traders"})
	require.NoError(t, err)
	clientID := ws.Store.Clients()[0].ID

	_, err = ws.Mutations.SaveSale(ctx, domain.SaleDraft{ClientID: clientID, Amount: 100, Date: "2024-05-01"})
	require.NoError(t, err)

	first := ws.Sync.Refresh(ctx)
	before := ws.Store.Snapshot()
	second := ws.Sync.Refresh(ctx)
	after := ws.Store.Snapshot()

	assert.True(t, first.OK())
	assert.True(t, second.OK())
	assert.Equal(t, before, after)
}

func TestSaveClient_RoundTrip(t *testing.T) {
	b := newTestBackend(t)
	ws, _, _ := signedIn(t, b, "owner@example.com")
	ctx := context.Background()

	ws.Store.OpenModal(domain.CollectionClients, "")

	draft := domain.ClientDraft{
		Name:     "Rahim Traders",
		Company:  "Rahim & Sons",
		Email:    "rahim@example.com",
		Phone:    "01711111111",
		Status:   domain.ClientStatusActive,
		Revenue:  15000,
		JoinDate: "2024-05-01",
	}

	report, err := ws.Mutations.SaveClient(ctx, draft)
	require.NoError(t, err)
	assert.True(t, report.OK())

	snap := ws.Store.Snapshot()
	require.Len(t, snap.Clients, 1)
	saved := snap.Clients[0]

	got := saved.Draft()
	got.ID = ""
	got.Version = 0
	assert.Equal(t, draft, got)
	assert.False(t, snap.UI.ModalOpen)

	// edição usa o id e a versão do registro carregado
	edit := saved.Draft()
	edit.Revenue = 20000
	_, err = ws.Mutations.SaveClient(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, ws.Store.Clients()[0].Revenue)

	// a mesma versão de novo é um conflito
	_, err = ws.Mutations.SaveClient(ctx, edit)
	assert.True(t, bizclient.IsConflict(err))
}

func TestSaveClient_EmptyNameNeverReachesBackend(t *testing.T) {
	b := newTestBackend(t)
	ws, _, transport := signedIn(t, b, "owner@example.com")

	before := transport.requests.Load()
	clients := ws.Store.Clients()

	_, err := ws.Mutations.SaveClient(context.Background(), domain.ClientDraft{Name: "  "})

	var fields domain.ValidationErrors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "name")
	assert.Equal(t, before, transport.requests.Load())
	assert.Equal(t, clients, ws.Store.Clients())
}

func TestSaveSale_BackendErrorSurfacesRawMessage(t *testing.T) {
	b := newTestBackend(t)
	ws, _, _ := signedIn(t, b, "owner@example.com")

	_, err := ws.Mutations.SaveSale(context.Background(), domain.SaleDraft{ClientID: "ghost", Amount: 100})

	var apiErr *bizclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "VAL_005", apiErr.Code)
	assert.Equal(t, apiErr.Message, ws.Store.Snapshot().UI.LastNotice)
	assert.Empty(t, ws.Store.Snapshot().Sales)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	b := newTestBackend(t)
	ws, _, transport := signedIn(t, b, "owner@example.com")
	ctx := context.Background()

	_, err := ws.Mutations.SaveTask(ctx, domain.TaskDraft{Title: "Ligar para o cliente"})
	require.NoError(t, err)
	taskID := ws.Store.Snapshot().Tasks[0].ID

	before := transport.requests.Load()
	deleted, err := ws.Mutations.DeleteTask(ctx, taskID, ConfirmFunc(func(string) bool { return false }))
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, before, transport.requests.Load())
	assert.Len(t, ws.Store.Snapshot().Tasks, 1)

	deleted, err = ws.Mutations.DeleteTask(ctx, taskID, ConfirmFunc(func(string) bool { return true }))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, ws.Store.Snapshot().Tasks)
}

func TestLogout_ClearsSessionAndRedirects(t *testing.T) {
	b := newTestBackend(t)
	ws, c, _ := signedIn(t, b, "owner@example.com")
	ctx := context.Background()

	_, err := ws.Mutations.SaveService(ctx, domain.ServiceDraft{Name: "Web design", Price: 5000})
	require.NoError(t, err)
	require.NoError(t, ws.Mutations.ToggleNavItem(ctx, "4"))
	require.NoError(t, ws.Mutations.SetLanguage(ctx, domain.LanguageEN))

	assert.Equal(t, Navigation{Path: "/services"}, ws.Gate.Navigate("/services"))

	require.NoError(t, ws.Gate.Logout(ctx))

	snap := ws.Store.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, snap.Services)
	assert.Equal(t, domain.DefaultNavItems(), snap.NavItems)
	assert.Equal(t, domain.LanguageEN, snap.Language)
	assert.False(t, c.HasToken())
	assert.Equal(t, Navigation{Path: RouteLogin, Redirected: true}, ws.Gate.Navigate("/services"))

	// o menu persistido volta no próximo login
	_, err = ws.Gate.SignIn(ctx, "owner@example.com", "secret1")
	require.NoError(t, err)
	nav := ws.Store.NavItems()
	for _, item := range nav {
		if item.ID == "4" {
			assert.False(t, item.Visible)
		}
	}
}

func TestNavigate(t *testing.T) {
	store := NewStore()
	gate := NewGate(nil, store, NewSynchronizer(nil, store))

	assert.Equal(t, Navigation{Path: RouteHome, Redirected: true}, gate.Navigate("/nowhere"))
	assert.Equal(t, Navigation{Path: RouteRegister}, gate.Navigate(RouteRegister))
	assert.Equal(t, Navigation{Path: RouteLogin, Redirected: true}, gate.Navigate("/custom-reports"))

	store.SetSession(domain.UserProfile{ID: "user-1"})

	assert.Equal(t, Navigation{Path: RouteDashboard, Redirected: true}, gate.Navigate("/nowhere"))
	assert.Equal(t, Navigation{Path: RouteDashboard, Redirected: true}, gate.Navigate(RouteLogin))
	assert.Equal(t, Navigation{Path: "/targets"}, gate.Navigate("/targets"))
}

func TestSignUp_AlreadyRegistered(t *testing.T) {
	b := newTestBackend(t)
	ws, _, _ := b.registerOwner(t, "owner@example.com")

	_, err := ws.Gate.SignUp(context.Background(), domain.SignUpRequest{
		Name:     "Outro",
		Email:    "owner@example.com",
		Password: "secret1",
	})

	require.Error(t, err)
	assert.Equal(t, MessageAlreadyRegistered, err.Error())
}

func TestRemoteProfileUpdate(t *testing.T) {
	b := newTestBackend(t)
	ws, _, _ := b.registerOwner(t, "owner@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ws.Gate.Start(ctx)

	_, err := ws.Gate.SignIn(ctx, "owner@example.com", "secret1")
	require.NoError(t, err)

	// outro dispositivo do mesmo usuário
	other, _ := b.newClient(t)
	_, err = other.SignIn(ctx, "owner@example.com", "secret1")
	require.NoError(t, err)

	name := "Rahim Uddin"
	assert.Eventually(t, func() bool {
		// reenvia até a assinatura estar aberta
		_, err := other.UpdateUser(ctx, domain.UpdateMetadataRequest{Name: &name})
		if err != nil {
			return false
		}
		profile := ws.Store.Snapshot().Profile
		return profile != nil && profile.Name == name
	}, 3*time.Second, 50*time.Millisecond)

	// encerrar a outra sessão não derruba esta
	require.NoError(t, other.SignOut(ctx))
	time.Sleep(100 * time.Millisecond)
	assert.True(t, ws.Store.Authenticated())
}

// failingSales derruba apenas a listagem de vendas
type failingSales struct {
	*bizclient.Client
}

func (failingSales) ListSales(context.Context) ([]domain.Sale, error) {
	return nil, errors.New("tempo esgotado")
}

func TestRefresh_PartialFailureKeepsPreviousRows(t *testing.T) {
	b := newTestBackend(t)
	ws, c, _ := signedIn(t, b, "owner@example.com")
	ctx := context.Background()

	_, err := ws.Mutations.SaveClient(ctx, domain.ClientDraft{Name: "Rahim Traders"})
	require.NoError(t, err)

	ws.Store.ReplaceSales([]domain.Sale{{Record: domain.Record{ID: "antiga"}, Amount: 10}})

	synchronizer := NewSynchronizer(failingSales{Client: c}, ws.Store)
	report := synchronizer.Refresh(ctx)

	assert.False(t, report.OK())
	require.Contains(t, report.Failures, domain.CollectionSales)
	assert.Contains(t, report.Updated, domain.CollectionClients)

	snap := ws.Store.Snapshot()
	require.Len(t, snap.Sales, 1)
	assert.Equal(t, "antiga", snap.Sales[0].ID)
	assert.Len(t, snap.Clients, 1)
}

func TestRefresh_SkippedWithoutSession(t *testing.T) {
	b := newTestBackend(t)
	c, transport := b.newClient(t)

	report := NewSynchronizer(c, NewStore()).Refresh(context.Background())

	assert.True(t, report.Skipped)
	assert.Equal(t, int64(0), transport.requests.Load())
}

// slowClients segura a resposta da listagem de clientes até release ser fechado
type slowClients struct {
	*bizclient.Client
	started chan struct{}
	release chan struct{}
}

func (s slowClients) ListClients(ctx context.Context, filter domain.ListFilter) ([]domain.Client, error) {
	rows, err := s.Client.ListClients(ctx, filter)
	close(s.started)
	<-s.release
	return rows, err
}

func TestRefresh_LogoutDuringRefreshDiscardsLateRows(t *testing.T) {
	b := newTestBackend(t)
	ws, c, _ := signedIn(t, b, "owner@example.com")
	ctx := context.Background()

	_, err := ws.Mutations.SaveClient(ctx, domain.ClientDraft{Name: "Acme"})
	require.NoError(t, err)
	require.Len(t, ws.Store.Clients(), 1)

	slow := slowClients{Client: c, started: make(chan struct{}), release: make(chan struct{})}
	synchronizer := NewSynchronizer(slow, ws.Store)

	done := make(chan SyncReport, 1)
	go func() { done <- synchronizer.Refresh(ctx) }()

	<-slow.started
	require.NoError(t, ws.Gate.Logout(ctx))
	close(slow.release)

	var report SyncReport
	select {
	case report = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh não terminou")
	}

	assert.ErrorIs(t, report.Failures[domain.CollectionClients], ErrSessionChanged)
	assert.NotContains(t, report.Updated, domain.CollectionClients)

	snap := ws.Store.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Empty(t, snap.Clients)
	assert.Equal(t, domain.DefaultNavItems(), snap.NavItems)
}

func TestStart_AgainAfterContextEndsListensAgain(t *testing.T) {
	b := newTestBackend(t)
	ws, _, _ := signedIn(t, b, "owner@example.com")

	first, cancelFirst := context.WithCancel(context.Background())
	ws.Gate.Start(first)
	cancelFirst()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	report := ws.Gate.Start(ctx)
	require.False(t, report.Skipped)

	other, _ := b.newClient(t)
	_, err := other.SignIn(ctx, "owner@example.com", "secret1")
	require.NoError(t, err)

	name := "Rahim Uddin"
	assert.Eventually(t, func() bool {
		_, err := other.UpdateUser(ctx, domain.UpdateMetadataRequest{Name: &name})
		if err != nil {
			return false
		}
		profile := ws.Store.Snapshot().Profile
		return profile != nil && profile.Name == name
	}, 3*time.Second, 50*time.Millisecond)
}

func TestResendVerification(t *testing.T) {
	b := newTestBackend(t)
	ws, _, _ := b.registerOwner(t, "owner@example.com")
	ctx := context.Background()

	// usuário já ativo: nada a reenviar
	assert.NoError(t, ws.Gate.ResendVerification(ctx, " owner@example.com "))

	err := ws.Gate.ResendVerification(ctx, "ghost@example.com")
	var apiErr *bizclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
