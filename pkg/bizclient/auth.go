package bizclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

type SignUpResult struct {
	User                 *domain.UserProfile `json:"user"`
	VerificationRequired bool                `json:"verification_required"`
}

func (c *Client) SignUp(ctx context.Context, req domain.SignUpRequest) (*SignUpResult, error) {
	var result SignUpResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signup", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Verify(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "code": code}
	return c.do(ctx, http.MethodPost, "/v1/auth/verify", nil, body, nil)
}

// ResendVerification pede um novo código de confirmação para o email
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/v1/auth/verify/resend", nil, body, nil)
}

// SignIn autentica e guarda o token da sessão
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session domain.Session
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signin", nil, body, &session); err != nil {
		return nil, err
	}

	if err := c.tokens.SetToken(session.AccessToken); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revoga a sessão no backend. O token local é descartado mesmo que a sessão já tenha expirado.
func (c *Client) SignOut(ctx context.Context) error {
	if !c.HasToken() {
		return nil
	}

	err := c.do(ctx, http.MethodPost, "/v1/auth/signout", nil, nil, nil)
	if err != nil && !IsUnauthorized(err) {
		return err
	}
	return c.tokens.Clear()
}

// GetSession retorna a sessão atual ou nil quando não há sessão válida
func (c *Client) GetSession(ctx context.Context) (*domain.Session, error) {
	if !c.HasToken() {
		return nil, nil
	}

	var session domain.Session
	err := c.do(ctx, http.MethodGet, "/v1/auth/session", nil, nil, &session)
	if IsUnauthorized(err) {
		_ = c.tokens.Clear()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) UpdateUser(ctx context.Context, req domain.UpdateMetadataRequest) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.do(ctx, http.MethodPut, "/v1/auth/user", nil, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SubscribeAuthEvents abre o websocket de eventos de sessão. O canal é fechado quando ctx
// termina ou a conexão cai.
func (c *Client) SubscribeAuthEvents(ctx context.Context) (<-chan domain.AuthEvent, error) {
	token := c.tokens.Token()
	if token == "" {
		return nil, errors.New("sem sessão para assinar eventos")
	}

	wsURL := c.endpoint("/v1/auth/events", nil)
	wsURL = "ws" + strings.TrimPrefix(wsURL, "http")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, decodeAPIError(resp)
		}
		return nil, errors.Wrap(err, "erro ao conectar aos eventos de sessão")
	}

	out := make(chan domain.AuthEvent, 8)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		case <-done:
		}
		_ = conn.Close()
	}()

	go func() {
		defer close(out)
		defer close(done)
		for {
			var event domain.AuthEvent
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logrus.WithError(err).Warn("Conexão de eventos de sessão encerrada")
				}
				return
			}
			if err := json.Unmarshal(raw, &event); err != nil {
				logrus.WithError(err).Warn("Evento de sessão malformado descartado")
				continue
			}

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
