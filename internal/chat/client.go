package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// defaultFeedIdle bounds the silence tolerated on the realtime feed. The server pings every
// 30s by default, so two missed pings drop the connection and trigger a reconnect.
const defaultFeedIdle = 75 * time.Second

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the carenet API and its websocket feed.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	dialer  *websocket.Dialer
	logger  *slog.Logger

	feedIdle time.Duration
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.ParseRequestURI(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("chat: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("chat: unsupported scheme %q", u.Scheme)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: u,
		http:    httpClient,
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second, Proxy: http.ProxyFromEnvironment},
		logger:  logger,

		feedIdle: defaultFeedIdle,
	}, nil
}

func (c *Client) StartConversation(ctx context.Context, s Session, otherUserID uuid.UUID) (uuid.UUID, error) {
	var out struct {
		ConversationID uuid.UUID `json:"conversation_id"`
	}
	body := map[string]uuid.UUID{"other_user_id": otherUserID}
	if err := c.do(ctx, s, http.MethodPost, "/api/v1/conversations", body, &out); err != nil {
		return uuid.Nil, err
	}
	if out.ConversationID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: empty conversation id", ErrInvalidInput)
	}
	return out.ConversationID, nil
}

func (c *Client) ListConversations(ctx context.Context, s Session) ([]Conversation, error) {
	var out []Conversation
	if err := c.do(ctx, s, http.MethodGet, "/api/v1/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMessages(ctx context.Context, s Session, conversationID uuid.UUID) ([]Message, error) {
	var out []Message
	if err := c.do(ctx, s, http.MethodGet, "/api/v1/conversations/"+conversationID.String()+"/messages", nil, &out); err != nil {
		return nil, err
	}
	for _, m := range out {
		if err := m.validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) SendMessage(ctx context.Context, s Session, conversationID uuid.UUID, content string) (Message, error) {
	var out Message
	body := map[string]string{"content": content}
	if err := c.do(ctx, s, http.MethodPost, "/api/v1/conversations/"+conversationID.String()+"/messages", body, &out); err != nil {
		return Message{}, err
	}
	if err := out.validate(); err != nil {
		return Message{}, err
	}
	return out, nil
}

func (c *Client) MarkRead(ctx context.Context, s Session, conversationID uuid.UUID) (int, error) {
	var out struct {
		Marked int `json:"marked"`
	}
	if err := c.do(ctx, s, http.MethodPost, "/api/v1/conversations/"+conversationID.String()+"/read", nil, &out); err != nil {
		return 0, err
	}
	return out.Marked, nil
}

func (c *Client) GetMessage(ctx context.Context, s Session, id uuid.UUID) (Message, error) {
	var out Message
	if err := c.do(ctx, s, http.MethodGet, "/api/v1/messages/"+id.String(), nil, &out); err != nil {
		return Message{}, err
	}
	if err := out.validate(); err != nil {
		return Message{}, err
	}
	return out, nil
}

// Subscribe opens the realtime feed of one conversation.
func (c *Client) Subscribe(ctx context.Context, s Session, conversationID uuid.UUID) (FeedConn, error) {
	u := *c.baseURL
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/conversations/" + conversationID.String()
	u.RawQuery = url.Values{"token": {s.Token}}.Encode()

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("chat: dial feed: %w", err)
	}
	c.logger.Debug("chat: feed connected", slog.String("conversation_id", conversationID.String()))
	return newWSFeed(conn, c.feedIdle), nil
}

func (c *Client) do(ctx context.Context, s Session, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chat: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// Histories are not paginated, so the body is streamed without a size cap.
	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	c.logger.Debug("chat: api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("chat: decode %s: %w", path, decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("chat: decode %s data: %w", path, err)
	}
	return nil
}

// wsFeed reads feed events under an idle deadline. Pings and every received frame extend
// it, so a half-open connection fails Next instead of blocking forever.
type wsFeed struct {
	conn *websocket.Conn
	idle time.Duration
}

func newWSFeed(conn *websocket.Conn, idle time.Duration) *wsFeed {
	f := &wsFeed{conn: conn, idle: idle}
	f.extend()
	conn.SetPingHandler(func(data string) error {
		f.extend()
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
		var netErr net.Error
		if errors.Is(err, websocket.ErrCloseSent) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil
		}
		return err
	})
	return f
}

func (f *wsFeed) extend() {
	if f.idle > 0 {
		_ = f.conn.SetReadDeadline(time.Now().Add(f.idle))
	}
}

func (f *wsFeed) Next() (Event, error) {
	for {
		var ev Event
		err := f.conn.ReadJSON(&ev)
		if err == nil {
			f.extend()
		}
		if err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				continue
			}
			return Event{}, err
		}
		if ev.Type != eventMessageInserted || ev.MessageID == uuid.Nil {
			continue
		}
		return ev, nil
	}
}

func (f *wsFeed) Close() error {
	return f.conn.Close()
}

var _ API = (*Client)(nil)
