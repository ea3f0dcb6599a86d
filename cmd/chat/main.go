package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"carenet/internal/chat"

	"github.com/google/uuid"
)

func main() {
	profilePath := flag.String("profile", defaultProfilePath(), "YAML profile with base_url, token and user_id")
	baseURL := flag.String("base-url", os.Getenv("CARENET_BASE_URL"), "API base url")
	token := flag.String("token", os.Getenv("CARENET_TOKEN"), "access token")
	userID := flag.String("user", "", "your user id")
	with := flag.String("with", "", "open the conversation with this user id on start")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	p, err := LoadProfile(*profilePath)
	if err != nil {
		log.Fatalf("failed to load profile: %v", err)
	}
	p = p.Override(*baseURL, *token, *userID)
	me, err := p.Validate()
	if err != nil {
		log.Fatalf("invalid profile: %v", err)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client, err := chat.NewClient(p.BaseURL, nil, logger)
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}

	term := newTerminal(os.Stdout, me)
	var ctrl *chat.Controller
	ctrl = chat.NewController(client, chat.Session{UserID: me, FullName: p.FullName, Token: p.Token}, chat.Options{
		RequestTimeout: p.Timeout,
		Notifier:       chat.NotifierFunc(term.notice),
		OnChange:       func() { term.render(ctrl.Entries()) },
		Logger:         logger,
	})
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *with != "" {
		runCommand(ctx, ctrl, term, "/with "+*with)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	term.printf("commands: /list, /with <user-id>, /open <conversation-id>, /leave, /quit\n")
	var sends sync.WaitGroup
	defer sends.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if strings.HasPrefix(line, "/") {
				if !runCommand(ctx, ctrl, term, line) {
					return
				}
				continue
			}

			ctrl.SetComposer(line)
			sends.Add(1)
			go func() {
				defer sends.Done()
				err := ctrl.Submit(ctx)
				switch {
				case err == nil, errors.Is(err, chat.ErrEmptyMessage):
				case errors.Is(err, chat.ErrSendInFlight):
					term.printf("still sending the previous message\n")
				case errors.Is(err, chat.ErrNoConversation):
					term.printf("open a conversation first\n")
				}
			}()
		}
	}
}

// runCommand executes one slash command and reports false on /quit.
func runCommand(ctx context.Context, ctrl *chat.Controller, term *terminal, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit":
		return false
	case "/list":
		items, err := ctrl.LoadConversations(ctx)
		if err != nil {
			term.printf("could not load conversations: %v\n", err)
			return true
		}
		for _, c := range items {
			term.printf("%s  %-24s  %d unread\n", c.ID, c.OtherUser.FullName, c.UnreadCount)
		}
	case "/with", "/open":
		if len(fields) < 2 {
			term.printf("usage: %s <id>\n", fields[0])
			return true
		}
		id, err := uuid.Parse(fields[1])
		if err != nil {
			term.printf("invalid id: %v\n", err)
			return true
		}
		term.reset()
		if fields[0] == "/with" {
			_, err = ctrl.StartWith(ctx, id)
		} else {
			err = ctrl.Open(ctx, id)
		}
		if err != nil {
			term.printf("could not open conversation: %v\n", err)
		}
	case "/leave":
		ctrl.Leave()
		term.reset()
	default:
		term.printf("unknown command %s\n", fields[0])
	}
	return true
}

type terminal struct {
	mu      sync.Mutex
	w       io.Writer
	me      uuid.UUID
	printed map[uuid.UUID]bool
}

func newTerminal(w io.Writer, me uuid.UUID) *terminal {
	return &terminal{w: w, me: me, printed: make(map[uuid.UUID]bool)}
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, format, args...)
}

func (t *terminal) reset() {
	t.mu.Lock()
	t.printed = make(map[uuid.UUID]bool)
	t.mu.Unlock()
}

func (t *terminal) notice(msg string) {
	t.printf("! %s\n", msg)
}

// render prints entries not shown yet. Pending entries are printed once with a marker.
func (t *terminal) render(entries []chat.Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range entries {
		switch v := e.(type) {
		case chat.Confirmed:
			if t.printed[v.Message.ID] {
				continue
			}
			t.printed[v.Message.ID] = true
			name := v.Message.Sender.FullName
			if v.Message.SenderID == t.me {
				name = "you"
			}
			fmt.Fprintf(t.w, "[%s] %s: %s\n", v.Message.CreatedAt.Local().Format("15:04"), name, v.Message.Content)
		case chat.Pending:
			if t.printed[v.LocalID] {
				continue
			}
			t.printed[v.LocalID] = true
			fmt.Fprintf(t.w, "[sending] %s\n", v.Content)
		}
	}
}

func defaultProfilePath() string {
	if p := os.Getenv("CARENET_CHAT_PROFILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".carenet", "chat.yaml")
}
