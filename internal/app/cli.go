package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/hitoshi/workerhub/internal/backend"
	"github.com/hitoshi/workerhub/internal/config"
	"github.com/hitoshi/workerhub/internal/logger"
	"github.com/hitoshi/workerhub/internal/metrics"
	"github.com/hitoshi/workerhub/internal/model"
	"github.com/hitoshi/workerhub/internal/session"
	"github.com/hitoshi/workerhub/internal/tokenstore"
)

// ErrMissingEmail はloginコマンドにメールアドレスが指定されていないことを示す。
var ErrMissingEmail = errors.New("usage: workerhub login <email>")

// runCLI はlogin/logout/statusコマンドを実行する。
// トークンはTOKEN_FILEに保存され、Webと同じsession.Sessionで状態を管理する。
// 結果はwに、ログはstderrに出力する。
func runCLI(w io.Writer, cmd Command, args []string, stdin io.Reader) error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.Setup(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	client := backend.NewClient(&http.Client{Timeout: cfg.BackendTimeout}, cfg.BackendBaseURL, log, metrics.Nop{})
	store := tokenstore.NewFileStore(cfg.TokenFile)
	s := session.New(store, client, session.WithLogger(log))
	s.Init()

	switch cmd {
	case CommandLogin:
		return cliLogin(context.Background(), w, s, args, stdin)
	case CommandLogout:
		return cliLogout(w, s)
	default:
		return cliStatus(w, s)
	}
}

// cliLogin は標準入力の1行目をパスワードとしてログインする。
func cliLogin(ctx context.Context, w io.Writer, s *session.Session, args []string, stdin io.Reader) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return ErrMissingEmail
	}
	email := strings.TrimSpace(args[0])

	password, err := readPassword(stdin)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	result := s.Login(ctx, model.Credentials{Email: email, Password: password})
	if !result.OK {
		d := result.Detail()
		return fmt.Errorf("login failed (%d): %s", d.Status, d.Detail)
	}

	user, _ := s.User()
	fmt.Fprintf(w, "logged in as %s\n", user)
	return nil
}

// cliLogout はトークンを削除する。未ログインでもエラーにしない。
func cliLogout(w io.Writer, s *session.Session) error {
	if err := s.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Fprintln(w, "logged out")
	return nil
}

// cliStatus は現在のログイン状態を表示する。
func cliStatus(w io.Writer, s *session.Session) error {
	snap := s.Snapshot()
	if !snap.LoggedIn {
		fmt.Fprintln(w, "not logged in")
		return nil
	}
	if snap.User != "" {
		fmt.Fprintf(w, "logged in as %s\n", snap.User)
		return nil
	}
	fmt.Fprintln(w, "logged in")
	return nil
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is empty")
	}
	return line, nil
}
