// Команда coursectl — консольный клиент платформы: вход, регистрация,
// подтверждение почты и просмотр каталога через кеш запросов.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/eduline/course-platform/internal/client/api"
	"github.com/eduline/course-platform/internal/client/credstore"
	"github.com/eduline/course-platform/internal/client/querycache"
	"github.com/eduline/course-platform/internal/client/session"
	"github.com/eduline/course-platform/internal/lib/sl"
	"github.com/eduline/course-platform/internal/models"
)

const usage = `usage: coursectl <command> [args]

commands:
  login <username>                   sign in, password is prompted
  register <email> <username>        create an account and sign in
  whoami                             show current session
  verify <code>                      confirm email with the code from the letter
  resend                             resend the verification code
  logout                             sign out and forget credentials
  exams [query]                      list or search exams`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	baseURL := os.Getenv("COURSE_PLATFORM_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	apiClient := api.NewClient(baseURL, logger)

	creds, err := credstore.New(logger)
	if err != nil {
		logger.Error("failed to init credentials store", sl.Err(err))
		os.Exit(1)
	}

	// Токен прошлого запуска продолжает сессию; переменная окружения
	// имеет приоритет.
	if token, ok := creds.ReadToken(); ok {
		apiClient.SetToken(token)
	}
	if token := os.Getenv("COURSE_PLATFORM_TOKEN"); token != "" {
		apiClient.SetToken(token)
	}

	ctrl := session.NewController(apiClient, creds, logger)
	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		runLogin(ctx, ctrl, os.Args[2:])
		creds.SaveToken(apiClient.Token())
	case "register":
		runRegister(ctx, ctrl, os.Args[2:])
		creds.SaveToken(apiClient.Token())
	case "whoami":
		runWhoami(ctx, ctrl)
	case "verify":
		runVerify(ctx, ctrl, os.Args[2:])
	case "resend":
		runResend(ctx, ctrl)
	case "logout":
		ctrl.Logout(ctx)
		fmt.Println("signed out")
	case "exams":
		runExams(ctx, apiClient, os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func runLogin(ctx context.Context, ctrl *session.Controller, args []string) {
	if len(args) != 1 {
		fail("login expects a username")
	}

	if email, ok := ctrl.RememberedEmail(); ok {
		fmt.Printf("welcome back, %s\n", email)
	}

	password := promptPassword()
	if err := ctrl.Login(ctx, args[0], password, true); err != nil {
		fail(err.Error())
	}
	printSnapshot(ctrl.Store().Get())
}

func runRegister(ctx context.Context, ctrl *session.Controller, args []string) {
	if len(args) != 2 {
		fail("register expects an email and a username")
	}

	password := promptPassword()
	if err := ctrl.Register(ctx, args[0], args[1], password, true); err != nil {
		fail(err.Error())
	}
	fmt.Println("account created, check your email for the verification code")
	printSnapshot(ctrl.Store().Get())
}

func runWhoami(ctx context.Context, ctrl *session.Controller) {
	if err := ctrl.Refresh(ctx); err != nil {
		fail(err.Error())
	}
	printSnapshot(ctrl.Store().Get())
}

func runVerify(ctx context.Context, ctrl *session.Controller, args []string) {
	if len(args) != 1 {
		fail("verify expects the code from the email")
	}
	if err := ctrl.VerifyEmail(ctx, args[0]); err != nil {
		fail(err.Error())
	}
	printSnapshot(ctrl.Store().Get())
}

func runResend(ctx context.Context, ctrl *session.Controller) {
	if err := ctrl.ResendVerification(ctx); err != nil {
		fail(err.Error())
	}
	fmt.Println("verification code sent")
}

// runExams ходит в каталог через кеш запросов: повторные запросы в
// рамках процесса не уходят в сеть, всплески гасятся.
func runExams(ctx context.Context, apiClient *api.Client, args []string) {
	cache := querycache.New(querycache.RequesterFunc(
		func(ctx context.Context, key querycache.Key) (any, error) {
			var data struct {
				Exams []*models.Exam `json:"exams"`
			}
			if err := apiClient.Get(ctx, key.Endpoint, toValues(key.Params), &data); err != nil {
				return nil, err
			}
			return data.Exams, nil
		}),
		querycache.Debounce(300*time.Millisecond),
		querycache.Memoize(),
	)

	key := querycache.Key{Endpoint: "/exams"}
	if len(args) > 0 {
		key = querycache.Key{
			Endpoint: "/exams/search",
			Params:   map[string]string{"q": strings.Join(args, " ")},
		}
	}

	val, err := cache.Fetch(ctx, key)
	if err != nil {
		fail(err.Error())
	}

	exams, _ := val.([]*models.Exam)
	if len(exams) == 0 {
		fmt.Println("no exams found")
		return
	}
	for _, exam := range exams {
		fmt.Printf("%4d  %s\n", exam.ID, exam.Title)
	}
}

func promptPassword() string {
	fmt.Fprint(os.Stderr, "password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fail("could not read password")
	}
	return string(raw)
}

func printSnapshot(snap session.Snapshot) {
	switch snap.State {
	case session.StateVerified:
		fmt.Printf("signed in as %s <%s>\n", snap.User.Username, snap.User.Email)
	case session.StateUnverified:
		fmt.Printf("signed in as %s <%s>, email is not verified\n", snap.User.Username, snap.User.Email)
	case session.StateUnauthenticated:
		fmt.Println("not signed in")
	case session.StateError:
		fmt.Printf("session error: %v\n", snap.Err)
	default:
		fmt.Println(string(snap.State))
	}
}

func toValues(params map[string]string) map[string][]string {
	values := make(map[string][]string, len(params))
	for name, value := range params {
		values[name] = []string{value}
	}
	return values
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
