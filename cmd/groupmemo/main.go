package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/kdudkov/groupmemo/internal/cache"
	"github.com/kdudkov/groupmemo/internal/callbacks"
	"github.com/kdudkov/groupmemo/internal/config"
	"github.com/kdudkov/groupmemo/internal/database"
	"github.com/kdudkov/groupmemo/internal/model"
	"github.com/kdudkov/groupmemo/internal/service"
	"github.com/kdudkov/groupmemo/internal/token"
)

var (
	gitRevision = "unknown"
	gitBranch   = "unknown"
)

const userCacheTTL = time.Minute

type App struct {
	config *config.AppConfig
	logger *slog.Logger

	dbm    *database.DatabaseManager
	svc    *service.Service
	events *callbacks.Bus[model.Event]
	tokens *token.Issuer
	users  *cache.Cache[uint, *model.User]
}

func NewApp(cfg *config.AppConfig) *App {
	app := &App{
		config: cfg,
		logger: slog.Default(),
		events: callbacks.New[model.Event](),
	}

	return app
}

// Init opens the database and wires everything that depends on it.
func (app *App) Init() error {
	db, err := database.GetDatabase(app.config.DB(), app.config.DBDebug())
	if err != nil {
		return err
	}

	app.dbm = database.New(db)

	if err := app.dbm.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	app.svc = service.New(app.dbm, app.events)

	secret := app.config.TokenSecret()
	if secret == "" {
		app.logger.Warn("token.secret is not set, tokens will not survive a restart")
		secret = uuid.NewString()
	}

	app.tokens = token.NewIssuer(secret, app.config.TokenTTL())

	app.users = cache.NewWithTTL(userCacheTTL, func(id uint) *model.User {
		u, err := app.svc.GetUser(id)
		if err != nil {
			return nil
		}

		return u
	})

	subscribeMetrics(app.events)
	subscribeAudit(app.events, app.logger.With("logger", "audit"))

	if n, err := app.svc.LoadUsersFile(app.config.UsersFile()); err != nil {
		app.logger.Error("error loading users file", slog.Any("error", err))
	} else if n > 0 {
		app.logger.Info(fmt.Sprintf("created %d users", n))
	}

	return nil
}

func (app *App) Run() {
	srv := NewHttp(app, app.config.Addr())

	go func() {
		app.logger.Info("listening http at " + srv.Address())

		if err := srv.Listen(); err != nil {
			app.logger.Error("http server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	go app.cleaner()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	app.logger.Info("exiting...")

	if err := srv.Shutdown(); err != nil {
		app.logger.Error("shutdown error", slog.Any("error", err))
	}

	app.events.Wait()
}

func (app *App) cleaner() {
	ticker := time.NewTicker(userCacheTTL)
	defer ticker.Stop()

	for range ticker.C {
		app.users.Clean()
	}
}

func main() {
	fmt.Printf("version %s %s\n", gitRevision, gitBranch)

	fs := pflag.NewFlagSet("groupmemo", pflag.ExitOnError)
	conf := fs.String("config", "groupmemo.yml", "name of config file")
	debug := fs.Bool("debug", false, "debug log level")
	fs.String("addr", ":8080", "http listen address")
	fs.String("db", "groupmemo.sqlite", "database (file name for sqlite, postgres:<dsn>, mysql:<dsn>)")
	_ = fs.Parse(os.Args[1:])

	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.NewAppConfig()
	cfg.LoadEnv(config.EnvPrefix)

	if err := cfg.BindFlags(fs); err != nil {
		panic(err)
	}

	applyLevel := func(c *config.AppConfig) {
		if *debug {
			level.Set(slog.LevelDebug)
		} else {
			level.Set(c.LogLevel())
		}
	}

	if cfg.Load(*conf) {
		cfg.Watch(applyLevel)
	}

	applyLevel(cfg)

	app := NewApp(cfg)

	if err := app.Init(); err != nil {
		slog.Error("init error", slog.Any("error", err))
		os.Exit(1)
	}

	app.Run()
}
