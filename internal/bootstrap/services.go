package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/target/sharelink-gateway/config"
	"github.com/target/sharelink-gateway/internal/adapters/postgres"
	redisadapter "github.com/target/sharelink-gateway/internal/adapters/redis"
	httpx "github.com/target/sharelink-gateway/internal/http"
	"github.com/target/sharelink-gateway/internal/i18n"
	"github.com/target/sharelink-gateway/internal/service"
)

// ServiceDeps contains external dependencies needed to build services.
type ServiceDeps struct {
	Config      *config.AppConfig
	Pool        *pgxpool.Pool
	RedisClient redisclient.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the assembled application services.
type ServiceContainer struct {
	Store      *postgres.Store
	Login      *service.LoginService
	Translator *i18n.Translator
	Dispatcher *httpx.Dispatcher
}

// NewServices wires the share resolver, guest login service, translator,
// and the handler chain selected by the configured handler mode.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	store := postgres.NewStore(deps.Pool)
	sessions := redisadapter.NewSessionStore(deps.RedisClient)

	login := service.NewLoginService(service.LoginServiceOptions{
		Directory:  store,
		Sessions:   sessions,
		SessionTTL: cfg.Guest.SessionTTL,
		Logger:     logger,
	})

	translator, err := i18n.New()
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build translator: %w", err)
	}

	dispatcher := buildDispatcher(cfg, store, login, translator, logger)

	return ServiceContainer{
		Store:      store,
		Login:      login,
		Translator: translator,
		Dispatcher: dispatcher,
	}, nil
}

// buildDispatcher assembles the handler chain for the configured mode. Both
// modes carry the calendar download handler so non-browser ICS consumers are
// served regardless of which UI fronts the shares.
func buildDispatcher(
	cfg *config.AppConfig,
	store *postgres.Store,
	login *service.LoginService,
	translator *i18n.Translator,
	logger *slog.Logger,
) *httpx.Dispatcher {
	calendar := httpx.NewCalendarDownloadHandler(httpx.CalendarDownloadOptions{
		Login:     login,
		Template:  cfg.Redirect.ICS,
		UIWebPath: cfg.Redirect.UIWebPath,
		Realm:     cfg.Guest.BasicRealm,
		Logger:    logger,
	})

	switch cfg.Guest.Mode {
	case config.HandlerModeLegacy:
		return httpx.NewDispatcher(logger,
			calendar,
			httpx.NewLoginScreenHandler(httpx.LoginScreenOptions{
				Template:  cfg.Redirect.Login,
				UIWebPath: cfg.Redirect.UIWebPath,
			}),
			httpx.NewRedirectingHandler(httpx.RedirectingOptions{
				Login:        login,
				Template:     cfg.Redirect.WebClient,
				UIWebPath:    cfg.Redirect.UIWebPath,
				AutoLogin:    cfg.Guest.AutoLogin,
				CookieDomain: cfg.HTTP.CookieDomain,
				Logger:       logger,
			}),
		)
	default:
		return httpx.NewDispatcher(logger,
			calendar,
			httpx.NewWebUIHandler(httpx.WebUIOptions{
				Login:          login,
				Directory:      store,
				Translator:     translator,
				TargetTemplate: cfg.Redirect.Target,
				LoginTemplate:  cfg.Redirect.Login,
				UIWebPath:      cfg.Redirect.UIWebPath,
				AutoLogin:      cfg.Guest.AutoLogin,
				CookieDomain:   cfg.HTTP.CookieDomain,
				Logger:         logger,
			}),
		)
	}
}
