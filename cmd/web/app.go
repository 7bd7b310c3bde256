package main

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/nexoragaming/phantomid/internal/bracket"
	"github.com/nexoragaming/phantomid/internal/config"
	"github.com/nexoragaming/phantomid/internal/db"
	"github.com/nexoragaming/phantomid/internal/httputil"
	"github.com/nexoragaming/phantomid/internal/service"
	"github.com/nexoragaming/phantomid/internal/store"
)

type application struct {
	cfg            *config.Config
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	userStore      *store.UserStore

	tournaments  *service.TournamentService
	registration *service.RegistrationService
	brackets     *service.BracketService
	matches      *service.MatchService
	users        *service.UserService
}

func newApplication(cfg *config.Config, database *sqlx.DB, logger *slog.Logger, clock clockwork.Clock, rand bracket.RandSource) *application {
	tournamentStore := store.NewTournamentStore(database)
	userStore := store.NewUserStore(database)

	return &application{
		cfg:            cfg,
		logger:         logger,
		sessionManager: newSessionManager(cfg, database),
		userStore:      userStore,
		tournaments:    service.NewTournamentService(database, tournamentStore, clock, logger),
		registration:   service.NewRegistrationService(database, tournamentStore, clock, logger),
		brackets:       service.NewBracketService(database, tournamentStore, rand, clock, logger),
		matches:        service.NewMatchService(database, tournamentStore, logger),
		users:          service.NewUserService(database, userStore, clock),
	}
}

// newSessionManager keeps sessions in the database on sqlite and in memory otherwise.
func newSessionManager(cfg *config.Config, database *sqlx.DB) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLife
	sessionManager.Cookie.Name = "phantomid_session"
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Secure = cfg.CookieSecure
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	if database.DriverName() == db.DriverSQLite {
		sessionManager.Store = sqlite3store.New(database.DB)
	}
	return sessionManager
}

// serviceError writes the failure envelope for err. Errors that are not service.Error
// are storage failures and only their reason leaves the process.
func (app *application) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := service.AsError(err)
	if !ok {
		app.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Envelope{"ok": false, "error": "server_error"})
		return
	}
	httputil.Fail(w, statusFor(e), e.Reason, e.Error())
}

func statusFor(e *service.Error) int {
	switch e {
	case service.ErrAlreadyGenerated, service.ErrDuplicateSlug, service.ErrMatchDecided:
		return http.StatusConflict
	}

	switch e.Kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindNotAuthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}
