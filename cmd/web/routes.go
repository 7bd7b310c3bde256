package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
	"github.com/nexoragaming/phantomid/internal/httputil"
	"github.com/nexoragaming/phantomid/internal/middleware"
	"github.com/nexoragaming/phantomid/internal/service"
)

func (app *application) routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if len(app.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   app.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(middleware.SessionUser(app.sessionManager, app.userStore))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.OK(w, http.StatusOK, nil)
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		r = gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))
		gothic.BeginAuthHandler(w, r)
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		r = gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))

		gothUser, err := gothic.CompleteUserAuth(w, r)
		if err != nil {
			httputil.BadRequest(w, "Authentication failure", err)
			return
		}

		user, err := app.users.FindOrCreateUserByProvider(r.Context(), gothUser)
		if err != nil {
			httputil.InternalServerError(w, "Failed to find or create user", err)
			return
		}

		if err := app.sessionManager.RenewToken(r.Context()); err != nil {
			httputil.InternalServerError(w, "Failed to renew session", err)
			return
		}
		app.sessionManager.Put(r.Context(), middleware.SessionUserIDKey, user.ID.String())

		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		if err := app.sessionManager.Destroy(r.Context()); err != nil {
			httputil.InternalServerError(w, "Failed to destroy session", err)
			return
		}
		httputil.OK(w, http.StatusOK, nil)
	})

	r.With(middleware.RequireUser).Get("/me", func(w http.ResponseWriter, r *http.Request) {
		httputil.OK(w, http.StatusOK, httputil.Envelope{"user": middleware.GetAuthenticatedUser(r.Context())})
	})

	r.Route("/api/tournaments", func(r chi.Router) {
		r.Get("/", app.listTournaments)
		r.Post("/", app.createTournament)

		r.Route("/{slug}", func(r chi.Router) {
			r.Post("/join", app.joinTournament)
			r.Get("/participants", app.listParticipants)
			r.Post("/bracket/generate", app.generateBracket)
			r.Get("/bracket", app.getBracket)
			r.With(middleware.RequireUser).Post("/matches/{id}/result", app.recordResult)
		})
	})

	return r
}

// currentUserID is uuid.Nil for anonymous requests.
func currentUserID(r *http.Request) uuid.UUID {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	return id
}

func (app *application) listTournaments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	buckets, err := app.tournaments.ListTournaments(r.Context(), service.ListFilter{
		Search: q.Get("search"),
		Game:   q.Get("game"),
		Region: q.Get("region"),
		Status: q.Get("status"),
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	httputil.OK(w, http.StatusOK, httputil.Envelope{
		"upcoming": buckets.Upcoming,
		"open":     buckets.Open,
		"live":     buckets.Live,
		"finished": buckets.Finished,
	})
}

type createTournamentRequest struct {
	Name      string `json:"name"`
	Organizer string `json:"organizer"`
	Game      string `json:"game"`
	Region    string `json:"region"`
	Format    string `json:"format"`
	Status    string `json:"status"`
	StartAt   string `json:"startAt"`
	StartDate string `json:"startDate"`
	MaxSlots  *int   `json:"maxSlots"`
	BannerURL string `json:"bannerUrl"`
}

// startAt prefers the startAt key; startDate is still accepted.
func (req createTournamentRequest) startAt() string {
	if req.StartAt != "" {
		return req.StartAt
	}
	return req.StartDate
}

func (app *application) createTournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := httputil.ReadJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}

	created, err := app.tournaments.CreateTournament(r.Context(), service.CreateInput{
		Name:      req.Name,
		Organizer: req.Organizer,
		Game:      req.Game,
		Region:    req.Region,
		Format:    req.Format,
		Status:    req.Status,
		StartDate: req.startAt(),
		MaxSlots:  req.MaxSlots,
		BannerURL: req.BannerURL,
		CreatedBy: currentUserID(r),
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	httputil.OK(w, http.StatusCreated, httputil.Envelope{"tournament": created})
}

func (app *application) joinTournament(w http.ResponseWriter, r *http.Request) {
	res, err := app.registration.Join(r.Context(), chi.URLParam(r, "slug"), currentUserID(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	httputil.OK(w, http.StatusOK, httputil.Envelope{
		"joined":       res.Joined,
		"currentSlots": res.CurrentSlots,
		"maxSlots":     res.MaxSlots,
	})
}

func (app *application) listParticipants(w http.ResponseWriter, r *http.Request) {
	list, err := app.registration.ListParticipants(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	httputil.OK(w, http.StatusOK, httputil.Envelope{
		"tournament":   list.Tournament,
		"participants": list.Participants,
	})
}

func (app *application) generateBracket(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	res, err := app.brackets.Generate(r.Context(), chi.URLParam(r, "slug"), currentUserID(r), service.GenerateOptions{Force: force})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	httputil.OK(w, http.StatusOK, httputil.Envelope{
		"tournamentId": res.TournamentID,
		"players":      res.Players,
		"bracketSize":  res.BracketSize,
		"rounds":       res.Rounds,
	})
}

func (app *application) getBracket(w http.ResponseWriter, r *http.Request) {
	view, err := app.brackets.GetBracket(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	httputil.OK(w, http.StatusOK, httputil.Envelope{
		"tournamentId": view.TournamentID,
		"matches":      view.Matches,
		"rounds":       view.Rounds,
	})
}

type recordResultRequest struct {
	WinnerID uuid.UUID `json:"winnerId"`
	ScoreA   *int      `json:"scoreA"`
	ScoreB   *int      `json:"scoreB"`
}

func (app *application) recordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		app.serviceError(w, r, service.ErrMatchNotFound)
		return
	}

	var req recordResultRequest
	if err := httputil.ReadJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}

	res, err := app.matches.RecordResult(r.Context(), chi.URLParam(r, "slug"), matchID, req.WinnerID, req.ScoreA, req.ScoreB)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	httputil.OK(w, http.StatusOK, httputil.Envelope{"result": res})
}
