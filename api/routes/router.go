package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jezzlucena/slatefolio/api/controllers"
	"github.com/jezzlucena/slatefolio/api/middleware"
	"github.com/jezzlucena/slatefolio/internal/auth"
	"github.com/jezzlucena/slatefolio/internal/media"
	"github.com/jezzlucena/slatefolio/internal/profile"
	"github.com/jezzlucena/slatefolio/internal/projects"
	"github.com/jezzlucena/slatefolio/internal/resumes"
	"github.com/jezzlucena/slatefolio/internal/site"
	"github.com/jezzlucena/slatefolio/internal/testimonials"
	"github.com/jezzlucena/slatefolio/pkg/auth/session"
	"github.com/jezzlucena/slatefolio/pkg/config"
	"github.com/jezzlucena/slatefolio/pkg/logger"
	"github.com/jezzlucena/slatefolio/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth         auth.Service
	Passkeys     auth.PasskeyService
	Media        media.Service
	Resumes      resumes.Service
	Projects     projects.Service
	Testimonials testimonials.Service
	Profile      profile.Service
	Site         site.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisClient,
		}))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/files/{id}", controllers.FileServe(svcs.Media, logg))

	r.Get("/resume/active", controllers.ResumeActive(svcs.Resumes, logg))
	r.Get("/resume/file/active", controllers.ResumeFileActive(svcs.Resumes, logg))
	r.Get("/resume/file/{id}", controllers.ResumeFile(svcs.Resumes, logg))

	r.Get("/projects", controllers.ProjectList(svcs.Projects, logg))
	r.Get("/projects/{key}", controllers.ProjectGet(svcs.Projects, logg))
	r.Get("/testimonials", controllers.TestimonialList(svcs.Testimonials, logg))
	r.Get("/testimonials/{key}", controllers.TestimonialGet(svcs.Testimonials, logg))
	r.Get("/profile", controllers.ProfileGet(svcs.Profile, logg))

	r.Get("/meta", controllers.SiteMeta(svcs.Site, logg))
	r.Get("/autocomplete/suggestions", controllers.AutocompleteSuggestions(svcs.Site, logg))

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.AuthRegister(svcs.Auth, cfg.JWT, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Auth, cfg.JWT, logg))

		r.Route("/passkeys", func(r chi.Router) {
			r.Get("/login-options", controllers.PasskeyLoginOptions(svcs.Passkeys, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.PasskeyLogin(svcs.Passkeys, cfg.JWT, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
			r.Get("/status", controllers.AuthStatus(svcs.Auth, logg))
			r.Get("/passkeys/register-options", controllers.PasskeyRegisterOptions(svcs.Passkeys, logg))
			r.Post("/passkeys/register", controllers.PasskeyRegister(svcs.Passkeys, logg))
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Post("/upload", controllers.AdminUpload(svcs.Media, cfg.Uploads.MaxMediaBytes, logg))
		r.Delete("/upload", controllers.AdminUploadDelete(svcs.Media, logg))

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", controllers.AdminProjectCreate(svcs.Projects, logg))
			r.Put("/{key}", controllers.AdminProjectUpdate(svcs.Projects, logg))
			r.Delete("/{key}", controllers.AdminProjectDelete(svcs.Projects, logg))
		})
		r.Route("/testimonials", func(r chi.Router) {
			r.Post("/", controllers.AdminTestimonialCreate(svcs.Testimonials, logg))
			r.Put("/{key}", controllers.AdminTestimonialUpdate(svcs.Testimonials, logg))
			r.Delete("/{key}", controllers.AdminTestimonialDelete(svcs.Testimonials, logg))
		})
		r.Put("/profile", controllers.AdminProfileUpsert(svcs.Profile, logg))

		r.Route("/resumes", func(r chi.Router) {
			r.Post("/", controllers.AdminResumeUpload(svcs.Resumes, cfg.Uploads.MaxResumeBytes, logg))
			r.Get("/", controllers.AdminResumeList(svcs.Resumes, logg))
			r.Patch("/{id}", controllers.AdminResumeRename(svcs.Resumes, logg))
			r.Post("/{id}/activate", controllers.AdminResumeActivate(svcs.Resumes, logg))
			r.Delete("/{id}", controllers.AdminResumeDelete(svcs.Resumes, logg))
		})
	})

	return r
}
