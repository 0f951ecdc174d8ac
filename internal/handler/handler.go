package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shiftboard/shift-scheduler/backend/internal/config"
	"github.com/shiftboard/shift-scheduler/backend/internal/mailer"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/shiftboard/shift-scheduler/backend/internal/token"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// OTPStore is satisfied by *otp.Store.
type OTPStore interface {
	Issue(purpose, subject string) (string, error)
	Verify(purpose, subject, code string) error
	Revoke(purpose, subject string) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository repository.Repository
	translator ut.Translator
	tokens     *token.Issuer
	notifier   mailer.Notifier
	otps       OTPStore
	authLimit  *limiter.Limiter

	Mux *chi.Mux
}

// NewHandler wires the HTTP layer. A nil rateStore falls back to an in-process store.
func NewHandler(cfg *config.Config, repo repository.Repository, notifier mailer.Notifier, otps OTPStore, rateStore limiter.Store) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit.Auth)
	if err != nil {
		return nil, err
	}
	if rateStore == nil {
		rateStore = memory.NewStore()
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		tokens:     token.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL),
		notifier:   notifier,
		otps:       otps,
		authLimit:  limiter.New(rateStore, rate),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(middleware.RequestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{h.config.Server.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	h.Mux.NotFound(h.routeNotFound)
	h.Mux.MethodNotAllowed(h.methodNotAllowed)

	h.Mux.Get("/health", h.Health)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.With(h.rateLimit).Post("/login", h.Login)
		r.Route("/reset-password", func(r chi.Router) {
			r.Use(h.rateLimit)
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
		r.With(h.auth).Post("/change-password", h.ChangePassword)
		r.With(h.auth).Get("/me", h.Me)
	})

	// everything below needs a session
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/employees", func(r chi.Router) {
			r.Use(h.requireManager)
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employeeInfo)
				r.Patch("/", h.UpdateEmployee)
				r.With(h.preventDeleteSelf).Delete("/", h.DeleteEmployee)
			})
		})

		r.Route("/availabilities", func(r chi.Router) {
			r.Get("/", h.ListAvailabilities)
			r.Post("/", h.UpsertAvailability)
			r.Delete("/one", h.DeleteAvailability)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.With(h.requireManager).Post("/", h.CreateShift)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.requireManager)
				r.Use(h.shiftInfo)
				r.Patch("/", h.UpdateShift)
				r.Delete("/", h.DeleteShift)
			})
		})

		r.Route("/time-off", func(r chi.Router) {
			r.Get("/", h.ListTimeOffRequests)
			r.Post("/", h.CreateTimeOffRequest)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.requireManager)
				r.Use(h.timeOffInfo)
				r.Patch("/status", h.UpdateTimeOffStatus)
				r.Delete("/", h.DeleteTimeOffRequest)
			})
		})

		r.With(h.requireManager).Get("/export/schedule", h.ExportSchedule)
	})
}
