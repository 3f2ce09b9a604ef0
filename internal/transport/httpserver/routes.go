package httpserver

import (
	"net/http"
	"time"

	"family-planner/internal/config"
	"family-planner/internal/metrics"
	"family-planner/internal/transport/httpserver/handler"
	authmw "family-planner/internal/transport/httpserver/middleware"
	"family-planner/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, users authmw.UserSyncer, m *metrics.Metrics, log logger.Logger) http.Handler {
	if m == nil {
		m = metrics.New()
	}
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(authmw.RequestLogger(log, m))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Handle("/metrics", m.Handler())

	previewLimiter := authmw.NewKeyedLimiter(cfg.Invites.AcceptRate, cfg.Invites.AcceptBurst)
	acceptLimiter := authmw.NewKeyedLimiter(cfg.Invites.AcceptRate, cfg.Invites.AcceptBurst)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.With(previewLimiter.Middleware).Get("/invites/{code}", handlers.PreviewInvite)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, users, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Post("/families", handlers.CreateFamily)
			r.Get("/families/me", handlers.GetFamilyMe)
			r.Patch("/families/me", handlers.UpdateFamily)
			r.Post("/families/leave", handlers.LeaveFamily)
			r.Get("/families/me/members", handlers.ListFamilyMembers)
			r.Delete("/families/me/members/{user_id}", handlers.RemoveFamilyMember)
			r.Get("/families/{family_id}", handlers.GetFamily)

			r.Post("/families/me/invites", handlers.CreateInvite)
			r.Get("/families/me/invites", handlers.ListInvites)
			r.Delete("/invites/{invite_id}", handlers.RevokeInvite)
			r.With(acceptLimiter.Middleware).Post("/invites/accept", handlers.AcceptInvite)

			r.Post("/send-invite-email", handlers.SendInviteEmail)
			r.Post("/check-invitations", handlers.CheckInvitations)

			r.Get("/tasks", handlers.ListTasks)
			r.Post("/tasks", handlers.CreateTask)
			r.Get("/tasks/stats", handlers.TaskStats)
			r.Get("/tasks/{task_id}", handlers.GetTask)
			r.Patch("/tasks/{task_id}", handlers.UpdateTask)
			r.Post("/tasks/{task_id}/status", handlers.ChangeTaskStatus)
		})
	})

	return r
}
