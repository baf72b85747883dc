package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"collabhub/internal/common"
	"collabhub/internal/http/handlers"
	"collabhub/internal/http/metrics"
	httpmw "collabhub/internal/http/middleware"
	"collabhub/internal/http/response"
)

type RouterDependencies struct {
	ProfileHandler      *handlers.ProfileHandler
	SearchHandler       *handlers.SearchHandler
	ProjectHandler      *handlers.ProjectHandler
	InvitationHandler   *handlers.InvitationHandler
	ApplicationHandler  *handlers.ApplicationHandler
	QuickSyncHandler    *handlers.QuickSyncHandler
	NotificationHandler *handlers.NotificationHandler
	AuthMiddleware      *httpmw.AuthMiddleware
	Metrics             *metrics.Collector
	Logger              *zap.Logger
	RequestTimeout      time.Duration
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(
		httpmw.RequestID,
		httpmw.Logging(logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(logger),
		httpmw.Metrics(deps.Metrics),
		httpmw.Timeout(deps.RequestTimeout),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, common.NewError(common.CodeNotFound, "route not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusMethodNotAllowed, response.ErrorBody{Error: common.CodeValidation, Message: "method not allowed"})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(deps.AuthMiddleware.Authenticate)

		api.Get("/profile/all", deps.ProfileHandler.ListAll)
		api.Get("/profile", deps.ProfileHandler.Get)
		api.Put("/profile", deps.ProfileHandler.Upsert)
		api.Get("/talents/search", deps.SearchHandler.Talents)

		api.Route("/projects", func(projects chi.Router) {
			projects.Post("/", deps.ProjectHandler.Create)
			projects.Get("/", deps.ProjectHandler.ListMine)
			projects.Get("/search", deps.SearchHandler.Projects)
			projects.Post("/wizard", deps.ProjectHandler.Submit)
			projects.Get("/{id}", deps.ProjectHandler.Get)
			projects.Get("/{id}/roles", deps.ProjectHandler.ListRoles)
			projects.Post("/{id}/roles", deps.ProjectHandler.CreateRole)
			projects.Post("/{id}/roles/resume", deps.ProjectHandler.Resume)
		})

		api.Route("/invitations", func(inv chi.Router) {
			inv.Post("/", deps.InvitationHandler.Send)
			inv.Get("/sent", deps.InvitationHandler.ListSent)
			inv.Get("/received", deps.InvitationHandler.ListReceived)
			inv.Patch("/{id}/status", deps.InvitationHandler.UpdateStatus)
			inv.Delete("/{id}", deps.InvitationHandler.Delete)
		})

		api.Route("/applications", func(apps chi.Router) {
			apps.Post("/", deps.ApplicationHandler.Apply)
			apps.Get("/mine", deps.ApplicationHandler.ListMine)
			apps.Get("/received", deps.ApplicationHandler.ListReceived)
			apps.Patch("/{id}/status", deps.ApplicationHandler.UpdateStatus)
			apps.Delete("/{id}", deps.ApplicationHandler.Delete)
		})

		api.Post("/quicksync/{projectId}/recommend", deps.QuickSyncHandler.Recommend)
		api.Post("/quicksync/{projectId}/contact", deps.QuickSyncHandler.Contact)
		api.Get("/notifications", deps.NotificationHandler.List)
	})
	return r
}
