package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"zonetrack/internal/auth"
	"zonetrack/internal/httpserver/handlers"
	"zonetrack/internal/models"
	"zonetrack/internal/services/workspace"
)

type Options struct {
	Issuer       *auth.Issuer
	AuthRequired bool
	// BodyLimit caps request bodies in bytes; zero disables the cap.
	BodyLimit int64
}

func NewRouter(svc *workspace.Service, lg *zap.SugaredLogger, opt Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	if opt.BodyLimit > 0 {
		r.Use(middleware.RequestSize(opt.BodyLimit))
	}

	r.Post("/api/users/login", handlers.Login(svc, lg))
	r.Group(func(protected chi.Router) {
		if opt.AuthRequired {
			protected.Use(auth.JWTAuth(opt.Issuer, svc))
		}
		protected.Post("/api/users/logout", handlers.Logout(svc, lg))

		protected.Post("/api/clients", handlers.CreateClient(svc, lg))
		protected.Get("/api/clients", handlers.ListClients(svc, lg))
		protected.Get("/api/clients/{clientId}", handlers.GetClient(svc, lg))
		protected.Put("/api/clients/{clientId}", handlers.UpdateClient(svc, lg))
		protected.Delete("/api/clients/{clientId}", handlers.DeleteClient(svc, lg))

		loc := "/api/clients/{clientId}/locations"
		protected.Post(loc, handlers.CreateLocation(svc, lg))
		protected.Put(loc+"/{locationId}", handlers.UpdateLocation(svc, lg))
		protected.Delete(loc+"/{locationId}", handlers.DeleteLocation(svc, lg))
		protected.Post(loc+"/{locationId}/records", handlers.CreateRecord(svc, lg))
		protected.Put(loc+"/{locationId}/records/{recordId}", handlers.UpdateRecord(svc, lg))
		protected.Delete(loc+"/{locationId}/records/{recordId}", handlers.DeleteRecord(svc, lg))

		zone := loc + "/{locationId}/zones"
		protected.Post(zone, handlers.CreateZone(svc, lg))
		protected.Put(zone+"/{zoneId}", handlers.UpdateZone(svc, lg))
		protected.Delete(zone+"/{zoneId}", handlers.DeleteZone(svc, lg))
		protected.Post(zone+"/{zoneId}/records", handlers.CreateRecord(svc, lg))
		protected.Put(zone+"/{zoneId}/records/{recordId}", handlers.UpdateRecord(svc, lg))
		protected.Delete(zone+"/{zoneId}/records/{recordId}", handlers.DeleteRecord(svc, lg))

		protected.Post("/api/clients/{clientId}/users", handlers.CreateClientUser(svc, lg))
		protected.Put("/api/clients/{clientId}/users/{userId}", handlers.UpdateClientUser(svc, lg))
		protected.Delete("/api/clients/{clientId}/users/{userId}", handlers.DeleteClientUser(svc, lg))

		protected.Post("/api/clients/{clientId}/jobs", handlers.CreateJob(svc, lg))
		protected.Put("/api/clients/{clientId}/jobs/{jobId}", handlers.UpdateJob(svc, lg))
		protected.Delete("/api/clients/{clientId}/jobs/{jobId}", handlers.DeleteJob(svc, lg))

		protected.Get("/api/clients/{clientId}/items", handlers.ListItems(svc, lg))
		protected.Get("/api/clients/{clientId}/items/export", handlers.ExportItems(svc, lg))
		protected.Post("/api/clients/{clientId}/items", handlers.CreateItem(svc, lg))
		protected.Put("/api/clients/{clientId}/items/{itemId}", handlers.UpdateItem(svc, lg))
		protected.Delete("/api/clients/{clientId}/items/{itemId}", handlers.DeleteItem(svc, lg))

		protected.Post("/api/users", handlers.CreateUser(svc, lg))
		protected.Get("/api/users", handlers.ListUsers(svc, lg))
		protected.Get("/api/users/{userId}", handlers.GetUser(svc, lg))
		protected.Put("/api/users/{userId}", handlers.UpdateUser(svc, lg))
		protected.Delete("/api/users/{userId}", handlers.DeleteUser(svc, lg))

		protected.Group(func(admin chi.Router) {
			if opt.AuthRequired {
				admin.Use(auth.RequireRole(string(models.RoleAdmin)))
			}
			admin.Post("/api/admin/reconcile", handlers.Reconcile(svc, lg))
			admin.Get("/api/admin/pending", handlers.PendingWrites(svc, lg))
			admin.Get("/api/admin/audit", handlers.AuditLog(svc, lg))
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
