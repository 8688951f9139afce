package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/fuelguard/fuelguard-backend/api/controllers"
	"github.com/fuelguard/fuelguard-backend/api/middleware"
	"github.com/fuelguard/fuelguard-backend/internal/audit"
	"github.com/fuelguard/fuelguard-backend/internal/auth"
	"github.com/fuelguard/fuelguard-backend/internal/companies"
	"github.com/fuelguard/fuelguard-backend/internal/compliance"
	"github.com/fuelguard/fuelguard-backend/internal/evidence"
	"github.com/fuelguard/fuelguard-backend/internal/export"
	"github.com/fuelguard/fuelguard-backend/internal/obligations"
	"github.com/fuelguard/fuelguard-backend/internal/periods"
	"github.com/fuelguard/fuelguard-backend/internal/stations"
	"github.com/fuelguard/fuelguard-backend/internal/submissions"
	"github.com/fuelguard/fuelguard-backend/internal/tasks"
	"github.com/fuelguard/fuelguard-backend/internal/users"
	pkgauth "github.com/fuelguard/fuelguard-backend/pkg/auth"
	"github.com/fuelguard/fuelguard-backend/pkg/config"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
	pkgredis "github.com/fuelguard/fuelguard-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth        auth.Service
	Companies   companies.Service
	Stations    stations.Service
	Users       users.Service
	Obligations obligations.Service
	Periods     periods.Service
	Compliance  compliance.Service
	Submissions submissions.Service
	Tasks       tasks.Service
	Evidence    evidence.Service
	Export      export.Service
	AuditRepo   *audit.Repository
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db *gorm.DB,
	redisClient *pkgredis.Client,
	tokens *pkgauth.TokenIssuer,
	sessions middleware.SessionLoader,
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
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, db, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Auth, cfg.Session, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens, sessions, cfg.Session.CookieName, logg))
			r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.Session, logg))
			r.Get("/me", controllers.AuthMe(svcs.Auth, logg))
			r.Post("/change-password", controllers.UserChangePassword(svcs.Users, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(tokens, sessions, cfg.Session.CookieName, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/companies", func(r chi.Router) {
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Post("/", controllers.CompanyCreate(svcs.Companies, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Get("/", controllers.CompanyList(svcs.Companies, logg))
			r.With(middleware.RequirePermission(rbac.PermCompanyRead, logg)).
				Get("/{companyID}", controllers.CompanyGet(svcs.Companies, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Patch("/{companyID}", controllers.CompanyUpdate(svcs.Companies, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Delete("/{companyID}", controllers.CompanyDeactivate(svcs.Companies, logg))
		})

		r.Route("/stations", func(r chi.Router) {
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Post("/", controllers.StationCreate(svcs.Stations, logg))
			r.Get("/", controllers.StationList(svcs.Stations, logg))
			r.Get("/{stationID}", controllers.StationGet(svcs.Stations, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Patch("/{stationID}", controllers.StationUpdate(svcs.Stations, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Delete("/{stationID}", controllers.StationDeactivate(svcs.Stations, logg))

			r.With(middleware.RequirePermission(rbac.PermComplianceRead, logg)).
				Get("/{stationID}/compliance", controllers.StationComplianceStatus(svcs.Compliance, logg))
			r.With(middleware.RequirePermission(rbac.PermEvidenceRead, logg)).
				Get("/{stationID}/evidence", controllers.EvidenceList(svcs.Evidence, logg))
			r.Get("/{stationID}/submissions", controllers.SubmissionListForStation(svcs.Submissions, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Post("/", controllers.UserCreate(svcs.Users, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Get("/", controllers.UserList(svcs.Users, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Get("/{userID}", controllers.UserGet(svcs.Users, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Patch("/{userID}", controllers.UserUpdate(svcs.Users, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Delete("/{userID}", controllers.UserDeactivate(svcs.Users, logg))
		})

		r.Route("/obligations", func(r chi.Router) {
			r.Get("/", controllers.ObligationListActive(svcs.Obligations, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Delete("/{obligationID}", controllers.ObligationRetire(svcs.Obligations, logg))
			r.Route("/versions", func(r chi.Router) {
				r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
					Get("/", controllers.CatalogVersionList(svcs.Obligations, logg))
				r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
					Post("/", controllers.CatalogVersionCreate(svcs.Obligations, logg))
				r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
					Post("/{versionID}/activate", controllers.CatalogVersionActivate(svcs.Obligations, logg))
				r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
					Post("/{versionID}/obligations", controllers.ObligationCreate(svcs.Obligations, logg))
			})
		})

		r.Route("/periods", func(r chi.Router) {
			r.Get("/", controllers.PeriodList(svcs.Periods, logg))
			r.Get("/current", controllers.PeriodCurrent(svcs.Periods, logg))
			r.Get("/{periodID}", controllers.PeriodGet(svcs.Periods, logg))
			r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
				Post("/generate", controllers.PeriodGenerate(svcs.Periods, logg))
		})

		r.Route("/submissions", func(r chi.Router) {
			r.With(middleware.RequirePermission(rbac.PermSubmissionEdit, logg)).
				Post("/ensure", controllers.SubmissionEnsure(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermSubmissionReview, logg)).
				Get("/inbox", controllers.SubmissionInbox(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermSubmissionForward, logg)).
				Post("/forward-bulk", controllers.SubmissionForwardBulk(svcs.Submissions, logg))

			r.Get("/{submissionID}", controllers.SubmissionGet(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermSubmissionEdit, logg)).
				Patch("/{submissionID}/checks", controllers.SubmissionUpdateCheck(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermSubmissionSubmit, logg)).
				Post("/{submissionID}/submit", controllers.SubmissionSubmit(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermSubmissionRecall, logg)).
				Post("/{submissionID}/recall", controllers.SubmissionRecall(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermSubmissionReview, logg)).
				Post("/{submissionID}/review", controllers.SubmissionStartReview(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermSubmissionReview, logg)).
				Post("/{submissionID}/approve", controllers.SubmissionApprove(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermSubmissionReview, logg)).
				Post("/{submissionID}/return", controllers.SubmissionReturn(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermSubmissionReopen, logg)).
				Post("/{submissionID}/reopen", controllers.SubmissionReopen(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermEvidenceUpload, logg)).
				Post("/{submissionID}/evidence", controllers.EvidenceUpload(svcs.Evidence, logg))
		})

		r.Route("/oversight", func(r chi.Router) {
			r.With(middleware.RequirePermission(rbac.PermOversightDecide, logg)).
				Get("/submissions", controllers.OversightQueue(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermOversightDecide, logg)).
				Post("/submissions/{submissionID}/decision", controllers.OversightDecision(svcs.Submissions, logg))
			r.With(middleware.RequirePermission(rbac.PermOversightExport, logg)).
				Get("/export", controllers.OversightExport(svcs.Export, logg))
		})

		r.Route("/tasks", func(r chi.Router) {
			r.With(middleware.RequirePermission(rbac.PermTaskManage, logg)).
				Post("/", controllers.TaskCreate(svcs.Tasks, logg))
			r.Get("/", controllers.TaskList(svcs.Tasks, logg))
			r.Get("/{taskID}", controllers.TaskGet(svcs.Tasks, logg))
			r.With(middleware.RequireAnyPermission(logg, rbac.PermTaskRespond, rbac.PermTaskManage)).
				Post("/{taskID}/transition", controllers.TaskTransition(svcs.Tasks, logg))
			r.With(middleware.RequireAnyPermission(logg, rbac.PermTaskRespond, rbac.PermTaskManage)).
				Post("/{taskID}/messages", controllers.TaskAddMessage(svcs.Tasks, logg))
		})

		r.Route("/evidence", func(r chi.Router) {
			r.With(middleware.RequirePermission(rbac.PermEvidenceUpload, logg)).
				Post("/", controllers.EvidenceUpload(svcs.Evidence, logg))
			r.With(middleware.RequirePermission(rbac.PermEvidenceRead, logg)).
				Get("/{evidenceID}", controllers.EvidenceDownload(svcs.Evidence, logg))
			r.With(middleware.RequirePermission(rbac.PermEvidenceUpload, logg)).
				Delete("/{evidenceID}", controllers.EvidenceDelete(svcs.Evidence, logg))
		})

		r.With(middleware.RequirePermission(rbac.PermRegistryManage, logg)).
			Get("/audit", controllers.AuditListForEntity(svcs.AuditRepo, logg))
	})

	return r
}
