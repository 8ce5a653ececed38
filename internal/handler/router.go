package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/scoutbase/internal/middleware"
	"github.com/hitoshi/scoutbase/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// サービス
	AuthService         AuthServiceInterface
	ProfileService      ProfileServiceInterface
	OrganizationService OrganizationServiceInterface
	ScoutingService     ScoutingServiceInterface
	ApplyService        ApplyServiceInterface
	ApplicationService  ApplicationServiceInterface
	NotificationService NotificationServiceInterface
	NewsService         NewsServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → Recovery → SecurityHeaders → Logging
//
// 認証が必要なルートにはさらに Auth(JWT) → RateLimit(General) を適用する。
// 認証コードを発行する公開ルートにはIP別のOTPレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.AuthService)
	profileHandler := NewProfileHandler(deps.ProfileService)
	orgHandler := NewOrganizationHandler(deps.OrganizationService)
	scoutingHandler := NewScoutingHandler(deps.ScoutingService, deps.ApplyService)
	applicationHandler := NewApplicationHandler(deps.ApplicationService)
	notificationHandler := NewNotificationHandler(deps.NotificationService)
	newsHandler := NewNewsHandler(deps.NewsService)

	requirePlayer := middleware.NewRequireRoleMiddleware(model.RolePlayer)
	requireOrganization := middleware.NewRequireRoleMiddleware(model.RoleOrganization)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/auth", func(r chi.Router) {
		// 認証コードを発行するエンドポイントはIP別レート制限の対象
		otpLimited := r.With(deps.RateLimiter.OTPMiddleware())
		otpLimited.Post("/signup", authHandler.Signup)
		otpLimited.Post("/resend-otp", authHandler.ResendOTP)
		otpLimited.Post("/forgot-password", authHandler.ForgotPassword)

		r.Post("/verify-otp", authHandler.VerifyOTP)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh-token", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
		r.Post("/reset-password", authHandler.ResetPassword)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth(JWT) → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 選手プロフィール
		r.Route("/api/profiles", func(r chi.Router) {
			r.With(requirePlayer).Put("/me", profileHandler.UpsertMine)
			r.Get("/me", profileHandler.GetMine)
			r.Get("/{id}", profileHandler.Get)
		})

		// 組織プロフィールとロスター
		r.Route("/api/organizations", func(r chi.Router) {
			r.With(requireOrganization).Put("/me", orgHandler.UpsertMine)
			r.Get("/me", orgHandler.GetMine)
			r.With(requireOrganization).Delete("/me/roster/{playerID}", orgHandler.RemoveRosterMember)
			r.Get("/{id}", orgHandler.Get)
			r.Get("/{id}/roster", orgHandler.ListRoster)
		})

		// 募集と応募
		r.Route("/api/scoutings", func(r chi.Router) {
			r.With(requireOrganization).Post("/", scoutingHandler.Create)
			r.Get("/", scoutingHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", scoutingHandler.Get)
				r.With(requireOrganization).Patch("/", scoutingHandler.Update)
				r.With(requireOrganization).Delete("/", scoutingHandler.Delete)

				r.With(requirePlayer).Post("/apply", scoutingHandler.Apply)
				r.With(requireOrganization).Get("/applications", scoutingHandler.ListApplications)
			})
		})

		// 選考
		r.Route("/api/applications", func(r chi.Router) {
			r.With(requirePlayer).Get("/me", applicationHandler.ListMine)
			r.With(requireOrganization).Post("/{id}/select", applicationHandler.Select)
			r.With(requireOrganization).Post("/{id}/reject", applicationHandler.Reject)
		})

		// 通知
		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Post("/{id}/read", notificationHandler.MarkRead)
		})

		// ニュース
		r.Get("/api/news", newsHandler.ListRecent)
	})

	return r
}
