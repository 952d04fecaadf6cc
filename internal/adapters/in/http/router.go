// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/murakami-kaito-dev/bouldering-app-sub001/internal/adapters/in/http/handlers"
	"github.com/murakami-kaito-dev/bouldering-app-sub001/internal/adapters/in/http/middleware"
	usecase "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/application/usecase"
)

// RouterDeps collects everything injected from main.go / DI.
type RouterDeps struct {
	TweetUC   *usecase.TweetUsecase
	CleanupUC *usecase.MediaCleanupUsecase

	UserAuth  *middleware.UserAuth
	TasksAuth *middleware.TasksAuth

	// AllowedOrigins は CORS で許可するフロントのオリジン。
	// 空なら全許可（開発用。本番は必ず絞ること）。
	AllowedOrigins []string
}

// NewRouter sets up HTTP routing.
//
// ルートは2系統:
//   - /tweets ...            エンドユーザー API（Firebase 認証）
//   - /internal/tasks/...    Cloud Tasks 専用コールバック（OIDC 検証）
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover)

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600,
	}))

	// Health check (always on)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if deps.TweetUC != nil && deps.UserAuth != nil {
		th := handlers.NewTweetHandler(deps.TweetUC)
		r.Route("/tweets", func(r chi.Router) {
			r.Use(deps.UserAuth.Handler)
			r.Post("/", th.Post)
			r.Get("/{id}", th.Get)
			r.Delete("/{id}", th.Delete)
		})
	}

	if deps.CleanupUC != nil && deps.TasksAuth != nil {
		wh := handlers.NewTaskHandler(deps.CleanupUC)
		r.Route("/internal/tasks", func(r chi.Router) {
			r.Use(deps.TasksAuth.Handler)
			r.Method(http.MethodPost, "/delete-media-by-prefix", wh)
		})
	}

	return r
}
