// internal/adapters/in/http/middleware/tasks_auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"google.golang.org/api/idtoken"
)

// IDTokenValidator verifies a Google-signed OIDC ID token against an
// audience. *idtoken.Validator satisfies this.
type IDTokenValidator interface {
	Validate(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// TasksAuth は /internal/tasks 配下の信頼境界。
//
// Cloud Tasks がタスク実行時に付ける OIDC トークン
//
//	Authorization: Bearer <ID_TOKEN>
//
// を検証し、発行先サービスアカウントが期待どおりのときだけ通す。
// エンドユーザーのリクエストは絶対にここを通さないこと。
type TasksAuth struct {
	Validator IDTokenValidator
	// Audience is the worker callback URL the token must be minted for.
	Audience string
	// InvokerEmail is the only service account allowed to invoke the worker.
	InvokerEmail string
}

func (m *TasksAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Validator == nil || strings.TrimSpace(m.InvokerEmail) == "" {
			http.Error(w, "tasks auth not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if raw == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		payload, err := m.Validator.Validate(r.Context(), raw, m.Audience)
		if err != nil {
			log.Printf("[tasks.auth] token validation failed: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		email, _ := payload.Claims["email"].(string)
		if !strings.EqualFold(strings.TrimSpace(email), m.InvokerEmail) {
			// 正しい署名でも呼び出し元 SA が違えば拒否（セキュリティイベントとして記録）
			log.Printf("[tasks.auth] rejected caller %q (expected %q)", email, m.InvokerEmail)
			http.Error(w, "forbidden caller", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
