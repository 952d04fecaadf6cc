// internal/adapters/in/http/handlers/task_handler.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	usecase "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/application/usecase"
	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
)

// TaskHandler は Cloud Tasks から呼ばれるワーカーエンドポイント。
//
// POST /internal/tasks/delete-media-by-prefix
// Body: {"prefix": "<string>"}
//
// レスポンス契約（キューの再試行ポリシーに対する約束）:
//
//	204 — prefix 配下の削除を全件試行した（既に空でも成功）
//	400 — payload 不正。再試行しても無駄なので再試行させない
//	5xx — 一時的な失敗（列挙の失敗など）。キューに再試行させる
type TaskHandler struct {
	cleanup *usecase.MediaCleanupUsecase
}

func NewTaskHandler(cleanup *usecase.MediaCleanupUsecase) *TaskHandler {
	return &TaskHandler{cleanup: cleanup}
}

func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}
	h.deleteMediaByPrefix(w, r)
}

func (h *TaskHandler) deleteMediaByPrefix(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Prefix *string `json:"prefix"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		// 文字列以外の prefix もここに落ちる。タスク payload の
		// データ品質問題なので 400（再試行させない）。
		log.Printf("[tasks.handler] malformed payload: %v", err)
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	if body.Prefix == nil || strings.TrimSpace(*body.Prefix) == "" {
		log.Printf("[tasks.handler] payload without prefix")
		writeError(w, http.StatusBadRequest, "prefix is required")
		return
	}

	prefix := tmdom.Prefix(strings.TrimSpace(*body.Prefix))

	if _, err := h.cleanup.DeleteByPrefix(ctx, prefix); err != nil {
		// 列挙の失敗など。5xx を返してキュー側の backoff で再実行させる。
		log.Printf("[tasks.handler] ERROR: cleanup for %q failed: %v", prefix, err)
		writeError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}

	// 個別オブジェクトの失敗が混ざっていても前進を優先して 204。
	w.WriteHeader(http.StatusNoContent)
}
