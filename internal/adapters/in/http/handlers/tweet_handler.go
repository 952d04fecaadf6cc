// internal/adapters/in/http/handlers/tweet_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	usecase "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/application/usecase"
	"github.com/murakami-kaito-dev/bouldering-app-sub001/internal/adapters/in/http/middleware"
	tweetdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweet"
)

// TweetHandler は /tweets 関連のエンドポイントを担当します。
type TweetHandler struct {
	uc *usecase.TweetUsecase
}

func NewTweetHandler(uc *usecase.TweetUsecase) *TweetHandler {
	return &TweetHandler{uc: uc}
}

// POST /tweets
func (h *TweetHandler) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in struct {
		Body      string   `json:"body"`
		GymID     *string  `json:"gymId"`
		MediaURLs []string `json:"mediaUrls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	media := make([]tweetdom.Media, 0, len(in.MediaURLs))
	for _, u := range in.MediaURLs {
		media = append(media, tweetdom.Media{URL: u})
	}

	t, err := h.uc.Create(ctx, usecase.CreateTweetInput{
		UserID: userID,
		GymID:  in.GymID,
		Body:   in.Body,
		Media:  media,
	})
	if err != nil {
		writeTweetErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTweetResponse(t))
}

// GET /tweets/{id}
func (h *TweetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.uc.GetByID(r.Context(), id)
	if err != nil {
		writeTweetErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTweetResponse(t))
}

// DELETE /tweets/{id}
//
// 行削除が確定すれば 204。メディアのクリーンアップは非同期のベスト
// エフォートなので、ユーザーはその遅延や失敗を観測しない。
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.uc.Delete(ctx, id, userID); err != nil {
		writeTweetErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type tweetResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	GymID     *string  `json:"gymId,omitempty"`
	Body      string   `json:"body"`
	MediaURLs []string `json:"mediaUrls"`
	CreatedAt string   `json:"createdAt"`
}

func toTweetResponse(t tweetdom.Tweet) tweetResponse {
	return tweetResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		GymID:     t.GymID,
		Body:      t.Body,
		MediaURLs: t.MediaURLs(),
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
