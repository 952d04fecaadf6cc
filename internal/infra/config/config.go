// internal/infra/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port string

	// Postgres
	DatabaseURL string
	// DATABASE_URL を Secret Manager から引く場合のリソース名
	// 例) projects/<p>/secrets/database-url/versions/latest
	DatabaseURLSecret string

	// GCP
	ProjectID string
	GCPCreds  string

	// GCS（1 バケット運用）
	MediaBucket     string
	MediaPublicHost string

	// Cloud Tasks
	TasksLocation  string
	TasksQueue     string
	WorkerBaseURL  string // 自分自身の公開 URL（Cloud Run）
	InvokerSAEmail string // キューがワーカー呼び出しに使う SA

	// Firebase Auth
	FirebaseProjectID string
}

// Load は環境変数を読み込み Config を返します。
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "bouldering-app-sub001")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DatabaseURLSecret: os.Getenv("DATABASE_URL_SECRET"),

		ProjectID: defaultProject,
		GCPCreds:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		MediaBucket:     getenvDefault("MEDIA_BUCKET", "bouldering-app-media"),
		MediaPublicHost: getenvDefault("MEDIA_PUBLIC_HOST", "storage.googleapis.com"),

		TasksLocation:  getenvDefault("CLOUD_TASKS_LOCATION", "asia-northeast1"),
		TasksQueue:     getenvDefault("CLOUD_TASKS_QUEUE", "media-cleanup"),
		WorkerBaseURL:  strings.TrimRight(os.Getenv("TASKS_WORKER_BASE_URL"), "/"),
		InvokerSAEmail: os.Getenv("TASKS_INVOKER_SA_EMAIL"),

		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
	}
}

// QueuePath returns "projects/{p}/locations/{l}/queues/{q}".
func (c *Config) QueuePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", c.ProjectID, c.TasksLocation, c.TasksQueue)
}

// WorkerCallbackURL はワーカーエンドポイントの固定 URL。
func (c *Config) WorkerCallbackURL() string {
	if c.WorkerBaseURL == "" {
		return ""
	}
	return c.WorkerBaseURL + "/internal/tasks/delete-media-by-prefix"
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
