// internal/platform/di/container.go
package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	_ "github.com/lib/pq"

	httpin "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/adapters/in/http"
	"github.com/murakami-kaito-dev/bouldering-app-sub001/internal/adapters/in/http/middleware"
	dbadapter "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/adapters/out/db"
	gcsadapter "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/adapters/out/gcs"
	tasksadapter "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/adapters/out/tasks"
	usecase "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/application/usecase"
	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
	"github.com/murakami-kaito-dev/bouldering-app-sub001/internal/infra/config"
	"github.com/murakami-kaito-dev/bouldering-app-sub001/internal/platform/eventbus"
)

// Container は main.go から使う依存オブジェクトの束。
//
// 初期化ポリシー（teacher: strict / best-effort の二段構え）:
//   - DB / GCS は strict（失敗したら起動しない）
//   - Firebase Auth / Cloud Tasks は best-effort
//     （失敗しても warn を出して該当ルートを外すだけ）
type Container struct {
	Config *config.Config

	Bus *eventbus.Bus

	TweetUC   *usecase.TweetUsecase
	CleanupUC *usecase.MediaCleanupUsecase

	UserAuth  *middleware.UserAuth
	TasksAuth *middleware.TasksAuth

	db          *sql.DB
	gcs         *storage.Client
	tasksClient *cloudtasks.Client
}

// Close は Cloud Run 終了時などに呼んで安全にリソースを閉じる。
func (c *Container) Close() {
	if c.db != nil {
		_ = c.db.Close()
	}
	if c.gcs != nil {
		_ = c.gcs.Close()
	}
	if c.tasksClient != nil {
		_ = c.tasksClient.Close()
	}
}

// RouterDeps returns everything the router needs.
func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		TweetUC:   c.TweetUC,
		CleanupUC: c.CleanupUC,
		UserAuth:  c.UserAuth,
		TasksAuth: c.TasksAuth,
	}
}

// NewContainer initializes all dependencies and wires the cleanup pipeline:
// repo → bus → cleanup handler → Cloud Tasks、そしてワーカー側の
// GCS list+delete まで。
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := config.Load()
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}

	cont := &Container{Config: cfg}

	var clientOpts []option.ClientOption
	if cred := strings.TrimSpace(cfg.GCPCreds); cred != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cred))
		log.Printf("[di] Using credentials file for GCP clients")
	} else {
		log.Printf("[di] Using Application Default Credentials")
	}

	// 1) Postgres (strict)
	dsn, err := resolveDatabaseURL(ctx, cfg, clientOpts)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("di: open db: %w", err)
	}
	cont.db = sqlDB
	if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		log.Printf("[di] WARN: db ping failed: %v", pingErr)
	}

	// 2) GCS (strict; ワーカーが動けないと cleanup pipeline 全体が死ぬ)
	gcsClient, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		cont.Close()
		return nil, fmt.Errorf("di: storage.NewClient: %w", err)
	}
	cont.gcs = gcsClient

	// 3) Firebase Auth (best-effort; 落ちたら /tweets 系を外すだけ)
	var fbAuth *firebaseauth.Client
	{
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: firebase.NewApp failed: %v (user routes disabled)", err)
		} else if fbAuth, err = app.Auth(ctx); err != nil {
			log.Printf("[di] WARN: firebase app.Auth failed: %v (user routes disabled)", err)
			fbAuth = nil
		}
	}
	if fbAuth != nil {
		cont.UserAuth = &middleware.UserAuth{FirebaseAuth: fbAuth}
	}

	// 4) Cloud Tasks publisher (best-effort)
	var queue tmdom.CleanupQueuePort
	if cfg.WorkerCallbackURL() == "" || strings.TrimSpace(cfg.InvokerSAEmail) == "" {
		log.Printf("[di] WARN: cloud tasks not configured (TASKS_WORKER_BASE_URL / TASKS_INVOKER_SA_EMAIL); media cleanup scheduling disabled")
	} else {
		tc, err := cloudtasks.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: cloudtasks.NewClient failed: %v; media cleanup scheduling disabled", err)
		} else {
			cont.tasksClient = tc
			queue = tasksadapter.NewMediaCleanupQueueCloudTasks(
				tc, cfg.QueuePath(), cfg.WorkerCallbackURL(), cfg.InvokerSAEmail,
			)
		}
	}

	// 5) Worker-side auth (OIDC validator)
	if strings.TrimSpace(cfg.InvokerSAEmail) != "" {
		validator, err := idtoken.NewValidator(ctx, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: idtoken.NewValidator failed: %v; worker endpoint disabled", err)
		} else {
			cont.TasksAuth = &middleware.TasksAuth{
				Validator:    validator,
				Audience:     cfg.WorkerCallbackURL(),
				InvokerEmail: cfg.InvokerSAEmail,
			}
		}
	} else {
		log.Printf("[di] WARN: TASKS_INVOKER_SA_EMAIL not set; worker endpoint disabled")
	}

	// 6) Wiring: repo → bus → subscriber → usecases
	deriver := tmdom.NewPrefixDeriver(cfg.MediaPublicHost)
	tweetRepo := dbadapter.NewTweetRepositoryPG(sqlDB, deriver)
	mediaStore := gcsadapter.NewTweetMediaRepositoryGCS(gcsClient, cfg.MediaBucket)

	bus := eventbus.New()
	if queue != nil {
		usecase.NewMediaCleanupHandler(queue).Register(bus)
	}
	cont.Bus = bus

	cont.TweetUC = usecase.NewTweetUsecase(tweetRepo, bus)
	cont.CleanupUC = usecase.NewMediaCleanupUsecase(mediaStore)

	return cont, nil
}

// resolveDatabaseURL prefers DATABASE_URL; DATABASE_URL_SECRET を指定した
// 場合は Secret Manager から読む（Cloud Run で平文 env を避ける運用）。
func resolveDatabaseURL(ctx context.Context, cfg *config.Config, opts []option.ClientOption) (string, error) {
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		return dsn, nil
	}
	secretName := strings.TrimSpace(cfg.DatabaseURLSecret)
	if secretName == "" {
		return "", errors.New("di: neither DATABASE_URL nor DATABASE_URL_SECRET is set")
	}

	sm, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("di: secretmanager.NewClient: %w", err)
	}
	defer func() { _ = sm.Close() }()

	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return "", fmt.Errorf("di: access secret %q: %w", secretName, err)
	}
	dsn := strings.TrimSpace(string(resp.GetPayload().GetData()))
	if dsn == "" {
		return "", fmt.Errorf("di: secret %q is empty", secretName)
	}
	log.Printf("[di] DATABASE_URL resolved from Secret Manager")
	return dsn, nil
}
