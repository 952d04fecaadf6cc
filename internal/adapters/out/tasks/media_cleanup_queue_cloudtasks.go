// internal/adapters/out/tasks/media_cleanup_queue_cloudtasks.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	"cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/known/timestamppb"

	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
)

// DefaultScheduleDelay is the small deliberate delay before a cleanup task
// becomes runnable (not a cron; just enough to get off the request path).
const DefaultScheduleDelay = 1 * time.Second

// taskPayload is the wire body of one cleanup task: exactly the prefix.
type taskPayload struct {
	Prefix string `json:"prefix"`
}

// MediaCleanupQueueCloudTasks schedules per-prefix deletion tasks on a
// Cloud Tasks queue. The queue invokes the worker endpoint with an OIDC
// token for InvokerEmail; only that identity passes the worker's trust
// boundary.
type MediaCleanupQueueCloudTasks struct {
	Client *cloudtasks.Client

	// QueuePath is "projects/{p}/locations/{l}/queues/{q}".
	QueuePath string
	// WorkerURL is the fixed callback URL of the delete-media-by-prefix endpoint.
	WorkerURL string
	// InvokerEmail is the service account the queue mints OIDC tokens for.
	InvokerEmail string
	// Delay before the task becomes runnable (DefaultScheduleDelay if zero).
	Delay time.Duration

	now func() time.Time
}

func NewMediaCleanupQueueCloudTasks(client *cloudtasks.Client, queuePath, workerURL, invokerEmail string) *MediaCleanupQueueCloudTasks {
	return &MediaCleanupQueueCloudTasks{
		Client:       client,
		QueuePath:    strings.TrimSpace(queuePath),
		WorkerURL:    strings.TrimSpace(workerURL),
		InvokerEmail: strings.TrimSpace(invokerEmail),
		Delay:        DefaultScheduleDelay,
		now:          time.Now,
	}
}

func (q *MediaCleanupQueueCloudTasks) WithNow(now func() time.Time) *MediaCleanupQueueCloudTasks {
	q.now = now
	return q
}

// Enqueue submits one durable task per distinct non-empty prefix, all
// concurrently. Empty input returns immediately. If any submission fails
// the first error is returned; sibling tasks that were already accepted by
// the queue stay submitted (no cross-task transaction on Cloud Tasks).
func (q *MediaCleanupQueueCloudTasks) Enqueue(ctx context.Context, prefixes []tmdom.Prefix) error {
	distinct := normalizePrefixes(prefixes)
	if len(distinct) == 0 {
		return nil
	}

	if q == nil || q.Client == nil {
		return errors.New("media_cleanup_queue: cloud tasks client is nil")
	}
	if q.QueuePath == "" || q.WorkerURL == "" {
		return errors.New("media_cleanup_queue: queue path / worker url not configured")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range distinct {
		p := p
		g.Go(func() error {
			req, err := q.buildCreateTaskRequest(p)
			if err != nil {
				return err
			}
			if _, err := q.Client.CreateTask(gctx, req); err != nil {
				return fmt.Errorf("media_cleanup_queue: create task for %q: %w", p, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// buildCreateTaskRequest builds the Cloud Tasks request for one prefix.
func (q *MediaCleanupQueueCloudTasks) buildCreateTaskRequest(prefix tmdom.Prefix) (*cloudtaskspb.CreateTaskRequest, error) {
	body, err := json.Marshal(taskPayload{Prefix: prefix.String()})
	if err != nil {
		return nil, fmt.Errorf("media_cleanup_queue: marshal payload for %q: %w", prefix, err)
	}

	delay := q.Delay
	if delay <= 0 {
		delay = DefaultScheduleDelay
	}

	httpReq := &cloudtaskspb.HttpRequest{
		Url:        q.WorkerURL,
		HttpMethod: cloudtaskspb.HttpMethod_POST,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
	if q.InvokerEmail != "" {
		httpReq.AuthorizationHeader = &cloudtaskspb.HttpRequest_OidcToken{
			OidcToken: &cloudtaskspb.OidcToken{
				ServiceAccountEmail: q.InvokerEmail,
				Audience:            q.WorkerURL,
			},
		}
	}

	return &cloudtaskspb.CreateTaskRequest{
		Parent: q.QueuePath,
		Task: &cloudtaskspb.Task{
			MessageType:  &cloudtaskspb.Task_HttpRequest{HttpRequest: httpReq},
			ScheduleTime: timestamppb.New(q.now().UTC().Add(delay)),
		},
	}, nil
}

// normalizePrefixes drops empty entries and duplicates, keeping first-seen order.
func normalizePrefixes(prefixes []tmdom.Prefix) []tmdom.Prefix {
	seen := make(map[tmdom.Prefix]struct{}, len(prefixes))
	out := make([]tmdom.Prefix, 0, len(prefixes))
	for _, p := range prefixes {
		v := tmdom.Prefix(strings.TrimSpace(p.String()))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
