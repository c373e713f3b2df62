package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"sharePreview/internal/metrics"
	"sharePreview/internal/models"
)

// MaxBulkPosts caps how many ids one bulk request may resolve, and with it
// the number of concurrent lookups a single request can start.
const MaxBulkPosts = 10

// IDList is the window of post ids resolved by one bulk request.
type IDList []string

// ParseIDs splits a comma separated id list, dropping empty entries.
func ParseIDs(raw string) (IDList, error) {
	if raw == "" {
		return nil, Validation("Posts parameter is required")
	}

	var ids IDList
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	if err := ids.Validate(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (ids IDList) Validate() error {
	if len(ids) == 0 {
		return Validation("No valid post IDs provided")
	}
	if len(ids) > MaxBulkPosts {
		return Validation(fmt.Sprintf("Maximum %d posts allowed", MaxBulkPosts))
	}
	return nil
}

type BatchService interface {
	ResolvePosts(ctx context.Context, ids IDList) ([]models.Post, error)
	ResolveThreads(ctx context.Context, ids IDList) ([][]models.Post, error)
	ResolveComments(ctx context.Context, ids IDList) (map[string][]models.Comment, error)
}

type batchService struct {
	posts    PostResolver
	comments CommentService
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

func NewBatchService(posts PostResolver, comments CommentService, log logrus.FieldLogger, m *metrics.Metrics) BatchService {
	return &batchService{
		posts:    posts,
		comments: comments,
		log:      log,
		metrics:  m,
	}
}

// ResolveThreads resolves every id concurrently. The result has one thread
// per id, in the order of ids; an id that failed contributes an empty thread.
// Ids of follow-on posts are accepted and resolve to the rest of their thread.
func (b *batchService) ResolveThreads(ctx context.Context, ids IDList) (threads [][]models.Post, err error) {
	if err := ids.Validate(); err != nil {
		return nil, err
	}

	defer b.recoverInternal("Failed to fetch posts", &err)

	threads = settleAll(ctx, len(ids), []models.Post(nil),
		func(ctx context.Context, i int) ([]models.Post, error) {
			return b.posts.Resolve(ctx, ids[i], false)
		},
		func(i int, err error) {
			b.itemFailed("posts", ids[i], err)
		},
	)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, b.internal("Failed to fetch posts", ctxErr)
	}

	for _, thread := range threads {
		for j := range thread {
			thread[j] = thread[j].Public()
		}
	}

	return threads, nil
}

// ResolvePosts flattens ResolveThreads. An empty result is a success.
func (b *batchService) ResolvePosts(ctx context.Context, ids IDList) ([]models.Post, error) {
	threads, err := b.ResolveThreads(ctx, ids)
	if err != nil {
		return nil, err
	}

	posts := []models.Post{}
	for _, thread := range threads {
		posts = append(posts, thread...)
	}
	return posts, nil
}

func (b *batchService) ResolveComments(ctx context.Context, ids IDList) (result map[string][]models.Comment, err error) {
	if err := ids.Validate(); err != nil {
		return nil, err
	}

	defer b.recoverInternal("Failed to fetch comments", &err)

	lists := settleAll(ctx, len(ids), []models.Comment{},
		func(ctx context.Context, i int) ([]models.Comment, error) {
			return b.comments.List(ctx, ids[i])
		},
		func(i int, err error) {
			b.itemFailed("comments", ids[i], err)
		},
	)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, b.internal("Failed to fetch comments", ctxErr)
	}

	result = make(map[string][]models.Comment, len(ids))
	for i, id := range ids {
		if lists[i] == nil {
			lists[i] = []models.Comment{}
		}
		result[id] = lists[i]
	}
	return result, nil
}

func (b *batchService) itemFailed(operation, id string, err error) {
	b.metrics.ItemFailed(operation)
	b.log.WithFields(logrus.Fields{
		"operation": operation,
		"post_id":   id,
	}).WithError(err).Warn("bulk lookup failed, using empty result")
}

func (b *batchService) internal(message string, cause error) error {
	b.log.WithError(cause).Error(message)
	return Internal(message, cause)
}

func (b *batchService) recoverInternal(message string, err *error) {
	if r := recover(); r != nil {
		*err = b.internal(message, fmt.Errorf("panic: %v", r))
	}
}

// settleAll runs n tasks concurrently and waits for every one of them. A task
// that returns an error or panics leaves fallback in its slot and is reported
// to onFailure; it never cancels or hides the others.
func settleAll[T any](ctx context.Context, n int, fallback T, task func(ctx context.Context, i int) (T, error), onFailure func(i int, err error)) []T {
	results := make([]T, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		results[i] = fallback
		go func(i int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					onFailure(i, fmt.Errorf("panic: %v", r))
				}
			}()

			value, err := task(ctx, i)
			if err != nil {
				onFailure(i, err)
				return
			}
			results[i] = value
		}(i)
	}
	wg.Wait()

	return results
}
