// Package googletasks mirrors the local task collection into a Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"ltask/internal/config"
	"ltask/internal/service"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	// deleteWorkers bounds concurrent delete calls.
	deleteWorkers = 4

	statusOpen      = "needsAction"
	statusCompleted = "completed"
)

// Client pushes tasks to Google Tasks.
type Client struct {
	svc *tasks.Service
	log *zap.Logger
}

// Result summarizes a push.
type Result struct {
	ListID      string
	ListCreated bool
	Removed     int
	Inserted    int
}

// New creates a client from oauth_client.json and token.json in the config dir.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))
	return NewWithHTTPClient(ctx, httpClient, log)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, log *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{svc: svc, log: log}, nil
}

// Push replaces the contents of the list titled listTitle with items, in
// order. The list is created if it does not exist. Nothing is read back
// into the local collection.
func (c *Client) Push(ctx context.Context, listTitle string, items []service.Task) (Result, error) {
	listID, created, err := c.ensureList(ctx, listTitle)
	if err != nil {
		return Result{}, err
	}
	res := Result{ListID: listID, ListCreated: created}

	if !created {
		existing, err := c.listTaskIDs(ctx, listID)
		if err != nil {
			return res, err
		}
		if err := c.deleteAll(ctx, listID, existing); err != nil {
			return res, err
		}
		res.Removed = len(existing)
	}

	// Sequential inserts; each new task is placed after the previous one.
	previous := ""
	for _, t := range items {
		id, err := c.insert(ctx, listID, previous, t)
		if err != nil {
			return res, err
		}
		previous = id
		res.Inserted++
	}

	c.log.Debug("push complete",
		zap.String("list", listTitle),
		zap.Int("removed", res.Removed),
		zap.Int("inserted", res.Inserted))
	return res, nil
}

// ensureList finds a list by title (case-insensitive, trimmed) or creates it.
func (c *Client) ensureList(ctx context.Context, title string) (string, bool, error) {
	title = strings.TrimSpace(title)
	want := strings.ToLower(title)

	var matches []string
	token := ""
	for {
		resp, err := c.listsPage(ctx, token)
		if err != nil {
			return "", false, wrapError(err)
		}
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == want {
				matches = append(matches, list.Id)
			}
		}
		if token = resp.NextPageToken; token == "" {
			break
		}
	}

	switch len(matches) {
	case 0:
		callCtx, cancel := context.WithTimeout(ctx, APITimeout)
		defer cancel()
		list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: title}).Context(callCtx).Do()
		if err != nil {
			return "", false, wrapError(err)
		}
		c.log.Debug("created list", zap.String("title", title), zap.String("id", list.Id))
		return list.Id, true, nil
	case 1:
		return matches[0], false, nil
	default:
		return "", false, fmt.Errorf("ambiguous list name: %s", title)
	}
}

// listsPage fetches one page of task lists. Each page gets its own deadline.
func (c *Client) listsPage(ctx context.Context, token string) (*tasks.TaskLists, error) {
	callCtx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasklists.List().MaxResults(PageSize)
	if token != "" {
		call = call.PageToken(token)
	}
	return call.Context(callCtx).Do()
}

// listTaskIDs returns the ids of every task in the list, completed and
// hidden ones included.
func (c *Client) listTaskIDs(ctx context.Context, listID string) ([]string, error) {
	var ids []string
	token := ""
	for {
		resp, err := c.tasksPage(ctx, listID, token)
		if err != nil {
			return nil, wrapError(err)
		}
		for _, t := range resp.Items {
			ids = append(ids, t.Id)
		}
		if token = resp.NextPageToken; token == "" {
			return ids, nil
		}
	}
}

func (c *Client) tasksPage(ctx context.Context, listID, token string) (*tasks.Tasks, error) {
	callCtx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false)
	if token != "" {
		call = call.PageToken(token)
	}
	return call.Context(callCtx).Do()
}

// deleteAll removes tasks concurrently. The first failure cancels the rest.
func (c *Client) deleteAll(ctx context.Context, listID string, ids []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteWorkers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, APITimeout)
			defer cancel()
			if err := c.svc.Tasks.Delete(listID, id).Context(callCtx).Do(); err != nil {
				return wrapError(err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Client) insert(ctx context.Context, listID, previous string, t service.Task) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.Insert(listID, toRemote(t))
	if previous != "" {
		call = call.Previous(previous)
	}
	created, err := call.Context(callCtx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return created.Id, nil
}

// toRemote maps a local task to a Google task.
func toRemote(t service.Task) *tasks.Task {
	r := &tasks.Task{
		Title:  t.Title,
		Notes:  t.Description,
		Status: statusOpen,
	}
	if t.Completed {
		r.Status = statusCompleted
		done := t.UpdatedAt.UTC().Format(time.RFC3339)
		r.Completed = &done
	}
	return r
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: ltask login)")
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}

	return err
}
