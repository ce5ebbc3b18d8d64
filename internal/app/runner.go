package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Adda-Baaj/vk-fetch/internal/config"
	"github.com/Adda-Baaj/vk-fetch/internal/logger"
	"github.com/Adda-Baaj/vk-fetch/internal/storage"
	"github.com/Adda-Baaj/vk-fetch/pkg/publishers"
	"github.com/Adda-Baaj/vk-fetch/pkg/vkapi"
)

// Fetch methods accepted by Runner.Fetch.
const (
	MethodFriends = "friends"
	MethodAlbums  = "albums"
)

// operation is one fetchable list: the degrading client call and the heading
// it is printed under.
type operation struct {
	title string
	fetch func(ctx context.Context, c *vkapi.Client, userID string) []string
}

var operations = map[string]operation{
	MethodFriends: {
		title: "Friends list:",
		fetch: func(ctx context.Context, c *vkapi.Client, userID string) []string { return c.GetFriends(ctx, userID) },
	},
	MethodAlbums: {
		title: "Photo albums:",
		fetch: func(ctx context.Context, c *vkapi.Client, userID string) []string { return c.GetAlbums(ctx, userID) },
	},
}

// Methods lists the accepted fetch methods in stable order.
func Methods() []string {
	out := make([]string, 0, len(operations))
	for m := range operations {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Result is the outcome of one fetch.
type Result struct {
	Method    string
	UserID    string
	Title     string
	Items     []string
	NewItems  []string
	FetchedAt time.Time
}

// Options carries the per-invocation inputs that do not come from config.
type Options struct {
	Token string
	// Diagnostics receives degraded-fetch messages; stdout when nil.
	Diagnostics io.Writer
	// Publishers overrides the publishers built from cfg.PublishersFile.
	Publishers []publishers.Publisher
}

// Runner wires the API client with the optional seen-item store and
// publisher fan-out.
type Runner struct {
	cfg    *config.Config
	client *vkapi.Client
	store  storage.Store
	fanout *publishers.Fanout
	log    logger.Logger
}

// NewRunner builds a runner from config.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	clientOpts := []vkapi.Option{
		vkapi.WithBaseURL(cfg.VKBaseURL),
		vkapi.WithVersion(cfg.VKAPIVersion),
		vkapi.WithTimeout(cfg.RequestTimeout),
		vkapi.WithLogger(log),
	}
	if opts.Diagnostics != nil {
		clientOpts = append(clientOpts, vkapi.WithDiagnostics(opts.Diagnostics))
	}
	client := vkapi.New(opts.Token, clientOpts...)

	pubs := opts.Publishers
	if pubs == nil && strings.TrimSpace(cfg.PublishersFile) != "" {
		built, err := buildPublishers(ctx, cfg.PublishersFile, log)
		if err != nil {
			return nil, err
		}
		pubs = built
	}
	fanout := publishers.NewFanout(pubs)

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ItemTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	log.DebugObj("runner initialized", "runner_config", map[string]any{
		"base_url":         cfg.VKBaseURL,
		"api_version":      cfg.VKAPIVersion,
		"timeout":          cfg.RequestTimeout.String(),
		"storage_type":     cfg.StorageType,
		"publishers_count": fanout.Size(),
	})

	return &Runner{
		cfg:    cfg,
		client: client,
		store:  store,
		fanout: fanout,
		log:    log,
	}, nil
}

func buildPublishers(ctx context.Context, path string, log logger.Logger) ([]publishers.Publisher, error) {
	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return pubs, nil
}

// Fetch runs one convenience operation. API failures never surface here:
// they degrade to an empty Items list with a diagnostic. Errors returned are
// unknown methods or storage failures.
func (r *Runner) Fetch(ctx context.Context, method, userID string) (Result, error) {
	if r == nil || r.client == nil {
		return Result{}, fmt.Errorf("runner is not initialized")
	}
	method = strings.ToLower(strings.TrimSpace(method))
	op, ok := operations[method]
	if !ok {
		return Result{}, fmt.Errorf("unknown method %q (expected one of %s)", method, strings.Join(Methods(), ", "))
	}

	start := time.Now()
	items := op.fetch(ctx, r.client, userID)

	newItems, err := r.markSeen(method, userID, items)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Method:    method,
		UserID:    userID,
		Title:     op.title,
		Items:     items,
		NewItems:  newItems,
		FetchedAt: time.Now().UTC(),
	}

	r.log.InfoObj("fetch completed", "fetch_meta", map[string]any{
		"method":     method,
		"user_id":    userID,
		"items":      len(items),
		"new_items":  len(newItems),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	r.publish(ctx, res)
	return res, nil
}

// markSeen returns the items the store had not seen before, in fetch order.
func (r *Runner) markSeen(method, userID string, items []string) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = storage.ItemKey(method, userID, item)
	}
	fresh, err := r.store.Remember(keys)
	if err != nil {
		return nil, fmt.Errorf("record seen items: %w", err)
	}

	var out []string
	for i, isNew := range fresh {
		if isNew {
			out = append(out, items[i])
		}
	}
	return out, nil
}

func (r *Runner) publish(ctx context.Context, res Result) {
	if r.fanout.Size() == 0 {
		return
	}
	evt := publishers.NewEvent(res.Method, res.UserID, res.Items, res.NewItems)
	delivered, err := r.fanout.Publish(ctx, evt)
	if err != nil {
		r.log.ErrorObj("publish fetch result failed", "publish_error", map[string]any{
			"method":    res.Method,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	r.log.DebugObj("fetch result published", "publish_meta", map[string]any{
		"method":    res.Method,
		"delivered": delivered,
	})
}

// Call invokes an arbitrary remote method. Unlike Fetch it returns the
// *vkapi.APIError to the caller.
func (r *Runner) Call(ctx context.Context, method string, params vkapi.Params) (json.RawMessage, error) {
	if r == nil || r.client == nil {
		return nil, fmt.Errorf("runner is not initialized")
	}
	return r.client.Call(ctx, method, params)
}

// Close releases the store and any publisher connections.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	var firstErr error
	if r.fanout != nil {
		if err := r.fanout.Close(); err != nil {
			firstErr = err
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.ErrorObj("storage close failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
