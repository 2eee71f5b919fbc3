package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-rest-client/internal/config"
	"github.com/samvad-hq/samvad-rest-client/internal/domain"
	"github.com/samvad-hq/samvad-rest-client/internal/logger"
	"github.com/samvad-hq/samvad-rest-client/internal/storage"
	"github.com/samvad-hq/samvad-rest-client/pkg/publishers"
	"github.com/samvad-hq/samvad-rest-client/pkg/restclient"
	"github.com/samvad-hq/samvad-rest-client/pkg/script"
)

// Runner executes a call script against the API, journaling and publishing every call.
type Runner struct {
	script  *script.Script
	client  *restclient.Client
	store   storage.Store
	fanout  *publishers.Fanout
	log     logger.Logger
	results []domain.CallRecord
}

// NewRunner builds a runner from config files.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	host := cfg.EffectiveHost()
	if host == "" {
		return nil, fmt.Errorf("api host is empty (set HOST, or LOCAL_HOST with USE_LOCAL_HOST)")
	}

	s, err := script.Load(cfg.ScriptFile)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	log.InfoObj("script loaded", "script_meta", map[string]any{
		"name":  s.Name,
		"calls": len(s.Calls),
	})

	client, err := restclient.New(restclient.Options{
		Host:    host,
		APIKey:  cfg.APIKey,
		Version: cfg.APIVersion,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		RecordTTL:       cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	}
	store, err := storage.NewStore(cfg.JournalType, cfg.JournalPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init journal: %w", err)
	}
	log.InfoObj("journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"record_ttl_seconds":       int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})

	return newRunner(s, client, store, fanout, log), nil
}

func newRunner(s *script.Script, client *restclient.Client, store storage.Store, fanout *publishers.Fanout, log logger.Logger) *Runner {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}
	return &Runner{
		script: s,
		client: client,
		store:  store,
		fanout: fanout,
		log:    log,
	}
}

// buildFanout loads the optional publishers file. An empty path disables publishing.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.DefaultRegistry().BuildAll(ctx, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Run executes every script call in order. A failed call does not stop the run;
// failures are joined into the returned error. Cancelling ctx stops before the next call.
func (r *Runner) Run(ctx context.Context) error {
	if r == nil || r.client == nil || r.script == nil {
		return fmt.Errorf("runner is not initialized")
	}

	start := time.Now()
	r.log.InfoObj("script run started", "run_meta", map[string]any{
		"script": r.script.Name,
		"calls":  len(r.script.Calls),
	})

	var errs []error
	for _, call := range r.script.Calls {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("run interrupted before call %q: %w", call.Name, err))
			break
		}

		rec, err := r.runCall(ctx, call)
		r.results = append(r.results, rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("call %q: %w", call.Name, err))
			r.log.ErrorObj("call failed", "call_result", rec)
		} else {
			r.log.InfoObj("call completed", "call_result", rec)
		}

		if err := r.store.Record(rec); err != nil {
			errs = append(errs, fmt.Errorf("journal call %q: %w", call.Name, err))
			r.log.ErrorObj("journal write failed", "error", err)
		}
		if _, err := r.fanout.Publish(ctx, publishers.NewEvent(r.script.Name, rec)); err != nil {
			errs = append(errs, fmt.Errorf("publish call %q: %w", call.Name, err))
			r.log.ErrorObj("event publish failed", "error", err)
		}
	}

	r.log.InfoObj("script run completed", "run_meta", map[string]any{
		"script":     r.script.Name,
		"calls":      len(r.results),
		"failed":     len(errs),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return errors.Join(errs...)
}

// runCall dispatches one call through the client. Per-call headers and version apply
// to that call only.
func (r *Runner) runCall(ctx context.Context, call script.Call) (domain.CallRecord, error) {
	c := r.client

	if call.Version != nil {
		prev := c.Version()
		c.SetVersion(*call.Version)
		defer c.SetVersion(prev)
	}
	defer r.restoreHeaders(call.Headers)()

	c.Segments(call.Segments()...)
	url := c.BuildURL(call.Query)

	rec := domain.CallRecord{
		ID:     uuid.NewString(),
		Script: r.script.Name,
		Call:   call.Name,
		Method: strings.ToUpper(call.Method),
		URL:    url,
	}

	dispatch, _ := c.Attr(call.Method)
	if dispatch == nil {
		c.Reset()
		err := fmt.Errorf("unsupported method %q", call.Method)
		rec.Error = err.Error()
		rec.CompletedAt = time.Now().UTC()
		return rec, err
	}

	opts := []restclient.RequestOption{restclient.WithQuery(call.Query)}
	if len(call.Headers) > 0 {
		opts = append(opts, restclient.WithHeaders(call.Headers))
	}
	if call.Body != nil {
		opts = append(opts, restclient.WithBody(call.Body))
	}

	start := time.Now()
	resp, err := dispatch(ctx, opts...)
	rec.Elapsed = time.Since(start)
	rec.CompletedAt = time.Now().UTC()
	if resp != nil {
		rec.StatusCode = resp.StatusCode
		rec.BodyBytes = len(resp.Body)
	}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec, err
}

// restoreHeaders snapshots the client's values for keys and returns a func that puts them back.
func (r *Runner) restoreHeaders(keys map[string]string) func() {
	if len(keys) == 0 {
		return func() {}
	}
	current := r.client.RequestHeaders()
	prev := make(map[string]*string, len(keys))
	for k := range keys {
		k = http.CanonicalHeaderKey(strings.TrimSpace(k))
		if v, ok := current[k]; ok {
			prev[k] = &v
		} else {
			prev[k] = nil
		}
	}
	return func() {
		for k, v := range prev {
			if v == nil {
				r.client.RemoveHeader(k)
				continue
			}
			r.client.SetHeaders(map[string]string{k: *v})
		}
	}
}

// Results returns the records of the calls executed so far.
func (r *Runner) Results() []domain.CallRecord {
	out := make([]domain.CallRecord, len(r.results))
	copy(out, r.results)
	return out
}

// Close releases the journal and publishers.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}
	if err := r.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
