package eir

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"
)

// FreshnessCache tracks which resources a client already holds.
// Implementations must be safe for concurrent use.
type FreshnessCache interface {
	// Check compares the client's ETag with the recorded entry for path.
	//
	// Returns:
	//   - CacheFresh: entry is within its TTL, unchanged on disk and etag matches
	//   - CacheStale: no usable entry; any stale entry has been evicted
	//   - CacheError: the resource or the backing store could not be inspected
	Check(ctx context.Context, path, etag string) (CacheStatus, error)

	// Record stores a fresh entry for path and returns its quoted ETag.
	// With caching disabled it returns an empty ETag and no error.
	Record(ctx context.Context, path string) (string, error)

	// TTL is the freshness window. Zero disables caching.
	TTL() time.Duration
}

// Dispatcher selects a content strategy for a resource and runs it.
type Dispatcher interface {
	// Generate returns the body for path. ErrNoGenerator means no strategy
	// applies to the resource.
	Generate(ctx context.Context, path RequestPath) (Body, error)
}

// AccessRecord describes one completed HTTP exchange.
type AccessRecord struct {
	Client   string
	Request  *Request
	Response *Response
	// Wire is the serialized response exactly as sent.
	Wire []byte
}

type AccessLogger interface {
	LogHTTP(ctx context.Context, rec AccessRecord)
}

type PipelineConfig struct {
	// ShutdownPath is the decoded request path that stops the server.
	ShutdownPath string
	// Version is the accepted protocol version, ProtocolVersion when empty.
	Version string
	// Now is the clock for the Date header, time.Now when nil.
	Now func() time.Time
}

// Result is the outcome of handling one request.
type Result struct {
	Response []byte
	Status   Status
	// Shutdown is set when the request asked the server to stop. Response is
	// empty in that case.
	Shutdown bool
}

// Pipeline maps raw request bytes to raw response bytes.
type Pipeline struct {
	cfg        PipelineConfig
	parser     *Parser
	cache      FreshnessCache
	dispatcher Dispatcher
	log        *slog.Logger
	access     AccessLogger
}

func NewPipeline(cfg PipelineConfig, parser *Parser, cache FreshnessCache, dispatcher Dispatcher, log *slog.Logger, access AccessLogger) *Pipeline {
	if cfg.Version == "" {
		cfg.Version = ProtocolVersion
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg:        cfg,
		parser:     parser,
		cache:      cache,
		dispatcher: dispatcher,
		log:        log,
		access:     access,
	}
}

// Handle runs one request through the pipeline. It never fails: every fault
// becomes a status code.
func (p *Pipeline) Handle(ctx context.Context, raw []byte, client string) Result {
	req := p.parser.Parse(raw)
	resp := NewResponse(req.Method)

	switch {
	case !req.Path.IsValid() || req.Version == "" || req.Method == MethodMalformed:
		resp.Status = StatusBadRequest
	case req.Version != p.cfg.Version:
		resp.Status = StatusVersionNotSupported
	case req.Method == MethodUnknown:
		resp.Status = StatusNotImplemented
	case req.Path.Relative() == p.cfg.ShutdownPath:
		p.log.WarnContext(ctx, "shutdown requested", "client", client)
		return Result{Shutdown: true}
	case !req.Path.Exists():
		resp.Status = StatusNotFound
	default:
		p.serve(ctx, req, resp)
	}

	return p.finish(ctx, req, resp, client)
}

func (p *Pipeline) serve(ctx context.Context, req *Request, resp *Response) {
	abs := req.Path.Absolute()

	status, err := p.cache.Check(ctx, abs, req.ETag)
	switch status {
	case CacheFresh:
		resp.Status = StatusNotModified
		return
	case CacheError:
		p.log.ErrorContext(ctx, "unable to check file cache status", "path", abs, "err", err)
	}

	body, err := p.dispatcher.Generate(ctx, req.Path)
	if err != nil {
		if errors.Is(err, ErrNoGenerator) {
			resp.Status = StatusInternalServerError
			return
		}
		p.log.ErrorContext(ctx, "generate body", "path", abs, "err", err)
		resp.Status = StatusNotFound
		return
	}

	if body.MIME != "" {
		req.MIME = body.MIME
	}
	if req.MIME == DefaultMIME && body.Text {
		req.MIME = "text/plain"
	}

	resp.Body = body.Data
	resp.Status = StatusOK

	if req.Method == MethodGet {
		etag, err := p.cache.Record(ctx, abs)
		if err != nil {
			p.log.ErrorContext(ctx, "unable to add file to cache", "path", abs, "err", err)
			return
		}
		req.ETag = etag
	}
}

func (p *Pipeline) finish(ctx context.Context, req *Request, resp *Response, client string) Result {
	if resp.Status == StatusOK {
		resp.SetHeader("Content-Type", req.MIME)
	}

	ttl := p.cache.TTL()
	if ttl <= 0 {
		resp.SetHeader("Cache-Control", "no-store")
	} else {
		resp.SetHeader("Cache-Control", "public, max-age="+strconv.FormatInt(int64(ttl/time.Second), 10))
		if req.ETag != "" {
			resp.SetHeader("ETag", req.ETag)
		}
	}

	wire := resp.Bytes(p.cfg.Now())

	if p.access != nil {
		p.access.LogHTTP(ctx, AccessRecord{
			Client:   client,
			Request:  req,
			Response: resp,
			Wire:     wire,
		})
	}

	return Result{Response: wire, Status: resp.Status}
}
