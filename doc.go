// Package eir implements a minimal HTTP/1.1 static-content server core.
//
// A request travels through a fixed pipeline: the raw bytes are parsed into a
// Request, the decoded path is resolved under a confined root, freshness is
// checked against a FreshnessCache, a Dispatcher produces the body and the
// Response is serialized back to wire bytes.
//
// # Key Components
//
//   - RequestPath: root-confined path resolution and filesystem type checks
//   - Parser: request-line, URL decoding and If-None-Match extraction
//   - MimeTypes: extension to content type table
//   - Response: status line, headers and body serialization
//   - Pipeline: the state machine mapping a request to a status
//
// # Collaborators
//
// The pipeline depends on interfaces only:
//
//   - FreshnessCache: ETag bookkeeping, see the cache package
//   - Dispatcher: content strategies, see the generator package
//   - AccessLogger: HTTP access records, see the logging package
//
// # Example Usage
//
//	root, err := eir.NewRequestPath("/srv/www")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p := eir.NewPipeline(eir.PipelineConfig{ShutdownPath: "/shutdown"},
//	    eir.NewParser(root, eir.DefaultMimeTypes()), c, generator.New(generator.Config{}),
//	    slog.Default(), access)
//
//	res := p.Handle(ctx, raw, "127.0.0.1")
//
// See the server package for the TCP accept loop.
package eir
