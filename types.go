package eir

import (
	"fmt"
	"strings"
)

// Method is the classified request method.
type Method int

const (
	MethodMalformed Method = iota
	MethodGet
	MethodHead
	// MethodUnknown is a recognized HTTP method that this server does not implement.
	MethodUnknown
)

var unimplementedMethods = map[string]struct{}{
	"POST":    {},
	"PUT":     {},
	"DELETE":  {},
	"CONNECT": {},
	"OPTIONS": {},
	"TRACE":   {},
	"PATCH":   {},
}

// ParseMethod classifies a request-line method token. Matching is case-sensitive.
func ParseMethod(s string) Method {
	switch s {
	case "GET":
		return MethodGet
	case "HEAD":
		return MethodHead
	}
	if _, ok := unimplementedMethods[s]; ok {
		return MethodUnknown
	}
	return MethodMalformed
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	case MethodUnknown:
		return "UNKNOWN"
	default:
		return "MALFORMED"
	}
}

// Status is an HTTP status code together with its reason phrase.
type Status struct {
	Code int
	Text string
}

var (
	StatusOK                  = Status{200, "Ok"}
	StatusNotModified         = Status{304, "Not Modified"}
	StatusBadRequest          = Status{400, "Bad Request"}
	StatusNotFound            = Status{404, "Not Found"}
	StatusInternalServerError = Status{500, "Internal Server Error"}
	StatusNotImplemented      = Status{501, "Not Implemented"}
	StatusVersionNotSupported = Status{505, "HTTP Version Not Supported"}
)

func (s Status) String() string {
	return fmt.Sprintf("%d %s", s.Code, s.Text)
}

// IsZero reports whether no status has been assigned.
func (s Status) IsZero() bool {
	return s.Code == 0
}

// ProtocolVersion is the only protocol version this server speaks.
const ProtocolVersion = "HTTP/1.1"

// ServerName is sent in the Server header of every response.
const ServerName = "Eirserver"

// CacheStatus is the outcome of a freshness check.
type CacheStatus int

const (
	CacheStale CacheStatus = iota
	CacheFresh
	CacheError
)

func (c CacheStatus) String() string {
	switch c {
	case CacheFresh:
		return "fresh"
	case CacheError:
		return "error"
	default:
		return "stale"
	}
}

// Body is the output of a content generator.
type Body struct {
	Data []byte
	// Text is false when the content looks binary.
	Text bool
	// MIME overrides the extension-derived content type when non-empty.
	MIME string
}

// Verbosity controls how much of each HTTP exchange is logged.
type Verbosity string

const (
	VerbosityNone    Verbosity = "none"
	VerbosityMinimal Verbosity = "minimal"
	VerbosityVerbose Verbosity = "verbose"
)

func (v Verbosity) IsValid() bool {
	switch v {
	case VerbosityNone, VerbosityMinimal, VerbosityVerbose:
		return true
	default:
		return false
	}
}

func ParseVerbosity(s string) (Verbosity, error) {
	v := Verbosity(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("invalid verbosity: %s (valid values: none, minimal, verbose)", s)
	}
	return v, nil
}
