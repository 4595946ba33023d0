package eir

import "strings"

// Request is the parsed form of one raw HTTP request.
type Request struct {
	Method  Method
	Version string
	Path    RequestPath
	// ETag is the If-None-Match value, empty when absent.
	ETag string
	MIME string
	// Target is the request target exactly as received.
	Target string
	Raw    string
}

// Line returns the first line of the raw request without its terminator.
func (r *Request) Line() string {
	line, _, _ := strings.Cut(r.Raw, "\n")
	return strings.TrimSuffix(line, "\r")
}

// Parser turns raw request bytes into a Request rooted at a document root.
type Parser struct {
	root  RequestPath
	mimes MimeTypes
}

func NewParser(root RequestPath, mimes MimeTypes) *Parser {
	if mimes == nil {
		mimes = DefaultMimeTypes()
	}
	return &Parser{root: root, mimes: mimes}
}

// Parse never fails: problems surface as MethodMalformed, an empty version or
// an invalid path, which the pipeline maps to status codes.
func (p *Parser) Parse(raw []byte) *Request {
	req := &Request{
		Raw:  string(raw),
		Path: RequestPath{root: p.root.root},
	}

	fields := strings.Fields(req.Line())
	if len(fields) > 0 {
		req.Method = ParseMethod(fields[0])
	}
	if len(fields) > 1 {
		req.Target = fields[1]
	}
	if len(fields) > 2 {
		req.Version = fields[2]
	}

	decoded, ok := DecodeURL(req.Target)
	if !ok {
		decoded = ""
	}
	req.Path.SetRelative(decoded)

	if etag, ok := ExtractHeader(req.Raw, "If-None-Match"); ok {
		req.ETag = etag
	}

	req.MIME = p.mimes.Lookup(req.Path.Extension())

	return req
}

// DecodeURL decodes "+" to a space and "%XY" to the byte 0xXY. A "%" not
// followed by two hex digits makes the whole input undecodable.
func DecodeURL(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 >= len(s) {
				return "", false
			}
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if !ok1 || !ok2 {
				return "", false
			}
			b.WriteByte(hi<<4 | lo)
			i += 2
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// ExtractHeader finds name anywhere in raw and returns the text between
// name+2 and the next CRLF. The match is a plain substring search.
func ExtractHeader(raw, name string) (string, bool) {
	i := strings.Index(raw, name)
	if i < 0 {
		return "", false
	}

	start := i + len(name) + 2
	if start > len(raw) {
		return "", false
	}

	end := strings.Index(raw[start:], "\r\n")
	if end < 0 {
		return "", false
	}
	return raw[start : start+end], true
}
