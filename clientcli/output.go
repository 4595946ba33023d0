package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats results for output.
type Formatter interface {
	// FormatResponse prints a reply. Headers are printed when showHeaders is
	// set or the reply has no body.
	FormatResponse(w io.Writer, resp *Response, showHeaders bool) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	// Quiet prints only the body.
	Quiet bool
}

// FormatResponse formats a reply as the status line, headers and body.
func (f *HumanFormatter) FormatResponse(w io.Writer, resp *Response, showHeaders bool) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "%s %s\n", resp.Version, resp.Status())
		if showHeaders || len(resp.Body) == 0 {
			for _, h := range resp.Headers {
				_, _ = fmt.Fprintf(w, "%s: %s\n", h.Name, h.Value)
			}
		}
		if len(resp.Body) > 0 {
			_, _ = fmt.Fprintln(w)
		}
	}

	if len(resp.Body) == 0 {
		return nil
	}
	if !resp.IsText() && !f.Quiet {
		_, _ = fmt.Fprintf(w, "(%s binary body)\n", formatSize(int64(len(resp.Body))))
		return nil
	}
	_, err := w.Write(resp.Body)
	return err
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatResponse formats a reply as JSON. Binary bodies are base64 encoded.
func (f *JSONFormatter) FormatResponse(w io.Writer, resp *Response, _ bool) error {
	output := struct {
		Version    string   `json:"version"`
		Status     int      `json:"status"`
		StatusText string   `json:"status_text"`
		Headers    []Header `json:"headers"`
		Size       int      `json:"size_bytes"`
		Body       string   `json:"body,omitempty"`
		BodyBase64 []byte   `json:"body_base64,omitempty"`
	}{
		Version:    resp.Version,
		Status:     resp.StatusCode,
		StatusText: resp.StatusText,
		Headers:    resp.Headers,
		Size:       len(resp.Body),
	}

	if resp.IsText() {
		output.Body = string(resp.Body)
	} else {
		output.BodyBase64 = resp.Body
	}

	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	// Calculate column widths
	maxNameLen := 4 // "NAME"
	maxAddrLen := 7 // "ADDRESS"
	for i := range profiles {
		maxNameLen = max(maxNameLen, len(profiles[i].Name))
		maxAddrLen = max(maxAddrLen, len(profiles[i].Address))
	}
	maxNameLen = min(maxNameLen, 20)
	maxAddrLen = min(maxAddrLen, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxAddrLen, "ADDRESS", "VERSION")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxAddrLen), strings.Repeat("-", 8))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		version := p.Version
		if version == "" {
			version = DefaultVersion
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n", marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxAddrLen, truncate(p.Address, maxAddrLen),
			version)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	_, _ = fmt.Fprintf(w, "Name:          %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Address:       %s\n", profile.Address)
	_, _ = fmt.Fprintf(w, "Version:       %s\n", orDefault(profile.Version, DefaultVersion))
	_, _ = fmt.Fprintf(w, "Shutdown path: %s\n", orDefault(profile.ShutdownPath, DefaultShutdownPath))
	return nil
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	output := struct {
		Profiles []Profile `json:"profiles"`
	}{
		Profiles: make([]Profile, len(profiles)),
	}

	for i := range profiles {
		p := profiles[i]
		p.Default = p.Name == defaultName
		output.Profiles[i] = p
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	profile.Default = isDefault
	return writeJSON(w, profile)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
