package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"planguard/internal/rules"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var severityPaint = map[rules.Severity]*color.Color{
	rules.SeverityInfo:    color.New(color.FgCyan),
	rules.SeverityWarning: color.New(color.FgYellow),
	rules.SeverityError:   color.New(color.FgRed, color.Bold),
}

type ConsoleSink struct {
	writer            io.Writer
	format            string // "text", "json", "ndjson"
	mu                sync.Mutex
	violations        []rules.Violation // For JSON aggregate output
	warnings          []rules.Warning
	allowedSeverities map[string]bool
}

func NewConsoleSink(w io.Writer, format string, filterSeverities []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterSeverities) > 0 {
		s.allowedSeverities = make(map[string]bool)
		for _, sev := range filterSeverities {
			// Normalize to uppercase for case-insensitive comparison
			// The severities are "INFO", "WARNING", "ERROR"
			s.allowedSeverities[strings.ToUpper(sev)] = true
		}
	}

	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	// Apply filtering if configured
	if len(s.allowedSeverities) > 0 {
		if viol, ok := v.(rules.Violation); ok {
			if !s.allowedSeverities[string(viol.Severity)] {
				return nil
			}
		}
	}

	switch s.format {
	case "json":
		switch t := v.(type) {
		case rules.Violation:
			s.violations = append(s.violations, t)
		case rules.Warning:
			s.warnings = append(s.warnings, t)
		}
		// Ignore lifecycle events in JSON console mode.
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case rules.Violation:
			if err := encoder.Encode(eventFromViolation(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case rules.Warning:
			if err := encoder.Encode(eventFromWarning(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		switch t := v.(type) {
		case rules.Violation:
			tag := string(t.Severity)
			if paint, ok := severityPaint[t.Severity]; ok {
				tag = paint.Sprint(tag)
			}
			subject := t.Address
			if subject == "" {
				subject = fmt.Sprintf("change #%d", t.ResourceIndex)
			}
			if _, err := fmt.Fprintf(s.writer, "[%s] %s: %s", tag, subject, t.RuleID); err != nil {
				return err
			}
			if t.Message != "" {
				if _, err := fmt.Fprintf(s.writer, " - %s", t.Message); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(s.writer); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case rules.Warning:
			if _, err := fmt.Fprintf(s.writer, "[warning] change #%d: %s - %s\n", t.ResourceIndex, t.RuleID, t.Message); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			// Ignore events in text mode.
			return nil
		}
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		agg := aggregate{Violations: s.violations, Warnings: s.warnings}
		if agg.Violations == nil {
			agg.Violations = []rules.Violation{}
		}
		if err := encoder.Encode(agg); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
