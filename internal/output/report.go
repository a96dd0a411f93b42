package output

import (
	"fmt"
	"os"
	"planguard/internal/rules"
	"sort"
	"strings"
	"sync"
)

// ReportSink accumulates the whole run and writes a Markdown summary on
// Close. Intended for CI artifacts and review comments.
type ReportSink struct {
	path         string
	file         *os.File
	mu           sync.Mutex
	violations   []rules.Violation
	warnings     []rules.Warning
	changes      int
	rules        int
	exitCode     int
	haveExitCode bool
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{
		path: path,
		file: f,
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case rules.Violation:
		s.violations = append(s.violations, t)
	case rules.Warning:
		s.warnings = append(s.warnings, t)
	case Event:
		switch t.Type {
		case "run.started":
			s.changes = t.Changes
			s.rules = t.Rules
		case "run.finished":
			s.exitCode = t.ExitCode
			s.haveExitCode = true
		}
	}
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeErr := func(err error) error {
		_ = s.file.Close()
		return err
	}

	counts := make(map[rules.Severity]int)
	for _, v := range s.violations {
		counts[v.Severity]++
	}

	var b strings.Builder
	b.WriteString("# PlanGuard Report\n\n")

	// --- Summary ---
	b.WriteString("## Summary\n\n")
	b.WriteString(fmt.Sprintf("PlanGuard evaluated %d resource changes against %d rules.\n\n", s.changes, s.rules))
	b.WriteString("| Severity | Findings |\n")
	b.WriteString("| --- | ---: |\n")
	for _, sev := range []rules.Severity{rules.SeverityError, rules.SeverityWarning, rules.SeverityInfo} {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", sev, counts[sev]))
	}
	b.WriteString("\n")

	if s.haveExitCode {
		verdict := "clean"
		switch s.exitCode {
		case 1:
			verdict = "failed"
		case 2:
			verdict = "partial (some rules could not be evaluated)"
		case 3:
			verdict = "fatal"
		}
		b.WriteString(fmt.Sprintf("Verdict: **%s** (exit code %d)\n\n", verdict, s.exitCode))
	}

	// --- Findings ---
	b.WriteString("## Findings\n\n")
	if len(s.violations) == 0 {
		b.WriteString("- None\n\n")
	} else {
		// Group by severity, keeping the evaluation order inside each group.
		bySeverity := make(map[rules.Severity][]rules.Violation)
		for _, v := range s.violations {
			bySeverity[v.Severity] = append(bySeverity[v.Severity], v)
		}
		for _, sev := range []rules.Severity{rules.SeverityError, rules.SeverityWarning, rules.SeverityInfo} {
			group := bySeverity[sev]
			if len(group) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("### %s\n\n", sev))
			for _, v := range group {
				subject := v.Address
				if subject == "" {
					subject = fmt.Sprintf("change #%d", v.ResourceIndex)
				}
				b.WriteString(fmt.Sprintf("- **%s** (%s)", v.RuleID, subject))
				if v.Message != "" {
					b.WriteString(fmt.Sprintf(": %s", v.Message))
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	// --- Warnings ---
	b.WriteString("## Evaluation warnings\n\n")
	if len(s.warnings) == 0 {
		b.WriteString("- None\n\n")
	} else {
		// Group by rule ID
		byRule := make(map[string][]rules.Warning)
		for _, w := range s.warnings {
			byRule[w.RuleID] = append(byRule[w.RuleID], w)
		}
		var ids []string
		for id := range byRule {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			var changes []string
			for _, w := range byRule[id] {
				changes = append(changes, fmt.Sprintf("#%d", w.ResourceIndex))
			}
			b.WriteString(fmt.Sprintf("- **%s**: could not evaluate changes %s\n", id, strings.Join(changes, ", ")))
		}
		b.WriteString("\n")
	}

	// --- Rules that fired ---
	b.WriteString("## Rules with findings\n")
	unique := make(map[string]struct{})
	for _, v := range s.violations {
		unique[v.RuleID] = struct{}{}
	}
	var ids []string
	for id := range unique {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) == 0 {
		b.WriteString("- None\n")
	} else {
		for _, id := range ids {
			b.WriteString(fmt.Sprintf("- %s\n", id))
		}
	}

	if _, err := s.file.WriteString(b.String()); err != nil {
		return writeErr(err)
	}
	return s.file.Close()
}
