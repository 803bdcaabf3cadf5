package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/emilianobruni/erflow/internal/id"
	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/store"
	"github.com/emilianobruni/erflow/internal/version"
)

// IssueSeverity indicates how critical an issue is.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes for diagnostic results.
const (
	// Stored card list (errors)
	CodeMalformedCards  = "MALFORMED_CARDS"
	CodeMalformedCard   = "MALFORMED_CARD"
	CodeDuplicateCardID = "DUPLICATE_CARD_ID"

	// Card fields (warnings)
	CodeInvalidColor    = "INVALID_COLOR"
	CodeInvalidLocation = "INVALID_LOCATION"
	CodeInvalidMoved    = "INVALID_MOVED"
	CodeMissingCardID   = "MISSING_CARD_ID"

	// Preferences (warnings)
	CodeInvalidDarkMode = "INVALID_DARK_MODE"

	// Global config (warnings)
	CodeMalformedGlobalConfig = "MALFORMED_GLOBAL_CONFIG"
	CodeGlobalSchemaOutdated  = "GLOBAL_SCHEMA_OUTDATED"
)

// Issue represents a single diagnostic finding.
type Issue struct {
	Severity  IssueSeverity `json:"severity"`
	Code      string        `json:"code"`
	Index     *int          `json:"index,omitempty"`
	CardID    string        `json:"card_id,omitempty"`
	Message   string        `json:"message"`
	Fixable   bool          `json:"fixable"`
	FixAction string        `json:"fix_action,omitempty"`
	FixError  string        `json:"fix_error,omitempty"` // Populated if fix was attempted but failed
}

// StorageDiagnostic describes what was found in storage.
type StorageDiagnostic struct {
	CardsStored bool `json:"cards_stored"`
	Cards       int  `json:"cards"`
}

// ReportSummary summarizes the diagnostic results.
type ReportSummary struct {
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Fixed     int `json:"fixed"`
	FixFailed int `json:"fix_failed,omitempty"`
}

// DiagnosticReport contains all diagnostic results.
type DiagnosticReport struct {
	Storage StorageDiagnostic `json:"storage"`
	Issues  []Issue           `json:"issues"`
	Summary ReportSummary     `json:"summary"`
}

// HasErrors returns true if there are any error-level issues.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// IssuesOf returns the issues of one severity, in report order.
func (r *DiagnosticReport) IssuesOf(severity IssueSeverity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

// AnyFixable reports whether --fix would change anything.
func (r *DiagnosticReport) AnyFixable() bool {
	for _, issue := range r.Issues {
		if issue.Fixable {
			return true
		}
	}
	return false
}

func (r *DiagnosticReport) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

func (r *DiagnosticReport) summarize() {
	r.Summary.Errors, r.Summary.Warnings = 0, 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			r.Summary.Errors++
		} else {
			r.Summary.Warnings++
		}
	}
}

// DoctorService validates stored erflow data.
// It reads the key-value store directly, bypassing BoardService, so it sees
// exactly what a fresh start would load.
type DoctorService struct {
	kv         store.KeyValueStore
	configPath string
	newID      func() string
}

// NewDoctorService creates a new diagnostic service.
// configPath may be empty to skip the global config check.
func NewDoctorService(kv store.KeyValueStore, configPath string) *DoctorService {
	return &DoctorService{kv: kv, configPath: configPath, newID: id.Generate}
}

// Diagnose analyzes stored cards, preferences and the global config.
func (s *DoctorService) Diagnose() (*DiagnosticReport, error) {
	report := &DiagnosticReport{Issues: []Issue{}}

	s.checkGlobalConfig(report)

	if err := s.checkCards(report); err != nil {
		return nil, err
	}
	if err := s.checkDarkMode(report); err != nil {
		return nil, err
	}

	report.summarize()
	return report, nil
}

// Fix rewrites stored state so that every fixable issue goes away.
// Returns a new report showing remaining issues and what was fixed.
func (s *DoctorService) Fix(report *DiagnosticReport) (*DiagnosticReport, error) {
	var cardIssues, prefIssues, remaining []Issue
	for _, issue := range report.Issues {
		switch {
		case !issue.Fixable:
			remaining = append(remaining, issue)
		case issue.Code == CodeInvalidDarkMode:
			prefIssues = append(prefIssues, issue)
		default:
			cardIssues = append(cardIssues, issue)
		}
	}

	fixed, fixFailed := 0, 0
	settle := func(issues []Issue, err error) {
		if err == nil {
			fixed += len(issues)
			return
		}
		for _, issue := range issues {
			issue.FixError = err.Error()
			remaining = append(remaining, issue)
		}
		fixFailed += len(issues)
	}

	if len(cardIssues) > 0 {
		settle(cardIssues, s.fixCards())
	}
	if len(prefIssues) > 0 {
		settle(prefIssues, s.kv.Set(store.KeyDarkMode, "false"))
	}

	newReport := &DiagnosticReport{
		Storage: report.Storage,
		Issues:  remaining,
		Summary: ReportSummary{Fixed: fixed, FixFailed: fixFailed},
	}
	if newReport.Issues == nil {
		newReport.Issues = []Issue{}
	}
	newReport.summarize()
	return newReport, nil
}

func (s *DoctorService) checkGlobalConfig(report *DiagnosticReport) {
	if s.configPath == "" {
		return
	}

	data, err := os.ReadFile(s.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return // No global config is fine
		}
		report.add(Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedGlobalConfig,
			Message:  fmt.Sprintf("Cannot read global config: %v", err),
		})
		return
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		report.add(Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedGlobalConfig,
			Message:  fmt.Sprintf("Invalid TOML in global config: %v", err),
		})
		return
	}

	current := version.CurrentConfigSchema()
	schema, ok := raw["erflow_schema"].(string)
	switch {
	case !ok:
		report.add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeGlobalSchemaOutdated,
			Message:   fmt.Sprintf("Global config missing schema version, current is %s", current),
			FixAction: fmt.Sprintf("Add erflow_schema = %q to %s", current, s.configPath),
		})
	case schema != current:
		report.add(Issue{
			Severity: SeverityWarning,
			Code:     CodeGlobalSchemaOutdated,
			Message:  fmt.Sprintf("Global config has schema %s, current is %s", schema, current),
		})
	}
}

func (s *DoctorService) checkCards(report *DiagnosticReport) error {
	raw, ok, err := s.kv.Get(store.KeyCards)
	if err != nil {
		return fmt.Errorf("failed to read stored cards: %w", err)
	}
	report.Storage.CardsStored = ok
	if !ok {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		report.add(Issue{
			Severity:  SeverityError,
			Code:      CodeMalformedCards,
			Message:   fmt.Sprintf("Stored cards are not a JSON array: %v", err),
			Fixable:   true,
			FixAction: "Replace with a single default card",
		})
		return nil
	}
	report.Storage.Cards = len(items)

	seen := make(map[string]int)
	for i, item := range items {
		idx := i
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			report.add(Issue{
				Severity:  SeverityError,
				Code:      CodeMalformedCard,
				Index:     &idx,
				Message:   fmt.Sprintf("Element %d is not an object", i),
				Fixable:   true,
				FixAction: "Drop the element and keep the other cards",
			})
			continue
		}

		cardID, _ := obj["id"].(string)
		if cardID == "" {
			report.add(Issue{
				Severity:  SeverityWarning,
				Code:      CodeMissingCardID,
				Index:     &idx,
				Message:   fmt.Sprintf("Element %d has no id", i),
				Fixable:   true,
				FixAction: "Generate a new id",
			})
		} else if first, dup := seen[cardID]; dup {
			report.add(Issue{
				Severity:  SeverityError,
				Code:      CodeDuplicateCardID,
				Index:     &idx,
				CardID:    cardID,
				Message:   fmt.Sprintf("Id also used by element %d", first),
				Fixable:   true,
				FixAction: "Generate a new id for the later card",
			})
		} else {
			seen[cardID] = i
		}

		checkEnum(report, idx, cardID, obj, "color", CodeInvalidColor, func(v string) bool { return model.Color(v).Valid() }, model.ColorWhite)
		checkEnum(report, idx, cardID, obj, "location", CodeInvalidLocation, func(v string) bool { return model.Location(v).Valid() }, model.LocationBlank)
		checkEnum(report, idx, cardID, obj, "moved", CodeInvalidMoved, func(v string) bool { return model.Moved(v).Valid() }, model.MovedBlank)
	}
	return nil
}

func checkEnum[T ~string](report *DiagnosticReport, idx int, cardID string, obj map[string]any, key, code string, valid func(string) bool, fallback T) {
	v, present := obj[key]
	if !present {
		return
	}
	s, ok := v.(string)
	if ok && valid(s) {
		return
	}
	report.add(Issue{
		Severity:  SeverityWarning,
		Code:      code,
		Index:     &idx,
		CardID:    cardID,
		Message:   fmt.Sprintf("Invalid %s %v", key, v),
		Fixable:   true,
		FixAction: fmt.Sprintf("Reset to %q", string(fallback)),
	})
}

func (s *DoctorService) checkDarkMode(report *DiagnosticReport) error {
	v, ok, err := s.kv.Get(store.KeyDarkMode)
	if err != nil {
		return fmt.Errorf("failed to read dark mode: %w", err)
	}
	if !ok || v == "true" || v == "false" {
		return nil
	}
	report.add(Issue{
		Severity:  SeverityWarning,
		Code:      CodeInvalidDarkMode,
		Message:   fmt.Sprintf("Dark mode is %q, expected true or false", v),
		Fixable:   true,
		FixAction: "Reset to false",
	})
	return nil
}

// fixCards rewrites the stored list the way a fresh start would load it:
// reconciled when it parses, a single default card otherwise.
func (s *DoctorService) fixCards() error {
	raw, _, err := s.kv.Get(store.KeyCards)
	if err != nil {
		return err
	}

	cards, err := ReconcileJSON(objectsOnly(raw), s.newID)
	if err != nil || len(cards) == 0 {
		cards = model.CardList{model.NewCard(s.newID())}
	}

	data, err := MarshalCards(cards)
	if err != nil {
		return err
	}
	return s.kv.Set(store.KeyCards, string(data))
}

// objectsOnly drops the array elements of raw that are not JSON objects.
// Anything that is not an array is returned unchanged.
func objectsOnly(raw string) string {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return raw
	}
	kept := items[:0]
	for _, item := range items {
		var obj map[string]any
		if json.Unmarshal(item, &obj) == nil && obj != nil {
			kept = append(kept, item)
		}
	}
	data, err := json.Marshal(kept)
	if err != nil {
		return raw
	}
	return string(data)
}
