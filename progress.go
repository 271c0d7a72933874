package pptstealer

import (
	"encoding/json"
	"sync"
)

// Stage is one step of a conversion run.
type Stage string

// Stages in traversal order. StageError may follow any non-terminal stage.
const (
	StageIdle              Stage = "idle"
	StageFetchingHTML      Stage = "fetching_html"
	StageExtractingURLs    Stage = "extracting_urls"
	StageFilteringDomains  Stage = "filtering_domains"
	StageTrimmingEdges     Stage = "trimming_edges"
	StageDownloadingImages Stage = "downloading_images"
	StageGeneratingPDF     Stage = "generating_pdf"
	StageCompleted         Stage = "completed"
	StageError             Stage = "error"
)

var stageOrder = map[Stage]int{
	StageIdle:              0,
	StageFetchingHTML:      1,
	StageExtractingURLs:    2,
	StageFilteringDomains:  3,
	StageTrimmingEdges:     4,
	StageDownloadingImages: 5,
	StageGeneratingPDF:     6,
	StageCompleted:         7,
}

// Terminal reports whether no event may follow s.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageError
}

// Event is one entry of a run's progress log.
type Event struct {
	Seq      int    `json:"seq"`
	RunID    string `json:"run_id"`
	Stage    Stage  `json:"stage"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`

	Current     int `json:"current,omitempty"`
	Total       int `json:"total,omitempty"`
	Passed      int `json:"passed,omitempty"`
	TotalFound  int `json:"total_found,omitempty"`
	CurrentPage int `json:"current_page,omitempty"`
	TotalPages  int `json:"total_pages,omitempty"`

	// Set on the completed event.
	Document []byte `json:"pdf,omitempty"`
	Filename string `json:"filename,omitempty"`

	// Set on the error event.
	ErrorType string `json:"error_type,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MarshalJSON encodes ev with the counters of its stage always present, zero
// values included. Counters of other stages are omitted.
func (ev Event) MarshalJSON() ([]byte, error) {
	type plain Event
	out := struct {
		plain
		Current     *int `json:"current,omitempty"`
		Total       *int `json:"total,omitempty"`
		Passed      *int `json:"passed,omitempty"`
		TotalFound  *int `json:"total_found,omitempty"`
		CurrentPage *int `json:"current_page,omitempty"`
		TotalPages  *int `json:"total_pages,omitempty"`
	}{plain: plain(ev)}

	switch ev.Stage {
	case StageExtractingURLs:
		out.TotalFound = &ev.TotalFound
	case StageFilteringDomains, StageTrimmingEdges:
		out.Passed, out.Total = &ev.Passed, &ev.Total
	case StageDownloadingImages:
		out.Current, out.Passed, out.Total = &ev.Current, &ev.Passed, &ev.Total
	case StageGeneratingPDF:
		out.CurrentPage, out.TotalPages = &ev.CurrentPage, &ev.TotalPages
	}
	return json.Marshal(out)
}

// Reporter receives progress events. It is a passive sink: a Reporter must
// not influence the run it observes.
type Reporter interface {
	Report(ev Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ev Event)

// Report calls f(ev).
func (f ReporterFunc) Report(ev Event) { f(ev) }

// Discard is a Reporter that drops every event.
var Discard Reporter = ReporterFunc(func(Event) {})

// Ensure EventLog implements Reporter at compile time.
var _ Reporter = (*EventLog)(nil)

// EventLog is an append-only, ordered record of events.
// EventLog is safe for concurrent use.
type EventLog struct {
	mu     sync.Mutex
	events []Event
}

// Report appends ev to the log.
func (l *EventLog) Report(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

// Events returns a copy of every event in order.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// Since returns the events with a sequence number greater than seq.
func (l *EventLog) Since(seq int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, ev := range l.events {
		if ev.Seq > seq {
			out = append(out, ev)
		}
	}
	return out
}

// ByStage returns the events emitted during stage, in order.
func (l *EventLog) ByStage(stage Stage) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, ev := range l.events {
		if ev.Stage == stage {
			out = append(out, ev)
		}
	}
	return out
}

// Last returns the most recent event, if any.
func (l *EventLog) Last() (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return Event{}, false
	}
	return l.events[len(l.events)-1], true
}
