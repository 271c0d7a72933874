package pptstealer

import "context"

// Result is the output of a successful run.
type Result struct {
	RunID    string
	Title    string
	Filename string
	Document []byte
	Pages    int

	// Found counts extracted candidates, Total the candidates handed to the
	// download stage, and Passed the images that became pages.
	Found  int
	Total  int
	Passed int
}

// Converter turns an article URL into a document.
type Converter interface {
	// Convert runs the full pipeline for sourceURL. Progress events are
	// delivered to reporter in order; the last one is either a completed
	// event carrying the document or an error event.
	Convert(ctx context.Context, sourceURL string, rules FilterRules, reporter Reporter) (*Result, error)
}

// RunState tracks one conversion run. It is created at run start, mutated
// only by the stage currently executing, and dropped when the run ends.
//
// RunState is not safe for concurrent use.
type RunState struct {
	ID       string
	Stage    Stage
	Progress int

	Found       int
	Current     int
	Passed      int
	Total       int
	CurrentPage int
	TotalPages  int

	Result *Result
	Err    error

	reporter Reporter
	seq      int
}

// NewRunState returns a RunState in the idle stage. A nil reporter discards events.
func NewRunState(id string, reporter Reporter) *RunState {
	if reporter == nil {
		reporter = Discard
	}
	return &RunState{ID: id, Stage: StageIdle, reporter: reporter}
}

// Enter moves the run to the next stage and emits an event for it.
// Stages must be entered in order; use Complete and Fail for the terminal stages.
func (s *RunState) Enter(stage Stage, progress int, message string) error {
	if s.Stage.Terminal() {
		return Errorf(EINTERNAL, "run already ended in stage %s", s.Stage)
	}
	next, ok := stageOrder[stage]
	if !ok || stage.Terminal() || next != stageOrder[s.Stage]+1 {
		return Errorf(EINTERNAL, "invalid stage transition %s -> %s", s.Stage, stage)
	}
	s.Stage = stage
	s.Current, s.Passed, s.Total = 0, 0, 0
	s.Emit(progress, message)
	return nil
}

// Emit reports the current stage again with updated counters.
// It does nothing once the run has ended.
func (s *RunState) Emit(progress int, message string) {
	if s.Stage.Terminal() {
		return
	}
	s.Progress = max(s.Progress, min(progress, 100))

	ev := s.event(message)
	switch s.Stage {
	case StageExtractingURLs:
		ev.TotalFound = s.Found
	case StageFilteringDomains, StageTrimmingEdges:
		ev.Passed, ev.Total = s.Passed, s.Total
	case StageDownloadingImages:
		ev.Current, ev.Passed, ev.Total = s.Current, s.Passed, s.Total
	case StageGeneratingPDF:
		ev.CurrentPage, ev.TotalPages = s.CurrentPage, s.TotalPages
	}
	s.reporter.Report(ev)
}

// Complete ends the run successfully and emits the completed event.
func (s *RunState) Complete(result *Result) {
	if s.Stage.Terminal() {
		return
	}
	s.Stage = StageCompleted
	s.Progress = 100
	s.Result = result

	ev := s.event("PDF generated")
	ev.Document = result.Document
	ev.Filename = result.Filename
	s.reporter.Report(ev)
}

// Fail ends the run with err and emits the error event.
func (s *RunState) Fail(err error) {
	if s.Stage.Terminal() {
		return
	}
	s.Stage = StageError
	s.Err = err

	ev := s.event(ErrorMessage(err))
	ev.ErrorType = ErrorCode(err)
	ev.Error = ErrorMessage(err)
	s.reporter.Report(ev)
}

func (s *RunState) event(message string) Event {
	s.seq++
	return Event{
		Seq:      s.seq,
		RunID:    s.ID,
		Stage:    s.Stage,
		Progress: s.Progress,
		Message:  message,
	}
}
