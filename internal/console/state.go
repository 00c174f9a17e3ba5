// Package console holds the model console: the in-memory view state and the
// operations that move it between backend calls.
package console

import (
	"time"

	"modelconsole/internal/backend"
	"modelconsole/internal/models"
)

// NoticeTitle heads every download notice, success or failure
const NoticeTitle = "Licence and Info Downloaded"

// Notice is a dismissible message shown above the model table
type Notice struct {
	Title   string
	Text    string
	Path    string // where the file was saved, empty on failure
	IsError bool
}

// QueryState is the prompt/response pair for the selected model
type QueryState struct {
	Text     string
	Response string
	Elapsed  time.Duration
	Working  bool
	Model    string // model the response came from
	started  time.Time
}

// State is the complete console view state. It is owned by a single
// goroutine (the UI event loop) and is never shared.
type State struct {
	Models        []models.Model
	ModelsSource  models.Source
	Catalog       []models.CatalogEntry
	CatalogSource models.Source
	Info          models.InfoMap
	InfoSource    models.Source
	Query         QueryState
	Notice        *Notice

	selected string
	infoGen  uint64
}

// NewState returns an empty console state with every source idle
func NewState() State {
	return State{
		ModelsSource:  models.NewSource("models"),
		CatalogSource: models.NewSource("catalog"),
		InfoSource:    models.NewSource("info"),
		Info:          models.InfoMap{},
	}
}

// ApplyModels settles a model list load. On failure the previous list stays.
// On success the list is replaced and the selection survives only if its
// name is still present. It reports whether an info fetch should follow.
func (s *State) ApplyModels(list []models.Model, err error, now time.Time) bool {
	s.ModelsSource.Finish(err, now)
	if err != nil {
		return false
	}

	s.Models = list
	if s.selected != "" && models.IndexOf(list, s.selected) < 0 {
		s.selected = ""
	}
	return models.ShouldFetchInfo(len(list))
}

// ApplyCatalog settles a catalog load. On failure the previous catalog stays.
func (s *State) ApplyCatalog(entries []models.CatalogEntry, err error, now time.Time) {
	s.CatalogSource.Finish(err, now)
	if err != nil {
		return
	}
	s.Catalog = entries
}

// BeginInfo starts an info fetch for the current model list and returns its
// generation. A fetch begun while another is in flight supersedes it.
func (s *State) BeginInfo() uint64 {
	s.InfoSource.Begin()
	s.infoGen++
	return s.infoGen
}

// ApplyInfo replaces the info map in one step. Results of a superseded
// fetch are discarded and ApplyInfo reports false.
func (s *State) ApplyInfo(gen uint64, info models.InfoMap, now time.Time) bool {
	if gen != s.infoGen {
		return false
	}
	if info == nil {
		info = models.InfoMap{}
	}
	s.Info = info
	s.InfoSource.Finish(nil, now)
	return true
}

// Toggle selects the model at index i, clearing any other selection.
// Out of range indices leave the selection unchanged and return false.
func (s *State) Toggle(i int) bool {
	if i < 0 || i >= len(s.Models) {
		return false
	}
	s.selected = s.Models[i].Name
	return true
}

// Select selects a model by name
func (s *State) Select(name string) bool {
	if models.IndexOf(s.Models, name) < 0 {
		return false
	}
	s.selected = name
	return true
}

// ClearSelection deselects every model
func (s *State) ClearSelection() {
	s.selected = ""
}

// ActiveModel returns the selected model name, if any
func (s State) ActiveModel() (string, bool) {
	return s.selected, s.selected != ""
}

// SelectionVector returns one flag per listed model; at most one is true
func (s State) SelectionVector() []bool {
	vec := make([]bool, len(s.Models))
	if i := models.IndexOf(s.Models, s.selected); i >= 0 {
		vec[i] = true
	}
	return vec
}

// HasInfo reports whether an info record is stored for the model
func (s State) HasInfo(name string) bool {
	_, ok := s.Info[name]
	return ok
}

// InputEnabled reports whether the query text may be edited
func (s State) InputEnabled() bool {
	return !s.Query.Working
}

// SetQuery replaces the query text. It is rejected while a query is in flight.
func (s *State) SetQuery(text string) bool {
	if !s.InputEnabled() {
		return false
	}
	s.Query.Text = text
	return true
}

// CanSubmit reports whether a query may start: not working, a model is
// selected and the query text is non-empty.
func (s State) CanSubmit() bool {
	_, ok := s.ActiveModel()
	return !s.Query.Working && ok && s.Query.Text != ""
}

// BeginQuery moves the query to Working and returns the request to send.
// ok is false when submission is disabled; nothing changes in that case.
func (s *State) BeginQuery(now time.Time) (model, prompt string, ok bool) {
	if !s.CanSubmit() {
		return "", "", false
	}
	model, _ = s.ActiveModel()
	s.Query.Working = true
	s.Query.Model = model
	s.Query.started = now
	return model, s.Query.Text, true
}

// SettleQuery records the outcome of an in-flight query. The working flag is
// always cleared and the elapsed time always recorded, whatever the outcome.
func (s *State) SettleQuery(response string, err error, now time.Time) {
	defer func() {
		elapsed := now.Sub(s.Query.started)
		if elapsed < 0 || s.Query.started.IsZero() {
			elapsed = 0
		}
		s.Query.Elapsed = elapsed
		s.Query.Working = false
	}()

	if err != nil {
		s.Query.Response = backend.Decode(err, backend.KindInference, backend.CodeGenerate).Display()
		return
	}
	s.Query.Response = response
}

// ShowNotice replaces the current notice
func (s *State) ShowNotice(n Notice) {
	s.Notice = &n
}

// DismissNotice clears the current notice
func (s *State) DismissNotice() {
	s.Notice = nil
}
