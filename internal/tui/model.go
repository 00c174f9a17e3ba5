package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"modelconsole/internal/console"
	"modelconsole/internal/logging"
	"modelconsole/internal/models"
)

const (
	defaultWidth          = 100
	responseHeight        = 12
	progressBuffer        = 64
	defaultMarkdownStyle  = "dark"
	minimumRenderingWidth = 20
)

// Options configures the console UI
type Options struct {
	Logger *logging.Logger
	// MarkdownStyle is a glamour standard style name ("dark", "light", "notty")
	MarkdownStyle string
	// DownloadsDir is shown in download notices
	DownloadsDir string
	// Location for the Last Modified column; nil means local time
	Location *time.Location
}

// Model is the bubbletea model of the model console
type Model struct {
	startTime time.Time
	quitting  bool

	ctx     context.Context
	service *console.Service
	logger  *logging.Logger
	keys    KeyMap

	state         console.State
	cursor        int
	catalogCursor int
	showCatalog   bool
	showHelp      bool
	focus         Focus
	statusMessage string
	pulling       map[string]bool

	spinner  spinner.Model
	input    textarea.Model
	response viewport.Model
	rendered string

	markdownStyle string
	renderer      *glamour.TermRenderer
	width         int

	progress     chan models.PullProgress
	downloadsDir string
	location     *time.Location
}

// NewModel creates the console UI. Both data sources start loading as soon
// as the program runs Init.
func NewModel(ctx context.Context, svc *console.Service, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	style := opts.MarkdownStyle
	if style == "" {
		style = defaultMarkdownStyle
	}

	input := textarea.New()
	input.Placeholder = "Ask something..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(3)
	input.SetWidth(defaultWidth - 4)

	m := Model{
		startTime:     time.Now(),
		ctx:           ctx,
		service:       svc,
		logger:        logger,
		keys:          DefaultKeyMap(),
		state:         console.NewState(),
		focus:         FocusModels,
		pulling:       map[string]bool{},
		spinner:       newSpinner(),
		input:         input,
		response:      viewport.New(defaultWidth-4, responseHeight),
		markdownStyle: style,
		width:         defaultWidth,
		progress:      make(chan models.PullProgress, progressBuffer),
		downloadsDir:  opts.DownloadsDir,
		location:      opts.Location,
	}
	m.renderer = m.newRenderer()

	m.state.ModelsSource.Begin()
	m.state.CatalogSource.Begin()

	return m
}

// Init starts the initial loads, the spinner and the pull progress subscription
func (m Model) Init() tea.Cmd {
	m.logger.Info("tui.started", "Model console started", nil)
	return tea.Batch(
		m.loadModelsCmd(),
		m.loadCatalogCmd(),
		m.spinner.Tick,
		waitForProgress(m.ctx, m.progress),
	)
}

// State returns a copy of the console state
func (m Model) State() console.State {
	return m.state
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width), nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case modelsLoadedMsg:
		return m.handleModelsLoaded(msg)
	case catalogLoadedMsg:
		return m.handleCatalogLoaded(msg)
	case infoFetchedMsg:
		if !m.state.ApplyInfo(msg.gen, msg.info, m.service.Now()) {
			m.logger.Debug("tui.info.stale", "Discarded info for a superseded model list", map[string]interface{}{
				"generation": msg.gen,
			})
		}
		return m, nil
	case queryDoneMsg:
		return m.handleQueryDone(msg)
	case pullDoneMsg:
		return m.handlePullDone(msg)
	case pullProgressMsg:
		m.service.LogProgress(msg.progress)
		return m, waitForProgress(m.ctx, m.progress)
	case infoSavedMsg:
		m.state.ShowNotice(msg.notice)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, handled, cmd := m.handleQuitKeys(msg); handled {
		return next, cmd
	}

	if next, handled := m.handleHelpKeys(msg); handled {
		return next, nil
	}

	if next, handled := m.handleEscapeKey(msg); handled {
		return next, nil
	}

	if next, handled, cmd := m.handleSubmitKey(msg); handled {
		return next, cmd
	}

	if next, handled, cmd := m.handleFocusKey(msg); handled {
		return next, cmd
	}

	if m.focus == FocusQuery {
		return m.handleQueryInput(msg)
	}

	if next, handled, cmd := m.handleScrollKeys(msg); handled {
		return next, cmd
	}

	if next, handled, cmd := m.handleModelKeys(msg); handled {
		return next, cmd
	}

	if next, handled, cmd := m.handleCatalogKeys(msg); handled {
		return next, cmd
	}

	return m, nil
}

func (m Model) handleQuitKeys(msg tea.KeyMsg) (tea.Model, bool, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) || (key.Matches(msg, m.keys.Quit) && m.focus != FocusQuery) {
		m.quitting = true
		m.logger.Info("tui.quit", "Model console closed", map[string]interface{}{
			"uptime_seconds": int(time.Since(m.startTime).Seconds()),
		})
		return m, true, tea.Quit
	}
	return m, false, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, bool) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) {
			m.showHelp = false
		}
		return m, true
	}
	if key.Matches(msg, m.keys.Help) && m.focus != FocusQuery {
		m.showHelp = true
		return m, true
	}
	return m, false
}

func (m Model) handleEscapeKey(msg tea.KeyMsg) (tea.Model, bool) {
	if !key.Matches(msg, m.keys.Escape) {
		return m, false
	}

	switch {
	case m.state.Notice != nil:
		m.state.DismissNotice()
	case m.focus == FocusQuery:
		m.input.Blur()
		m.focus = FocusModels
	case m.focus == FocusCatalog:
		m.focus = FocusModels
	}
	return m, true
}

func (m Model) handleSubmitKey(msg tea.KeyMsg) (tea.Model, bool, tea.Cmd) {
	if !key.Matches(msg, m.keys.Submit) {
		return m, false, nil
	}

	if !m.state.CanSubmit() {
		return m, true, nil
	}
	model, prompt, ok := m.state.BeginQuery(m.service.Now())
	if !ok {
		return m, true, nil
	}

	m.input.Blur()
	m.statusMessage = ""
	return m, true, m.queryCmd(model, prompt)
}

func (m Model) handleFocusKey(msg tea.KeyMsg) (tea.Model, bool, tea.Cmd) {
	if !key.Matches(msg, m.keys.Focus) {
		return m, false, nil
	}

	switch m.focus {
	case FocusModels:
		if m.showCatalog {
			m.focus = FocusCatalog
			return m, true, nil
		}
		return m.focusQuery()
	case FocusCatalog:
		return m.focusQuery()
	default:
		m.input.Blur()
		m.focus = FocusModels
		return m, true, nil
	}
}

func (m Model) focusQuery() (tea.Model, bool, tea.Cmd) {
	m.focus = FocusQuery
	if !m.state.InputEnabled() {
		return m, true, nil
	}
	return m, true, m.input.Focus()
}

// handleQueryInput forwards keys to the textarea while it is editable
func (m Model) handleQueryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.state.InputEnabled() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state.SetQuery(m.input.Value())
	return m, cmd
}

func (m Model) handleScrollKeys(msg tea.KeyMsg) (tea.Model, bool, tea.Cmd) {
	if !key.Matches(msg, m.keys.PageUp) && !key.Matches(msg, m.keys.PageDown) {
		return m, false, nil
	}
	var cmd tea.Cmd
	m.response, cmd = m.response.Update(msg)
	return m, true, cmd
}

func (m Model) handleModelKeys(msg tea.KeyMsg) (tea.Model, bool, tea.Cmd) {
	if m.focus != FocusModels {
		return m, false, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else if len(m.state.Models) > 0 {
			m.cursor = len(m.state.Models) - 1
		}
		return m, true, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Models)-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
		return m, true, nil
	case key.Matches(msg, m.keys.Select):
		m.state.Toggle(m.cursor)
		return m, true, nil
	case key.Matches(msg, m.keys.Info):
		name, ok := m.modelAtCursor()
		if !ok {
			return m, true, nil
		}
		return m, true, m.downloadInfoCmd(name)
	case key.Matches(msg, m.keys.Pull):
		name, ok := m.modelAtCursor()
		if !ok {
			return m, true, nil
		}
		next, cmd := m.startPull(name)
		return next, true, cmd
	case key.Matches(msg, m.keys.Refresh):
		cmds := m.refreshCmds()
		m.statusMessage = "Refreshing models..."
		return m, true, tea.Batch(cmds...)
	case key.Matches(msg, m.keys.Catalog):
		next, cmd := m.toggleCatalog()
		return next, true, cmd
	}
	return m, false, nil
}

func (m Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, bool, tea.Cmd) {
	if m.focus != FocusCatalog {
		return m, false, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.catalogCursor > 0 {
			m.catalogCursor--
		} else if len(m.state.Catalog) > 0 {
			m.catalogCursor = len(m.state.Catalog) - 1
		}
		return m, true, nil
	case key.Matches(msg, m.keys.Down):
		if m.catalogCursor < len(m.state.Catalog)-1 {
			m.catalogCursor++
		} else {
			m.catalogCursor = 0
		}
		return m, true, nil
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Pull):
		if m.catalogCursor >= len(m.state.Catalog) {
			return m, true, nil
		}
		next, cmd := m.startPull(m.state.Catalog[m.catalogCursor].Name)
		return next, true, cmd
	case key.Matches(msg, m.keys.Refresh):
		cmds := m.refreshCmds()
		return m, true, tea.Batch(cmds...)
	case key.Matches(msg, m.keys.Catalog):
		next, cmd := m.toggleCatalog()
		return next, true, cmd
	}
	return m, false, nil
}

// toggleCatalog opens the catalog pane with a fresh load, or closes it
func (m Model) toggleCatalog() (Model, tea.Cmd) {
	if m.showCatalog {
		m.showCatalog = false
		m.focus = FocusModels
		return m, nil
	}

	m.showCatalog = true
	m.focus = FocusCatalog
	cmds := m.refreshCmds()
	return m, tea.Batch(cmds...)
}

func (m Model) startPull(name string) (Model, tea.Cmd) {
	if m.pulling[name] {
		return m, nil
	}
	m.pulling = withPulling(m.pulling, name, true)
	m.statusMessage = fmt.Sprintf("Pulling %s...", name)
	return m, m.pullCmd(name)
}

// withPulling returns a copy of pulling with name added or removed.
// Model values share the map, so it is replaced rather than mutated.
func withPulling(pulling map[string]bool, name string, on bool) map[string]bool {
	next := make(map[string]bool, len(pulling)+1)
	for k, v := range pulling {
		next[k] = v
	}
	if on {
		next[name] = true
	} else {
		delete(next, name)
	}
	return next
}

func (m Model) modelAtCursor() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Models) {
		return "", false
	}
	return m.state.Models[m.cursor].Name, true
}

func (m Model) handleModelsLoaded(msg modelsLoadedMsg) (tea.Model, tea.Cmd) {
	fetch := m.state.ApplyModels(msg.models, msg.err, m.service.Now())
	if msg.err != nil {
		m.statusMessage = "Failed to load models: " + msg.err.Error()
		return m, nil
	}

	if m.statusMessage == "Refreshing models..." {
		m.statusMessage = ""
	}
	if m.cursor >= len(m.state.Models) {
		m.cursor = max(len(m.state.Models)-1, 0)
	}

	if !fetch {
		return m, nil
	}
	return m, m.fetchInfoCmd(m.state.BeginInfo(), models.Names(m.state.Models))
}

func (m Model) handleCatalogLoaded(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	m.state.ApplyCatalog(msg.entries, msg.err, m.service.Now())
	if m.catalogCursor >= len(m.state.Catalog) {
		m.catalogCursor = max(len(m.state.Catalog)-1, 0)
	}
	return m, nil
}

func (m Model) handleQueryDone(msg queryDoneMsg) (tea.Model, tea.Cmd) {
	m.state.SettleQuery(msg.response, msg.err, m.service.Now())
	m = m.renderResponse()

	if m.focus == FocusQuery {
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) handlePullDone(msg pullDoneMsg) (tea.Model, tea.Cmd) {
	model := msg.result.Model
	m.pulling = withPulling(m.pulling, model, false)

	if msg.err != nil {
		m.statusMessage = fmt.Sprintf("Pull of %s failed: %v", model, msg.err)
		return m, nil
	}

	m.statusMessage = fmt.Sprintf("Pull of %s finished: %s", model, msg.result.Status)
	if !console.NeedsRefresh(msg.result, msg.err) {
		return m, nil
	}
	cmds := m.refreshCmds()
	return m, tea.Batch(cmds...)
}

// resize adapts the input, response box and markdown wrap to the terminal width
func (m Model) resize(width int) Model {
	if width < minimumRenderingWidth {
		width = minimumRenderingWidth
	}
	m.width = width
	m.input.SetWidth(width - 4)
	m.response.Width = width - 4
	m.renderer = m.newRenderer()
	return m.renderResponse()
}

func (m Model) newRenderer() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.markdownStyle),
		glamour.WithWordWrap(m.width-6),
	)
	if err != nil {
		m.logger.Warn("tui.markdown.renderer_failed", "Markdown renderer unavailable, showing raw text", map[string]interface{}{
			"style": m.markdownStyle,
			"error": err.Error(),
		})
		return nil
	}
	return r
}

// renderResponse renders the response markdown once, at settle time
func (m Model) renderResponse() Model {
	text := m.state.Query.Response
	if text == "" {
		m.rendered = ""
		m.response.SetContent("")
		return m
	}

	rendered := text
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			rendered = out
		} else {
			m.logger.Warn("tui.markdown.render_failed", "Failed to render response markdown", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	m.rendered = rendered
	m.response.SetContent(rendered)
	m.response.GotoTop()
	return m
}
