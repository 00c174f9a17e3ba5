package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"modelconsole/internal/models"
)

// loadModelsCmd fetches the installed model list
func (m Model) loadModelsCmd() tea.Cmd {
	svc, ctx := m.service, m.ctx
	return func() tea.Msg {
		list, err := svc.LoadModels(ctx)
		return modelsLoadedMsg{models: list, err: err}
	}
}

// loadCatalogCmd fetches the installable model catalog
func (m Model) loadCatalogCmd() tea.Cmd {
	svc, ctx := m.service, m.ctx
	return func() tea.Msg {
		entries, err := svc.LoadCatalog(ctx)
		return catalogLoadedMsg{entries: entries, err: err}
	}
}

// fetchInfoCmd fetches info for names through the bounded pool
func (m Model) fetchInfoCmd(gen uint64, names []string) tea.Cmd {
	svc, ctx := m.service, m.ctx
	return func() tea.Msg {
		return infoFetchedMsg{gen: gen, info: svc.FetchInfo(ctx, names)}
	}
}

// queryCmd runs one inference call
func (m Model) queryCmd(model, prompt string) tea.Cmd {
	svc, ctx := m.service, m.ctx
	return func() tea.Msg {
		out, err := svc.Query(ctx, model, prompt)
		return queryDoneMsg{response: out, err: err}
	}
}

// pullCmd pulls a model, publishing progress on the model's subscription channel
func (m Model) pullCmd(model string) tea.Cmd {
	svc, ctx, progress := m.service, m.ctx, m.progress
	return func() tea.Msg {
		result, err := svc.Pull(ctx, model, progress)
		return pullDoneMsg{result: result, err: err}
	}
}

// waitForProgress blocks until the next pull progress event. It is re-armed
// after every event so the subscription lives as long as the program.
func waitForProgress(ctx context.Context, progress <-chan models.PullProgress) tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-progress:
			return pullProgressMsg{progress: p}
		case <-ctx.Done():
			return nil
		}
	}
}

// downloadInfoCmd saves the info record for model and reports the notice
func (m Model) downloadInfoCmd(model string) tea.Cmd {
	svc, info := m.service, m.state.Info
	return func() tea.Msg {
		return infoSavedMsg{notice: svc.DownloadInfo(model, info)}
	}
}

// refreshCmds reloads the model list and the catalog. A source that is
// already loading is left alone.
func (m *Model) refreshCmds() []tea.Cmd {
	var cmds []tea.Cmd
	if m.state.ModelsSource.Begin() {
		cmds = append(cmds, m.loadModelsCmd())
	}
	if m.state.CatalogSource.Begin() {
		cmds = append(cmds, m.loadCatalogCmd())
	}
	return cmds
}
