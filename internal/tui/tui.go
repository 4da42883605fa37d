// internal/tui/tui.go

// Package tui is the interactive terminal front end for hedlab. It renders snapshots
// of a workbench.Session and turns key presses into session calls.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/hedlab/internal/appconfig"
	"github.com/mwiater/hedlab/internal/logging"
	"github.com/mwiater/hedlab/internal/workbench"
)

// tab is one top-level panel.
type tab int

const (
	tabRun tab = iota
	tabHistory
	tabDescriptions
	tabVocab
	tabCredentials
)

var tabNames = []string{"Run", "History", "Descriptions", "Vocabulary", "Credentials"}

// formField is a focusable input on the run form.
type formField int

const (
	fieldModel formField = iota
	fieldName
	fieldDescription
	fieldTemplate
	formFieldCount
)

// confirmPrompt asks a yes/no question before a destructive action.
type confirmPrompt struct {
	question string
	onYes    tea.Cmd
	quit     bool
}

// model is the Bubble Tea model for the workbench.
type model struct {
	ctx     context.Context
	config  *appconfig.Config
	session *workbench.Session
	state   workbench.State

	tab        tab
	detailOpen bool
	keys       keyMap
	help       help.Model
	spinner    spinner.Model
	pending    int
	runStarted time.Time

	modelInput    textinput.Model
	nameInput     textinput.Model
	descInput     textarea.Model
	templateInput textarea.Model
	focus         formField

	results     viewport.Model
	detail      viewport.Model
	historyList list.Model
	descList    list.Model
	credList    list.Model
	vocabInput  textarea.Model

	renameInput textinput.Model
	renaming    bool
	credInput   textinput.Model
	editingCred string

	confirm       *confirmPrompt
	markdown      *glamour.TermRenderer
	copyText      func(string) error
	width, height int
}

// initialModel builds the UI around an existing session.
func initialModel(ctx context.Context, cfg *appconfig.Config, session *workbench.Session) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	mi := textinput.New()
	mi.Placeholder = "model identifier"
	mi.Prompt = ""
	mi.ShowSuggestions = true

	ni := textinput.New()
	ni.Placeholder = "optional experiment name"
	ni.Prompt = ""

	di := textarea.New()
	di.Placeholder = "A participant is looking at a computer screen displaying an image of a red car."
	di.ShowLineNumbers = false
	di.CharLimit = -1
	di.SetHeight(3)

	ti := textarea.New()
	ti.ShowLineNumbers = false
	ti.CharLimit = -1
	ti.SetHeight(8)

	vi := textarea.New()
	vi.ShowLineNumbers = true
	vi.CharLimit = -1

	ri := textinput.New()
	ri.Prompt = "New name: "

	ci := textinput.New()
	ci.EchoMode = textinput.EchoPassword
	ci.EchoCharacter = '•'

	m := &model{
		ctx:           ctx,
		config:        cfg,
		session:       session,
		keys:          defaultKeyMap(),
		help:          help.New(),
		spinner:       s,
		modelInput:    mi,
		nameInput:     ni,
		descInput:     di,
		templateInput: ti,
		results:       viewport.New(80, 10),
		detail:        viewport.New(80, 10),
		historyList:   newList("Experiments"),
		descList:      newList("Previously used descriptions"),
		credList:      newList("API keys"),
		vocabInput:    vi,
		renameInput:   ri,
		credInput:     ci,
		copyText:      clipboard.WriteAll,
	}
	m.markdown = newMarkdownRenderer(cfg.MarkdownRenderStyle(), 80)
	m.sync()
	m.applyForm()
	m.focusField(fieldDescription)
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

// Init starts the spinner, the startup load and the optional refresh ticker.
func (m *model) Init() tea.Cmd {
	m.pending++
	return tea.Batch(
		m.spinner.Tick,
		loadCmd(m.ctx, m.session),
		autoRefreshCmd(m.config.AutoRefreshInterval()),
	)
}

// sync copies the session snapshot into the model and rebuilds the list widgets.
func (m *model) sync() {
	m.state = m.session.Snapshot()
	m.modelInput.SetSuggestions(m.state.Catalog.Models())
	m.historyList.SetItems(experimentItems(m.state.Experiments))
	m.descList.SetItems(descriptionItems(m.state.Descriptions))
	m.credList.SetItems(credentialItems(m.state.Credentials, m.session.Unconfigured()))
}

// applyForm loads the session form into the input widgets.
func (m *model) applyForm() {
	f := m.state.Form
	m.modelInput.SetValue(f.Model)
	m.nameInput.SetValue(f.ExperimentName)
	m.descInput.SetValue(f.Description)
	m.templateInput.SetValue(f.PromptTemplate)
}

// pushForm copies the input widgets into the session form.
func (m *model) pushForm() {
	modelID, name := m.modelInput.Value(), m.nameInput.Value()
	desc, tmpl := m.descInput.Value(), m.templateInput.Value()
	m.session.UpdateForm(func(f *workbench.Form) {
		f.Model = modelID
		f.ExperimentName = name
		f.Description = desc
		f.PromptTemplate = tmpl
	})
}

func (m *model) focusField(f formField) {
	m.focus = f
	m.modelInput.Blur()
	m.nameInput.Blur()
	m.descInput.Blur()
	m.templateInput.Blur()
	switch f {
	case fieldModel:
		m.modelInput.Focus()
	case fieldName:
		m.nameInput.Focus()
	case fieldDescription:
		m.descInput.Focus()
	case fieldTemplate:
		m.templateInput.Focus()
	}
}

func (m *model) switchTab(t tab) tea.Cmd {
	if m.tab == tabVocab {
		m.session.EditVocab(m.vocabInput.Value())
	}
	m.tab = t
	m.renaming = false
	m.editingCred = ""
	switch t {
	case tabVocab:
		m.vocabInput.Focus()
		m.state = m.session.Snapshot()
		if m.session.NeedsLeaveConfirmation() {
			m.confirm = &confirmPrompt{
				question: "Discard unsaved vocabulary changes and reload?",
				onYes:    openVocabCmd(m.ctx, m.session, true),
			}
			return nil
		}
		m.pending++
		return openVocabCmd(m.ctx, m.session, false)
	case tabCredentials:
		m.pending++
		return openCredentialsCmd(m.ctx, m.session)
	case tabRun:
		m.focusField(m.focus)
	}
	return nil
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.FocusMsg:
		if m.pending == 0 {
			m.pending++
			return m, refreshCmd(m.ctx, m.session)
		}
		return m, nil

	case autoRefreshMsg:
		cmds = append(cmds, autoRefreshCmd(m.config.AutoRefreshInterval()))
		if m.pending == 0 {
			m.pending++
			cmds = append(cmds, refreshCmd(m.ctx, m.session))
		}
		return m, tea.Batch(cmds...)

	case alertExpiredMsg:
		m.session.Alerts().Expire(msg.id)
		return m, nil

	case actionMsg:
		if m.pending > 0 {
			m.pending--
		}
		return m, m.handleAction(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleAction(msg actionMsg) tea.Cmd {
	m.sync()
	switch msg.action {
	case actLoad:
		m.applyForm()
	case actRun:
		if msg.err == nil {
			m.renderResults()
		}
		if errors.Is(msg.err, workbench.ErrCredentialRequired) {
			m.tab = tabCredentials
		}
	case actViewExperiment:
		if msg.err == nil {
			m.detailOpen = true
			m.renderDetail()
		}
	case actRename:
		if msg.err == nil {
			m.renaming = false
			m.renderDetail()
		}
	case actOpenVocab:
		if msg.err == nil {
			m.vocabInput.SetValue(m.state.Vocab.Buffer)
		}
	case actSetCredential, actRemoveCredential:
		if msg.err == nil {
			m.editingCred = ""
			m.credInput.Reset()
		}
	}
	if msg.err != nil {
		logging.LogEvent("tui: action %d failed: %v", msg.action, msg.err)
	}
	return alertTimerCmd(m.session)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			c := m.confirm
			m.confirm = nil
			if c.quit {
				return tea.Quit
			}
			if c.onYes != nil {
				m.pending++
			}
			return c.onYes
		case "n", "N", "esc":
			m.confirm = nil
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+c":
		if m.tab == tabVocab {
			m.session.EditVocab(m.vocabInput.Value())
		}
		if m.session.NeedsLeaveConfirmation() {
			m.confirm = &confirmPrompt{question: "Discard unsaved vocabulary changes and quit?", quit: true}
			return nil
		}
		return tea.Quit
	case "f1", "f2", "f3", "f4", "f5":
		return m.switchTab(tab(msg.String()[1] - '1'))
	case "esc":
		if _, ok := m.session.Alerts().Current(); ok {
			m.session.Alerts().Dismiss()
			return nil
		}
	}

	switch m.tab {
	case tabRun:
		return m.handleRunKey(msg)
	case tabHistory:
		return m.handleHistoryKey(msg)
	case tabDescriptions:
		return m.handleDescriptionsKey(msg)
	case tabVocab:
		return m.handleVocabKey(msg)
	case tabCredentials:
		return m.handleCredentialsKey(msg)
	}
	return nil
}

func (m *model) handleRunKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		m.focusField((m.focus + 1) % formFieldCount)
		return nil
	case "shift+tab":
		m.focusField((m.focus + formFieldCount - 1) % formFieldCount)
		return nil
	case "ctrl+s":
		m.pushForm()
		m.runStarted = time.Now()
		m.pending++
		return tea.Batch(m.spinner.Tick, runCmd(m.ctx, m.session))
	case "ctrl+n":
		m.session.ResetForm()
		m.sync()
		m.applyForm()
		m.focusField(fieldDescription)
		return nil
	case "ctrl+y":
		if m.state.LastRun == nil {
			return nil
		}
		res := m.state.LastRun.Result
		text := res.Response
		if res.Annotation != nil && *res.Annotation != "" {
			text = *res.Annotation
		}
		return m.copy(text)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldModel:
		m.modelInput, cmd = m.modelInput.Update(msg)
	case fieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case fieldDescription:
		m.descInput, cmd = m.descInput.Update(msg)
	case fieldTemplate:
		m.templateInput, cmd = m.templateInput.Update(msg)
	}
	return cmd
}

func (m *model) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	if m.detailOpen {
		return m.handleDetailKey(msg)
	}
	if m.historyList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.historyList, cmd = m.historyList.Update(msg)
		return cmd
	}
	switch msg.String() {
	case "enter":
		it, ok := m.historyList.SelectedItem().(experimentItem)
		if !ok {
			return nil
		}
		m.pending++
		return viewExperimentCmd(m.ctx, m.session, it.summary.Filename)
	case "ctrl+r":
		m.pending++
		return refreshCmd(m.ctx, m.session)
	}
	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return cmd
}

func (m *model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	cur := m.state.Current
	if m.renaming {
		switch msg.String() {
		case "enter":
			if cur == nil {
				return nil
			}
			m.pending++
			return renameCmd(m.ctx, m.session, cur.Filename, m.renameInput.Value())
		case "esc":
			m.renaming = false
			return nil
		}
		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "esc":
		m.detailOpen = false
		return nil
	case "l":
		if err := m.session.LoadCurrentToForm(); err != nil {
			return alertTimerCmd(m.session)
		}
		m.sync()
		m.applyForm()
		m.detailOpen = false
		m.tab = tabRun
		m.focusField(fieldDescription)
		return alertTimerCmd(m.session)
	case "r":
		if cur == nil || cur.Filename == "" {
			return nil
		}
		m.renaming = true
		m.renameInput.SetValue(cur.ExperimentName)
		m.renameInput.Focus()
		return textinput.Blink
	case "d":
		if cur == nil || cur.Filename == "" {
			return nil
		}
		m.pending++
		return downloadCmd(m.ctx, m.session, cur.Filename, m.config.DownloadDirectory())
	case "s":
		m.pending++
		return saveCopyCmd(m.ctx, m.session)
	case "y", "ctrl+y":
		if cur == nil {
			return nil
		}
		return m.copy(cur.ModelResponse)
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return cmd
}

func (m *model) handleDescriptionsKey(msg tea.KeyMsg) tea.Cmd {
	if m.descList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.descList, cmd = m.descList.Update(msg)
		return cmd
	}
	switch msg.String() {
	case "enter":
		it, ok := m.descList.SelectedItem().(descriptionItem)
		if !ok {
			return nil
		}
		if err := m.session.SelectDescription(it.index); err == nil {
			m.sync()
			m.descInput.SetValue(m.state.Form.Description)
			m.tab = tabRun
			m.focusField(fieldDescription)
		}
		return alertTimerCmd(m.session)
	case "ctrl+r":
		m.pending++
		return refreshCmd(m.ctx, m.session)
	}
	var cmd tea.Cmd
	m.descList, cmd = m.descList.Update(msg)
	return cmd
}

func (m *model) handleVocabKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		m.session.EditVocab(m.vocabInput.Value())
		m.pending++
		return saveVocabCmd(m.ctx, m.session)
	case "ctrl+r":
		m.session.EditVocab(m.vocabInput.Value())
		m.state = m.session.Snapshot()
		if m.session.NeedsLeaveConfirmation() {
			m.confirm = &confirmPrompt{
				question: "Discard unsaved vocabulary changes and reload?",
				onYes:    openVocabCmd(m.ctx, m.session, true),
			}
			return nil
		}
		m.pending++
		return openVocabCmd(m.ctx, m.session, false)
	case "ctrl+d":
		m.pending++
		return downloadVocabCmd(m.ctx, m.session, m.config.DownloadDirectory())
	}
	var cmd tea.Cmd
	m.vocabInput, cmd = m.vocabInput.Update(msg)
	m.session.EditVocab(m.vocabInput.Value())
	m.state.Vocab = m.session.Snapshot().Vocab
	return cmd
}

func (m *model) handleCredentialsKey(msg tea.KeyMsg) tea.Cmd {
	if m.editingCred != "" {
		switch msg.String() {
		case "enter":
			m.pending++
			return setCredentialCmd(m.ctx, m.session, m.editingCred, m.credInput.Value())
		case "esc":
			m.editingCred = ""
			m.credInput.Reset()
			return nil
		}
		var cmd tea.Cmd
		m.credInput, cmd = m.credInput.Update(msg)
		return cmd
	}
	if m.credList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.credList, cmd = m.credList.Update(msg)
		return cmd
	}

	it, _ := m.credList.SelectedItem().(credentialItem)
	switch msg.String() {
	case "enter":
		if it.name == "" {
			return nil
		}
		m.editingCred = it.name
		m.credInput.Reset()
		m.credInput.Prompt = it.name + ": "
		m.credInput.Focus()
		return textinput.Blink
	case "x":
		if !it.configured {
			return nil
		}
		m.confirm = &confirmPrompt{
			question: fmt.Sprintf("Remove %s from the backend?", it.name),
			onYes:    removeCredentialCmd(m.ctx, m.session, it.name),
		}
		return nil
	case "ctrl+r":
		m.pending++
		return openCredentialsCmd(m.ctx, m.session)
	}
	var cmd tea.Cmd
	m.credList, cmd = m.credList.Update(msg)
	return cmd
}

// copy places text on the system clipboard and reports the outcome as an alert.
func (m *model) copy(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	if err := m.copyText(text); err != nil {
		logging.LogEvent("tui: clipboard: %v", err)
		m.session.Alerts().Show(workbench.LevelWarning, "Clipboard is not available.")
	} else {
		m.session.Alerts().Show(workbench.LevelInfo, "Copied to clipboard.")
	}
	return alertTimerCmd(m.session)
}

func (m *model) resize(width, height int) {
	m.width, m.height = width, height
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	m.modelInput.Width = inner - 16
	m.nameInput.Width = inner - 16
	m.descInput.SetWidth(inner)
	m.templateInput.SetWidth(inner)
	m.vocabInput.SetWidth(inner)
	m.vocabInput.SetHeight(max(height-10, 5))
	listHeight := max(height-8, 5)
	m.historyList.SetSize(inner, listHeight)
	m.descList.SetSize(inner, listHeight)
	m.credList.SetSize(inner, listHeight-3)
	m.results.Width = inner
	m.results.Height = max(height-24, 5)
	m.detail.Width = inner
	m.detail.Height = max(height-8, 5)
	m.help.Width = width
	if m.markdown != nil {
		m.markdown = newMarkdownRenderer(m.config.MarkdownRenderStyle(), inner)
	}
	if m.state.LastRun != nil {
		m.renderResults()
	}
	if m.detailOpen {
		m.renderDetail()
	}
}

// Start runs the interactive TUI until the user quits.
func Start(ctx context.Context, cfg *appconfig.Config, session *workbench.Session) error {
	if cfg == nil {
		return errors.New("tui: configuration is not loaded")
	}
	m := initialModel(ctx, cfg, session)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
