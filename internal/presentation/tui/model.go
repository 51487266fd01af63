// Package tui is the interactive terminal screen for the user list.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gorest-users/internal/presentation/format"
	"gorest-users/internal/presentation/style"
	"gorest-users/internal/presentation/viewmodel"
)

// ViewModel is the set of intents the screen issues.
type ViewModel interface {
	Refresh(ctx context.Context)
	AddUser(ctx context.Context, name, email string) error
	DeleteUser(ctx context.Context, id int64)
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
)

const (
	fieldName = iota
	fieldEmail
)

type stateMsg viewmodel.State

type tickMsg time.Time

// Model is the bubbletea model of the user list screen.
type Model struct {
	ctx     context.Context
	vm      ViewModel
	updates <-chan viewmodel.State
	now     func() time.Time

	state   viewmodel.State
	cursor  int
	mode    mode
	inputs  []textinput.Model
	focus   int
	formErr string
	spinner spinner.Model
}

// New creates the screen. updates delivers state snapshots, usually from
// viewmodel.Users.Subscribe.
func New(ctx context.Context, vm ViewModel, updates <-chan viewmodel.State) Model {
	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254

	return Model{
		ctx:     ctx,
		vm:      vm,
		updates: updates,
		now:     time.Now,
		inputs:  []textinput.Model{name, email},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Run shows the screen until the user quits or ctx is done.
func Run(ctx context.Context, vm *viewmodel.Users) error {
	updates, unsubscribe := vm.Subscribe()
	defer unsubscribe()

	_, err := tea.NewProgram(New(ctx, vm, updates), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init starts the first refresh and the background listeners.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refresh(),
		waitForState(m.updates),
		m.spinner.Tick,
		tick(),
	)
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		m.vm.Refresh(m.ctx)
		return nil
	}
}

func waitForState(updates <-chan viewmodel.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = viewmodel.State(msg)
		m.clampCursor()
		return m, waitForState(m.updates)

	case tickMsg:
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.refresh()
	case "a":
		m.mode = modeAdd
		m.formErr = ""
		m.focus = fieldName
		for i := range m.inputs {
			m.inputs[i].Reset()
			m.inputs[i].Blur()
		}
		return m, m.inputs[fieldName].Focus()
	case "d":
		if len(m.state.Users) > 0 {
			m.mode = modeConfirmDelete
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Users)-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % len(m.inputs))
	case "shift+tab", "up":
		return m, m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
	case "enter":
		if m.focus == fieldName {
			return m, m.setFocus(fieldEmail)
		}
		name, email := m.inputs[fieldName].Value(), m.inputs[fieldEmail].Value()
		if err := m.vm.AddUser(m.ctx, name, email); err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.mode = modeList
		m.formErr = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeList
		if id, ok := m.selected(); ok {
			m.vm.DeleteUser(m.ctx, id)
		}
	case "n", "N", "esc":
		m.mode = modeList
	}
	return m, nil
}

func (m Model) selected() (int64, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Users) {
		return 0, false
	}
	return m.state.Users[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Users) {
		m.cursor = len(m.state.Users) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(style.Title.Render("GoREST users"))
	if m.state.Loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	if m.state.Error != "" {
		b.WriteString(style.RenderError(m.state.Error) + "\n\n")
	}

	switch m.mode {
	case modeAdd:
		b.WriteString(m.viewForm())
	default:
		b.WriteString(m.viewList())
	}
	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder

	if len(m.state.Users) == 0 && !m.state.Loading {
		b.WriteString(style.Dim.Render("No users.") + "\n")
	}

	now := m.now()
	for i, u := range m.state.Users {
		row := fmt.Sprintf("%-6d %-28s %-32s %-8s %s",
			u.ID, truncate(u.Name, 28), truncate(u.Email, 32), u.Status, format.RelativeTime(u.CreatedAt, now))
		if i == m.cursor {
			row = style.Selected.Render(row)
		}
		b.WriteString(row + "\n")
	}

	b.WriteString("\n")
	if m.mode == modeConfirmDelete {
		if id, ok := m.selected(); ok {
			b.WriteString(style.Error.Render(fmt.Sprintf("Delete user %d? (y/n)", id)) + "\n")
		}
		return b.String()
	}
	b.WriteString(style.Dim.Render("r refresh • a add • d delete • ↑/↓ move • q quit") + "\n")
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder

	b.WriteString(style.Header.Render("New user") + "\n\n")
	for _, in := range m.inputs {
		b.WriteString(in.View() + "\n")
	}
	if m.formErr != "" {
		b.WriteString("\n" + style.RenderError(m.formErr) + "\n")
	}
	b.WriteString("\n" + style.Dim.Render("enter next/submit • tab switch • esc cancel") + "\n")
	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
