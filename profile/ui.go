package profile

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lai323/kanjidrill/db"
	"github.com/lai323/kanjidrill/drill"
	"github.com/lai323/kanjidrill/kanji"
	"github.com/lai323/kanjidrill/ui"
	"github.com/spf13/afero"
)

const avatarCols = 16

type Model struct {
	store    Store
	profile  db.Profile
	total    int
	avatar   image.Image
	input    textinput.Model
	renaming bool
	bar      progress.Model
	helpmode ui.HelpModel
	width    int
	err      error
}

func New(fs afero.Fs, s Store) (*Model, error) {
	p, err := s.ProfileGet()
	if err != nil {
		return nil, err
	}
	total, err := s.TotalAnswered()
	if err != nil {
		return nil, err
	}
	m := &Model{
		store:   s,
		profile: p,
		total:   total,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		helpmode: ui.HelpModel{
			Keyhelp: [][]string{
				{"?", "back"},
				{"r", "rename"},
				{"enter", "save name"},
				{"esc", "cancel / quit"},
				{"q", "quit"},
			},
		},
	}
	if p.AvatarPath != "" {
		img, err := ui.LoadImage(fs, p.AvatarPath)
		if err != nil {
			slog.Warn("avatar not shown", "path", p.AvatarPath, "err", err)
		} else {
			m.avatar = img
		}
	}

	m.input = textinput.New()
	m.input.Prompt = "name: "
	m.input.CharLimit = 40
	m.input.Width = 40
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.renaming {
			switch msg.String() {
			case "enter":
				p, err := Rename(m.store, m.input.Value())
				m.err = err
				if err == nil {
					m.profile = p
					m.renaming = false
					m.input.Blur()
				}
				return m, nil
			case "esc":
				m.renaming = false
				m.err = nil
				m.input.Blur()
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "r":
			if !m.helpmode.Active {
				m.renaming = true
				m.err = nil
				m.input.SetValue(m.profile.Username)
				m.input.CursorEnd()
				return m, m.input.Focus()
			}
		case "?":
			m.helpmode.Active = !m.helpmode.Active
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 40
		if m.bar.Width > 40 {
			m.bar.Width = 40
		}
		if m.bar.Width < 10 {
			m.bar.Width = 10
		}
	}
	return m, nil
}

func (m *Model) View() string {
	if m.helpmode.Active {
		return m.helpmode.View()
	}

	var lines []string
	lines = append(lines, "")
	if m.avatar != nil {
		for _, l := range strings.Split(ui.Avatar(m.avatar, avatarCols), "\n") {
			lines = append(lines, "  "+l)
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		"  "+ui.StyleUsername(m.profile.Username),
		"  "+ui.StyleCount(fmt.Sprintf("%d questions answered", m.total)),
		"",
	)

	for _, system := range kanji.Systems {
		for _, d := range kanji.Drills {
			xp := m.profile.XP.Get(system, d)
			p := drill.LevelProgress(xp)
			lines = append(lines,
				fmt.Sprintf("  %-10s%-9s %s %s",
					system, d,
					ui.StyleKey(fmt.Sprintf("level %-3d", p.Level)),
					ui.StyleCount(fmt.Sprintf("%d/%d XP", p.Within, p.PerLevel)),
				),
				"  "+m.bar.ViewAs(p.Fraction()),
			)
		}
	}

	lines = append(lines, "")
	if m.renaming {
		lines = append(lines, "  "+m.input.View())
	}
	if m.err != nil {
		lines = append(lines, "  "+ui.StyleFail(m.err.Error()))
	}
	lines = append(lines, "", ui.Footer(m.width))
	return strings.Join(lines, "\n")
}

func Start(fs afero.Fs, s Store) error {
	m, err := New(fs, s)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
