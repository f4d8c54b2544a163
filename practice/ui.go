package practice

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lai323/kanjidrill/db"
	"github.com/lai323/kanjidrill/drill"
	"github.com/lai323/kanjidrill/kanji"
	"github.com/lai323/kanjidrill/ui"
	"github.com/muesli/reflow/wordwrap"
)

// Recorder persists answers and finished sessions.
type Recorder interface {
	Record(system kanji.System, d kanji.Drill, r drill.Result) (db.KanjiStats, db.Profile, error)
	SessionPut(drill.Summary) error
	ProfileGet() (db.Profile, error)
}

// NextMsg moves past the feedback of the answer at Position.
type NextMsg struct {
	Position int
}

type PracModel struct {
	session  *drill.Session
	rec      Recorder
	delay    time.Duration
	question drill.Question
	last     *drill.Result
	profile  db.Profile
	summary  drill.Summary
	finished bool
	saved    bool

	viewport viewport.Model
	ready    bool
	width    int
	helpmode ui.HelpModel
	err      error
}

func initialModel(session *drill.Session, rec Recorder, delay time.Duration) (*PracModel, error) {
	q, err := session.Current()
	if err != nil {
		return nil, err
	}
	p, err := rec.ProfileGet()
	if err != nil {
		return nil, err
	}
	m := &PracModel{
		session:  session,
		rec:      rec,
		delay:    delay,
		question: q,
		profile:  p,
	}
	m.helpmode = ui.HelpModel{
		Keyhelp: [][]string{
			{"?", "back"},
			{"1-4", "answer"},
			{"enter", "next question"},
			{"esc", "finish / quit"},
			{"ctrl+c", "quit"},
		},
	}
	return m, nil
}

func (m *PracModel) Init() tea.Cmd {
	return nil
}

func (m *PracModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.finish()
			return m, tea.Quit
		case "?":
			m.helpmode.Active = !m.helpmode.Active
			return m, nil
		case "esc":
			if m.helpmode.Active {
				m.helpmode.Active = false
				return m, nil
			}
			if m.finished {
				return m, tea.Quit
			}
			m.finish()
			return m, nil
		case "q":
			if m.finished {
				return m, tea.Quit
			}
		case "enter":
			if m.finished {
				return m, tea.Quit
			}
			if m.last != nil {
				m.next()
			}
			return m, nil
		case "1", "2", "3", "4":
			if m.finished || m.helpmode.Active || m.last != nil {
				return m, nil
			}
			i, _ := strconv.Atoi(msg.String())
			return m, m.answer(i - 1)
		}

	case NextMsg:
		if m.last != nil && msg.Position == m.session.Position() {
			m.next()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		viewportHeight := msg.Height - 2 // footer and infobar
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		if m.finished {
			m.viewport.SetContent(wordwrap.String(m.resultsView(), m.viewport.Width))
		}
	}

	if m.finished {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *PracModel) answer(i int) tea.Cmd {
	r, err := m.session.AnswerOption(i)
	if err != nil {
		m.err = err
		return nil
	}
	m.last = &r
	_, p, err := m.rec.Record(m.session.Settings.System, m.session.Settings.Drill, r)
	if err != nil {
		slog.Error("record answer", "kanji", r.Kanji, "err", err)
		m.err = err
	} else {
		m.profile = p
	}
	slog.Debug("answer", "kanji", r.Kanji, "given", r.Given, "correct", r.Correct)

	if m.delay <= 0 {
		m.next()
		return nil
	}
	pos := m.session.Position()
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return NextMsg{Position: pos}
	})
}

func (m *PracModel) next() {
	m.last = nil
	if m.session.Done() {
		m.finish()
		return
	}
	q, err := m.session.Current()
	if err != nil {
		m.err = err
		return
	}
	m.question = q
}

// finish ends the drill and stores its summary. Sessions with no answers are
// not stored.
func (m *PracModel) finish() {
	if m.finished {
		return
	}
	m.finished = true
	m.last = nil
	m.summary = m.session.Summary()
	if m.summary.Total > 0 && !m.saved {
		if err := m.rec.SessionPut(m.summary); err != nil {
			slog.Error("save session", "err", err)
			m.err = err
		} else {
			m.saved = true
		}
	}
	slog.Info("drill finished",
		"session", m.summary.ID,
		"correct", m.summary.Correct,
		"total", m.summary.Total,
		"xp", m.summary.XP,
	)
	if m.ready {
		m.viewport.SetContent(wordwrap.String(m.resultsView(), m.viewport.Width))
		m.viewport.GotoTop()
	}
}

func (m *PracModel) Summary() drill.Summary {
	return m.summary
}

func (m *PracModel) View() string {
	if m.helpmode.Active {
		return m.helpmode.View()
	}
	if !m.ready {
		return "\n  Initalizing..."
	}
	if m.finished {
		return strings.Join(
			[]string{
				m.viewport.View(),
				m.infobar(),
				ui.Footer(m.width),
			},
			"\n",
		)
	}
	m.viewport.SetContent(wordwrap.String(m.questionView(), m.viewport.Width))
	return strings.Join(
		[]string{
			m.viewport.View(),
			m.infobar(),
			ui.Footer(m.width),
		},
		"\n",
	)
}

func (m *PracModel) questionView() string {
	q := m.question
	prompt := ui.StyleMean(q.Prompt)
	if q.PromptIsKanji() {
		prompt = ui.StyleKanji(q.Prompt)
	}

	lines := []string{
		"",
		"  " + ui.StyleCount(fmt.Sprintf("%d/%d", q.Index+1, m.session.Total())) +
			"  " + ui.StylePart("choose the "+q.Hint()),
		"",
		ui.Center(m.width, prompt),
		"",
	}
	for i, o := range q.Options {
		style := ui.StyleOption
		if m.last != nil {
			if o == m.last.Expected {
				style = ui.StyleSuccess
			} else if o == m.last.Given {
				style = ui.StyleFail
			}
		}
		lines = append(lines, fmt.Sprintf("  %s  %s", ui.StyleKey(strconv.Itoa(i+1)), style(o)))
	}

	lines = append(lines, "")
	if m.last != nil {
		if m.last.Correct {
			lines = append(lines, "  "+ui.StyleSuccess(fmt.Sprintf("√ correct  +%dxp", m.last.XP)))
		} else {
			lines = append(lines, "  "+ui.StyleFail(fmt.Sprintf("X wrong, answer: %s  +%dxp", m.last.Expected, m.last.XP)))
		}
		lines = append(lines, "  "+ui.StyleHelp("enter: next"))
	}
	if m.err != nil {
		lines = append(lines, "  "+ui.StyleFail(m.err.Error()))
	}
	return strings.Join(lines, "\n")
}

func score(s drill.Summary) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

func (m *PracModel) resultsView() string {
	s := m.summary
	lines := []string{
		"",
		"  " + ui.StyleKanji("Results"),
		"",
		fmt.Sprintf("  %s %d/%d  %s %d%%", ui.StyleKeyHelp("score"), s.Correct, s.Total, ui.StyleSuccess(ui.Bar(20, score(s))), s.Percent),
		fmt.Sprintf("  %s +%d", ui.StyleKeyHelp("xp"), s.XP),
		"",
	}
	if len(s.Wrong) == 0 {
		if s.Total > 0 {
			lines = append(lines, "  "+ui.StyleSuccess("no mistakes"))
		}
	} else {
		lines = append(lines, "  "+ui.StyleFail(fmt.Sprintf("%d wrong", len(s.Wrong))))
		for _, r := range s.Wrong {
			lines = append(lines, fmt.Sprintf("  %s  %s %s  %s %s",
				ui.StyleKanji(r.Kanji),
				ui.StyleKeyHelp("answer"), ui.StyleSuccess(r.Expected),
				ui.StyleKeyHelp("yours"), ui.StyleFail(r.Given),
			))
		}
	}
	if m.err != nil {
		lines = append(lines, "", "  "+ui.StyleFail(m.err.Error()))
	}
	lines = append(lines, "", "  "+ui.StyleHelp("enter/esc: quit  ↑/↓: scroll"))
	return strings.Join(lines, "\n")
}

func (m *PracModel) infobar() string {
	settings := m.session.Settings
	settingstext := fmt.Sprintf("%s %s  level %s", settings.System, settings.Drill, joinLevels(settings.Levels))
	correct := 0
	xp := 0
	for _, r := range m.session.Results() {
		if r.Correct {
			correct++
		}
		xp += r.XP
	}
	scoretext := fmt.Sprintf("correct %d/%d", correct, len(m.session.Results()))
	progress := drill.LevelProgress(m.profile.XP.Get(settings.System, settings.Drill))
	leveltext := fmt.Sprintf("lv %d %d/%d", progress.Level, progress.Within, progress.PerLevel)
	xptext := fmt.Sprintf("+%dxp", xp)
	return ui.Line(
		m.width,
		ui.Cell{
			Width: len(settingstext) + 2,
			Text:  ui.StyleCount(settingstext),
		},
		ui.Cell{
			Width: len(scoretext) + 2,
			Text:  ui.StyleCount(scoretext),
		},
		ui.Cell{
			Width: len(leveltext) + 2,
			Text:  ui.StyleCount(leveltext),
		},
		ui.Cell{
			Text:  ui.StyleCount(xptext),
			Align: ui.RightAlign,
		},
	)
}

func Start(session *drill.Session, rec Recorder, delay time.Duration) (drill.Summary, error) {
	m, err := initialModel(session, rec, delay)
	if err != nil {
		return drill.Summary{}, err
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return m.Summary(), fmt.Errorf("could not start program: %w", err)
	}
	m.finish()
	return m.Summary(), nil
}
