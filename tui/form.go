// Package tui is the terminal rendition of the declaration form.
package tui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xiaoyuanzhu-com/yaruze/declaration"
	"github.com/xiaoyuanzhu-com/yaruze/log"
	"github.com/xiaoyuanzhu-com/yaruze/preview"
	"github.com/xiaoyuanzhu-com/yaruze/share"
)

// Options configures the terminal form.
type Options struct {
	// BaseURL is the server the preview is probed against and the share
	// links point to.
	BaseURL string
	Delay   time.Duration
	Client  *http.Client
}

const (
	fieldTitle = iota
	fieldDescription
	fieldProgress
	fieldCount
)

// editor receives every change of the field values.
type editor interface {
	Edit(d declaration.Declaration) uint64
}

type resultMsg preview.Result

type copiedMsg struct{ err error }

type formModel struct {
	inputs []textinput.Model
	focus  int

	base   string
	editor editor
	copy   func(string) error

	gen     uint64 // generation of the latest edit
	loading bool
	result  preview.Result
	links   share.Links
	notice  string
}

func newFormModel(base string, ed editor, copyFn func(string) error) formModel {
	m := formModel{
		inputs: make([]textinput.Model, fieldCount),
		base:   strings.TrimRight(base, "/"),
		editor: ed,
		copy:   copyFn,
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 200
		switch i {
		case fieldTitle:
			ti.Placeholder = "例：新しいプログラミング言語を学びます"
		case fieldDescription:
			ti.Placeholder = "詳細や目標を書いてみましょう"
		case fieldProgress:
			ti.Placeholder = "0〜100"
			ti.CharLimit = 8
		}
		m.inputs[i] = ti
	}
	m.inputs[fieldTitle].Focus()
	return m
}

// Run starts the terminal form and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	var program *tea.Program

	prober := preview.NewProber(preview.Config{
		BaseURL: opts.BaseURL,
		Delay:   opts.Delay,
		Client:  opts.Client,
		OnResult: func(r preview.Result) {
			program.Send(resultMsg(r))
		},
	})
	defer prober.Stop()

	// Log lines would tear the alt screen.
	log.SetOutput(io.Discard)

	m := newFormModel(opts.BaseURL, prober, clipboard.WriteAll)
	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal form: %w", err)
	}
	return nil
}

func (m formModel) declaration() declaration.Declaration {
	return declaration.Declaration{
		Title:       m.inputs[fieldTitle].Value(),
		Description: m.inputs[fieldDescription].Value(),
		Progress:    m.inputs[fieldProgress].Value(),
	}
}

func (m formModel) Init() tea.Cmd { return textinput.Blink }

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		// Older probes may still finish; only the latest edit counts.
		if msg.Generation == m.gen {
			m.result = preview.Result(msg)
			m.loading = false
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.notice = errorStyle.Render("コピーできませんでした: " + msg.err.Error())
		} else {
			m.notice = successStyle.Render("✔ 共有URLをコピーしました")
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down", "enter":
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case "ctrl+y":
			if !share.CanShare(m.declaration()) {
				m.notice = errorStyle.Render("タイトルを入力してください")
				return m, nil
			}
			return m, copyCmd(m.copy, m.links.ShareURL)
		}
	}

	before := m.declaration()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if d := m.declaration(); d != before {
		m.edited(d)
	}
	return m, cmd
}

// edited records a change of the field values.
func (m *formModel) edited(d declaration.Declaration) {
	m.notice = ""
	m.gen = m.editor.Edit(d)
	if share.CanShare(d) {
		m.links = share.NewLinks(m.base, d)
		m.loading = true
	} else {
		m.links = share.Links{}
		m.loading = false
		m.result = preview.Result{}
	}
}

func (m *formModel) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func copyCmd(copyFn func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: copyFn(text)}
	}
}

func (m formModel) View() string {
	var b strings.Builder

	b.WriteString(brandStyle.Render("YARUZE"))
	b.WriteString(mutedStyle.Render("  これからやることを宣言して、SNSでシェアしよう"))
	b.WriteString("\n\n")

	labels := []string{"やるぜ宣言 *", "詳しく何をやるぜ？", "進捗率"}
	for i, ti := range m.inputs {
		label := labelStyle.Render(labels[i])
		if i == m.focus {
			label = focusStyle.Render(labels[i])
		}
		b.WriteString(label + "\n" + ti.View() + "\n\n")
	}

	b.WriteString(labelStyle.Render("プレビュー") + "  " + m.previewLine() + "\n\n")

	b.WriteString(labelStyle.Render("シェア") + "\n")
	if m.links.ShareURL == "" {
		b.WriteString(mutedStyle.Render("  タイトルを入力するとシェアできます") + "\n")
	} else {
		b.WriteString("  URL   " + m.links.ShareURL + "\n")
		b.WriteString("  X     " + m.links.X + "\n")
		b.WriteString("  LINE  " + m.links.Line + "\n")
	}

	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("tab: 次の項目 • ctrl+y: URLをコピー • esc: 終了"))
	return panelString(b.String())
}

func (m formModel) previewLine() string {
	switch {
	case m.loading:
		return pendingStyle.Render("読み込み中...")
	case m.result.Status == preview.StatusReady:
		return successStyle.Render("✔ ") + m.result.ImageURL
	case m.result.Status == preview.StatusError:
		return errorStyle.Render("✖ プレビューの生成に失敗しました")
	default:
		return mutedStyle.Render("-")
	}
}
