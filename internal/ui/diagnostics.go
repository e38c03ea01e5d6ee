package ui

import (
	"strings"

	"github.com/five82/shelf/internal/logtail"
)

type diagnosticsState struct {
	loaded  bool
	entries []logtail.Entry
	err     string
}

func (m *Model) handleLog(msg logMsg) {
	m.diag = diagnosticsState{loaded: true, entries: msg.entries}
	if msg.err != nil {
		m.diag.err = msg.err.Error()
	}
	m.refreshDiagViewport()
	m.diagViewport.GotoBottom()
}

func (m *Model) refreshDiagViewport() {
	if !m.ready {
		return
	}
	m.diagViewport.SetContent(m.diagContent())
}

func (m Model) diagContent() string {
	styles := m.appearance.Theme().Styles()
	switch {
	case m.logPath == "":
		return styles.MutedText.Render("Logging to a file is disabled.")
	case !m.diag.loaded:
		return styles.MutedText.Render("Reading " + m.logPath + "...")
	case m.diag.err != "":
		return styles.DangerText.Render(m.diag.err)
	case len(m.diag.entries) == 0:
		return styles.MutedText.Render("No log entries yet.")
	}

	lines := make([]string, 0, len(m.diag.entries))
	for _, e := range m.diag.entries {
		lines = append(lines, m.formatEntry(e))
	}
	return strings.Join(lines, "\n")
}

func (m Model) formatEntry(e logtail.Entry) string {
	styles := m.appearance.Theme().Styles()
	if e.Level == "" {
		return styles.Text.Render(e.Raw)
	}

	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(styles.FaintText.Render(e.Time.Format("15:04:05")))
		b.WriteString(" ")
	}
	levelStyle := styles.InfoText
	switch strings.ToUpper(e.Level) {
	case "ERROR":
		levelStyle = styles.DangerText
	case "WARN":
		levelStyle = styles.WarningText
	case "DEBUG":
		levelStyle = styles.MutedText
	}
	b.WriteString(levelStyle.Render(padRight(strings.ToUpper(e.Level), 5)))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))
	for _, attr := range e.Attrs {
		b.WriteString(" ")
		b.WriteString(styles.MutedText.Render(attr.Key + "=" + attr.Value))
	}
	return b.String()
}

func (m Model) renderDiagnostics() string {
	return m.diagViewport.View()
}
