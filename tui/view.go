package tui

import (
	"fmt"
	"strings"

	"docgate/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("📄 Document Pipeline Tracker"))
	b.WriteString("\n\n")

	b.WriteString(InfoStyle.Render("Document: " + m.DocumentID))
	b.WriteString("\n\n")

	if !m.Connected && m.Err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("❌ Cannot reach tracker service: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("Retrying... | Press 'q' or Ctrl+C to quit"))
		return b.String()
	}

	if m.Summary == nil {
		b.WriteString(StatusStyle.Render("⏳ Waiting for first status..."))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
		return b.String()
	}

	if m.Unavailable {
		b.WriteString(ErrorStyle.Render("⚠️  All stage status services unavailable"))
		b.WriteString("\n\n")
	}

	// Per-stage progress
	for _, stage := range types.StageOrder {
		st := m.Summary.StageDetails[stage]
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			stageIcon(st), string(stage), stageDetail(st)))
	}
	b.WriteString("\n")

	// Overall state
	switch m.Summary.OverallStatus {
	case types.StatusCompleted:
		b.WriteString(HighlightStyle.Render("✅ PIPELINE COMPLETE"))
		b.WriteString("\n")
		if m.Summary.TotalProcessingTime > 0 {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("Total processing time: %.1fs", m.Summary.TotalProcessingTime)))
			b.WriteString("\n")
		}
	case types.StatusFailed:
		detail := ""
		if st, ok := m.Summary.StageDetails[m.Summary.CurrentStage]; ok {
			detail = st.Metadata.Detail
		}
		box := fmt.Sprintf("❌ Failed at %s\n%s", m.Summary.CurrentStage, detail)
		b.WriteString(BoxStyle.Render(ErrorStyle.Render(box)))
		b.WriteString("\n")
	default:
		b.WriteString(StatusStyle.Render(fmt.Sprintf("🔄 %s (current stage: %s)",
			m.Summary.OverallStatus, m.Summary.CurrentStage)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.Done {
		b.WriteString(HighlightStyle.Render("Press 'q' or Ctrl+C to exit"))
	} else {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Polls: %d | Next poll in %s | Press 'q' or Ctrl+C to quit",
			m.Attempts, backoffFor(m.Attempts))))
	}

	return b.String()
}

func stageIcon(st types.StageStatus) string {
	switch st.Status {
	case types.StatusCompleted:
		return "✅"
	case types.StatusProcessing:
		return "🔄"
	case types.StatusFailed:
		if st.Metadata.ErrorType == types.ErrorNetwork {
			return "⏳"
		}
		return "❌"
	default:
		return "⏳"
	}
}

func stageDetail(st types.StageStatus) string {
	switch {
	case st.Metadata.ErrorType == types.ErrorNetwork:
		return InfoStyle.Render("(unreachable)")
	case st.Metadata.ErrorType == types.ErrorNotFound:
		return InfoStyle.Render("(not started)")
	case st.Status == types.StatusFailed && st.Metadata.Detail != "":
		return ErrorStyle.Render("(" + st.Metadata.Detail + ")")
	case st.Status == types.StatusCompleted && st.Metadata.DurationSeconds > 0:
		return InfoStyle.Render(fmt.Sprintf("(%.1fs)", st.Metadata.DurationSeconds))
	default:
		return ""
	}
}
