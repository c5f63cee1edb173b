package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/venuebook/internal/datetime"
	"github.com/naveenspark/venuebook/internal/export"
)

// exportedMsg reports a finished spreadsheet export. The app turns it into a
// toast.
type exportedMsg struct {
	path string
	err  error
}

// exportCmd writes rows to a timestamped workbook named after name in dir.
func exportCmd(dir, name string, rows any, columns []export.Column) tea.Cmd {
	return func() tea.Msg {
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportedMsg{err: fmt.Errorf("create export dir: %w", err)}
		}
		stamp := time.Now().In(datetime.Zone).Format("20060102-150405")
		path, err := export.WriteFile(filepath.Join(dir, name+"-"+stamp+".xlsx"), rows, columns)
		return exportedMsg{path: path, err: err}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return toastMsg{text: "copy failed: " + err.Error(), isErr: true}
		}
		return toastMsg{text: "copied to clipboard"}
	}
}
