package ui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shopkeep/internal/catalog"
	"github.com/five82/shopkeep/internal/export"
	"github.com/five82/shopkeep/internal/logtail"
	"github.com/five82/shopkeep/internal/workflow"
)

// Messages

type loadedMsg workflow.Outcome

type submitDoneMsg workflow.Outcome

type noticeMsg workflow.Notice

type activityMsg struct {
	lines []string
	err   error
}

// Commands

// activityLines bounds how much of the log file the Activity view reads.
const activityLines = 500

func reloadCmd(ctx context.Context, svc *workflow.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		return loadedMsg(svc.Reload(ctx))
	}
}

func submitCmd(ctx context.Context, svc *workflow.Service, req workflow.Request) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg(svc.Submit(ctx, req))
	}
}

// exportCmd writes the page to path, replacing any earlier export.
func exportCmd(path string, items []catalog.Product) tea.Cmd {
	return func() tea.Msg {
		if err := os.WriteFile(path, []byte(export.Page(items)), 0o644); err != nil {
			return noticeMsg(workflow.Notice{Kind: workflow.ExportFailed, Detail: err.Error()})
		}
		return noticeMsg(workflow.Notice{Kind: workflow.Exported, Count: len(items), Detail: path})
	}
}

func copyCmd(copyFn func(string) error, items []catalog.Product) tea.Cmd {
	return func() tea.Msg {
		if err := copyFn(export.Page(items)); err != nil {
			return noticeMsg(workflow.Notice{Kind: workflow.ExportFailed, Detail: fmt.Sprintf("clipboard: %v", err)})
		}
		return noticeMsg(workflow.Notice{Kind: workflow.Copied, Count: len(items)})
	}
}

func readActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		lines, err := logtail.Read(path, activityLines)
		return activityMsg{lines: lines, err: err}
	}
}
