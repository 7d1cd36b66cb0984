package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/playersync/internal/shared"
	"github.com/desertthunder/playersync/internal/tasks"
)

var _ list.Item = fileItem{}

// fileItem wraps [tasks.FileResult] to implement [list.Item].
type fileItem struct {
	file tasks.FileResult
}

func (i fileItem) FilterValue() string { return i.file.Path }
func (i fileItem) Title() string       { return i.file.Path }
func (i fileItem) Description() string {
	switch {
	case i.file.Error != "":
		return fmt.Sprintf("%s • %s", i.file.Action, i.file.Error)
	case i.file.Bytes > 0:
		return fmt.Sprintf("%s • %s", i.file.Action, shared.FormatBytes(i.file.Bytes))
	default:
		return string(i.file.Action)
	}
}

// fileItems lists every result except skipped files, failures first.
func fileItems(res *tasks.SyncResult) []list.Item {
	var failed, rest []list.Item
	for _, fr := range res.Files {
		switch fr.Action {
		case tasks.ActionSkipped:
		case tasks.ActionFailed:
			failed = append(failed, fileItem{file: fr})
		default:
			rest = append(rest, fileItem{file: fr})
		}
	}
	return append(failed, rest...)
}
