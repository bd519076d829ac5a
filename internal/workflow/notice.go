package workflow

import "fmt"

// NoticeKind identifies which path of a workflow produced a notice.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	UpdateSaved
	UpdateServerRejected
	UpdateOffline
	CreateSaved
	CreateServerRejected
	CreateOffline
	ExistingUpdated
	ExistingUpdateFailed
	Reloaded
	ReloadFailed
	Exported
	ExportFailed
	Copied
)

var noticeNames = map[NoticeKind]string{
	NoticeNone:           "none",
	UpdateSaved:          "update_saved",
	UpdateServerRejected: "update_server_rejected",
	UpdateOffline:        "update_offline",
	CreateSaved:          "create_saved",
	CreateServerRejected: "create_server_rejected",
	CreateOffline:        "create_offline",
	ExistingUpdated:      "existing_updated",
	ExistingUpdateFailed: "existing_update_failed",
	Reloaded:             "reloaded",
	ReloadFailed:         "reload_failed",
	Exported:             "exported",
	ExportFailed:         "export_failed",
	Copied:               "copied",
}

func (k NoticeKind) String() string {
	if name, ok := noticeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("notice(%d)", int(k))
}

// Level groups notices for styling.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Level returns how prominently the notice should be shown.
func (k NoticeKind) Level() Level {
	switch k {
	case UpdateSaved, CreateSaved, ExistingUpdated, Exported, Copied:
		return LevelSuccess
	case UpdateServerRejected, UpdateOffline:
		return LevelWarning
	case CreateServerRejected, CreateOffline, ExistingUpdateFailed, ReloadFailed, ExportFailed:
		return LevelError
	default:
		return LevelInfo
	}
}

// Notice is a user-facing message. Each workflow path has its own kind so
// callers and tests can tell them apart without matching text.
type Notice struct {
	Kind   NoticeKind
	Status int
	Count  int
	Detail string
}

// IsZero reports whether there is nothing to show.
func (n Notice) IsZero() bool { return n.Kind == NoticeNone }

// Message renders the notice text.
func (n Notice) Message() string {
	switch n.Kind {
	case UpdateSaved:
		return "Product updated"
	case UpdateServerRejected:
		return fmt.Sprintf("Server rejected the update%s; changes applied locally", statusSuffix(n.Status))
	case UpdateOffline:
		return "Cannot reach the server; changes applied locally"
	case CreateSaved:
		return "Product created"
	case CreateServerRejected:
		return fmt.Sprintf("Create failed: server rejected the product%s", statusSuffix(n.Status))
	case CreateOffline:
		return "Create failed: cannot reach the server"
	case ExistingUpdated:
		return "Existing product updated"
	case ExistingUpdateFailed:
		return "Could not update the existing product on the server"
	case Reloaded:
		return fmt.Sprintf("Loaded %d products", n.Count)
	case ReloadFailed:
		return "Could not load products; showing an empty catalog"
	case Exported:
		return fmt.Sprintf("Exported %d rows to %s", n.Count, n.Detail)
	case ExportFailed:
		return fmt.Sprintf("Export failed: %s", n.Detail)
	case Copied:
		return fmt.Sprintf("Copied %d rows to the clipboard", n.Count)
	default:
		return ""
	}
}

func statusSuffix(status int) string {
	if status == 0 {
		return ""
	}
	return fmt.Sprintf(" (status %d)", status)
}
