package share

// Package share contains domain-level types for share-link resolution.
// It is pure and free of framework/adapter concerns.

import "strconv"

// Module represents a numeric groupware module constant.
// The numeric values are stable wire identifiers; Name resolves the
// canonical lowercase name used in redirect URLs.
type Module int

const (
	ModuleTasks     Module = 1
	ModuleCalendar  Module = 2
	ModuleContacts  Module = 3
	ModuleMail      Module = 7
	ModuleInfostore Module = 8
)

// Name returns the canonical lowercase module name, falling back to the
// numeric string for unknown values.
func (m Module) Name() string {
	switch m {
	case ModuleTasks:
		return "tasks"
	case ModuleCalendar:
		return "calendar"
	case ModuleContacts:
		return "contacts"
	case ModuleMail:
		return "mail"
	case ModuleInfostore:
		return "infostore"
	default:
		return strconv.Itoa(int(m))
	}
}

// TargetKind distinguishes folder shares from single-file shares.
type TargetKind string

const (
	TargetFolder TargetKind = "folder"
	TargetFile   TargetKind = "file"
)

// TargetPath is a structured reference to the specific target a share link
// points at: module, folder, optional single item, and free-form query
// additionals carried through the login step into the session.
type TargetPath struct {
	Module      Module
	Folder      string
	Item        string // empty unless the link identifies exactly one item
	Additionals map[string]string
}

// HasItem reports whether the path identifies a single item.
func (p *TargetPath) HasItem() bool {
	return p != nil && p.Item != ""
}

// TargetProxy is a handle to the resolved underlying target. It carries just
// enough of the target for redirect and message composition; the target's
// content stays with the storage collaborator.
type TargetProxy struct {
	Kind  TargetKind
	Title string
}
