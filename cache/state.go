package cache

import (
	"github.com/UgoL76/aptitude/deb"
)

// Priority is a package priority class
type Priority int

// Package priorities, most to least important
const (
	PriorityUnknown Priority = iota
	PriorityRequired
	PriorityImportant
	PriorityStandard
	PriorityOptional
	PriorityExtra
)

var priorityNames = map[Priority]string{
	PriorityRequired:  "required",
	PriorityImportant: "important",
	PriorityStandard:  "standard",
	PriorityOptional:  "optional",
	PriorityExtra:     "extra",
}

// ParsePriority resolves a display name, as produced by PriorityName,
// back to the priority class. Usable on a nil cache: the canonical
// names are always known.
func (c *Cache) ParsePriority(name string) (Priority, bool) {
	for p, n := range priorityNames {
		if n == name {
			return p, true
		}
	}
	return PriorityUnknown, false
}

// PriorityName gives display name for a priority class
func (c *Cache) PriorityName(p Priority) string {
	if n, ok := priorityNames[p]; ok {
		return n
	}
	return "unknown"
}

// Selection is the dpkg desired-state of a package
type Selection int

// dpkg selections (the "want" word of the Status field)
const (
	SelectionUnknown Selection = iota
	SelectionInstall
	SelectionHold
	SelectionDeinstall
	SelectionPurge
)

func parseSelection(want string) Selection {
	switch want {
	case "install":
		return SelectionInstall
	case "hold":
		return SelectionHold
	case "deinstall":
		return SelectionDeinstall
	case "purge":
		return SelectionPurge
	}
	return SelectionUnknown
}

// State is the mutable install/action state of a package
type State struct {
	// Candidate is the default version an install would pick
	Candidate *Version
	// Target is the version the package ends up with after pending
	// actions are carried out; nil means the package ends up removed
	Target *Version

	Selection Selection

	NewPackage    bool
	AutoInstalled bool
	Garbage       bool
	Purge         bool
	Reinstall     bool
	Broken        bool

	UserTags []UserTag
}

// Action classifies what is going to happen to a package
type Action int

// Package actions
const (
	ActionUnchanged Action = iota
	ActionBroken
	ActionUnusedRemove
	ActionAutoHold
	ActionAutoInstall
	ActionAutoRemove
	ActionDowngrade
	ActionHold
	ActionReinstall
	ActionInstall
	ActionRemove
	ActionUpgrade
)

// FindAction classifies the pending action on a package from its state
func (c *Cache) FindAction(p *Package) Action {
	st := &p.State

	switch {
	case st.Broken:
		return ActionBroken
	case st.Target == nil && p.Current != nil:
		switch {
		case st.Garbage:
			return ActionUnusedRemove
		case st.AutoInstalled:
			return ActionAutoRemove
		}
		return ActionRemove
	case st.Target != nil && p.Current == nil:
		if st.AutoInstalled {
			return ActionAutoInstall
		}
		return ActionInstall
	case st.Target != nil && p.Current != nil && st.Target != p.Current:
		if deb.CompareVersions(st.Target.Version, p.Current.Version) < 0 {
			return ActionDowngrade
		}
		return ActionUpgrade
	case st.Reinstall && p.Current != nil:
		return ActionReinstall
	case st.Selection == SelectionHold && p.Current != nil &&
		st.Candidate != nil && st.Candidate != p.Current:
		if st.AutoInstalled {
			return ActionAutoHold
		}
		return ActionHold
	}

	return ActionUnchanged
}
