// Package dock is the tab strip at the bottom of the window. Features
// contribute tabs by implementing TabToken; the dock aggregates them,
// tracks which one is active, and falls back to NullTab when nothing is.
package dock

import (
	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/reactive"
)

// TabType groups tabs of the same kind.
type TabType struct {
	ID    string
	Title string
}

// Tab is one entry of the dock.
type Tab interface {
	ID() string
	Type() TabType
	Title() string
	// Content renders the body of the tab.
	Content() (string, error)
	Activate()
	Close()
}

// TabToken is the extension point features implement to add a tab.
var TabToken = injectable.CreateToken[Tab]("dock-tab")

type nullTab struct{}

func (nullTab) ID() string { return "no-active-dock-tab" }

func (nullTab) Type() TabType {
	return TabType{ID: "no-active-dock-tab-type"}
}

func (nullTab) Title() string            { return "" }
func (nullTab) Content() (string, error) { return "", nil }
func (nullTab) Activate()                {}
func (nullTab) Close()                   {}

// NullTab is the active tab when no enabled tab matches the active id.
var NullTab Tab = nullTab{}

type tab struct {
	id       string
	typ      TabType
	title    string
	content  *reactive.Computed[string]
	activate func(id string)
	close    func(id string)
}

func (t *tab) ID() string    { return t.id }
func (t *tab) Type() TabType { return t.typ }
func (t *tab) Title() string { return t.title }

func (t *tab) Content() (string, error) {
	if t.content == nil {
		return "", nil
	}
	return t.content.Get()
}

func (t *tab) Activate() { t.activate(t.id) }
func (t *tab) Close()    { t.close(t.id) }
