// Package view holds the task list page template and the data it renders.
// The web router executes IndexTemplate with a Page.
package view

import (
	"embed"
	"html/template"

	"todolist/internal/controller"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexTemplate is the name of the page template.
const IndexTemplate = "index.html"

// Templates is the parsed template set, also registered with the web router.
var Templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

// Page is the data the page is rendered from.
type Page struct {
	Tasks   []controller.Task
	Filter  controller.Filter
	Loading bool
	Draft   string
	Notices []string
}

// FilterButton is one filter control.
type FilterButton struct {
	Name   controller.Filter
	Label  string
	Active bool
}

// NewPage builds a Page from a controller snapshot and pending notices.
func NewPage(state controller.State, notices []string) Page {
	return Page{
		Tasks:   state.Tasks,
		Filter:  state.Filter,
		Loading: state.Loading,
		Draft:   state.Draft,
		Notices: notices,
	}
}

// Visible returns the tasks shown under the page filter.
func (p Page) Visible() []controller.Task {
	return controller.Apply(p.Tasks, p.Filter)
}

// Filters returns the filter controls with the active one marked.
func (p Page) Filters() []FilterButton {
	buttons := make([]FilterButton, 0, len(controller.Filters))
	for _, f := range controller.Filters {
		buttons = append(buttons, FilterButton{Name: f, Label: f.Label(), Active: f == p.Filter})
	}
	return buttons
}
