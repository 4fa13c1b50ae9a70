package sheet

import (
	"fmt"
	"html/template"
	"io"

	"github.com/abhisek/masterysheet/internal/mastery"
)

var pageTemplate = template.Must(template.New("sheet").Parse(`
{{- define "select" -}}
<select id="{{.ID}}"{{if not .Visible}} style="display:none"{{end}}>
{{- range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end -}}
</select>
{{- end -}}

{{- define "cell" -}}
<span class="skill-mastery" data-id="{{.ID}}">
{{- if .Select}}{{template "select" .Select}}{{else}}{{.Text}}{{end -}}
</span>
{{- end -}}

{{- define "page" -}}
<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<table class="skills">
{{- range .Cells}}
<tr><td class="skill-name">{{.Name}}</td><td>{{template "cell" .}}</td></tr>
{{- end}}
</table>
</body>
</html>
{{- end -}}
`))

type optionView struct {
	Value    mastery.Level
	Selected bool
}

type selectView struct {
	ID      string
	Visible bool
	Options []optionView
}

type cellView struct {
	ID     SkillID
	Name   string
	Text   mastery.Level
	Select *selectView
}

func newSelectView(s *Selector) *selectView {
	v := &selectView{ID: s.ID(), Visible: s.Visible()}
	for _, opt := range s.Options() {
		v.Options = append(v.Options, optionView{Value: opt, Selected: opt == s.Selected()})
	}
	return v
}

func newCellView(c *Cell) cellView {
	v := cellView{ID: c.ID, Name: c.Name, Text: c.Text()}
	if sel := c.Selector(); sel != nil {
		v.Select = newSelectView(sel)
	}
	return v
}

// RenderSelectHTML writes the <select> element for s.
func RenderSelectHTML(w io.Writer, s *Selector) error {
	if err := pageTemplate.ExecuteTemplate(w, "select", newSelectView(s)); err != nil {
		return fmt.Errorf("render select: %w", err)
	}
	return nil
}

// RenderHTML writes a full character sheet page for b.
func RenderHTML(w io.Writer, title string, b *Board) error {
	data := struct {
		Title string
		Cells []cellView
	}{Title: title}
	for _, c := range b.Cells() {
		data.Cells = append(data.Cells, newCellView(c))
	}
	if err := pageTemplate.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render sheet: %w", err)
	}
	return nil
}
