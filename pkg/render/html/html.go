// Package html renders a card Document as a self-contained HTML page.
//
// The page is what the chrome backend screenshots and what the service
// returns for format=html. All text is escaped by html/template; the only
// trusted fragment is the package's own stylesheet.
//
// Layout:
//
//	div.wrap                      fixed-width card column
//	  div.card.card-identity      title + div.row (k / v) pairs
//	  div.card.card-table         title + one table.segment per chunk
//	    thead                     "Разом" header, first segment of a row only
//	    tr.values                 td per cell, td.pad fills partial segments
//	    tr.time                   annotation line, when the row is annotated
package html

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
)

// WrapSelector selects the element holding every card.
const WrapSelector = ".wrap"

// classNames maps display classes to stylesheet classes.
var classNames = map[card.DisplayClass]string{
	card.ClassFavorable:   "pos",
	card.ClassUnfavorable: "neg",
	card.ClassNeutral:     "zero",
}

// ClassName returns the stylesheet class of a display class.
func ClassName(c card.DisplayClass) string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "zero"
}

var stylesheet = template.CSS(fmt.Sprintf(`
    *{box-sizing:border-box}
    body{
      margin:0;
      background:#ffffff;
      font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,Arial,sans-serif;
      color:#111;
      padding:%dpx;
    }
    .wrap{ width:%dpx; min-height:1px; margin:0 auto; }
    .card{
      border:1px solid #e9e9e9;
      border-radius:26px;
      padding:22px;
      background:#fff;
      margin:0 0 22px 0;
    }
    .title{ font-size:34px; font-weight:800; margin:0 0 14px 0; }
    .row{
      display:flex;
      justify-content:space-between;
      gap:16px;
      padding:18px 0;
      border-top:1px solid #f1f1f1;
      align-items:center;
    }
    .row:first-of-type{ border-top:0; padding-top:6px; }
    .k{ font-size:26px; color:#444; }
    .v{ font-size:34px; font-weight:800; }
    .pos{ color:#0a7a2f; }
    .neg{ color:#b00020; }
    .zero{ color:#111; }
    table{ width:100%%; border-collapse:collapse; table-layout:fixed; margin-top:12px; }
    th, td{
      padding:18px 10px;
      border-top:1px solid #f1f1f1;
      text-align:right;
      white-space:nowrap;
    }
    th{
      text-align:left;
      font-size:26px;
      font-weight:800;
      background:#fafafa;
      border-top:0;
    }
    td{ font-size:34px; font-weight:800; }
    .time td{
      font-weight:600;
      font-size:22px;
      color:#9a9a9a;
      padding-top:12px;
      padding-bottom:6px;
    }
`, render.PagePadding, render.WrapWidth))

var funcs = template.FuncMap{
	"cls": ClassName,
	// blanks returns n placeholders for range.
	"blanks": func(n int) []struct{} {
		return make([]struct{}, max(n, 0))
	},
	"sub": func(a, b int) int { return a - b },
}

var page = template.Must(template.New("page").Funcs(funcs).Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8" />
<style>{{.CSS}}</style>
</head>
<body>
  <div class="wrap" data-columns="{{.Doc.Columns}}">
{{- range .Doc.Cards}}
    <div class="card card-{{.Kind}}">
      <div class="title">{{.Title}}</div>
{{- range .Pairs}}
      <div class="row"><div class="k">{{.Label}}</div><div class="v {{cls .Class}}">{{.Value}}</div></div>
{{- end}}
{{- range .Tables}}{{$table := .}}
{{- range $i, $seg := .Segments}}
      <table class="segment{{if $seg.Partial}} partial{{end}}">
{{- if eq $i 0}}
        <thead><tr><th>{{$table.Header}}</th>{{range blanks (sub $.Doc.Columns 1)}}<th></th>{{end}}</tr></thead>
{{- end}}
        <tbody>
          <tr class="values">{{range $seg.Cells}}<td class="{{cls .Class}}">{{.Text}}</td>{{end}}{{range blanks (sub $.Doc.Columns (len $seg.Cells))}}<td class="pad"></td>{{end}}</tr>
{{- if $table.Annotated}}
          <tr class="time">{{range $seg.Annotations}}<td>{{.}}</td>{{end}}{{range blanks (sub $.Doc.Columns (len $seg.Annotations))}}<td class="pad"></td>{{end}}</tr>
{{- end}}
        </tbody>
      </table>
{{- end}}
{{- end}}
    </div>
{{- end}}
  </div>
</body>
</html>
`))

// Markup renders doc as a complete HTML page.
func Markup(doc card.Document) ([]byte, error) {
	data := struct {
		CSS template.CSS
		Doc card.Document
	}{stylesheet, doc}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute card template: %w", err)
	}
	return buf.Bytes(), nil
}
