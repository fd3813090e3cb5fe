package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// printTemplateString is the print backend's page shell. It emits a
// single fixed A4 page sized to match the screen canvas exactly, so the
// headless browser converts it to PDF without reflow.
const printTemplateString = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
    body {
        margin: 0;
        padding: 0;
        font-family: 'Helvetica', 'Arial', sans-serif;
        font-size: 10pt;
        color: #111;
    }
    .a4-page {
        width: {{.PageWidth}}px;
        height: {{.PageHeight}}px;
        background: white;
        margin: 0;
        padding: 28px 36px;
        box-sizing: border-box;
    }
    .page-header {
        text-align: center;
        border-bottom: 1px solid #d1d5db;
        padding-bottom: 8px;
        margin-bottom: 12px;
    }
    .page-header h1 {
        font-size: 18pt;
        text-transform: uppercase;
        margin: 0 0 4px 0;
        {{.AccentStyle | safeCSS}}
    }
    .page-header h2 {
        font-size: 12pt;
        font-weight: 600;
        color: #374151;
        margin: 0 0 4px 0;
    }
    .page-header p {
        font-size: 10pt;
        color: #4b5563;
        text-align: justify;
        margin: 2px 0 0 0;
    }
    .columns { display: flex; gap: 14px; }
    .column { box-sizing: border-box; }
    .column + .column { border-left: 1px solid #d1d5db; padding-left: 12px; }
    .section { margin-bottom: 10px; }
    .section h3 {
        font-size: 10pt;
        text-transform: uppercase;
        color: #1f2937;
        border-bottom: 1px solid #d1d5db;
        padding-bottom: 2px;
        margin: 0 0 4px 0;
    }
    .group-label { font-size: 9pt; font-style: italic; margin: 2px 0; }
    .item { margin-bottom: 5px; font-size: 9pt; color: #374151; }
    .item .primary { font-weight: bold; }
    .item .meta { font-size: 8pt; color: #6b7280; font-style: italic; }
    .item ul { margin: 2px 0 0 0; padding-left: 14px; }
    .item a { color: #2563eb; text-decoration: underline; margin-right: 8px; }
</style>
</head>
<body>
<div class="a4-page">
    <div class="page-header">
        <h1>{{.Tree.Header.FullName}}</h1>
        <h2>{{.Tree.Header.Designation}}</h2>
        {{if .Tree.Header.Summary}}<p>{{.Tree.Header.Summary}}</p>{{end}}
    </div>
    <div class="columns">
        {{range .Tree.Columns}}
        <div class="column" style="{{printf "width: %d%%" .WidthPercent | safeCSS}}">
            {{range .Sections}}
            <div class="section">
                <h3>{{.Title}}</h3>
                {{range .Groups}}
                    {{if .Label}}<div class="group-label">{{.Label}}</div>{{end}}
                    {{range .Items}}
                    <div class="item">
                        {{if .Primary}}<span class="primary">{{.Primary}}</span>{{end}}
                        {{if .Secondary}}<span> {{.Secondary}}</span>{{end}}
                        {{if .Meta}}<div class="meta">{{.Meta}}</div>{{end}}
                        {{if .Lines}}
                        <ul>
                            {{range .Lines}}<li>{{.}}</li>{{end}}
                        </ul>
                        {{end}}
                        {{range .Links}}<a href="{{.URL}}">{{.Label}}</a>{{end}}
                    </div>
                    {{end}}
                {{end}}
            </div>
            {{end}}
        </div>
        {{end}}
    </div>
</div>
</body>
</html>
`

var printTemplate = template.Must(template.New("print").Funcs(template.FuncMap{
	"safeCSS": func(css string) template.CSS {
		return template.CSS(css)
	},
	"safeHTML": func(html string) template.HTML {
		return template.HTML(html)
	},
}).Parse(printTemplateString))

type printPage struct {
	Tree        *Tree
	PageWidth   int
	PageHeight  int
	AccentStyle string
}

// Print renders the tree into the fixed-size A4 HTML document consumed
// by the export pipeline. No scaling is applied in this mode.
func Print(tree *Tree) (string, error) {
	page := printPage{
		Tree:       tree,
		PageWidth:  BaseWidth,
		PageHeight: BaseHeight,
	}
	if len(tree.Palette) > 0 {
		page.AccentStyle = fmt.Sprintf("color: %s;", tree.Palette[0])
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("execute print template: %w", err)
	}
	return buf.String(), nil
}
