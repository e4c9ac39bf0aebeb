package report

import (
	"html/template"
	"strings"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Resume Review</title>
<style>
  body { font-family: Georgia, serif; margin: 2.5rem; color: #1a1a1a; }
  h1 { font-size: 1.4rem; border-bottom: 2px solid #1a1a1a; padding-bottom: .4rem; }
  .ref { color: #555; font-size: .85rem; margin-bottom: 1.5rem; word-break: break-all; }
  .feedback { white-space: pre-wrap; line-height: 1.55; }
  .empty { color: #888; font-style: italic; }
</style>
</head>
<body>
<h1>Resume Review</h1>
<div class="ref">{{.DocumentRef}}</div>
{{if .Feedback}}<div class="feedback">{{.Feedback}}</div>{{else}}<div class="empty">No feedback available.</div>{{end}}
</body>
</html>
`))

type Data struct {
	DocumentRef string
	Feedback    string
}

// RenderHTML produces the printable review page for a document and its
// feedback text.
func RenderHTML(d Data) (string, error) {
	var sb strings.Builder
	if err := reportTmpl.Execute(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}
