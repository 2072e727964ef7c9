package web

import (
	"html/template"

	"github.com/riverfjs/mathchat-go/internal/backend"
	"github.com/riverfjs/mathchat-go/internal/export"
)

// pageTemplate 在导出用的消息模板上加入评价按钮
func pageTemplate() *template.Template {
	t := template.Must(export.Transcript.Clone())
	t.Funcs(template.FuncMap{
		"feedbacks": func() []backend.Feedback { return backend.Feedbacks },
	})
	template.Must(t.Parse(actionsTemplate))
	template.Must(t.New("page").Parse(pageHTML))
	return t
}

const actionsTemplate = `{{define "actions"}}{{$v := .}}{{range feedbacks}}` +
	`<form method="post" action="/feedback/{{$v.Index}}/{{.}}" class="rate">` +
	`<button type="submit"{{if and $v.Rated (eq $v.Feedback .)}} class="selected"{{end}}>{{label .}}</button>` +
	`</form>{{end}}{{end}}`

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Math Professor</title>
<style>{{.CSS}}</style>
</head>
<body>
<h1>Math Professor</h1>
<p class="meta">Session {{.SessionID}}</p>
<main class="transcript">
{{template "transcript" .Messages}}</main>
{{if .Loading}}<p class="loading">The professor is thinking...</p>{{end}}
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
<form method="post" action="/send" class="ask" id="bottom">
<textarea name="question" rows="3" placeholder="Ask a math question" required autofocus></textarea>
<button type="submit">Send</button>
</form>
</body>
</html>
`

const pageCSS = `
form.rate { display: inline; }
form.rate button.selected { font-weight: bold; outline: 2px solid #8a6de9; }
form.ask { display: flex; gap: .5rem; margin-top: 1rem; }
form.ask textarea { flex: 1; font: inherit; padding: .4rem; }
.notice { color: #a12622; }
.loading { color: #777; font-style: italic; }
`
