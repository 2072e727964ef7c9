// Package export 将对话渲染为独立的 HTML 文档
package export

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	mathchat "github.com/riverfjs/mathchat-go"
	"github.com/riverfjs/mathchat-go/internal/backend"
	"github.com/riverfjs/mathchat-go/internal/chat"
)

// Source 对话快照来源，*chat.Conversation 实现了该接口
type Source interface {
	Messages() []chat.Message
	FeedbackFor(index int) (backend.Feedback, bool)
	CanRate(index int) bool
	SessionID() string
}

// View 单条消息的展示数据，网页与导出共用
type View struct {
	Index    int
	Number   int
	Message  chat.Message
	Body     template.HTML
	Rateable bool
	Feedback backend.Feedback
	Rated    bool
}

// Role 消息角色
func (v View) Role() string {
	return string(v.Message.Role)
}

// Classes 消息容器的 class
func (v View) Classes() string {
	classes := []string{mathchat.DefaultConfig().Classes.Message, string(v.Message.Role)}
	if v.Message.Regenerated {
		classes = append(classes, "regenerated")
	}
	if v.Message.Error {
		classes = append(classes, "error")
	}
	return strings.Join(classes, " ")
}

// Body 渲染消息正文：切分、排版并输出为 HTML，文本已在 mathchat.HTML 中转义
func Body(text string, opts ...mathchat.Option) template.HTML {
	nodes := mathchat.Render(mathchat.SegmentWith(text, opts...), opts...)
	return template.HTML(mathchat.HTML(nodes, opts...))
}

// Views 生成对话的展示数据
func Views(src Source, opts ...mathchat.Option) []View {
	msgs := src.Messages()
	views := make([]View, len(msgs))
	for i, m := range msgs {
		v := View{
			Index:    i,
			Number:   i + 1,
			Message:  m,
			Body:     Body(m.Text, opts...),
			Rateable: src.CanRate(i),
		}
		v.Feedback, v.Rated = src.FeedbackFor(i)
		views[i] = v
	}
	return views
}

var funcs = template.FuncMap{
	"label": func(f backend.Feedback) string { return f.Label() },
	"clock": func(t time.Time) string { return t.Format("15:04") },
}

// Transcript 消息列表片段，参数为 []View
//
// 可评价的消息会调用 "actions" 子模板（默认为空），Clone 后重新定义即可加入按钮。
var Transcript = template.Must(template.New("transcript").Funcs(funcs).Parse(transcriptTemplate))

var document = template.Must(template.Must(Transcript.Clone()).New("document").Parse(documentTemplate))

// Document 将对话写为完整的 HTML 文档
func Document(w io.Writer, title string, src Source, opts ...mathchat.Option) error {
	data := struct {
		Title     string
		SessionID string
		Exported  time.Time
		CSS       template.CSS
		Messages  []View
	}{
		Title:     title,
		SessionID: src.SessionID(),
		Exported:  time.Now(),
		CSS:       template.CSS(Stylesheet),
		Messages:  Views(src, opts...),
	}
	if err := document.ExecuteTemplate(w, "document", data); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

const transcriptTemplate = `{{range .}}<article class="{{.Classes}}" id="m{{.Number}}">
<header><span class="num">#{{.Number}}</span> <span class="role">{{.Role}}</span>{{if .Message.Regenerated}} <span class="tag">regenerated</span>{{end}} <time>{{clock .Message.Time}}</time></header>
<div class="body">{{.Body}}</div>
{{- if or .Rated .Rateable}}
<footer class="feedback">{{if .Rated}}<span class="rated">{{label .Feedback}}</span>{{end}}{{if .Rateable}}{{template "actions" .}}{{end}}</footer>
{{- end}}
</article>
{{end}}{{define "actions"}}{{end}}`

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Session {{.SessionID}} · exported {{.Exported.Format "2006-01-02 15:04"}}</p>
<main class="transcript">
{{template "transcript" .Messages}}</main>
</body>
</html>
`

// Stylesheet 导出文档与网页共用的样式
const Stylesheet = `
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
.meta { color: #777; font-size: .85rem; }
.message { border-radius: .5rem; padding: .6rem .9rem; margin: .8rem 0; }
.message.user { background: #e8f0fe; margin-left: 4rem; }
.message.assistant { background: #f4f4f6; margin-right: 4rem; }
.message.regenerated { border-left: 3px solid #8a6de9; }
.message.error { background: #fdecea; color: #a12622; }
.message header { font-size: .75rem; color: #888; margin-bottom: .3rem; }
.message .body { white-space: pre-wrap; line-height: 1.5; }
.math { font-family: "STIX Two Math", "Cambria Math", serif; }
.math-inline { font-style: italic; }
.math-block { display: block; text-align: center; margin: .5rem 0; white-space: pre; }
.math-error { color: #c62828; text-decoration: underline dotted; font-family: monospace; }
.feedback { font-size: .8rem; margin-top: .4rem; }
.feedback button { margin-right: .3rem; }
`
