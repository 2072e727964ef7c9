package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riverfjs/mathchat-go/internal/backend"
)

// command 解析后的斜杠命令
type command struct {
	name string
	arg  string
}

// parseCommand 解析以 / 开头的输入，非命令返回 false
//
// 只有 / 后紧跟字母（或 /?）才算命令，"/2 of 6?" 这样的输入按问题发送；
// "//" 开头的输入也按问题发送，见 questionText。
func parseCommand(line string) (command, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") || strings.HasPrefix(line, "//") {
		return command{}, false
	}
	name, arg, _ := strings.Cut(line[1:], " ")
	if !isCommandName(name) {
		return command{}, false
	}
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, true
}

func isCommandName(name string) bool {
	if name == "?" {
		return true
	}
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// questionText 去掉转义用的 "//" 中的第一个 /
func questionText(line string) string {
	if i := strings.Index(line, "//"); i >= 0 && strings.TrimSpace(line[:i]) == "" {
		return line[:i] + line[i+1:]
	}
	return line
}

// feedbackKind /correct、/incorrect、/clarify 对应的评价
func (c command) feedbackKind() (backend.Feedback, bool) {
	f, err := backend.ParseFeedback(c.name)
	return f, err == nil
}

// target 评价目标的消息位置：参数为界面上显示的编号，缺省为 last
func (c command) target(last int) (int, error) {
	if c.arg == "" {
		if last < 0 {
			return -1, fmt.Errorf("no answer to rate yet")
		}
		return last, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(c.arg, "#"))
	if err != nil || n < 1 {
		return -1, fmt.Errorf("invalid message number %q", c.arg)
	}
	return n - 1, nil
}

const helpMarkdown = `# Math Professor

Ask any math question and press **Enter**. Use ` + "`$...$`" + ` for inline math
and ` + "`$$...$$`" + ` for display math.

| Command | Action |
|---|---|
| ` + "`/correct [n]`" + ` | mark answer *n* (default: latest) as correct |
| ` + "`/incorrect [n]`" + ` | mark answer *n* as incorrect and ask for a new one |
| ` + "`/clarify [n]`" + ` | ask for a clearer explanation of answer *n* |
| ` + "`/export [file]`" + ` | save the conversation as an HTML file |
| ` + "`/help`" + ` | show this help |
| ` + "`/quit`" + ` | exit |

Start a question with ` + "`//`" + ` to send it literally, e.g. ` + "`//help me`" + ` sends ` + "`/help me`" + `.

Keys: **ctrl+y** copies the latest answer, **PgUp/PgDn** scroll,
**Esc** closes this help, **ctrl+c** quits.
`
