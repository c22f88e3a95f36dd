package web

import (
	"bytes"
	"fmt"
	"html/template"
)

type templates struct {
	set *template.Template
}

func loadTemplates() *templates {
	set := template.Must(template.New("page").Parse(pageTemplate))
	template.Must(set.New("board").Parse(boardTemplate))

	return &templates{set: set}
}

func (that *templates) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := that.set.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

const pageTemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8"/>
<title>Tic-tac-toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
</head>
<body>
{{template "board" .}}
</body>
</html>`

const boardTemplate = `<div id="game" class="game">
  <div class="game-board">
    <div class="status">{{.Status}}</div>
    {{range .Rows}}
    <div class="board-row">
      {{range .}}
      <form hx-post="/play" hx-target="#game" hx-swap="outerHTML" method="post" action="/play">
        <input type="hidden" name="r" value="{{.Row}}">
        <input type="hidden" name="c" value="{{.Col}}">
        <button class="square" type="submit">{{.Mark}}</button>
      </form>
      {{end}}
    </div>
    {{end}}
  </div>
  <div class="game-info">
    <ol>
      {{range .Moves}}
      <li{{if .Current}} class="current"{{end}}>
        <form hx-post="/jump" hx-target="#game" hx-swap="outerHTML" method="post" action="/jump">
          <input type="hidden" name="move" value="{{.Index}}">
          <button type="submit">{{.Label}}</button>
        </form>
      </li>
      {{end}}
    </ol>
    <form hx-post="/reset" hx-target="#game" hx-swap="outerHTML" method="post" action="/reset">
      <button type="submit">New game</button>
    </form>
  </div>
</div>`
