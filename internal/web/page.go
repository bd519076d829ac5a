package web

const indexHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>shopkeep</title>
    <link rel="stylesheet" href="/static/app.css" />
  </head>
  <body>
    <main class="container">
      <header class="header">
        <h1 class="title">Products</h1>
        <div class="subtitle">{{if .APIURL}}Source: <span class="mono">{{.APIURL}}</span>{{end}}</div>
        {{if .LastError}}<div class="alert">Could not load products: {{.LastError}}</div>{{end}}
        {{if .Unsynced}}<div class="notice">{{.Unsynced}} product(s) changed locally only</div>{{end}}
      </header>

      <form class="toolbar" method="get" action="/">
        <input type="search" id="searchInput" name="q" value="{{.Query.Search}}" placeholder="Search titles" />
        {{if .Query.Sort}}
          <input type="hidden" name="sort" value="{{.Query.Sort}}" />
          <input type="hidden" name="dir" value="{{.Query.Dir}}" />
        {{end}}
        <select id="perPage" name="per_page">
          {{range .PerPage}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}} per page</option>{{end}}
        </select>
        <button type="submit">Apply</button>
        <a class="button" href="{{.ExportURL}}">Export CSV</a>
      </form>

      <section class="panel">
        {{.Table}}
        <div class="summary">{{.Summary}}</div>
      </section>
    </main>
  </body>
</html>
`

const appCSS = `
:root{
  --bg: #0b0c10;
  --panel: #111217;
  --text: #e8eaf0;
  --muted: #a6adbb;
  --line: rgba(255,255,255,0.08);
  --accent: #719cd6;
  --warn: #f4a261;
  --danger: #c94f6d;
  --mono: ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, "Liberation Mono", monospace;
  --sans: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial;
}
*{box-sizing:border-box}
body{margin:0; font-family:var(--sans); background:var(--bg); color:var(--text)}
a{color:var(--accent); text-decoration:none}
.container{max-width:1100px; margin:0 auto; padding:32px 20px 60px}
.header{margin-bottom:18px}
.title{margin:0; font-size:28px}
.subtitle{margin-top:6px; color:var(--muted); font-size:14px}
.mono{font-family:var(--mono)}
.alert{margin-top:10px; color:var(--danger)}
.notice{margin-top:10px; color:var(--warn)}
.toolbar{display:flex; gap:10px; align-items:center; margin-bottom:14px}
.toolbar input[type=search]{flex:1; padding:6px 10px}
.button{padding:6px 10px; border:1px solid var(--line); border-radius:6px}
.panel{background:var(--panel); border:1px solid var(--line); border-radius:12px; overflow:hidden}
.products{width:100%; border-collapse:collapse}
.products th,.products td{padding:8px 12px; border-bottom:1px solid var(--line); text-align:left}
.products th.sortable a{color:var(--text)}
.sort-indicator{color:var(--accent)}
.products tr.unsynced td:first-child::before{content:"* "; color:var(--warn)}
.thumb{width:40px; height:40px; object-fit:cover; border-radius:4px}
.empty td{color:var(--muted); text-align:center}
.pagination{display:flex; gap:6px; list-style:none; padding:12px; margin:0}
.page-item.active .page-link{font-weight:bold; color:var(--text)}
.page-item.disabled .page-link{color:var(--muted)}
.summary{padding:0 12px 12px; color:var(--muted); font-size:13px}
`
