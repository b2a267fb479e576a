package report

// reportTemplate is a single self-contained document: inline styles and
// an inline toggle script, no external assets.
const reportTemplate = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>AI News Digest {{.Date}}</title>
<style>
  :root { color-scheme: light; }
  body {
    margin: 0; padding: 24px;
    background: #f1f5f9; color: #0f172a;
    font-family: "Hiragino Sans", "Noto Sans JP", "Segoe UI", sans-serif;
  }
  header { max-width: 860px; margin: 0 auto 24px; }
  header h1 { font-size: 22px; margin: 0 0 4px; }
  header p { margin: 0; color: #64748b; font-size: 13px; }
  .card {
    max-width: 860px; margin: 0 auto 12px;
    background: #ffffff; border-radius: 12px;
    box-shadow: 0 1px 3px rgba(15, 23, 42, 0.08);
    overflow: hidden;
  }
  .card-head {
    display: flex; align-items: center; gap: 12px;
    padding: 14px 16px; cursor: pointer;
  }
  .avatar {
    flex: none; width: 40px; height: 40px; border-radius: 10px;
    display: flex; align-items: center; justify-content: center;
    color: #ffffff; font-weight: 700; font-size: 18px;
  }
  .card-head .meta { min-width: 0; }
  .card-head .source { font-size: 12px; color: #64748b; }
  .card-head .title { font-size: 15px; font-weight: 600; line-height: 1.4; }
  .panel { display: none; padding: 0 16px 16px; border-top: 1px solid #e2e8f0; }
  .panel.open { display: block; }
  .panel .summary { font-size: 14px; line-height: 1.7; margin: 12px 0; }
  .panel .origin a { font-size: 13px; color: #2563eb; text-decoration: none; }
  .block { margin: 12px 0; padding: 12px; border-radius: 8px; font-size: 13px; line-height: 1.7; }
  .block .label { font-weight: 700; display: block; margin-bottom: 4px; }
  .insight { background: #eff6ff; }
  .example { background: #f0fdf4; }
  .chips { display: flex; flex-wrap: wrap; gap: 6px; margin-top: 12px; }
  .chip {
    background: #f1f5f9; border: 1px solid #e2e8f0; border-radius: 999px;
    padding: 4px 10px; font-size: 12px; color: #334155;
  }
</style>
</head>
<body>
<header>
  <h1>AI News Digest</h1>
  <p>{{.Date}} ・ {{len .Articles}} articles</p>
</header>
{{range .Articles}}
<article class="card">
  <div class="card-head" onclick="togglePanel({{.Index}})">
    <div class="avatar" style="background: {{.Gradient}}">{{.Glyph}}</div>
    <div class="meta">
      <div class="source">{{.SourceName}}{{if .PublishedLabel}} ・ {{.PublishedLabel}}{{end}}</div>
      <div class="title">{{.Title}}</div>
    </div>
  </div>
  <div class="panel" id="panel-{{.Index}}">
    <p class="summary">{{.Summary}}</p>
    <p class="origin"><a href="{{.URL}}" target="_blank" rel="noopener">元記事を読む →</a></p>
    {{if .Insight}}
    <div class="block insight"><span class="label">考察</span>{{.Insight}}</div>
    {{end}}
    {{if .Example}}
    <div class="block example"><span class="label">具体例</span>{{.Example}}</div>
    {{end}}
    {{if .Chips}}
    <div class="chips">
      {{range .Chips}}<span class="chip">{{.}}</span>{{end}}
    </div>
    {{end}}
  </div>
</article>
{{end}}
<script>
function togglePanel(index) {
  var panel = document.getElementById("panel-" + index);
  if (panel) {
    panel.classList.toggle("open");
  }
}
</script>
</body>
</html>
`
