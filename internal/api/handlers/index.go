package handlers

import (
	"html/template"
	"net/http"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="zh-Hant">
<head>
  <meta charset="utf-8">
  <title>銷售資料查詢</title>
  <style>
    body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
    textarea { width: 100%; height: 6rem; font-family: monospace; }
    table { border-collapse: collapse; margin-top: 1rem; }
    td, th { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
    pre { background: #f5f5f5; padding: 0.5rem; overflow-x: auto; }
  </style>
</head>
<body>
  <h1>銷售資料查詢</h1>
  <section>
    <h2>自然語言查詢</h2>
    <textarea id="question" placeholder="例如：上個月哪個品項賣最好？"></textarea>
    <button onclick="ask()">查詢</button>
  </section>
  <section>
    <h2>SQL 查詢</h2>
    <textarea id="sql" placeholder="SELECT * FROM sales LIMIT 10"></textarea>
    <button onclick="runSQL()">執行</button>
  </section>
  <section id="output"></section>
  <script>
    async function post(path, body) {
      const res = await fetch(path, {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify(body),
      });
      return res.json();
    }
    function render(data) {
      const out = document.getElementById("output");
      if (data.error) { out.innerHTML = "<pre>" + data.error + "</pre>"; return; }
      let html = "";
      if (data.sql) html += "<pre>" + data.sql + "</pre>";
      const rows = data.results || [];
      if (rows.length === 0) { out.innerHTML = html + "<p>沒有結果</p>"; return; }
      const cols = Object.keys(rows[0]);
      html += "<table><tr>" + cols.map(c => "<th>" + c + "</th>").join("") + "</tr>";
      for (const row of rows) {
        html += "<tr>" + cols.map(c => "<td>" + row[c] + "</td>").join("") + "</tr>";
      }
      out.innerHTML = html + "</table>";
    }
    async function ask() {
      render(await post("/api/nl-query", { question: document.getElementById("question").value }));
    }
    async function runSQL() {
      render(await post("/api/raw-sql", { sql: document.getElementById("sql").value }));
    }
  </script>
</body>
</html>
`))

// Index handles GET /
func (h *QueryHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexTmpl.Execute(w, nil)
}
