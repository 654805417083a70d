package main

import (
	"flag"
	"html/template"
	"net/http"

	"github.com/taiwanway/sales-tracker/internal/config"
	"github.com/taiwanway/sales-tracker/internal/infra/sqlite"
	"github.com/taiwanway/sales-tracker/internal/logger"
)

// A minimal local SQL console. Unlike the query API this executes whatever
// statement it is given, including writes. Bind it to localhost only.
var consoleTmpl = template.Must(template.New("console").Parse(`<!DOCTYPE html>
<html lang="zh-Hant">
<head>
  <meta charset="utf-8">
  <title>SQL Console</title>
  <style>
    body { font-family: monospace; max-width: 70rem; margin: 2rem auto; padding: 0 1rem; }
    textarea { width: 100%; height: 8rem; font-family: monospace; }
    table { border-collapse: collapse; margin-top: 1rem; }
    td, th { border: 1px solid #999; padding: 0.25rem 0.5rem; }
    .error { color: #b00; }
  </style>
</head>
<body>
  <h1>SQL Console</h1>
  <form method="post" action="/">
    <textarea name="sql">{{.SQL}}</textarea>
    <button type="submit">執行</button>
  </form>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  {{if .Result}}
    {{if .Result.IsSelect}}
      <p>{{len .Result.Rows}} 列</p>
      <table>
        <tr>{{range .Result.Columns}}<th>{{.}}</th>{{end}}</tr>
        {{range .Result.Rows}}
          <tr>{{$row := .}}{{range $.Result.Columns}}<td>{{index $row .}}</td>{{end}}</tr>
        {{end}}
      </table>
    {{else}}
      <p>已執行，影響 {{.Result.AffectedRows}} 列</p>
    {{end}}
  {{end}}
</body>
</html>
`))

type page struct {
	SQL    string
	Error  string
	Result *sqlite.QueryResult
}

func main() {
	var (
		addr   = flag.String("addr", "127.0.0.1:5050", "listen address")
		dbPath = flag.String("db", "", "sales database path (overrides SALES_DB env)")
	)
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbPath != "" {
		cfg.SalesDB = *dbPath
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		p := page{}
		if r.Method == http.MethodPost {
			p.SQL = r.FormValue("sql")
			if p.SQL != "" {
				p.Result, p.Error = run(r, cfg.SalesDB, p.SQL)
			}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := consoleTmpl.Execute(w, p); err != nil {
			log.Error().Err(err).Msg("Rendering console failed")
		}
	})

	log.Info().Str("addr", *addr).Str("db", cfg.SalesDB).Msg("Starting SQL console")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal().Err(err).Msg("Console server stopped")
	}
}

func run(r *http.Request, dbPath, query string) (*sqlite.QueryResult, string) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err.Error()
	}
	defer db.Close()

	result, err := db.RunQuery(r.Context(), query)
	if err != nil {
		return nil, err.Error()
	}
	return result, ""
}
