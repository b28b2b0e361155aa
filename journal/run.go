package journal

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
)

// RunSummary describes one finished engine run.
type RunSummary struct {
	RunID     string
	Source    string // "demo", "run:<config>", "replay:<csv>"
	Started   time.Time
	Finished  time.Time
	Trades    int
	Pending   int
	Positions int

	StartBalance decimal.Decimal
	EndValue     decimal.Decimal
	EndCash      decimal.Decimal
	ReturnPct    decimal.Decimal
}

// NetPL is EndValue less StartBalance.
func (r RunSummary) NetPL() decimal.Decimal {
	return r.EndValue.Sub(r.StartBalance)
}

// RunRecorder is implemented by journals that keep run summaries.
type RunRecorder interface {
	RecordRun(RunSummary) error
}

var runOrgFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var runOrgTmpl = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// WriteOrg renders the summary as an Org-mode block.
func (r RunSummary) WriteOrg(w io.Writer) error {
	if err := runOrgTmpl.Execute(w, r); err != nil {
		return fmt.Errorf("render run %s: %w", r.RunID, err)
	}
	return nil
}

const RunOrgTemplate = `* RUN: {{if .Source}}{{.Source}}{{else}}(source?){{end}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:STARTED:     [{{(orTime .Started).Format "2006-01-02 Mon 15:04"}}]
:FINISHED:    [{{(orTime .Finished).Format "2006-01-02 Mon 15:04"}}]
:START_BAL:   {{money .StartBalance}}
:END_VALUE:   {{money .EndValue}}
:END_CASH:    {{money .EndCash}}
:NET_PL:      {{money .NetPL}}
:RETURN_PCT:  {{money .ReturnPct}}
:TRADES:      {{.Trades}}
:PENDING:     {{.Pending}}
:POSITIONS:   {{.Positions}}
:END:

** Performance Summary
- Net P/L:   *{{money .NetPL}}*
- Return:    *{{money .ReturnPct}}%*
- Trades:    *{{.Trades}}* ({{.Pending}} still resting)
`
