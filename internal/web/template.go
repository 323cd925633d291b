package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/flow-rig/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Flow Rig</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ready { color: green; font-weight: bold; }
.measuring { color: orange; font-weight: bold; }
.open { color: orange; font-weight: bold; }
.closed { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Flow Rig</h1>

<h2>State</h2>
<table>
<tr><th>Rig</th><td class="{{if eq (printf "%s" .State) "MEASURING"}}measuring{{else}}ready{{end}}">{{.State}}</td></tr>
<tr><th>Valve</th><td class="{{if eq (printf "%s" .Valve) "OPEN"}}open{{else}}closed{{end}}">{{.Valve}}</td></tr>
</table>

<h2>Last Measurement</h2>
<table>
{{if .Last}}
<tr><th>Button</th><td>{{.Last.Button}}</td></tr>
<tr><th>Mode</th><td>{{.Last.Mode}}</td></tr>
<tr><th>Window</th><td>{{.Last.Seconds}}s</td></tr>
<tr><th>Pulses</th><td>{{.Last.Pulses}}</td></tr>
<tr><th>Finished</th><td>{{.Last.Finished.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
{{else}}
<tr><td colspan="2">none yet</td></tr>
{{end}}
</table>

<h2>Measurement Counts</h2>
<table>
<tr><th>1s (split)</th><td>{{.Counts.OneSec}}</td></tr>
<tr><th>3s (split)</th><td>{{.Counts.ThreeSec}}</td></tr>
<tr><th>10s (full)</th><td>{{.Counts.TenSec}}</td></tr>
<tr><th>100s (full)</th><td>{{.Counts.HundredSec}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms ({{.Config.DebounceMode}})</td></tr>
<tr><th>Split</th><td>{{.Config.SplitCycles}} cycles, {{.Config.SplitPauseMs}}ms pause</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
