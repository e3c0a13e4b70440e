package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/banana-cart/internal/status"
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
	"orUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"verdictClass": func(s string) string {
		switch s {
		case "GOOD":
			return "good"
		case "ROTTEN":
			return "rotten"
		}
		return "unknown"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Banana Cart</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.good { color: green; font-weight: bold; }
.rotten { color: saddlebrown; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Banana Cart{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Cart</h2>
<table>
<tr><th>Motion</th><td>{{orUnknown (printf "%s" .Motion)}}</td></tr>
<tr><th>Distance</th><td>{{.DistanceCM}} cm</td></tr>
</table>

<h2>Last Inspection</h2>
<table>
{{with .Last}}<tr><th>Result</th><td id="verdict" class="{{verdictClass (printf "%s" .Verdict)}}">{{printf "%s" .Verdict}}</td></tr>
<tr><th>Gas</th><td id="gas">{{.GasPPM}} ppm</td></tr>
<tr><th>HSV</th><td id="hsv">{{printf "%.2f" .Color.H}} / {{printf "%.2f" .Color.S}} / {{printf "%.2f" .Color.V}}</td></tr>
<tr><th>At</th><td id="inspected">{{.Timestamp.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
{{else}}<tr><th>Result</th><td id="verdict" class="unknown">none yet</td></tr>
<tr><th>Gas</th><td id="gas">-</td></tr>
<tr><th>HSV</th><td id="hsv">-</td></tr>
<tr><th>At</th><td id="inspected">-</td></tr>
{{end}}</table>

<h2>Verdict Counts</h2>
<table>
<tr><th>GOOD</th><td id="count-good">{{.Counts.Good}}</td></tr>
<tr><th>ROTTEN</th><td id="count-rotten">{{.Counts.Rotten}}</td></tr>
<tr><th>Cycle errors</th><td>{{.CycleErrors}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Hold</th><td>{{.Config.HoldMs}}ms</td></tr>
<tr><th>Stop distance</th><td>{{.Config.StopDistanceCM}} cm</td></tr>
<tr><th>Thresholds</th><td>gas &gt; {{.Config.GasThreshold}} ppm or hue &ge; {{.Config.HueThreshold}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
{{if .Config.WSBroker}}
<script src="/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "cart/banana/inspections";
  var dot = document.getElementById("live-dot");
  var verdictEl = document.getElementById("verdict");
  var gasEl = document.getElementById("gas");
  var hsvEl = document.getElementById("hsv");
  var atEl = document.getElementById("inspected");
  var goodEl = document.getElementById("count-good");
  var rottenEl = document.getElementById("count-rotten");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  function bump(el) {
    el.textContent = String(parseInt(el.textContent, 10) + 1);
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      var i = msg.inspection;
      if (!i) return;
      verdictEl.textContent = i.result;
      verdictEl.className = i.result === "GOOD" ? "good" : "rotten";
      gasEl.textContent = i.gas_ppm + " ppm";
      hsvEl.textContent = i.hsv.h.toFixed(2) + " / " + i.hsv.s.toFixed(2) + " / " + i.hsv.v.toFixed(2);
      atEl.textContent = i.timestamp;
      bump(i.result === "GOOD" ? goodEl : rottenEl);
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
