package dashboard

import (
	"encoding/json"
	"fmt"

	"github.com/osteele/liquid"
)

// pageTemplate is the whole dashboard page. The document is bound as plain
// maps so the template sees the same field names as the JSON artifact.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ account_name }} - Ad Performance</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; background: #f4f6f8; color: #1d2733; }
header { background: #1d2733; color: #fff; padding: 24px 32px; }
header h1 { margin: 0 0 4px; font-size: 22px; }
header p { margin: 0; color: #9fb0c3; font-size: 13px; }
main { padding: 24px 32px; }
.narrative { background: #fff; border-radius: 8px; padding: 16px 20px; margin-bottom: 24px; line-height: 1.5; }
.cards { display: flex; flex-wrap: wrap; gap: 12px; margin-bottom: 24px; }
.card { background: #fff; border-radius: 8px; padding: 14px 18px; min-width: 220px; border-left: 4px solid #c3ccd6; }
.card.warning { border-left-color: #e8a23d; }
.card.critical { border-left-color: #d9534f; }
.card.good { border-left-color: #4cae6f; }
.card h3 { margin: 0 0 6px; font-size: 14px; }
.card p { margin: 0; font-size: 13px; color: #4a5a6a; }
table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; margin-bottom: 24px; }
th { text-align: left; font-size: 12px; text-transform: uppercase; color: #6b7a89; padding: 10px 14px; border-bottom: 2px solid #e3e8ee; }
td { padding: 9px 14px; border-bottom: 1px solid #eef1f5; font-size: 14px; }
.rec { background: #fff; border-radius: 8px; padding: 16px 20px; margin-bottom: 12px; }
.rec .priority-high { color: #d9534f; font-weight: 600; }
.rec .priority-medium { color: #e8a23d; font-weight: 600; }
.rec .priority-low { color: #6b7a89; font-weight: 600; }
.rec .formula { font-family: ui-monospace, monospace; font-size: 12px; background: #f4f6f8; padding: 6px 10px; border-radius: 4px; margin-top: 8px; }
.rec ul { margin: 8px 0 0; padding-left: 18px; font-size: 13px; color: #4a5a6a; }
.badge { display: inline-block; font-size: 11px; padding: 2px 8px; border-radius: 10px; background: #e3f2e9; color: #2c7a4b; margin-left: 8px; }
.badge.manual { background: #fdf0e0; color: #9a6a1f; }
h2 { font-size: 16px; margin: 24px 0 12px; }
</style>
</head>
<body>
<header>
<h1>{{ account_name }} - {{ platform }}</h1>
<p>{{ date_range.start_date }} to {{ date_range.end_date }} &middot; generated {{ generated_at }}</p>
</header>
<main>
<div class="narrative">{{ narrative }}</div>

<div class="cards">
{% for card in insight_cards %}
<div class="card {{ card.severity }}"><h3>{{ card.title }}</h3><p>{{ card.body }}</p></div>
{% endfor %}
</div>

<h2>Campaigns</h2>
<table>
<tr><th>Campaign</th><th>Status</th><th>Spend</th><th>Clicks</th><th>Conv</th><th>CPA</th><th>CTR %</th></tr>
{% for c in campaigns %}
<tr><td>{{ c.name }}</td><td>{{ c.status }}</td><td>{{ currency }} {{ c.spend }}</td><td>{{ c.clicks }}</td><td>{{ c.conversions }}</td><td>{{ currency }} {{ c.cpa }}</td><td>{{ c.ctr }}</td></tr>
{% endfor %}
</table>

{% if keywords %}
<h2>Keywords</h2>
<table>
<tr><th>Keyword</th><th>Ad group</th><th>Spend</th><th>Clicks</th><th>Conv</th><th>CPA</th><th>QS</th></tr>
{% for k in keywords %}
<tr><td>{{ k.keyword }}</td><td>{{ k.ad_group }}</td><td>{{ currency }} {{ k.spend }}</td><td>{{ k.clicks }}</td><td>{{ k.conversions }}</td><td>{{ currency }} {{ k.cpa }}</td><td>{{ k.quality_score }}</td></tr>
{% endfor %}
</table>
{% endif %}

{% if search_queries %}
<h2>Search queries</h2>
<table>
<tr><th>Search term</th><th>Spend</th><th>Clicks</th><th>Conv</th></tr>
{% for q in search_queries %}
<tr><td>{{ q.search_term }}</td><td>{{ currency }} {{ q.spend }}</td><td>{{ q.clicks }}</td><td>{{ q.conversions }}</td></tr>
{% endfor %}
</table>
{% endif %}

{% if geo %}
<h2>Locations</h2>
<table>
<tr><th>Location</th><th>Spend</th><th>Clicks</th><th>Conv</th><th>CPA</th></tr>
{% for g in geo %}
<tr><td>{{ g.location }}</td><td>{{ currency }} {{ g.spend }}</td><td>{{ g.clicks }}</td><td>{{ g.conversions }}</td><td>{{ currency }} {{ g.cpa }}</td></tr>
{% endfor %}
</table>
{% endif %}

<h2>Top recommendations</h2>
{% for rec in top_recommendations %}
<div class="rec">
<span class="priority-{{ rec.priority }}">{{ rec.priority | upcase }}</span>
{% if rec.automatable %}<span class="badge">auto-apply</span>{% else %}<span class="badge manual">manual</span>{% endif %}
<h3>{{ rec.action }}</h3>
<p>{{ rec.reason }}</p>
<p><strong>{{ rec.expected_impact }}</strong> &middot; net {{ currency }} {{ rec.net_benefit_monthly }}/month at {{ rec.confidence_pct }}% confidence</p>
<div class="formula">{{ rec.formula }}</div>
{% if rec.assumptions %}
<ul>
{% for a in rec.assumptions %}<li>{{ a }}</li>{% endfor %}
</ul>
{% endif %}
{% unless rec.automatable %}<p><em>{{ rec.manual_reason }}</em></p>{% endunless %}
</div>
{% endfor %}
</main>
</body>
</html>
`

// RenderHTML renders the dashboard document to a standalone HTML page.
func RenderHTML(doc Document) (string, error) {
	// Round-trip through JSON so the template sees the artifact's snake_case
	// field names.
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("dashboard bindings: %w", err)
	}
	var bindings map[string]any
	if err := json.Unmarshal(b, &bindings); err != nil {
		return "", fmt.Errorf("dashboard bindings: %w", err)
	}

	engine := liquid.NewEngine()
	out, err := engine.ParseAndRenderString(pageTemplate, bindings)
	if err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return out, nil
}
