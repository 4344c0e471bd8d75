// Package templates renders the page shells. Data arrives afterwards over
// the SSE endpoints.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"pasale-dashboard/internal/models"
)

const datastarScript = `<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>`

func head(title string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>` + templ.EscapeString(title) + `</title>
` + datastarScript + `
<style>
body { font-family: Arial, sans-serif; margin: 0; background: #f6f7fb; color: #1f2937; }
header { background: #111827; color: #fff; padding: 16px 24px; display: flex; justify-content: space-between; }
main { padding: 24px; display: grid; gap: 24px; }
section { background: #fff; border-radius: 8px; padding: 16px; }
.metrics { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 12px; }
.metric { border: 1px solid #e5e7eb; border-radius: 6px; padding: 12px; }
.notice { color: #b45309; }
.modern-table { width: 100%; border-collapse: collapse; }
.modern-table th, .modern-table td { border-bottom: 1px solid #e5e7eb; padding: 8px; text-align: left; }
</style>
</head>
`
}

// Dashboard is the signed-in shell: revenue, AI analytics and reports.
func Dashboard(user *models.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := "Owner"
		tier := string(models.TierFree)
		if user != nil {
			if user.Name != "" {
				name = user.Name
			}
			if user.SubscriptionTier != "" {
				tier = string(user.SubscriptionTier)
			}
		}

		_, err := io.WriteString(w, head("Pasale Dashboard")+`<body data-signals="{revenueSeries: [], categoryData: [], forecastSeries: [], demandPatterns: [], notices: [], fallbacks: []}">
<header>
<strong>Pasale</strong>
<span>`+templ.EscapeString(name)+` &middot; `+templ.EscapeString(tier)+`</span>
<button data-on:click="@post('/api/auth/logout'); window.location = '/login'">Log out</button>
</header>
<main>
<section data-init="@get('/sse/revenue?range=30d')">
<h2>Revenue</h2>
<select data-on:change="@get('/sse/revenue?range=' + evt.target.value)">
<option value="7d">Last 7 days</option>
<option value="30d" selected>Last 30 days</option>
<option value="90d">Last 90 days</option>
<option value="1y">Last year</option>
</select>
<a href="/api/reports/export?format=csv&range=30d">Export CSV</a>
<div id="revenue-summary">Loading revenue...</div>
</section>
<section data-init="@get('/sse/ai-analytics')">
<h2>AI Insights</h2>
<div id="recommendations-content">Loading recommendations...</div>
</section>
<section data-init="@get('/sse/reports')">
<h2>Reports</h2>
<input type="search" placeholder="Search reports" data-on:input__debounce.300ms="@get('/sse/reports?q=' + encodeURIComponent(evt.target.value))">
<select data-on:change="@get('/sse/reports?status=' + evt.target.value)">
<option value="all" selected>All Status</option>
<option value="completed">Completed</option>
<option value="generating">Generating</option>
<option value="failed">Failed</option>
</select>
<div id="reports-content">Loading reports...</div>
</section>
</main>
</body>
</html>`)
		return err
	})
}

// Login is the sign-in page. The form posts JSON to the auth API and
// shows the envelope's message on failure.
func Login() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, head("Sign in - Pasale")+`<body>
<main>
<section>
<h2>Sign in</h2>
<form id="login-form">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
<p id="login-error" class="notice"></p>
</form>
</section>
</main>
<script>
document.getElementById('login-form').addEventListener('submit', async (e) => {
  e.preventDefault();
  const body = JSON.stringify(Object.fromEntries(new FormData(e.target)));
  const resp = await fetch('/api/auth/login', {method: 'POST', headers: {'Content-Type': 'application/json'}, body});
  const env = await resp.json();
  if (env.success) { window.location = '/'; return; }
  document.getElementById('login-error').textContent = env.error.message;
});
</script>
</body>
</html>`)
		return err
	})
}
