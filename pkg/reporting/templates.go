/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML templates for tablesynth plan reports. Provides a modern,
responsive summary page for a synthesized plan covering validation status,
alignment, filter conditions, neighbor rules, and per-column transforms.
*/

package reporting

// reportTemplate is the main HTML template for the plan report
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - tablesynth</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            color: #333;
        }

        .container {
            max-width: 1100px;
            margin: 0 auto;
            padding: 20px;
        }

        .header {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 20px;
            padding: 30px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
            text-align: center;
        }

        .header h1 {
            color: #4a5568;
            font-size: 2.2rem;
            margin-bottom: 10px;
            font-weight: 700;
        }

        .header p {
            color: #718096;
        }

        .badge {
            display: inline-block;
            padding: 6px 16px;
            border-radius: 999px;
            font-weight: 600;
            margin-top: 12px;
        }

        .badge.validated {
            background: #c6f6d5;
            color: #22543d;
        }

        .badge.unvalidated {
            background: #fed7d7;
            color: #742a2a;
        }

        .cards {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }

        .card {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 16px;
            padding: 20px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
            text-align: center;
        }

        .card .value {
            font-size: 1.8rem;
            font-weight: 700;
            color: #4a5568;
        }

        .card .label {
            color: #718096;
            margin-top: 4px;
        }

        .section {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 16px;
            padding: 24px;
            margin-bottom: 24px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .section h2 {
            color: #4a5568;
            font-size: 1.3rem;
            margin-bottom: 16px;
        }

        table {
            width: 100%;
            border-collapse: collapse;
        }

        th, td {
            text-align: left;
            padding: 10px 12px;
            border-bottom: 1px solid #e2e8f0;
        }

        th {
            color: #718096;
            font-weight: 600;
        }

        code {
            background: #edf2f7;
            border-radius: 6px;
            padding: 2px 6px;
            font-size: 0.95em;
        }

        ul {
            list-style: none;
        }

        li {
            padding: 8px 0;
            border-bottom: 1px solid #e2e8f0;
        }

        .empty {
            color: #a0aec0;
            font-style: italic;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <p>Plan <code>{{.PlanID}}</code> · generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
            {{if .Validated}}
            <span class="badge validated">Validated by exact replay</span>
            {{else}}
            <span class="badge unvalidated">Best effort — replay did not match</span>
            {{end}}
        </div>

        <div class="cards">
            <div class="card">
                <div class="value">{{.InputRows}}</div>
                <div class="label">Input rows</div>
            </div>
            <div class="card">
                <div class="value">{{.OutputRows}}</div>
                <div class="label">Output rows</div>
            </div>
            <div class="card">
                <div class="value">{{len .OutputColumns}}</div>
                <div class="label">Output columns</div>
            </div>
            <div class="card">
                <div class="value">{{.Ext}}</div>
                <div class="label">Sample format</div>
            </div>
        </div>

        <div class="section">
            <h2>Transforms</h2>
            {{if .Transforms}}
            <table>
                <tr><th>Column</th><th>Type</th><th>Rule</th></tr>
                {{range .Transforms}}
                <tr>
                    <td><code>{{.Column}}</code></td>
                    <td>{{.Type}}</td>
                    <td>{{.Detail}}</td>
                </tr>
                {{end}}
            </table>
            {{else}}
            <p class="empty">No transforms inferred.</p>
            {{end}}
        </div>

        <div class="section">
            <h2>Filter conditions</h2>
            {{if .Filter}}
            <ul>
                {{range .Filter}}<li>{{.}}</li>{{end}}
            </ul>
            {{else}}
            <p class="empty">Every input row is kept.</p>
            {{end}}
        </div>

        <div class="section">
            <h2>Neighbor rules</h2>
            {{if .Neighbors}}
            <ul>
                {{range .Neighbors}}<li>{{.}}</li>{{end}}
            </ul>
            {{else}}
            <p class="empty">No neighbor rules.</p>
            {{end}}
        </div>

        <div class="section">
            <h2>Alignment</h2>
            <p>Committed row alignment: <code>{{.Alignment}}</code></p>
            <p style="margin-top: 8px;">Input columns: {{range $i, $c := .InputColumns}}{{if $i}}, {{end}}<code>{{$c}}</code>{{end}}</p>
        </div>
    </div>
</body>
</html>
`
