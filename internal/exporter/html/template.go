package html

// AuditReportTemplate renders the summary, then one card per file with its
// findings grouped by sheet and day.
const AuditReportTemplate = `<!DOCTYPE html>
<html lang="zh-Hant">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>菜單審核報告 - {{.Summary.AnalysisDate}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: "Microsoft JhengHei", "微軟正黑體", -apple-system, "Segoe UI", sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        header {
            background: linear-gradient(135deg, #2e7d32 0%, #1b5e20 100%);
            color: white;
            padding: 32px 20px;
            margin-bottom: 30px;
            border-radius: 8px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
        }

        header h1 {
            font-size: 2.2em;
            margin-bottom: 8px;
        }

        .summary, .file {
            background: white;
            padding: 20px;
            border-radius: 8px;
            margin-bottom: 24px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .summary h2, .file h2 {
            color: #2e7d32;
            margin-bottom: 12px;
            font-size: 1.4em;
        }

        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(160px, 1fr));
            gap: 12px;
        }

        .stat-card {
            background: #f8f9fa;
            padding: 12px;
            border-radius: 6px;
            border-left: 4px solid #2e7d32;
        }

        .stat-card .label {
            font-size: 0.9em;
            color: #6c757d;
        }

        .stat-card .value {
            font-size: 1.8em;
            font-weight: bold;
        }

        .status {
            display: inline-block;
            padding: 2px 10px;
            border-radius: 4px;
            color: white;
            font-size: 0.85em;
            font-weight: bold;
            margin-left: 8px;
        }

        .status-passed { background: #2e7d32; }
        .status-rejected { background: #d32f2f; }
        .status-blocked { background: #757575; }
        .status-failed { background: #e65100; }
        .status-default { background: #455a64; }

        .meta {
            color: #6c757d;
            font-size: 0.9em;
            margin-bottom: 12px;
        }

        .error {
            color: #d32f2f;
            margin-bottom: 12px;
        }

        h3 {
            margin: 16px 0 8px;
            font-size: 1.1em;
        }

        h4 {
            margin: 12px 0 6px;
            color: #455a64;
        }

        table {
            width: 100%;
            border-collapse: collapse;
        }

        th, td {
            text-align: left;
            padding: 6px 10px;
            border-bottom: 1px solid #e0e0e0;
        }

        th {
            background: #f1f3f5;
            font-weight: 600;
        }

        .cell {
            font-family: "Consolas", monospace;
            width: 80px;
        }

        .category {
            width: 140px;
            font-weight: 600;
        }

        .empty {
            text-align: center;
            padding: 40px;
            color: #6c757d;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>菜單審核報告</h1>
            <p>審核日期 {{.Summary.AnalysisDate}}</p>
        </header>

        <div class="summary">
            <h2>總覽</h2>
            <div class="stats">
                <div class="stat-card"><div class="label">審核檔案</div><div class="value">{{.Summary.Files}}</div></div>
                <div class="stat-card"><div class="label">通過</div><div class="value">{{.Summary.Passed}}</div></div>
                <div class="stat-card"><div class="label">退件</div><div class="value">{{.Summary.Rejected}}</div></div>
                <div class="stat-card"><div class="label">拒絕審核</div><div class="value">{{.Summary.Blocked}}</div></div>
                <div class="stat-card"><div class="label">檔案錯誤</div><div class="value">{{.Summary.Failed}}</div></div>
                <div class="stat-card"><div class="label">問題總數</div><div class="value">{{.Summary.Findings}}</div></div>
            </div>
            {{if .Summary.ByCategory}}
            <h3>問題類別</h3>
            <table>
                <thead><tr><th>類別</th><th>數量</th></tr></thead>
                <tbody>
                {{range .Summary.ByCategory}}
                    <tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
                {{end}}
                </tbody>
            </table>
            {{end}}
        </div>

        {{if .Files}}
            {{range .Files}}
            <div class="file">
                <h2>{{.File}}<span class="status {{statusClass .Status}}">{{.StatusLabel}}</span></h2>
                <div class="meta">
                    {{if .Mode}}模式：<strong>{{.Mode}}</strong> · {{end}}問題數：<strong>{{len .Findings}}</strong>
                    {{if .Skipped}} · 略過工作表：{{range $i, $s := .Skipped}}{{if $i}}、{{end}}{{$s}}{{end}}{{end}}
                    {{if .Output}} · 標註檔：{{.Output}}{{end}}
                </div>
                {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
                {{range .Groups}}
                <h3>{{.Sheet}}</h3>
                    {{range .Days}}
                    <h4>{{.Day}}</h4>
                    <table>
                        <thead><tr><th>儲存格</th><th>類別</th><th>說明</th></tr></thead>
                        <tbody>
                        {{range .Findings}}
                            <tr>
                                <td class="cell">{{.Cell}}</td>
                                <td class="category">{{.Category.Label}}</td>
                                <td>{{.Reason}}</td>
                            </tr>
                        {{end}}
                        </tbody>
                    </table>
                    {{end}}
                {{end}}
            </div>
            {{end}}
        {{else}}
            <div class="empty">沒有審核任何檔案</div>
        {{end}}
    </div>
</body>
</html>
`
