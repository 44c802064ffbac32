package assets

//ChartName is the content ID of the inline grade distribution chart
const ChartName = "grades.png"

//Report is the HTML email template; it expects a reportModel with Reports and HasChart
var Report = `<html>
	<body>
		<table style="border: 1px solid #338BA6;border-collapse: collapse;width: 90%;">
			<caption style="font: bold 110% Arial, Helvetica, sans-serif; color: #33517A; text-align: left; padding: 0.4em 0 0.8em 0;">{{ .Title }}</caption>
			<thead>
				<tr>
					<th scope="col" style="border: 1px solid #828282; background-color: #BCBCBC; font-weight: bold; text-align: left; padding: 0.2em;">Host</th>
					<th scope="col" style="border: 1px solid #828282; background-color: #BCBCBC; font-weight: bold; text-align: left; padding: 0.2em;">Grade</th>
					<th scope="col" style="border: 1px solid #828282; background-color: #BCBCBC; font-weight: bold; text-align: left; padding: 0.2em;">Grade Ignoring Trust</th>
					<th scope="col" style="border: 1px solid #828282; background-color: #BCBCBC; font-weight: bold; text-align: left; padding: 0.2em;" bgcolor="#ffcccc">Errors</th>
					<th scope="col" style="border: 1px solid #828282; background-color: #BCBCBC; font-weight: bold; text-align: left; padding: 0.2em;" bgcolor="#ffffcc">Warnings</th>
					<th scope="col" style="border: 1px solid #828282; background-color: #BCBCBC; font-weight: bold; text-align: left; padding: 0.2em;">Supported Protocols</th>
					<th scope="col" style="border: 1px solid #828282; background-color: #BCBCBC; font-weight: bold; text-align: left; padding: 0.2em;">Supported Ciphers</th>
				</tr>
			</thead>
			<tbody>
{{- range .Reports }}
				<tr>
					<th scope="row" style="border: 1px solid #828282; background-color: #BCBCBC; font-weight: bold; text-align: left; padding: 0.2em;">{{ .Host }}</th>
					<td style="border: 1px solid #D6DDE6; text-align: right; vertical-align: top; padding: 0.2em;">{{ template "GRADE" .Grade }}</td>
					<td style="border: 1px solid #D6DDE6; text-align: right; vertical-align: top; padding: 0.2em;">{{ template "GRADE" .GradeIgnoreTrust }}</td>
					<td style="border: 1px solid #D6DDE6; text-align: right; vertical-align: top; padding: 0.2em;" bgcolor="#ffcccc">{{ template "LINES" .Errors }}</td>
					<td style="border: 1px solid #D6DDE6; text-align: right; vertical-align: top; padding: 0.2em;" bgcolor="#ffffcc">{{ template "LINES" .Warnings }}</td>
					<td style="border: 1px solid #D6DDE6; text-align: right; vertical-align: top; padding: 0.2em;">{{ template "LINES" .Protocols }}</td>
					<td style="border: 1px solid #D6DDE6; text-align: right; vertical-align: top; padding: 0.2em;">{{ template "LINES" .Ciphers }}</td>
				</tr>
{{- end }}
			</tbody>
		</table>
{{- if .HasChart }}
		<p><img src="cid:grades.png" alt="Distribution of Grades"></p>
{{- end }}
	</body>
</html>
{{ define "GRADE" }}<p style="font-size:large;color: {{ gradeColour . }}">{{ . }}</p>{{ end }}
{{ define "LINES" }}{{ range $index, $line := . }}{{ if $index }}<br>{{ end }}{{ $line }}{{ end }}{{ end }}
`
