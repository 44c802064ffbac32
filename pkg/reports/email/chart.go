package email

import (
	"bytes"
	"errors"
	"sort"

	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
	"github.com/wcharczuk/go-chart"
	"github.com/wcharczuk/go-chart/drawing"
)

var (
	redStyle = chart.Style{
		FillColor:   drawing.ColorRed,
		StrokeColor: drawing.ColorRed,
		StrokeWidth: 0,
	}
	amberStyle = chart.Style{
		FillColor:   drawing.ColorFromHex("E9AB17"),
		StrokeColor: drawing.ColorFromHex("E9AB17"),
		StrokeWidth: 0,
	}
	greenStyle = chart.Style{
		FillColor:   drawing.ColorFromHex("008000"),
		StrokeColor: drawing.ColorFromHex("008000"),
		StrokeWidth: 0,
	}
)

func styleGrade(grade string) chart.Style {
	switch GradeColour(grade) {
	case "green":
		return greenStyle
	case "red":
		return redStyle
	default:
		return amberStyle
	}
}

//GradeChart draws a PNG bar chart of the number of hosts per grade
func GradeChart(reports []sslmodel.HostReport) ([]byte, error) {
	dist := sslmodel.GradeDistribution(reports)
	if len(dist) == 0 {
		return nil, errors.New("no grades to chart")
	}
	grades := []string{}
	for grade := range dist {
		grades = append(grades, grade)
	}
	sort.Strings(grades)

	max := 1
	bars := []chart.Value{}
	for _, grade := range grades {
		count := dist[grade]
		if count > max {
			max = count
		}
		bars = append(bars, chart.Value{
			Label: grade,
			Value: float64(count),
			Style: styleGrade(grade),
		})
	}

	graph := chart.BarChart{
		Width:  512,
		Height: 512,
		Title:  "Distribution of Grades",
		Background: chart.Style{
			Padding: chart.Box{
				Top: 40,
			},
		},
		YAxis: chart.YAxis{
			Name: "Hosts",
			Range: &chart.ContinuousRange{
				Max: float64(max),
				Min: 0,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
