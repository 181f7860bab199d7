// Package app is the showcase page script. Run is executed top to bottom on
// every request; all state lives in the page's widget values.
package app

import (
	"fmt"
	"math"

	"github.com/vesaa/showcase/internal/chart"
	"github.com/vesaa/showcase/internal/widgets"
)

// Widget keys, exported so tests and the JSON state API can refer to them.
const (
	KeyName     = "name"
	KeyAge      = "age"
	KeySlider   = "slider"
	KeyMoreInfo = "show_more_info"
)

// ExampleCSV is the payload behind the download button. The leading newline
// is part of the original literal.
const ExampleCSV = `
Name,Age,Score
Alice,24,89
Bob,30,95
Charlie,22,78
`

// Content holds the page's literal assets.
type Content struct {
	ImageURL     string
	ImageCaption string
	ImageWidth   int

	CSV      string
	CSVName  string
	CSVMime  string
	Samples  int
	RangeMax float64
}

// DefaultContent returns the stock literals.
func DefaultContent() Content {
	return Content{
		ImageURL:     "https://static.streamlit.io/examples/owl.jpg",
		ImageCaption: "An owl",
		ImageWidth:   300,
		CSV:          ExampleCSV,
		CSVName:      "example_data.csv",
		CSVMime:      "text/csv",
		Samples:      100,
		RangeMax:     10,
	}
}

// Greeting returns the success message, or "" when name or age is unset.
func Greeting(name string, age int) string {
	if name == "" || age == 0 {
		return ""
	}
	return fmt.Sprintf("Hello, %s! You are %d years old.", name, age)
}

// SineFrame builds the chart data: n samples of linspace(0, max) and their sine.
func SineFrame(n int, max float64) (chart.Frame, error) {
	xs := chart.Linspace(0, max, n)
	return chart.NewFrame(
		chart.Column{Name: "x", Values: xs},
		chart.Column{Name: "y", Values: chart.Map(xs, math.Sin)},
	)
}

// Run draws the whole showcase onto p.
func Run(p *widgets.Page, c Content) {
	p.Title("Website Sample!")
	p.Header("Welcome to My First Showcase App")
	p.Write("This app demonstrates basic widget components with examples and explanations.")
	p.Divider()

	p.Subheader("Interactive Input Section")
	name := p.TextInput("Enter your name:", widgets.WithKey(KeyName))
	age := p.NumberInput("Enter your age:", 0, 120, 1, widgets.WithKey(KeyAge))
	if msg := Greeting(name, age); msg != "" {
		p.Success(msg)
	}
	p.Divider()

	side := p.Sidebar()
	side.Header("Sidebar Controls")
	side.Title("Navigation")
	side.Slider("Select a value:", 0, 100, 50, widgets.WithKey(KeySlider))
	if side.Checkbox("Show more information", widgets.WithKey(KeyMoreInfo)) {
		side.Write("This is additional information displayed based on your choice.")
	}
	p.Divider()

	p.Subheader("Image Display")
	p.Image(c.ImageURL, c.ImageCaption, c.ImageWidth)
	p.Divider()

	p.Subheader("Data Visualization Example")
	if f, err := SineFrame(c.Samples, c.RangeMax); err != nil {
		p.Error(err)
	} else {
		p.LineChart(f, true)
	}
	p.Divider()

	p.Subheader("Download Example")
	p.DownloadButton("Download Example Data", []byte(c.CSV), c.CSVName, c.CSVMime)

	p.Write("Thank you for exploring this app!")
}
