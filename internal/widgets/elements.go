package widgets

import "html/template"

// Element is one rendered widget. Kind selects the "widget_<kind>" template.
type Element interface {
	Kind() string
}

// Text covers every static text primitive; Style is the template suffix.
type Text struct {
	Style string // title | header | subheader | write | success | error
	Body  string
}

func (t Text) Kind() string { return t.Style }

type Divider struct{}

func (Divider) Kind() string { return "divider" }

type TextInput struct {
	Key   string
	Label string
	Value string
}

func (TextInput) Kind() string { return "text_input" }

type NumberInput struct {
	Key            string
	Label          string
	Value          int
	Min, Max, Step int
}

func (NumberInput) Kind() string { return "number_input" }

type Slider struct {
	Key      string
	Label    string
	Value    int
	Min, Max int
}

func (Slider) Kind() string { return "slider" }

type Checkbox struct {
	Key     string
	Label   string
	Checked bool
}

func (Checkbox) Kind() string { return "checkbox" }

type Image struct {
	URL     string
	Caption string
	Width   int
}

func (Image) Kind() string { return "image" }

// LineChart holds pre-rendered SVG markup produced by the chart package.
type LineChart struct {
	Index int
	SVG   template.HTML
}

func (LineChart) Kind() string { return "line_chart" }

type DownloadButton struct {
	Label    string
	FileName string
	Mime     string
	Href     string
}

func (DownloadButton) Kind() string { return "download_button" }
