// Package widgets is a small immediate-mode widget toolkit.
//
// A Page is rebuilt from scratch on every request: the page script calls the
// primitives top to bottom, inputs return their current value out of the
// session's Values, and the collected elements are rendered through the
// embedded templates afterwards.
package widgets

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/vesaa/showcase/internal/chart"
)

// ErrDuplicateKey is recorded when two inputs in one run share a key.
var ErrDuplicateKey = errors.New("widgets: duplicate widget key")

// Values is a session's widget state keyed by widget key.
type Values map[string]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// ValuesFromForm keeps the first value of every form field.
func ValuesFromForm(form url.Values) Values {
	out := make(Values, len(form))
	for k, vs := range form {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

// Layout values accepted by PageConfig.
const (
	LayoutWide     = "wide"
	LayoutCentered = "centered"
)

// PageConfig is the per-page setup done before any widget is drawn.
type PageConfig struct {
	Title  string
	Layout string
	Chart  chart.Options
}

// Download is a payload offered by a DownloadButton.
type Download struct {
	FileName string
	Mime     string
	Data     []byte
}

// Page is the root of one script run.
type Page struct {
	*Container

	cfg     PageConfig
	sidebar *Container
	values  Values

	state     Values
	keys      map[string]bool
	downloads map[string]Download
	charts    [][]byte
	errs      []error
}

// NewPage starts a run against values. values is never modified.
func NewPage(cfg PageConfig, values Values) *Page {
	if cfg.Layout != LayoutWide {
		cfg.Layout = LayoutCentered
	}
	if values == nil {
		values = Values{}
	}
	p := &Page{
		cfg:       cfg,
		values:    values,
		state:     Values{},
		keys:      map[string]bool{},
		downloads: map[string]Download{},
	}
	p.Container = &Container{page: p}
	p.sidebar = &Container{page: p}
	return p
}

// Config returns the normalized page config.
func (p *Page) Config() PageConfig { return p.cfg }

// Sidebar returns the sidebar container.
func (p *Page) Sidebar() *Container { return p.sidebar }

// State returns the resolved value of every input drawn in this run.
func (p *Page) State() Values { return p.state.Clone() }

// Download returns the payload registered under fileName during this run.
func (p *Page) Download(fileName string) (Download, bool) {
	d, ok := p.downloads[fileName]
	return d, ok
}

// Chart returns the SVG of the i-th chart drawn in this run.
func (p *Page) Chart(i int) ([]byte, bool) {
	if i < 0 || i >= len(p.charts) {
		return nil, false
	}
	return p.charts[i], true
}

// Err joins every error recorded while the script ran.
func (p *Page) Err() error { return errors.Join(p.errs...) }

func (p *Page) fail(c *Container, err error) {
	p.errs = append(p.errs, err)
	c.add(Text{Style: "error", Body: err.Error()})
}

// claim reserves key for this run and reports whether it was free.
func (p *Page) claim(c *Container, key string) bool {
	if p.keys[key] {
		p.fail(c, fmt.Errorf("%w: %q", ErrDuplicateKey, key))
		return false
	}
	p.keys[key] = true
	return true
}

// Option customizes a single input.
type Option func(*inputOpts)

type inputOpts struct {
	key string
}

// WithKey overrides the label-derived key.
func WithKey(key string) Option {
	return func(o *inputOpts) { o.key = key }
}

func resolveKey(label string, opts []Option) string {
	var o inputOpts
	for _, fn := range opts {
		fn(&o)
	}
	if o.key != "" {
		return o.key
	}
	return Slug(label)
}

// Slug lower-cases label and folds every run of non-alphanumerics into "_".
func Slug(label string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			sep = false
			continue
		}
		sep = true
	}
	return b.String()
}

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText strips markup; the templates do the escaping. Unescaping can
// surface new tags ("&lt;b&gt;" becomes "<b>"), so it repeats until stable
// and a stored value survives the next run unchanged.
func sanitizeText(s string) string {
	// every changing pass removes a tag or an entity layer, so len(s) bounds it
	for n := len(s); n >= 0; n-- {
		next := html.UnescapeString(textPolicy.Sanitize(s))
		if next == s {
			return s
		}
		s = next
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1":
		return true
	}
	return false
}

// Container collects elements for one region of the page.
type Container struct {
	page     *Page
	elements []Element
}

// Elements returns the elements added so far.
func (c *Container) Elements() []Element { return c.elements }

func (c *Container) add(e Element) { c.elements = append(c.elements, e) }

func (c *Container) Title(s string) { c.add(Text{Style: "title", Body: s}) }

func (c *Container) Header(s string) { c.add(Text{Style: "header", Body: s}) }

func (c *Container) Subheader(s string) { c.add(Text{Style: "subheader", Body: s}) }

// Write adds a plain paragraph.
func (c *Container) Write(s string) { c.add(Text{Style: "write", Body: s}) }

// Success adds a green status box.
func (c *Container) Success(s string) { c.add(Text{Style: "success", Body: s}) }

func (c *Container) Divider() { c.add(Divider{}) }

// Error shows err in a red box and records it for Page.Err.
func (c *Container) Error(err error) { c.page.fail(c, err) }

// Image shows a remote image. width <= 0 leaves sizing to the browser.
func (c *Container) Image(src, caption string, width int) {
	c.add(Image{URL: src, Caption: caption, Width: width})
}

// TextInput draws a single-line text field and returns its current value.
func (c *Container) TextInput(label string, opts ...Option) string {
	key := resolveKey(label, opts)
	if !c.page.claim(c, key) {
		return c.page.state[key]
	}
	val := sanitizeText(c.page.values[key])
	c.page.state[key] = val
	c.add(TextInput{Key: key, Label: label, Value: val})
	return val
}

// NumberInput draws an integer field clamped to [min, max]. A missing or
// unparseable value starts at min.
func (c *Container) NumberInput(label string, min, max, step int, opts ...Option) int {
	key := resolveKey(label, opts)
	if !c.page.claim(c, key) {
		n, _ := strconv.Atoi(c.page.state[key])
		return n
	}
	n, err := strconv.Atoi(strings.TrimSpace(c.page.values[key]))
	if err != nil {
		n = min
	}
	n = clamp(n, min, max)
	if step <= 0 {
		step = 1
	}
	c.page.state[key] = strconv.Itoa(n)
	c.add(NumberInput{Key: key, Label: label, Value: n, Min: min, Max: max, Step: step})
	return n
}

// Slider draws a range input clamped to [min, max], starting at def.
func (c *Container) Slider(label string, min, max, def int, opts ...Option) int {
	key := resolveKey(label, opts)
	if !c.page.claim(c, key) {
		n, _ := strconv.Atoi(c.page.state[key])
		return n
	}
	n, err := strconv.Atoi(strings.TrimSpace(c.page.values[key]))
	if err != nil {
		n = def
	}
	n = clamp(n, min, max)
	c.page.state[key] = strconv.Itoa(n)
	c.add(Slider{Key: key, Label: label, Value: n, Min: min, Max: max})
	return n
}

// Checkbox draws a checkbox and reports whether it is ticked.
func (c *Container) Checkbox(label string, opts ...Option) bool {
	key := resolveKey(label, opts)
	if !c.page.claim(c, key) {
		return parseBool(c.page.state[key])
	}
	on := parseBool(c.page.values[key])
	c.page.state[key] = strconv.FormatBool(on)
	c.add(Checkbox{Key: key, Label: label, Checked: on})
	return on
}

// LineChart renders f and embeds the SVG in the page.
func (c *Container) LineChart(f chart.Frame, fullWidth bool) {
	opts := c.page.cfg.Chart
	opts.FullWidth = fullWidth
	svg, err := chart.RenderSVG(f, opts)
	if err != nil {
		c.page.fail(c, err)
		return
	}
	c.page.charts = append(c.page.charts, svg)
	c.add(LineChart{Index: len(c.page.charts) - 1, SVG: template.HTML(svg)})
}

// DownloadButton offers data as a file download.
func (c *Container) DownloadButton(label string, data []byte, fileName, mime string) {
	c.page.downloads[fileName] = Download{FileName: fileName, Mime: mime, Data: data}
	c.add(DownloadButton{
		Label:    label,
		FileName: fileName,
		Mime:     mime,
		Href:     "/download/" + url.PathEscape(fileName),
	})
}
