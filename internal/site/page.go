package site

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"

	"github.com/pkg/errors"

	"github.com/dcabrera/portfolio/internal/charts"
	"github.com/dcabrera/portfolio/internal/content"
	"github.com/dcabrera/portfolio/internal/currency"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		// profile links are compiled in; tel: would otherwise be rejected
		"trustedURL": func(s string) template.URL { return template.URL(s) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing templates")
	}
	return tmpl, nil
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is the fully rendered home page and its chart images. It is built once
// at startup and only read afterwards.
type Page struct {
	HTML        []byte
	SalesSVG    []byte
	PlatformSVG []byte
	Legend      []charts.LegendEntry
}

type pageData struct {
	Profile       content.Profile
	SalesChart    template.HTML
	PlatformChart template.HTML
	Legend        []charts.LegendEntry
}

// BuildPage renders both charts and the index template.
func BuildPage(tmpl *template.Template, profile content.Profile, sales []content.SalesRecord, platforms []content.PlatformShare, palette []string) (*Page, error) {
	salesPoints := make([]charts.Datum, 0, len(sales))
	for _, s := range sales {
		salesPoints = append(salesPoints, charts.Datum{Label: s.Month, Value: s.Sales})
	}

	platformSlices := make([]charts.Datum, 0, len(platforms))
	for _, p := range platforms {
		platformSlices = append(platformSlices, charts.Datum{Label: p.Name, Value: p.Value})
	}

	var salesSVG bytes.Buffer
	if err := charts.NewSalesChart(currency.Format).Render(&salesSVG, salesPoints); err != nil {
		return nil, errors.Wrap(err, "rendering sales chart")
	}

	var platformSVG bytes.Buffer
	if err := charts.NewPlatformChart(palette, currency.Percent).Render(&platformSVG, platformSlices); err != nil {
		return nil, errors.Wrap(err, "rendering platform chart")
	}

	legend := charts.Legend(platformSlices, palette, currency.Percent)

	data := pageData{
		Profile: profile,
		// both are produced by the chart renderers, never from request input
		SalesChart:    template.HTML(salesSVG.String()),
		PlatformChart: template.HTML(platformSVG.String()),
		Legend:        legend,
	}

	var html bytes.Buffer
	if err := tmpl.ExecuteTemplate(&html, "index.html", data); err != nil {
		return nil, errors.Wrap(err, "rendering index page")
	}

	return &Page{
		HTML:        html.Bytes(),
		SalesSVG:    salesSVG.Bytes(),
		PlatformSVG: platformSVG.Bytes(),
		Legend:      legend,
	}, nil
}

// DefaultPage builds the page from the bundled portfolio content.
func DefaultPage() (*Page, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}
	return BuildPage(tmpl, content.DefaultProfile(), content.Sales(), content.Platforms(), content.Palette())
}
