package charts

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// overlay adds the markup go-chart cannot express: gradient definitions and
// shapes beneath the chart, hover targets with <title> tooltips above it, and
// a viewBox so the SVG scales with its container.
type overlay struct {
	width, height int
	defs          []string
	under         []string
	over          []string
	// underAfter is the number of leading renderer elements the under layer
	// goes after, so it sits above the chart background but below the axes.
	underAfter int
}

func (o overlay) apply(svg []byte) ([]byte, error) {
	open := bytes.Index(svg, []byte("<svg"))
	if open < 0 {
		return nil, errors.New("charts: renderer output has no <svg> element")
	}
	end := bytes.IndexByte(svg[open:], '>')
	if end < 0 {
		return nil, errors.New("charts: unterminated <svg> start tag")
	}
	end += open
	closing := bytes.LastIndex(svg, []byte("</svg>"))
	if closing < end {
		return nil, errors.New("charts: renderer output has no closing </svg>")
	}

	startTag := svg[open:end]
	selfClosing := len(startTag) > 0 && startTag[len(startTag)-1] == '/'
	if selfClosing {
		return nil, errors.New("charts: empty <svg> element")
	}

	var out bytes.Buffer
	out.Grow(len(svg) + 1024)
	out.Write(svg[:end])
	if !bytes.Contains(startTag, []byte("viewBox")) {
		fmt.Fprintf(&out, ` viewBox="0 0 %d %d" preserveAspectRatio="xMidYMid meet"`, o.width, o.height)
	}
	out.WriteByte('>')

	if len(o.defs) > 0 {
		out.WriteString("<defs>")
		for _, d := range o.defs {
			out.WriteString(d)
		}
		out.WriteString("</defs>")
	}
	body := svg[end+1 : closing]
	split, err := skipElements(body, o.underAfter)
	if err != nil {
		return nil, err
	}
	out.Write(body[:split])
	for _, u := range o.under {
		out.WriteString(u)
	}
	out.Write(body[split:])
	for _, v := range o.over {
		out.WriteString(v)
	}
	out.Write(svg[closing:])

	return out.Bytes(), nil
}

// skipElements returns the offset just past the first n self-closing
// elements of body.
func skipElements(body []byte, n int) (int, error) {
	offset := 0
	for i := 0; i < n; i++ {
		next := bytes.Index(body[offset:], []byte("/>"))
		if next < 0 {
			return 0, errors.Errorf("charts: expected %d leading elements, found %d", n, i)
		}
		offset += next + len("/>")
	}
	return offset, nil
}

func pathData(points [][2]float64, closed bool) string {
	var b bytes.Buffer
	for i, p := range points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%.1f %.1f ", cmd, p[0], p[1])
	}
	if closed {
		b.WriteString("Z")
	}
	return string(bytes.TrimSpace(b.Bytes()))
}
