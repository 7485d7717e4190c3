package render

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ReferencePrefix starts every reprint reference.
const ReferencePrefix = "starmap:v1?"

// ErrReference is wrapped by ParseReference failures.
var ErrReference = errors.New("invalid reference")

// Reference returns the canonical reprint string of the normalized request.
// Keys are sorted, so equal requests give equal strings.
func Reference(req Request) string {
	r := Normalize(req)
	v := url.Values{}
	v.Set("width", strconv.Itoa(r.Width))
	v.Set("height", strconv.Itoa(r.Height))
	v.Set("seed", strconv.FormatUint(uint64(r.Seed), 10))
	v.Set("shape", r.Shape)
	v.Set("colorTheme", r.ColorTheme)
	v.Set("backgroundMode", r.BackgroundMode)
	v.Set("showGrid", strconv.FormatBool(r.ShowGrid))
	v.Set("showConstellations", strconv.FormatBool(r.ShowConstellations))
	v.Set("constellationSize", formatFloat(r.ConstellationSize))
	v.Set("outline", strconv.FormatBool(r.Outline))
	v.Set("outlineWidth", formatFloat(r.OutlineWidth))
	v.Set("insetFraction", formatFloat(r.InsetFraction))
	v.Set("frame", strconv.FormatBool(r.Frame))
	v.Set("zoom", formatFloat(r.Zoom))
	v.Set("strategy", r.Strategy)
	return ReferencePrefix + v.Encode()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseReference reads a string produced by Reference. Missing keys keep
// their defaults; the result is normalized.
func ParseReference(s string) (Request, error) {
	rest, ok := strings.CutPrefix(s, ReferencePrefix)
	if !ok {
		return Request{}, fmt.Errorf("render: reference %q: missing prefix: %w", s, ErrReference)
	}
	v, err := url.ParseQuery(rest)
	if err != nil {
		return Request{}, fmt.Errorf("render: reference: %v: %w", err, ErrReference)
	}

	r := Defaults()
	p := refParser{v: v}
	p.integer("width", &r.Width)
	p.integer("height", &r.Height)
	p.seed(&r.Seed)
	p.text("shape", &r.Shape)
	p.text("colorTheme", &r.ColorTheme)
	p.text("backgroundMode", &r.BackgroundMode)
	p.flag("showGrid", &r.ShowGrid)
	p.flag("showConstellations", &r.ShowConstellations)
	p.number("constellationSize", &r.ConstellationSize)
	p.flag("outline", &r.Outline)
	p.number("outlineWidth", &r.OutlineWidth)
	p.number("insetFraction", &r.InsetFraction)
	p.flag("frame", &r.Frame)
	p.number("zoom", &r.Zoom)
	p.text("strategy", &r.Strategy)
	if p.err != nil {
		return Request{}, p.err
	}
	return Normalize(r), nil
}

// refParser keeps the first error and skips the remaining keys.
type refParser struct {
	v   url.Values
	err error
}

func (p *refParser) get(key string) (string, bool) {
	if p.err != nil || !p.v.Has(key) {
		return "", false
	}
	return p.v.Get(key), true
}

func (p *refParser) fail(key string, err error) {
	p.err = fmt.Errorf("render: reference %s: %v: %w", key, err, ErrReference)
}

func (p *refParser) text(key string, dst *string) {
	if s, ok := p.get(key); ok {
		*dst = s
	}
}

func (p *refParser) integer(key string, dst *int) {
	if s, ok := p.get(key); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = n
	}
}

func (p *refParser) seed(dst *uint32) {
	if s, ok := p.get("seed"); ok {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			p.fail("seed", err)
			return
		}
		*dst = uint32(n)
	}
}

func (p *refParser) number(key string, dst *float64) {
	if s, ok := p.get(key); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = f
	}
}

func (p *refParser) flag(key string, dst *bool) {
	if s, ok := p.get(key); ok {
		b, err := strconv.ParseBool(s)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = b
	}
}
