package narration

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JakeFAU/route-narrator/internal/locale"
	"github.com/JakeFAU/route-narrator/internal/route"
)

// DefaultPrecision is the number of decimals shown for converted distances.
const DefaultPrecision = 3

// Renderer formats route events for one locale.
type Renderer struct {
	loc       locale.Locale
	precision int
}

// NewRenderer returns a Renderer; a negative precision selects DefaultPrecision.
func NewRenderer(loc locale.Locale, precision int) *Renderer {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Renderer{loc: loc, precision: precision}
}

// Locale returns the renderer's locale.
func (r *Renderer) Locale() locale.Locale {
	return r.loc
}

// Line renders evt as a single line without a trailing newline.
//
// Markers print their fixed phrase. Directional steps print progress, the
// converted distance and direction, then a lookahead for the next step when
// there is one.
func (r *Renderer) Line(evt route.Event) string {
	if !evt.Step.Directional() {
		return r.loc.Name(evt.Step.Kind)
	}
	p := r.loc.Phrases
	var b strings.Builder
	fmt.Fprintf(&b, "%s %%%d %s. %s", p.Road, evt.Percent, p.Completed, r.leg(evt.Step))
	if evt.Next != nil {
		b.WriteByte(' ')
		b.WriteString(p.NextStep)
		b.WriteByte(' ')
		if evt.Next.Directional() {
			b.WriteString(r.leg(*evt.Next))
		} else {
			b.WriteString(r.loc.Name(evt.Next.Kind))
		}
	}
	return b.String()
}

// leg renders "<distance> <unit> <direction>".
func (r *Renderer) leg(step route.Step) string {
	return fmt.Sprintf("%s %s %s", r.Distance(step.Distance), r.loc.UnitName(), r.loc.Name(step.Kind))
}

// Distance converts and formats a raw distance, trimming trailing zeros.
func (r *Renderer) Distance(distance int) string {
	scale := math.Pow10(r.precision)
	v := math.Round(r.loc.Convert(distance)*scale) / scale
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
