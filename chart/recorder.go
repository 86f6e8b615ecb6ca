package chart

// Op is one recorded drawing call.
type Op struct {
	Name  string
	Args  []float64
	Text  string
	Color string
	Paint Paint
	Align Align
}

// Recorder is a Surface that records every call instead of drawing.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) add(op Op) { r.Ops = append(r.Ops, op) }

func (r *Recorder) Scale(sx, sy float64) { r.add(Op{Name: "Scale", Args: []float64{sx, sy}}) }
func (r *Recorder) Clear()               { r.add(Op{Name: "Clear"}) }
func (r *Recorder) BeginPath()           { r.add(Op{Name: "BeginPath"}) }
func (r *Recorder) MoveTo(x, y float64)  { r.add(Op{Name: "MoveTo", Args: []float64{x, y}}) }
func (r *Recorder) LineTo(x, y float64)  { r.add(Op{Name: "LineTo", Args: []float64{x, y}}) }
func (r *Recorder) ClosePath()           { r.add(Op{Name: "ClosePath"}) }
func (r *Recorder) Fill(p Paint)         { r.add(Op{Name: "Fill", Paint: p}) }

func (r *Recorder) Arc(x, y, radius, startAngle, endAngle float64) {
	r.add(Op{Name: "Arc", Args: []float64{x, y, radius, startAngle, endAngle}})
}

func (r *Recorder) Stroke(color string, width float64) {
	r.add(Op{Name: "Stroke", Color: color, Args: []float64{width}})
}

func (r *Recorder) FillRect(x, y, w, h float64, p Paint) {
	r.add(Op{Name: "FillRect", Args: []float64{x, y, w, h}, Paint: p})
}

func (r *Recorder) FillText(text string, x, y float64, align Align, color string) {
	r.add(Op{Name: "FillText", Text: text, Args: []float64{x, y}, Align: align, Color: color})
}

// Named returns the recorded calls with the given name, in order.
func (r *Recorder) Named(name string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}
