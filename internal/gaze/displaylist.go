package gaze

// OpKind names a display list operation.
type OpKind string

const (
	OpClear    OpKind = "clear"
	OpDot      OpKind = "dot"
	OpGradient OpKind = "radial_gradient"
)

// Op is one recorded drawing call. Fields not used by the kind are omitted.
type Op struct {
	Kind      OpKind         `json:"op" enum:"clear,dot,radial_gradient" doc:"Operation kind"`
	Width     int            `json:"width,omitempty" doc:"Surface width for clear"`
	Height    int            `json:"height,omitempty" doc:"Surface height for clear"`
	X         float64        `json:"x,omitempty" doc:"Centre x in surface pixels"`
	Y         float64        `json:"y,omitempty" doc:"Centre y in surface pixels"`
	Radius    float64        `json:"radius,omitempty" doc:"Dot or gradient outer radius"`
	Fill      string         `json:"fill,omitempty" doc:"Dot fill as CSS rgba()"`
	Stroke    string         `json:"stroke,omitempty" doc:"Dot stroke as CSS rgba()"`
	LineWidth float64        `json:"line_width,omitempty" doc:"Dot stroke width"`
	Stops     []GradientStop `json:"stops,omitempty" doc:"Gradient color stops"`
}

// DisplayList is a Canvas that records operations for a browser to replay.
type DisplayList struct {
	ops []Op
}

func (d *DisplayList) Clear(width, height int) {
	d.ops = append(d.ops[:0], Op{Kind: OpClear, Width: width, Height: height})
}

func (d *DisplayList) FillDot(dot Dot) {
	d.ops = append(d.ops, Op{
		Kind:      OpDot,
		X:         dot.X,
		Y:         dot.Y,
		Radius:    dot.Radius,
		Fill:      dot.Fill.CSS(),
		Stroke:    dot.Stroke.CSS(),
		LineWidth: dot.LineWidth,
	})
}

func (d *DisplayList) FillGradient(g RadialGradient) {
	stops := make([]GradientStop, len(g.Stops))
	copy(stops, g.Stops)
	d.ops = append(d.ops, Op{
		Kind:   OpGradient,
		X:      g.X,
		Y:      g.Y,
		Radius: g.Radius,
		Stops:  stops,
	})
}

// Ops returns the recorded operations.
func (d *DisplayList) Ops() []Op {
	return d.ops
}
