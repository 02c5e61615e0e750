package gaze

import "math"

// Stats summarizes the recorded points.
type Stats struct {
	PointCount      int     `json:"point_count" doc:"Number of recorded points"`
	FirstCapturedAt int64   `json:"first_captured_at_millis,omitempty" doc:"Capture time of the oldest point"`
	LastCapturedAt  int64   `json:"last_captured_at_millis,omitempty" doc:"Capture time of the newest point"`
	PathLength      float64 `json:"path_length" doc:"Sum of distances between consecutive points, in surface pixels"`
}

// Stats computes the summary of the current point log.
func (s *RenderState) Stats() Stats {
	st := Stats{PointCount: len(s.points)}
	if len(s.points) == 0 {
		return st
	}
	st.FirstCapturedAt = s.points[0].CapturedAtMillis
	st.LastCapturedAt = s.points[len(s.points)-1].CapturedAtMillis
	for i := 1; i < len(s.points); i++ {
		st.PathLength += Distance(s.points[i-1], s.points[i])
	}
	return st
}

// Distance is the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
