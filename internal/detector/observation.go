package detector

// Handedness labels which hand a detection belongs to.
type Handedness int

const (
	HandUnknown Handedness = iota
	HandLeft
	HandRight
)

// String returns the conventional label for the handedness.
func (h Handedness) String() string {
	switch h {
	case HandLeft:
		return "Left"
	case HandRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// ParseHandedness maps a detector label to a Handedness value. Labels
// other than "Left" and "Right" map to HandUnknown.
func ParseHandedness(label string) Handedness {
	switch label {
	case "Left":
		return HandLeft
	case "Right":
		return HandRight
	default:
		return HandUnknown
	}
}

// Point is a 2-D position in logical screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandObservation is one detected hand: its handedness label and the
// named keypoints the game consumes, in logical screen space.
type HandObservation struct {
	Handedness Handedness `json:"handedness"`
	Wrist      Point      `json:"wrist"`
	IndexTip   Point      `json:"index_tip"`
	MiddleTip  Point      `json:"middle_tip"`
	Score      float64    `json:"score"`
}

// toScreen scales a normalized [0,1] sensor coordinate into logical
// screen space.
func toScreen(x, y float64, cfg Config) Point {
	return Point{
		X: x * float64(cfg.ScreenWidth),
		Y: y * float64(cfg.ScreenHeight),
	}
}
