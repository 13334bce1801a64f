// Package gesture defines the closed set of hand poses the system reacts to
// and the observation payload produced by a recognition source.
package gesture

import (
	"time"
)

// Gesture identifies a single recognized hand pose. The set is closed; labels
// mirror the ones emitted by the MediaPipe gesture recognizer so that
// observations can be parsed without a translation table.
type Gesture string

const (
	// None marks an observation with no (or an unrecognized) gesture.
	None Gesture = ""

	ClosedFist Gesture = "Closed_Fist"
	ThumbUp    Gesture = "Thumb_Up"
	ThumbDown  Gesture = "Thumb_Down"
	OpenPalm   Gesture = "Open_Palm"
	PointingUp Gesture = "Pointing_Up"
	Victory    Gesture = "Victory"
	ILoveYou   Gesture = "ILoveYou"
)

// Approval is the reserved confirmation gesture. It can never be bound to an
// action; its only meaning is "confirm the pending one".
const Approval = ClosedFist

var known = map[Gesture]bool{
	ClosedFist: true,
	ThumbUp:    true,
	ThumbDown:  true,
	OpenPalm:   true,
	PointingUp: true,
	Victory:    true,
	ILoveYou:   true,
}

// Parse maps a recognizer label onto a Gesture. Unknown labels and the empty
// string map to None - an unrecognized pose is indistinguishable from no pose.
func Parse(label string) Gesture {
	candidate := Gesture(label)
	if known[candidate] {
		return candidate
	}
	return None
}

// IsNone reports whether g carries no gesture.
func (g Gesture) IsNone() bool {
	return g == None
}

// Known reports whether g belongs to the closed gesture set.
func (g Gesture) Known() bool {
	return known[g]
}

// Observation is a single timestamped recognition result. Consecutive
// identical observations are expected while a pose is held.
type Observation struct {
	ID         string    `json:"id,omitempty"`
	Gesture    Gesture   `json:"gesture"`
	Confidence float64   `json:"confidence,omitempty"`
	Hand       string    `json:"hand,omitempty"`
	At         time.Time `json:"at"`
}
