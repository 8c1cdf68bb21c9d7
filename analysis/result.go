// Package analysis assembles the full music analysis result: it
// orchestrates the per-descriptor algorithms, runs the classification
// and confidence layers and exposes the HAMMS similarity vector.
package analysis

import "encoding/json"

// Result is the fixed-schema output of one analysis run. All scored
// fields live in [0, 1]; BPM is octave-corrected into [60, 200];
// Loudness is LUFS, typically [-70, 0].
type Result struct {
	Key              string      `json:"key"`
	BPM              float64     `json:"bpm"`
	Loudness         float64     `json:"loudness"`
	Acousticness     float64     `json:"acousticness"`
	Instrumentalness float64     `json:"instrumentalness"`
	Speechiness      float64     `json:"speechiness"`
	Liveness         float64     `json:"liveness"`
	Energy           float64     `json:"energy"`
	Danceability     float64     `json:"danceability"`
	Valence          float64     `json:"valence"`
	Mode             string      `json:"mode"`
	TimeSignature    int         `json:"time_signature"`
	Characteristics  []string    `json:"characteristics"`
	Subgenres        []string    `json:"subgenres"`
	Era              string      `json:"era"`
	CulturalContext  string      `json:"cultural_context"`
	Mood             string      `json:"mood"`
	Occasion         []string    `json:"occasion"`
	HAMMS            HAMMSVector `json:"hamms"`
	Confidence       float64     `json:"confidence"`
	Analyzed         bool        `json:"analyzed"`
}

// DefaultResult returns the record handed back when analysis fails
func DefaultResult() Result {
	return Result{
		Key:             "",
		BPM:             0,
		TimeSignature:   4,
		Characteristics: []string{},
		Subgenres:       []string{},
		Occasion:        []string{},
		Analyzed:        false,
		Confidence:      0,
	}
}

// JSON serializes the result. Each call returns a freshly allocated
// string owned by the caller.
func (r *Result) JSON() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsMajorKey reports whether the detected key string is major
func (r *Result) IsMajorKey() bool {
	return len(r.Key) > 6 && r.Key[len(r.Key)-5:] == "major"
}
