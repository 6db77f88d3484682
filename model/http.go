package model

type GenerateRequestBody struct {
	// Root is a pitch class name or "random"/"" for a random key.
	Root       string `json:"root"`
	Mode       string `json:"mode"`
	Count      int    `json:"count"`
	Extensions *bool  `json:"extensions"`
	Pattern    string `json:"pattern"`
}

type ReorderRequestBody struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type ReplaceRequestBody struct {
	Index int   `json:"index"`
	Chord Chord `json:"chord"`
}

type PatternRequestBody struct {
	Name string `json:"name"`
}

type SessionResponse struct {
	ID              string      `json:"id"`
	Key             Key         `json:"key"`
	KeyName         string      `json:"key_name"`
	Scale           Scale       `json:"scale"`
	Progression     Progression `json:"progression"`
	Numerals        []string    `json:"numerals"`
	ProgressionText string      `json:"progression_text"`
	Pattern         string      `json:"pattern"`
	Count           int         `json:"count"`
	Extensions      bool        `json:"extensions"`
}

type TimelineResponse struct {
	TotalUnits   int             `json:"total_units"`
	ChordUnits   int             `json:"chord_units"`
	BassUnits    int             `json:"bass_units"`
	Events       []TimelineEvent `json:"events"`
	TotalSeconds float64         `json:"total_seconds"`
	Rects        []Rect          `json:"rects,omitempty"`
	Rows         []Row           `json:"rows,omitempty"`
}

// Rect is a pixel rectangle of a piano roll note.
type Rect struct {
	Layer Layer   `json:"layer"`
	Note  string  `json:"note"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// Row is a piano roll pitch lane.
type Row struct {
	Height  int     `json:"height"`
	Y       float64 `json:"y"`
	H       float64 `json:"h"`
	InScale bool    `json:"in_scale"`
}

type PatternsResponse struct {
	Patterns []RhythmPattern `json:"patterns"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
