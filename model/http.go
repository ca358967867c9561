package model

type ChordResult struct {
	Key      string  `json:"key"`
	Duration float64 `json:"duration"`
	Wait     float64 `json:"wait"`
	Notes    []uint8 `json:"notes"`
}

type ModelResponse struct {
	Id      string `json:"id"`
	Melody  string `json:"melody"`
	Order   string `json:"order"`
	Groups  int    `json:"groups"`
	Chords  int    `json:"chords"`
	Keys    int    `json:"keys"`
	Edges   int    `json:"edges"`
	Start   string `json:"start"`
	BuiltAt string `json:"built_at"`
}

type GenerateResponse struct {
	Id     string        `json:"id"`
	Chords []ChordResult `json:"chords"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
