package domain

// GeneratedContent is the structured result of a content-generation request.
// Simulated is set when the result came from the local fallback rather than
// the remote service.
type GeneratedContent struct {
	Caption   string   `json:"caption"`
	Hashtags  []string `json:"hashtags"`
	Simulated bool     `json:"-"`
}
