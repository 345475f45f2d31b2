package models

// RelintResult acknowledges a finished relint of a single tool.
type RelintResult struct {
	ID     string `json:"id"`
	Tool   string `json:"tool"`
	Result string `json:"result"`
}
