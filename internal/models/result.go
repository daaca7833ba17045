package models

type ExtractResponse struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Files  []string `json:"files"`
}

type RunResponse struct {
	ID       string        `json:"id"`
	Status   string        `json:"status"`
	Progress string        `json:"progress,omitempty"`
	Files    []string      `json:"files"`
	Result   *RunData      `json:"result,omitempty"`
	Error    *RunErrorData `json:"error,omitempty"`
}

type RunData struct {
	Count   int             `json:"count"`
	Records []StudentRecord `json:"records"`
}

type RunErrorData struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
