package models

// ImportResult tallies a bulk CSV import run. Row failures are isolated;
// the batch itself never fails once the header row is understood.
type ImportResult struct {
	SuccessCount int      `json:"success_count"`
	FailCount    int      `json:"fail_count"`
	Errors       []string `json:"errors"`
}
