package validate

// Result is the outcome of one rule
type Result struct {
	Rule    string `json:"rule"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Report is the ordered outcome of a tier's rules against one directory
type Report struct {
	Dir          string   `json:"dir"`
	Tier         Tier     `json:"tier"`
	RulesVersion string   `json:"rules_version"`
	Results      []Result `json:"results"`
}

// Passed reports whether every rule passed
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Failures returns the failed results in rule order
func (r *Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Summary returns up to limit failure messages and how many were left out.
// A limit of zero or less shows all of them.
func (r *Report) Summary(limit int) (shown []string, omitted int) {
	failed := r.Failures()
	if limit <= 0 || len(failed) <= limit {
		limit = len(failed)
	}
	for _, res := range failed[:limit] {
		shown = append(shown, res.Message)
	}
	return shown, len(failed) - limit
}

// Result looks up the outcome of a rule by name
func (r *Report) Result(rule string) (Result, bool) {
	for _, res := range r.Results {
		if res.Rule == rule {
			return res, true
		}
	}
	return Result{}, false
}
