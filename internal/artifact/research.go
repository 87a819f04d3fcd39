package artifact

// ResearchArtifact is the upstream research record the evidence builder
// reads. It is produced outside this pipeline and treated as read-only.
type ResearchArtifact struct {
	VoCQuotes   []VoCQuote     `json:"voc_quotes"`
	ProofAssets []ProofAsset   `json:"proof_assets"`
	Mechanisms  []MechanismRef `json:"mechanisms"`
}

// VoCQuote is one voice-of-customer quote with its emotion tag.
type VoCQuote struct {
	ID      string `json:"id,omitempty"`
	Emotion string `json:"emotion"`
	Text    string `json:"text"`
	Source  string `json:"source"`
}

// ProofAsset is a testimonial, study, stat, or other proof record.
type ProofAsset struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
	Source string `json:"source"`
}

// MechanismRef explains why the problem exists and why the solution works.
type MechanismRef struct {
	ID                string   `json:"id,omitempty"`
	ProblemRationale  string   `json:"problem_rationale"`
	SolutionRationale string   `json:"solution_rationale"`
	SupportingIDs     []string `json:"supporting_ids,omitempty"`
}
