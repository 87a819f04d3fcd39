package artifact

// Evidence kinds.
const (
	EvidenceVoC       = "voc"
	EvidenceProof     = "proof"
	EvidenceMechanism = "mechanism"
)

// EvidenceRef is one citable fact with a stable ID.
type EvidenceRef struct {
	EvidenceID string `json:"evidence_id"`
	Kind       string `json:"kind"`
	Text       string `json:"text"`
	Source     string `json:"source,omitempty"`
}

// CoverageReport records which evidence categories were found for a unit.
// Blocked is derived, never asserted: true iff any category is empty.
type CoverageReport struct {
	HasVoC       bool `json:"has_voc"`
	HasProof     bool `json:"has_proof"`
	HasMechanism bool `json:"has_mechanism"`
	Blocked      bool `json:"blocked"`
}

// EvidencePack is the bounded citation set for one brief unit. The union of
// its evidence IDs is the only legal citation set for every downstream
// artifact tied to that unit.
type EvidencePack struct {
	UnitID     string         `json:"unit_id"`
	VoCQuotes  []EvidenceRef  `json:"voc_quotes"`
	Proofs     []EvidenceRef  `json:"proofs"`
	Mechanisms []EvidenceRef  `json:"mechanisms"`
	Coverage   CoverageReport `json:"coverage"`
}

// AllowedIDs returns the set of evidence IDs downstream artifacts may cite.
func (p EvidencePack) AllowedIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(p.VoCQuotes)+len(p.Proofs)+len(p.Mechanisms))
	for _, r := range p.VoCQuotes {
		ids[r.EvidenceID] = struct{}{}
	}
	for _, r := range p.Proofs {
		ids[r.EvidenceID] = struct{}{}
	}
	for _, r := range p.Mechanisms {
		ids[r.EvidenceID] = struct{}{}
	}
	return ids
}
