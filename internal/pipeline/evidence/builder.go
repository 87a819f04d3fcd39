package evidence

import (
	"strings"

	"adforge/internal/artifact"
	"adforge/internal/utils"
)

// Default caps per evidence category.
const (
	DefaultMaxQuotes     = 6
	DefaultMaxOffEmotion = 2
	DefaultMaxProofs     = 5
	DefaultMaxMechanisms = 3
)

// Builder assembles the evidence pack for one brief unit from the upstream
// research artifact. Coverage is computed from what was actually found,
// never asserted.
type Builder struct {
	MaxQuotes     int
	MaxOffEmotion int
	MaxProofs     int
	MaxMechanisms int
}

func (b *Builder) caps() (quotes, off, proofs, mechs int) {
	quotes, off, proofs, mechs = b.MaxQuotes, b.MaxOffEmotion, b.MaxProofs, b.MaxMechanisms
	if quotes <= 0 {
		quotes = DefaultMaxQuotes
	}
	if off <= 0 {
		off = DefaultMaxOffEmotion
	}
	if proofs <= 0 {
		proofs = DefaultMaxProofs
	}
	if mechs <= 0 {
		mechs = DefaultMaxMechanisms
	}
	return
}

// Build selects quotes matching the unit's emotion first, falling back to
// off-emotion quotes only when the on-emotion pool is empty (capped), then
// caps proofs and mechanisms. A pack missing any required category comes
// back blocked, which short-circuits every downstream stage for the unit.
func (b *Builder) Build(unit artifact.BriefUnit, research artifact.ResearchArtifact) artifact.EvidencePack {
	maxQuotes, maxOff, maxProofs, maxMechs := b.caps()

	var onEmotion, offEmotion []artifact.EvidenceRef
	for _, q := range research.VoCQuotes {
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		ref := artifact.EvidenceRef{
			EvidenceID: quoteID(q),
			Kind:       artifact.EvidenceVoC,
			Text:       q.Text,
			Source:     q.Source,
		}
		if strings.EqualFold(strings.TrimSpace(q.Emotion), unit.EmotionKey) {
			onEmotion = append(onEmotion, ref)
		} else {
			offEmotion = append(offEmotion, ref)
		}
	}
	quotes := onEmotion
	if len(quotes) > maxQuotes {
		quotes = quotes[:maxQuotes]
	}
	if len(quotes) == 0 && len(offEmotion) > 0 {
		if len(offEmotion) > maxOff {
			offEmotion = offEmotion[:maxOff]
		}
		quotes = offEmotion
	}

	var proofs []artifact.EvidenceRef
	for _, p := range research.ProofAssets {
		if len(proofs) >= maxProofs {
			break
		}
		text := strings.TrimSpace(p.Title)
		if p.Detail != "" {
			text = strings.TrimSpace(text + ": " + p.Detail)
		}
		if text == "" {
			continue
		}
		proofs = append(proofs, artifact.EvidenceRef{
			EvidenceID: proofID(p),
			Kind:       artifact.EvidenceProof,
			Text:       text,
			Source:     p.Source,
		})
	}

	var mechs []artifact.EvidenceRef
	for _, m := range research.Mechanisms {
		if len(mechs) >= maxMechs {
			break
		}
		text := strings.TrimSpace(m.ProblemRationale)
		if m.SolutionRationale != "" {
			text = strings.TrimSpace(text + " -> " + m.SolutionRationale)
		}
		if text == "" {
			continue
		}
		mechs = append(mechs, artifact.EvidenceRef{
			EvidenceID: mechanismID(m),
			Kind:       artifact.EvidenceMechanism,
			Text:       text,
		})
	}

	cov := artifact.CoverageReport{
		HasVoC:       len(quotes) > 0,
		HasProof:     len(proofs) > 0,
		HasMechanism: len(mechs) > 0,
	}
	cov.Blocked = !(cov.HasVoC && cov.HasProof && cov.HasMechanism)

	return artifact.EvidencePack{
		UnitID:     unit.ID,
		VoCQuotes:  quotes,
		Proofs:     proofs,
		Mechanisms: mechs,
		Coverage:   cov,
	}
}

func quoteID(q artifact.VoCQuote) string {
	if strings.TrimSpace(q.ID) != "" {
		return q.ID
	}
	return utils.EvidenceID(artifact.EvidenceVoC, q.Text)
}

func proofID(p artifact.ProofAsset) string {
	if strings.TrimSpace(p.ID) != "" {
		return p.ID
	}
	return utils.EvidenceID(artifact.EvidenceProof, p.Title+"|"+p.Detail)
}

func mechanismID(m artifact.MechanismRef) string {
	if strings.TrimSpace(m.ID) != "" {
		return m.ID
	}
	return utils.EvidenceID(artifact.EvidenceMechanism, m.ProblemRationale+"|"+m.SolutionRationale)
}
