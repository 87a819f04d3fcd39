package script

import (
	"strings"

	"adforge/internal/artifact"
)

// EvaluateDraft applies the hard gate to an ok draft: structural validity,
// section completeness, citation validity against the pack's allowed set,
// and total word count within the spec bounds. Any foreign evidence ID
// fails the whole draft.
func EvaluateDraft(draft artifact.CoreScriptDraft, spec artifact.ScriptSpec, pack artifact.EvidencePack) artifact.ScriptGateReport {
	report := artifact.ScriptGateReport{}

	report.SchemaValid = len(draft.Lines) > 0
	for _, l := range draft.Lines {
		if strings.TrimSpace(l.ID) == "" || !validSection(l.Section, spec.Sections) {
			report.SchemaValid = false
		}
	}

	seen := make(map[string]bool, len(spec.Sections))
	for _, l := range draft.Lines {
		if strings.TrimSpace(l.Text) != "" {
			seen[l.Section] = true
		}
	}
	report.SectionsComplete = true
	for _, s := range spec.Sections {
		if !seen[s] {
			report.SectionsComplete = false
			report.EmptySections = append(report.EmptySections, s)
		}
	}

	allowed := pack.AllowedIDs()
	report.CitationsValid = true
	for _, l := range draft.Lines {
		if spec.CiteEveryLine && len(l.EvidenceIDs) == 0 {
			report.CitationsValid = false
			report.UncitedLineIDs = append(report.UncitedLineIDs, l.ID)
		}
		for _, id := range l.EvidenceIDs {
			if _, ok := allowed[id]; !ok {
				report.CitationsValid = false
				report.ForeignIDs = append(report.ForeignIDs, id)
			}
		}
	}

	report.WordCount = draft.TotalWords()
	report.WordCountOK = report.WordCount >= spec.MinWords && report.WordCount <= spec.MaxWords

	report.Pass = report.SchemaValid && report.SectionsComplete && report.CitationsValid && report.WordCountOK
	return report
}

func validSection(s string, sections []string) bool {
	for _, want := range sections {
		if s == want {
			return true
		}
	}
	return false
}
