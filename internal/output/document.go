package output

import "labscore/internal/scoring"

// LabDocument is the structured (JSON) form of a lab outcome.
type LabDocument struct {
	Lab   string         `json:"lab"`
	Dir   string         `json:"dir,omitempty"`
	Error string         `json:"error,omitempty"`
	Score *ScoreDocument `json:"score,omitempty"`
}

type ScoreDocument struct {
	Counts
	Categories []CategoryDocument `json:"categories"`
}

type CategoryDocument struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Counts
	Rules []RuleDocument `json:"rules"`
}

type RuleDocument struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Pattern string  `json:"pattern"`
	Points  float64 `json:"points"`
	Counts
}

// Counts holds the derived metrics shared by every level of the result tree.
// Percentage is null when no points were available.
type Counts struct {
	Total      int      `json:"total"`
	Passed     int      `json:"passed"`
	Failed     int      `json:"failed"`
	Earned     float64  `json:"earned"`
	Max        float64  `json:"max"`
	Percentage *float64 `json:"percentage"`
}

func percentPtr(p scoring.Percentage) *float64 {
	v, ok := p.Value()
	if !ok {
		return nil
	}
	return &v
}

func NewLabDocument(o LabOutcome) LabDocument {
	doc := LabDocument{Lab: o.Lab, Dir: o.Dir}
	if o.Err != nil {
		doc.Error = o.Err.Error()
	}
	if o.Result == nil {
		return doc
	}

	res := o.Result
	score := &ScoreDocument{
		Counts: Counts{
			Total:      res.Total(),
			Passed:     res.Passed(),
			Failed:     res.Failed(),
			Earned:     res.Earned(),
			Max:        res.Max(),
			Percentage: percentPtr(res.Percentage()),
		},
		Categories: make([]CategoryDocument, 0, len(res.Categories)),
	}
	for _, cat := range res.Categories {
		cd := CategoryDocument{
			Name:       cat.Category.Name,
			Multiplier: cat.Category.Multiplier,
			Counts: Counts{
				Total:      cat.Total(),
				Passed:     cat.Passed(),
				Failed:     cat.Failed(),
				Earned:     cat.Earned(),
				Max:        cat.Max(),
				Percentage: percentPtr(cat.Percentage()),
			},
			Rules: make([]RuleDocument, 0, len(cat.Rules)),
		}
		for _, r := range cat.Rules {
			cd.Rules = append(cd.Rules, RuleDocument{
				Name:    r.Rule.Name,
				Type:    r.Rule.Strategy.String(),
				Pattern: r.Rule.Pattern.String(),
				Points:  r.Rule.Points,
				Counts: Counts{
					Total:      r.Total(),
					Passed:     r.Passed(),
					Failed:     r.Failed(),
					Earned:     r.Earned(),
					Max:        r.Max(),
					Percentage: percentPtr(r.Percentage()),
				},
			})
		}
		score.Categories = append(score.Categories, cd)
	}
	doc.Score = score
	return doc
}
