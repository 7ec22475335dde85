package reports

import "strings"

// CategoryOther is the label used when no rule matches.
const CategoryOther = "Otros"

// CategoryRule maps institution keywords to a category label.
type CategoryRule struct {
	Keywords []string
	Label    string
}

// DefaultCategoryRules are evaluated in order; the first match wins.
var DefaultCategoryRules = []CategoryRule{
	{Keywords: []string{"universidad", "instituto", "colegio"}, Label: "Educación"},
	{Keywords: []string{"hospital", "clínica", "salud"}, Label: "Salud"},
	{Keywords: []string{"gobierno", "municipal", "estatal"}, Label: "Gobierno"},
	{Keywords: []string{"empresa", "corporativ"}, Label: "Laboral"},
}

// Classifier derives a category label from an institution name.
type Classifier struct {
	Rules    []CategoryRule
	Fallback string
}

func NewClassifier() *Classifier {
	return &Classifier{Rules: DefaultCategoryRules, Fallback: CategoryOther}
}

func (c *Classifier) Classify(institution string) string {
	lower := strings.ToLower(institution)
	for _, rule := range c.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Label
			}
		}
	}
	return c.Fallback
}
