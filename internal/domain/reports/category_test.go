package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier(t *testing.T) {
	c := NewClassifier()
	tests := []struct {
		institution string
		want        string
	}{
		{"Universidad Nacional", "Educación"},
		{"INSTITUTO Politécnico", "Educación"},
		{"Colegio de Bachilleres", "Educación"},
		{"Hospital General", "Salud"},
		{"Clínica del Valle", "Salud"},
		{"Secretaría de Salud", "Salud"},
		{"Gobierno del Estado", "Gobierno"},
		{"Palacio Municipal", "Gobierno"},
		{"Empresa Acme", "Laboral"},
		{"Grupo Corporativo Norte", "Laboral"},
		{"Parroquia San Juan", CategoryOther},
		{"", CategoryOther},
		// first matching rule wins
		{"Hospital Universidad", "Educación"},
		{"Instituto de Salud", "Educación"},
	}
	for _, tt := range tests {
		t.Run(tt.institution, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.institution))
		})
	}
}

func TestClassifierCustomRules(t *testing.T) {
	c := &Classifier{
		Rules:    []CategoryRule{{Keywords: []string{"iglesia"}, Label: "Religioso"}},
		Fallback: "Sin categoría",
	}
	assert.Equal(t, "Religioso", c.Classify("Iglesia del Carmen"))
	assert.Equal(t, "Sin categoría", c.Classify("Universidad"))
}
