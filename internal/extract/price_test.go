package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing amount with ruble sign",
			input:    "В сутки 100 ₽",
			expected: "100 ₽",
		},
		{
			name:     "thousands separator and comma decimal",
			input:    "1 500,50 $",
			expected: "1500.50 $",
		},
		{
			name:     "non-breaking space thousands separator",
			input:    "2 500 ₽",
			expected: "2500 ₽",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "  \t ",
			expected: "",
		},
		{
			name:     "no numeric pattern returns collapsed text",
			input:    "бесплатно",
			expected: "бесплатно",
		},
		{
			name:     "inner whitespace collapsed when no match",
			input:    "по запросу",
			expected: "по запросу",
		},
		{
			name:     "bare number keeps no currency",
			input:    "150",
			expected: "150",
		},
		{
			name:     "ruble sign elsewhere in text is recovered",
			input:    "₽ всего 300",
			expected: "300 ₽",
		},
		{
			name:     "dot decimal preserved",
			input:    "99.90 €",
			expected: "99.90 €",
		},
		{
			name:     "latin currency token",
			input:    "от 200 RUB",
			expected: "200 RUB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePrice(tt.input))
		})
	}
}
