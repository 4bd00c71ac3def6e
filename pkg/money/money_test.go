package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLoose(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "45.20", "45.20"},
		{"negative", "-45.20", "-45.20"},
		{"dollar sign", "$1200.00", "1200.00"},
		{"thousands separator", "$1,234.56", "1234.56"},
		{"parentheses lose the sign", "(45.20)", "45.20"},
		{"embedded spaces", "$ 89 .99", "89.99"},
		{"integer", "500", "500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLoose(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Cents(got))
		})
	}
}

func TestParseLooseRejects(t *testing.T) {
	for _, input := range []string{"", "N/A", "-", ".", "$", "12.34.56"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseLoose(input)
			assert.Error(t, err)
		})
	}
}
