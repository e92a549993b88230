package mpesa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"local format", "0712345678", "254712345678", false},
		{"already international", "254712345678", "254712345678", false},
		{"with spaces", "0712 345 678", "254712345678", false},
		{"with dashes", "0712-345-678", "254712345678", false},
		{"foreign number", "+1-555-0100", "", true},
		{"empty", "", "", true},
		{"letters", "07abc45678", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
