package endpoints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareVersionEndpointResponse(t *testing.T) {
	tests := []struct {
		description string
		version     string
		revision    string
		expected    string
	}{
		{
			description: "both set",
			version:     "1.2.3",
			revision:    "d6cd1e2bd19e03a81132a23b2025920577f84e37",
			expected:    `{"revision":"d6cd1e2bd19e03a81132a23b2025920577f84e37","version":"1.2.3"}`,
		},
		{
			description: "both empty",
			expected:    `{"revision":"not-set","version":"not-set"}`,
		},
		{
			description: "only version set",
			version:     "1.2.3",
			expected:    `{"revision":"not-set","version":"1.2.3"}`,
		},
	}

	for _, test := range tests {
		response, err := prepareVersionEndpointResponse(test.version, test.revision)
		require.NoError(t, err, test.description)
		assert.JSONEq(t, test.expected, string(response), test.description)
	}
}
