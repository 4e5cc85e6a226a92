package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/clumpscan/domain"
)

func TestGenerateDefaultConfigTOML(t *testing.T) {
	rendered, err := GenerateDefaultConfigTOML()
	require.NoError(t, err)

	for _, d := range domain.OptionDescriptors() {
		assert.Contains(t, rendered, d.SnakeName()+" = ")
		assert.Contains(t, rendered, d.Label)
	}
	assert.True(t, strings.HasPrefix(rendered, "# clumpscan configuration"))
}

func TestRenderedDefaultsRoundTrip(t *testing.T) {
	config, err := LoadDefaultConfigFromTOML()
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	opts, err := config.DetectorOptions()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDetectorOptions(), opts)
	assert.Equal(t, DefaultConfig().Input.IncludePatterns, config.Input.IncludePatterns)
	assert.Equal(t, DefaultConfig().Output.Format, config.Output.Format)
}
