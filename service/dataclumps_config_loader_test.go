package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/clumpscan/domain"
)

const sampleConfig = `
[detector]
shared_field_parameters_minimum = 4
typeVariablesConsidered = true

[input]
exclude_patterns = ["**/generated/**"]
recursive = false

[output]
format = "json"
directory = "reports"
show_details = true

[project]
name = "shop"
version = "1.2.0"
target_language = "java"

[project.additional]
build = 17
`

func TestDataClumpsConfigurationLoader_LoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".clumpscan.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	req, err := NewDataClumpsConfigurationLoader().LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, req.Options.SharedFieldParametersMinimum)
	assert.True(t, req.Options.TypeVariablesConsidered)
	assert.Equal(t, domain.DefaultSharedMethodParametersMinimum, req.Options.SharedMethodParametersMinimum)
	assert.Equal(t, []string{"**/generated/**"}, req.ExcludePatterns)
	assert.Equal(t, []string{"**/*.json"}, req.IncludePatterns)
	assert.False(t, domain.BoolValue(req.Recursive, true))
	assert.Equal(t, domain.OutputFormatJSON, req.OutputFormat)
	assert.Equal(t, "reports", req.OutputDirectory)
	assert.True(t, req.ShowDetails)
	assert.Equal(t, "shop", req.ProjectName)
	assert.Equal(t, "1.2.0", req.ProjectVersion)
	assert.Equal(t, domain.UnknownValue, req.ProjectCommit)
	assert.Equal(t, "java", req.TargetLanguage)
	assert.Equal(t, int64(17), req.Additional["build"].Value())
}

func TestDataClumpsConfigurationLoader_LoadConfigDiscoversFromDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".clumpscan.toml"), []byte(sampleConfig), 0o644))
	nested := filepath.Join(root, "ast", "billing")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	req, err := NewDataClumpsConfigurationLoader().LoadConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, "shop", req.ProjectName)
}

func TestDataClumpsConfigurationLoader_LoadConfigUnknownOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".clumpscan.toml")
	require.NoError(t, os.WriteFile(path, []byte("[detector]\nshared_fields = 3\n"), 0o644))

	_, err := NewDataClumpsConfigurationLoader().LoadConfig(path)
	require.Error(t, err)

	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeConfigError, domainErr.Code)
}

func TestDataClumpsConfigurationLoader_MergeConfig(t *testing.T) {
	loader := NewDataClumpsConfigurationLoader()
	base := domain.DefaultDataClumpsRequest()
	base.ProjectName = "from-file"
	base.Additional = map[string]domain.PrimitiveValue{"a": domain.IntValue(1)}

	override := &domain.DataClumpsRequest{
		Paths:      []string{"ast"},
		NoOpen:     true,
		Additional: map[string]domain.PrimitiveValue{"b": domain.IntValue(2)},
	}

	merged := loader.MergeConfig(base, override)
	assert.Equal(t, []string{"ast"}, merged.Paths)
	assert.Equal(t, "from-file", merged.ProjectName)
	assert.Equal(t, domain.DefaultDetectorOptions(), merged.Options, "zero options keep the base")
	assert.True(t, merged.NoOpen)
	assert.Len(t, merged.Additional, 2)

	assert.Same(t, override, loader.MergeConfig(nil, override))
	assert.Same(t, base, loader.MergeConfig(base, nil))
}

func TestDataClumpsConfigurationLoaderWithFlags_MergeConfig(t *testing.T) {
	base := domain.DefaultDataClumpsRequest()
	base.OutputFormat = domain.OutputFormatYAML
	base.ProjectName = "from-file"
	base.ExcludePatterns = []string{"**/generated/**"}
	base.Options.SharedFieldParametersMinimum = 5
	base.Options.SharedMethodParametersMinimum = 4
	base.Additional = map[string]domain.PrimitiveValue{"team": domain.StringValue("core")}

	override := domain.DefaultDataClumpsRequest()
	override.Paths = []string{"ast"}
	override.ProjectName = "from-flag"
	override.ExcludePatterns = []string{"**/test/**"}
	override.Options.SharedFieldParametersMinimum = 2
	override.Options.TypeVariablesConsidered = true
	override.Additional = map[string]domain.PrimitiveValue{"ci": domain.BoolPrimitive(true)}

	t.Run("unset flags keep file values", func(t *testing.T) {
		loader := NewDataClumpsConfigurationLoaderWithFlags(map[string]bool{})
		merged := loader.MergeConfig(base, override)

		assert.Equal(t, []string{"ast"}, merged.Paths)
		assert.Equal(t, domain.OutputFormatYAML, merged.OutputFormat)
		assert.Equal(t, "from-file", merged.ProjectName)
		assert.Equal(t, []string{"**/generated/**"}, merged.ExcludePatterns)
		assert.Equal(t, 5, merged.Options.SharedFieldParametersMinimum)
		assert.False(t, merged.Options.TypeVariablesConsidered)
		assert.Equal(t, map[string]domain.PrimitiveValue{"team": domain.StringValue("core")}, merged.Additional)
	})

	t.Run("explicit flags win", func(t *testing.T) {
		loader := NewDataClumpsConfigurationLoaderWithFlags(map[string]bool{
			FlagProjectName:   true,
			FlagExclude:       true,
			FlagMinFields:     true,
			FlagTypeVariables: true,
			FlagAdditional:    true,
			"json":            true,
		})
		override := *override
		override.OutputFormat = domain.OutputFormatJSON

		merged := loader.MergeConfig(base, &override)

		assert.Equal(t, domain.OutputFormatJSON, merged.OutputFormat)
		assert.Equal(t, "from-flag", merged.ProjectName)
		assert.Equal(t, []string{"**/test/**"}, merged.ExcludePatterns)
		assert.Equal(t, 2, merged.Options.SharedFieldParametersMinimum)
		assert.True(t, merged.Options.TypeVariablesConsidered)
		assert.Equal(t, 4, merged.Options.SharedMethodParametersMinimum, "unset option flag keeps the file value")
		assert.Len(t, merged.Additional, 2)
	})

	t.Run("base is not mutated", func(t *testing.T) {
		loader := NewDataClumpsConfigurationLoaderWithFlags(map[string]bool{FlagAdditional: true})
		loader.MergeConfig(base, override)
		assert.Len(t, base.Additional, 1)
	})
}
