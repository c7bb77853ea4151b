package codegen

import (
	"reflectgen/internal/config"
	"reflectgen/internal/entities"
	"reflectgen/internal/macrofile"
)

// artifactPath resolves GeneratedArtifact(f) under the run's configured
// output directory.
func artifactPath(f entities.SourcePath, settings config.Settings) (string, error) {
	prefix, suffix, err := macrofile.SplitPattern(settings.GeneratedHeaderFileNamePattern)
	if err != nil {
		return "", err
	}
	return macrofile.ArtifactPath(settings.OutputDir, f, prefix, suffix), nil
}
