// Package store loads and saves the classification rule file.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/fin-statements/internal/classifier"
	"fjacquet/fin-statements/internal/fileutils"
	"fjacquet/fin-statements/internal/logging"
	"fjacquet/fin-statements/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is looked up when no rules file is configured.
const DefaultRulesFile = "classification.yaml"

// RuleStore manages loading and saving of classification rules.
type RuleStore struct {
	RulesFile string
	// Precedence replaces the built-in strategy order unless the rules file
	// declares its own.
	Precedence []string
	logger     logging.Logger
}

// NewRuleStore creates a new store for the rules file.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	return &RuleStore{
		RulesFile: rulesFile,
		logger:    logging.OrDefault(logger),
	}
}

// FindConfigFile looks for a configuration file in standard locations.
// Directories never match.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".fin-statements", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".fin-statements", filename))
	}
	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadRules reads the rules file and overlays it on classifier.DefaultRules:
// every section present in the file replaces the default section. A missing
// file is not an error unless it was configured explicitly.
func (s *RuleStore) LoadRules() (*models.ClassificationRules, error) {
	rules := classifier.DefaultRules()
	if len(s.Precedence) > 0 {
		rules.Precedence = append([]string(nil), s.Precedence...)
	}

	filename := s.RulesFile
	explicit := filename != ""
	if !explicit {
		filename = DefaultRulesFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			s.logger.Debug("No classification rules file, using defaults",
				logging.F(logging.FieldFile, filename))
			return rules, nil
		}
		return nil, fmt.Errorf("error resolving rules file %s: %w", filename, err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var file models.ClassificationRules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", filePath, err)
	}

	if len(file.Precedence) > 0 {
		rules.Precedence = file.Precedence
	}
	if file.Detectors != nil {
		rules.Detectors = file.Detectors
	}
	if file.Aliases != nil {
		rules.Aliases = file.Aliases
	}
	if file.Ranges != nil {
		rules.Ranges = file.Ranges
	}
	rules.Synonyms = file.Synonyms

	s.logger.Debug("Loaded classification rules",
		logging.F(logging.FieldFile, filePath),
		logging.F("detectors", len(rules.Detectors)),
		logging.F("aliases", len(rules.Aliases)),
		logging.F("ranges", len(rules.Ranges)))
	return rules, nil
}

// SaveRules writes rules as YAML to path, creating parent directories.
func (s *RuleStore) SaveRules(rules *models.ClassificationRules, path string) error {
	if path == "" {
		path = s.RulesFile
	}
	if path == "" {
		path = DefaultRulesFile
	}

	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}

	if err := os.WriteFile(path, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing rules: %w", err)
	}

	s.logger.Debug("Saved classification rules", logging.F(logging.FieldFile, path))
	return nil
}
