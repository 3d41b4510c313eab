package domain

// LedgerConfig controls translation revision numbering.
type LedgerConfig struct {
	RevisionScope RevisionScope `yaml:"revisionScope"`
}

// Scope returns the configured scope, defaulting to RevisionScopeContent.
func (c LedgerConfig) Scope() RevisionScope {
	if c.RevisionScope == "" {
		return RevisionScopeContent
	}
	return c.RevisionScope
}
