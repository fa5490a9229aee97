package models

// Classification strategy names
const (
	StrategyDetector = "detector"
	StrategyAlias    = "alias"
	StrategyRange    = "range"
)

// DefaultPrecedence is the order in which strategies are consulted.
var DefaultPrecedence = []string{StrategyDetector, StrategyAlias, StrategyRange}

// Default reporting settings
const (
	DefaultReportingCurrency = "USD"
	DefaultMaxPeriods        = 3
	MaxAccountNumber         = 99999
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
