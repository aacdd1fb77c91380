package cli

var (
	ApplySeed             = applySeed
	PrintValidationReport = printValidationReport
	GetIndexConfig        = getIndexConfig
)
