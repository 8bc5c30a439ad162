package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Browser Defaults
	DefaultBrowserDriver              = "rod"
	DefaultBrowserUserDataDir         = "browser_data"
	DefaultBrowserWindowWidth         = 1280
	DefaultBrowserWindowHeight        = 900
	DefaultBrowserSlowMotionMs        = 100
	DefaultBrowserNavigationTimeout   = 60
	DefaultBrowserSettleAfterNavigate = 2000

	// Directory Defaults
	DefaultDirectoryBaseURL        = "https://claude.ai"
	DefaultDirectoryListingPath    = "/directory"
	DefaultDirectoryTabLabel       = "Web"
	DefaultDirectoryDetailPattern  = `/directory/[0-9a-f-]{20,}`
	DefaultDirectoryTabSelector    = "button, a, [role='tab']"
	DefaultDirectoryLinkSelector   = "a[href*='/directory/']"
	DefaultDirectoryAddButtonLabel = "+"

	// Collector Defaults
	DefaultCollectorScrollStepPx       = 600
	DefaultCollectorScrollWaitMs       = 700
	DefaultCollectorStablePolls        = 4
	DefaultCollectorMaxPolls           = 60
	DefaultCollectorInitialWaitMs      = 3000
	DefaultCollectorTabWaitMs          = 2000
	DefaultCollectorFallbackRetries    = 2
	DefaultCollectorFallbackClickMs    = 5000
	DefaultCollectorFallbackWaitMs     = 2000
	DefaultCollectorCardAncestorLevels = 5

	// Extractor Defaults
	DefaultExtractorMarker            = "Developed by"
	DefaultExtractorMarkerTimeoutSecs = 10
	DefaultExtractorSettleMs          = 1200
	DefaultExtractorTaglineMaxLen     = 80
	DefaultExtractorMinLineLen        = 6

	// Storage Defaults
	DefaultStorageBackend          = "json"
	DefaultStorageOutputFile       = "mcp_connectors.json"
	DefaultStorageIndexFile        = "mcp_connectors_index.json"
	DefaultStorageSQLitePath       = "database/conndir.db"
	DefaultStorageCompressionCodec = "zstd"

	// Transform Defaults
	DefaultTransformOutputFile        = "mcp_registry_connectors.json"
	DefaultTransformDirectoryBaseURL  = "https://claude.ai/directory"
	DefaultTransformRequestTimeoutSec = 30

	// Progress Defaults
	DefaultProgressDisplayInterval = 3
	DefaultProgressBarWidth        = 20
)

// DefaultTransformInputFiles lists the registry exports read when none are configured
var DefaultTransformInputFiles = []string{"mcp-raw.json", "mcp-raw-2.json"}
