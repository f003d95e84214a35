package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Configuration file location under the home directory.
const (
	ConfigDirName  = ".cml-mcp"
	ConfigFileName = "config.yml"

	// EnvPrefix prefixes the environment variables read by the CLI.
	EnvPrefix = "CML"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as the token check.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits for the transport layer.
const (
	// DefaultRetryMax is zero: transient failures are not retried unless
	// explicitly configured, only the single reauthentication applies.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait between transport retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Polling intervals and timeouts.
const (
	// NodePollInterval is the delay between readiness rounds.
	NodePollInterval = 5 * time.Second

	// DefaultNodeWaitTimeout is the default readiness deadline.
	DefaultNodeWaitTimeout = 60 * time.Second

	// LabStopSettleDelay is how long to wait after stopping a lab before deleting it.
	LabStopSettleDelay = 2 * time.Second

	// QuickPollInterval is used for fast polling in tests.
	QuickPollInterval = 10 * time.Millisecond
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second

	// TokenLogPrefixLength is the number of token characters that may appear in logs.
	TokenLogPrefixLength = 10
)

// CML API paths.
const (
	APIPathAuthenticate    = "/api/v0/authenticate"
	APIPathAuthOK          = "/api/v0/authok"
	APIPathLabs            = "/api/v0/labs"
	APIPathNodeDefinitions = "/api/v0/node_definitions"
)

// Lab and node states.
const (
	// StateStarted is reported by labs and nodes that are running.
	StateStarted = "STARTED"
)

// Node definitions used by the router and switch shortcuts.
const (
	// NodeDefinitionRouter is the IOSv router image.
	NodeDefinitionRouter = "iosv"

	// NodeDefinitionSwitch is the IOSv layer 2 switch image.
	NodeDefinitionSwitch = "iosvl2"

	// DefaultSwitchInterfaces is the default number of switch ports.
	DefaultSwitchInterfaces = 8

	// DefaultInterfaceSlot is the slot used when creating an interface.
	DefaultInterfaceSlot = 4
)

// Interface attributes.
const (
	// InterfaceTypePhysical marks a physical interface.
	InterfaceTypePhysical = "physical"

	// UUIDLength is the standard UUID length.
	UUIDLength = 36
)

// Display constants.
const (
	// Untitled is used for labs without a title.
	Untitled = "Untitled"

	// Unknown is used for missing attribute values.
	Unknown = "unknown"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// Operation status values returned to the tool host.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)
