package constants

import "errors"

// Session errors.
var (
	ErrClientNotInitialized = errors.New("You must initialize the client first with initialize_client()") //nolint:stylecheck // message is shown verbatim to the tool host
	ErrNoServerURL          = errors.New("no CML server URL configured, set --url or CML_URL")
	ErrNoCredentials        = errors.New("no CML credentials configured, set --username/--password or CML_USERNAME/CML_PASSWORD")
	ErrEmptyToken           = errors.New("login endpoint returned an empty token")
)

// Lab state errors.
var (
	ErrLabRunning = errors.New("Cannot create interfaces while the lab is running. Please stop the lab first.") //nolint:stylecheck // message is shown verbatim to the tool host
)

// Response shape errors.
var (
	ErrNoIDReturned            = errors.New("no ID returned")
	ErrNoInterfacesFound       = errors.New("no interfaces found")
	ErrNoAvailableInterface    = errors.New("no available physical interface found")
	ErrNoPhysicalInterfaces    = errors.New("no physical interfaces found")
	ErrAllLinkStrategiesFailed = errors.New("failed to create link with all payload formats")
)

// Validation errors.
var (
	ErrNoVLANs         = errors.New("at least one VLAN is required")
	ErrInvalidArgument = errors.New("invalid argument")
)
