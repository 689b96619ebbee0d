package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errClusterNameInvalid = errors.New("cluster name must be a lowercase DNS label (1-63 alphanumeric characters or hyphens)")
	errEndpointRequired   = errors.New("workspace endpoint is required")
	errEndpointInvalid    = errors.New("workspace endpoint must be an absolute https URL")
	errRepoURLInvalid     = errors.New("repository URL must be an absolute URL")
	errIntervalInvalid    = errors.New("interval must be a duration such as 5m0s")
)
