package addons

import (
	"fmt"
	"strings"
)

// DeploymentMode selects how the AMP collector runs.
type DeploymentMode int

const (
	DeploymentModeDeployment DeploymentMode = iota
	DeploymentModeDaemonSet
	DeploymentModeStatefulSet
	DeploymentModeSidecar
)

var deploymentModeNames = map[DeploymentMode]string{
	DeploymentModeDeployment:  "deployment",
	DeploymentModeDaemonSet:   "daemonset",
	DeploymentModeStatefulSet: "statefulset",
	DeploymentModeSidecar:     "sidecar",
}

// ParseDeploymentMode parses a mode case-insensitively. Empty means deployment.
func ParseDeploymentMode(s string) (DeploymentMode, error) {
	if s == "" {
		return DeploymentModeDeployment, nil
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	for mode, name := range deploymentModeNames {
		if name == lower {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown deployment mode %q: must be one of deployment, daemonset, statefulset, sidecar", s)
}

// String returns the collector "mode" value.
func (m DeploymentMode) String() string {
	if name, ok := deploymentModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DeploymentMode(%d)", int(m))
}

// Template names the built-in collector template for the mode. Only the
// daemonset mode has its own template; the other modes share one.
func (m DeploymentMode) Template() string {
	switch m {
	case DeploymentModeDaemonSet:
		return ampDaemonSetTemplate
	default:
		return ampDefaultTemplate
	}
}
