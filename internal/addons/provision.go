package addons

import (
	"context"
	"fmt"

	toposort "github.com/philopon/go-toposort"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Provision deploys addOns onto info.Plan.
//
// Add-ons are deployed after the add-ons they depend on, each exactly once.
// Every declared add-on dependency becomes a plan edge from the dependent's
// handle to the dependency's handle. A dependency missing from addOns is a
// ConfigError. No resource is applied; call info.Plan.Execute afterwards.
func Provision(ctx context.Context, info *ClusterInfo, addOns ...ClusterAddOn) error {
	logger := log.FromContext(ctx)

	order, err := deployOrder(addOns)
	if err != nil {
		return err
	}

	for _, a := range order {
		name := a.Name()
		logger.Info("deploying add-on", "addon", name)

		h, err := a.Deploy(ctx, info)
		if err != nil {
			return fmt.Errorf("failed to deploy add-on %s: %w", name, err)
		}
		info.AddProvisionedAddOn(name, h)

		for _, dep := range dependenciesOf(a) {
			depHandle, _ := info.GetProvisionedAddOn(dep)
			if err := info.Plan.DeclareDependency(h, depHandle); err != nil {
				return fmt.Errorf("failed to order add-on %s after %s: %w", name, dep, err)
			}
		}
	}

	logger.V(1).Info("add-ons provisioned", "count", len(order), "resources", info.Plan.Len())
	return nil
}

// deployOrder sorts add-ons so dependencies come first, keeping the caller's
// order among independent add-ons.
func deployOrder(addOns []ClusterAddOn) ([]ClusterAddOn, error) {
	byName := make(map[string]ClusterAddOn, len(addOns))
	graph := toposort.NewGraph(len(addOns))
	for _, a := range addOns {
		name := a.Name()
		if _, dup := byName[name]; dup {
			return nil, &ConfigError{AddOn: name, Reason: "add-on listed more than once"}
		}
		byName[name] = a
		graph.AddNode(name)
	}

	for _, a := range addOns {
		for _, dep := range dependenciesOf(a) {
			if _, ok := byName[dep]; !ok {
				return nil, &ConfigError{
					AddOn:  a.Name(),
					Field:  "dependencies",
					Reason: fmt.Sprintf("requires add-on %s, which is not enabled", dep),
				}
			}
			graph.AddEdge(dep, a.Name())
		}
	}

	sorted, ok := graph.Toposort()
	if !ok {
		return nil, &ConfigError{AddOn: addOns[0].Name(), Field: "dependencies", Reason: "add-on dependencies form a cycle"}
	}

	order := make([]ClusterAddOn, 0, len(sorted))
	for _, name := range sorted {
		order = append(order, byName[name])
	}
	return order, nil
}

func dependenciesOf(a ClusterAddOn) []string {
	if d, ok := a.(Dependent); ok {
		return d.DependsOn()
	}
	return nil
}
