package addons

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/plan"
)

// FluxCDAddOnName identifies the Flux add-on in the chart registry.
const FluxCDAddOnName = "fluxcd"

// GitRepositoryProps configures the Flux GitRepository source.
type GitRepositoryProps struct {
	Name      string
	Namespace string
	URL       string
	Branch    string
	Interval  string
}

// FluxCDAddOnProps configures Flux.
type FluxCDAddOnProps struct {
	HelmAddOnProps
	// CreateNamespace defaults to true.
	CreateNamespace *bool
	// GitRepository fields left empty take the defaults.
	GitRepository GitRepositoryProps
}

func fluxDefaultProps() HelmAddOnProps {
	return HelmAddOnProps{
		Name:       "fluxcd-addon",
		Namespace:  "flux-system",
		Chart:      "flux2",
		Version:    "2.7.0",
		Release:    "blueprints-fluxcd-addon",
		Repository: "https://fluxcd-community.github.io/helm-charts",
		Values:     helm.Values{},
	}
}

var defaultGitRepositoryProps = GitRepositoryProps{
	Name:      "samplerepo",
	Namespace: "flux-system",
	Interval:  "5m0s",
	URL:       "https://github.com/aws-samples/eks-blueprints-workloads.git",
	Branch:    "master",
}

// FluxCDAddOn installs Flux and a GitRepository it reconciles from.
type FluxCDAddOn struct {
	HelmAddOn
	createNamespace bool
	gitRepository   GitRepositoryProps
}

// NewFluxCDAddOn creates the add-on with props merged over the defaults.
func NewFluxCDAddOn(props FluxCDAddOnProps) *FluxCDAddOn {
	git := defaultGitRepositoryProps
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&git.Name, props.GitRepository.Name},
		{&git.Namespace, props.GitRepository.Namespace},
		{&git.URL, props.GitRepository.URL},
		{&git.Branch, props.GitRepository.Branch},
		{&git.Interval, props.GitRepository.Interval},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}

	return &FluxCDAddOn{
		HelmAddOn:       HelmAddOn{props: mergeHelmProps(fluxDefaultProps(), props.HelmAddOnProps)},
		createNamespace: props.CreateNamespace == nil || *props.CreateNamespace,
		gitRepository:   git,
	}
}

func (f *FluxCDAddOn) Name() string { return FluxCDAddOnName }

// GitRepository returns the effective Git source properties.
func (f *FluxCDAddOn) GitRepository() GitRepositoryProps { return f.gitRepository }

// Deploy registers the Flux chart, its namespace when requested, and the
// GitRepository.
//
// Some Flux installers order the chart after the source object. Here the
// GitRepository is ordered after the chart instead, because the chart
// installs the GitRepository CRD and the object cannot be applied before it.
func (f *FluxCDAddOn) Deploy(_ context.Context, info *ClusterInfo) (*plan.Handle, error) {
	chart, err := f.addHelmChart(info, FluxCDAddOnName, f.props.Values)
	if err != nil {
		return nil, err
	}

	if f.createNamespace {
		if err := f.addNamespace(info, chart); err != nil {
			return nil, err
		}
	}

	source, err := info.Plan.Add(NewObjectResource(info, f.props.Name, gitRepositoryObject(f.gitRepository)))
	if err != nil {
		return nil, fmt.Errorf("failed to add GitRepository %s: %w", f.gitRepository.Name, err)
	}
	if err := info.Plan.DeclareDependency(source, chart); err != nil {
		return nil, err
	}

	return chart, nil
}

// gitRepositoryObject builds a source.toolkit.fluxcd.io GitRepository.
func gitRepositoryObject(p GitRepositoryProps) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "source.toolkit.fluxcd.io/v1",
		"kind":       "GitRepository",
		"metadata": map[string]any{
			"name":      p.Name,
			"namespace": p.Namespace,
		},
		"spec": map[string]any{
			"interval": p.Interval,
			"url":      p.URL,
			"ref": map[string]any{
				"branch": p.Branch,
			},
		},
	}}
}
