package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// regionLookupTimeout bounds the IMDS region lookup when no region is configured locally.
const regionLookupTimeout = 3 * time.Second

// Function variables for dependency injection in tests.
var (
	lookupRegion = func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, regionLookupTimeout)
		defer cancel()

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return "", err
		}
		return awsCfg.Region, nil
	}

	lookupClusterName = func(kubeconfig, contextName string) (string, error) {
		rules := clientcmd.NewDefaultClientConfigLoadingRules()
		if kubeconfig != "" {
			rules.ExplicitPath = kubeconfig
		}
		raw, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).RawConfig()
		if err != nil {
			return "", err
		}
		if contextName == "" {
			contextName = raw.CurrentContext
		}
		kubeContext, ok := raw.Contexts[contextName]
		if !ok {
			return "", fmt.Errorf("context %q not found in kubeconfig", contextName)
		}
		return clusterNameFromRef(kubeContext.Cluster), nil
	}
)

// clusterNameFromRef strips the EKS ARN prefix written by
// "aws eks update-kubeconfig", leaving the bare cluster name.
func clusterNameFromRef(ref string) string {
	if strings.HasPrefix(ref, "arn:") {
		if i := strings.LastIndex(ref, "/"); i >= 0 {
			return ref[i+1:]
		}
	}
	return ref
}

// ResolveClusterFacts fills ClusterName and Region when the file left them
// empty. Values already set are never replaced.
func ResolveClusterFacts(ctx context.Context, cfg *Config) error {
	logger := log.FromContext(ctx)

	if cfg.ClusterName == "" {
		name, err := lookupClusterName(cfg.Kubeconfig, cfg.Context)
		if err != nil {
			return fmt.Errorf("failed to resolve cluster name from kubeconfig: %w", err)
		}
		if name == "" {
			return fmt.Errorf("cluster_name is required: kubeconfig context has no cluster")
		}
		cfg.ClusterName = name
		logger.V(1).Info("resolved cluster name", "cluster", name)
	}

	if cfg.Region == "" {
		region, err := lookupRegion(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve AWS region: %w", err)
		}
		if region == "" && cfg.Addons.Amp.Enabled {
			return fmt.Errorf("region is required for addons.amp: set region or AWS_REGION")
		}
		cfg.Region = region
		logger.V(1).Info("resolved region", "region", region)
	}

	if cfg.Templates.Region == "" {
		cfg.Templates.Region = cfg.Region
	}
	return nil
}
