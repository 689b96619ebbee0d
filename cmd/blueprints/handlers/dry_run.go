package handlers

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/imamik/blueprints/internal/addons/k8sclient"
)

// printApplier writes manifests instead of applying them.
type printApplier struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printApplier) ApplyManifests(_ context.Context, manifests []byte, opts k8sclient.ApplyOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if opts.Namespace != "" {
		fmt.Fprintf(p.out, "# namespace: %s\n", opts.Namespace)
	}
	if _, err := p.out.Write(manifests); err != nil {
		return err
	}
	if len(manifests) > 0 && manifests[len(manifests)-1] != '\n' {
		fmt.Fprintln(p.out)
	}
	_, err := fmt.Fprintln(p.out, "---")
	return err
}
