package plan

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResource struct {
	kind, name, namespace string
	manifest              string
	renderErr             error
}

func (r *fakeResource) Kind() string      { return r.kind }
func (r *fakeResource) Name() string      { return r.name }
func (r *fakeResource) Namespace() string { return r.namespace }

func (r *fakeResource) Render(context.Context) ([]byte, error) {
	if r.renderErr != nil {
		return nil, r.renderErr
	}
	if r.manifest != "" {
		return []byte(r.manifest), nil
	}
	return []byte("kind: " + r.kind + "\nmetadata:\n  name: " + r.name + "\n"), nil
}

func manifestRes(name string) *fakeResource {
	return &fakeResource{kind: "Manifest", name: name, namespace: "default"}
}

func mustAdd(t *testing.T, p *Plan, r Resource) *Handle {
	t.Helper()
	h, err := p.Add(r)
	require.NoError(t, err)
	return h
}

func ids(handles []*Handle) []string {
	out := make([]string, len(handles))
	for i, h := range handles {
		out[i] = h.ID()
	}
	return out
}

func TestPlan_Add(t *testing.T) {
	t.Parallel()
	p := New()

	h := mustAdd(t, p, &fakeResource{kind: "Namespace", name: "flux-system"})
	assert.Equal(t, "Namespace/flux-system", h.ID())
	assert.Equal(t, "Namespace", h.Kind())
	assert.Empty(t, h.Namespace())

	h2 := mustAdd(t, p, manifestRes("adot-collector-amp"))
	assert.Equal(t, "Manifest/default/adot-collector-amp", h2.String())
	assert.Equal(t, 2, p.Len())
}

func TestPlan_Add_Errors(t *testing.T) {
	t.Parallel()
	p := New()
	mustAdd(t, p, manifestRes("a"))

	_, err := p.Add(manifestRes("a"))
	assert.ErrorIs(t, err, ErrDuplicateResource)

	_, err = p.Add(nil)
	assert.Error(t, err)

	_, err = p.Add(manifestRes(""))
	assert.Error(t, err)
}

func TestPlan_Lookup(t *testing.T) {
	t.Parallel()
	p := New()
	ns := mustAdd(t, p, &fakeResource{kind: "Namespace", name: "observability"})

	got, ok := p.Lookup(&fakeResource{kind: "Namespace", name: "observability"})
	require.True(t, ok)
	assert.Same(t, ns, got)

	_, ok = p.Lookup(&fakeResource{kind: "Namespace", name: "other"})
	assert.False(t, ok)
}

func TestPlan_DeclareDependency_Idempotent(t *testing.T) {
	t.Parallel()
	p := New()
	a := mustAdd(t, p, manifestRes("a"))
	b := mustAdd(t, p, manifestRes("b"))

	require.NoError(t, p.DeclareDependency(a, b))
	require.NoError(t, p.DeclareDependency(a, b))

	edges := p.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, a, edges[0].Dependent)
	assert.Equal(t, b, edges[0].Dependency)
	assert.Equal(t, []*Handle{b}, p.DependenciesOf(a))
}

func TestPlan_DeclareDependency_Cycle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		setup      func(p *Plan, hs []*Handle) error
		dependent  int
		dependency int
	}{
		{
			name:       "two node cycle",
			setup:      func(p *Plan, hs []*Handle) error { return p.DeclareDependency(hs[0], hs[1]) },
			dependent:  1,
			dependency: 0,
		},
		{
			name: "three node cycle",
			setup: func(p *Plan, hs []*Handle) error {
				if err := p.DeclareDependency(hs[0], hs[1]); err != nil {
					return err
				}
				return p.DeclareDependency(hs[1], hs[2])
			},
			dependent:  2,
			dependency: 0,
		},
		{
			name:       "self edge",
			setup:      func(*Plan, []*Handle) error { return nil },
			dependent:  0,
			dependency: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := New()
			hs := []*Handle{
				mustAdd(t, p, manifestRes("a")),
				mustAdd(t, p, manifestRes("b")),
				mustAdd(t, p, manifestRes("c")),
			}
			require.NoError(t, tt.setup(p, hs))
			before := p.Edges()

			err := p.DeclareDependency(hs[tt.dependent], hs[tt.dependency])

			var cycleErr *CycleError
			require.ErrorAs(t, err, &cycleErr)
			assert.True(t, IsCycle(err))
			assert.Equal(t, hs[tt.dependent].ID(), cycleErr.Dependent)
			assert.Equal(t, before, p.Edges(), "rejected edge must not be recorded")

			_, err = p.Order()
			assert.NoError(t, err)
		})
	}
}

func TestPlan_DeclareDependency_UnknownHandle(t *testing.T) {
	t.Parallel()
	p := New()
	other := New()
	a := mustAdd(t, p, manifestRes("a"))
	foreign := mustAdd(t, other, manifestRes("b"))

	assert.ErrorIs(t, p.DeclareDependency(a, foreign), ErrUnknownHandle)
	assert.ErrorIs(t, p.DeclareDependency(nil, a), ErrUnknownHandle)

	sameID := mustAdd(t, other, manifestRes("a"))
	assert.ErrorIs(t, p.DeclareDependency(sameID, a), ErrUnknownHandle)
}

func TestPlan_Order(t *testing.T) {
	t.Parallel()
	p := New()
	chart := mustAdd(t, p, &fakeResource{kind: "HelmChart", name: "flux2", namespace: "flux-system"})
	ns := mustAdd(t, p, &fakeResource{kind: "Namespace", name: "flux-system"})
	repo := mustAdd(t, p, &fakeResource{kind: "Object", name: "samplerepo", namespace: "flux-system"})
	independent := mustAdd(t, p, manifestRes("other"))

	require.NoError(t, p.DeclareDependency(chart, ns))
	require.NoError(t, p.DeclareDependency(repo, chart))

	order, err := p.Order()
	require.NoError(t, err)

	pos := make(map[string]int)
	for i, id := range ids(order) {
		pos[id] = i
	}
	assert.Len(t, order, 4)
	assert.Less(t, pos[ns.ID()], pos[chart.ID()])
	assert.Less(t, pos[chart.ID()], pos[repo.ID()])
	assert.Contains(t, pos, independent.ID())
}

func TestPlan_ConcurrentDeclarations(t *testing.T) {
	t.Parallel()
	p := New()
	root := mustAdd(t, p, manifestRes("root"))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := p.Add(manifestRes(string(rune('a' + i))))
			if err != nil {
				errs <- err
				return
			}
			errs <- p.DeclareDependency(h, root)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, p.Edges(), 20)
	assert.Equal(t, 21, p.Len())
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "dependency a -> b would create a cycle", (&CycleError{Dependent: "a", Dependency: "b"}).Error())
	assert.Equal(t, "resource a cannot depend on itself", (&CycleError{Dependent: "a", Dependency: "a"}).Error())
	assert.False(t, IsCycle(errors.New("other")))
}
