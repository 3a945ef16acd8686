//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/lockupdate/internal/domain/commands"
	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

// StubReconcileCommand is a stub implementation of commands.Reconcile.
// Results and errors are looked up by manifest path; it is safe for
// concurrent use.
type StubReconcileCommand struct {
	// --- Execute ---
	Results map[string]entities.ReconciliationResult
	Errors  map[string]error

	// --- Preview ---
	Previews   map[string]*commands.Preview
	PreviewErr error

	mu       sync.Mutex
	Executed []entities.UpdateRequest
}

var _ commands.Reconcile = (*StubReconcileCommand)(nil)

func (s *StubReconcileCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	request entities.UpdateRequest,
) (entities.ReconciliationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Executed = append(s.Executed, request)
	if err := s.Errors[request.ManifestPath]; err != nil {
		return entities.NoChange(), err
	}
	if result, ok := s.Results[request.ManifestPath]; ok {
		return result, nil
	}
	return entities.NoChange(), nil
}

func (s *StubReconcileCommand) Preview(
	_ context.Context,
	_ *entities.Settings,
	request entities.UpdateRequest,
) (*commands.Preview, error) {
	if s.PreviewErr != nil {
		return nil, s.PreviewErr
	}
	if preview, ok := s.Previews[request.ManifestPath]; ok {
		return preview, nil
	}
	return &commands.Preview{Ecosystem: "stub"}, nil
}

// ExecutedPaths returns the manifest paths passed to Execute, in call order.
func (s *StubReconcileCommand) ExecutedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.Executed))
	for _, request := range s.Executed {
		paths = append(paths, request.ManifestPath)
	}
	return paths
}
