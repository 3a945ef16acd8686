//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/lockupdate/internal/domain/commands"
	"github.com/rios0rios0/lockupdate/internal/domain/entities"
)

// StubRunCommand is a stub implementation of commands.Run.
type StubRunCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Report           *commands.RunReport
	LastSettings     *entities.Settings
	LastOpts         commands.RunOptions
}

var _ commands.Run = (*StubRunCommand)(nil)

func (s *StubRunCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.RunOptions,
) (*commands.RunReport, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	if s.Report == nil {
		return &commands.RunReport{}, nil
	}
	return s.Report, nil
}
