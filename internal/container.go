package internal

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/lockupdate/internal/domain/commands"
	"github.com/rios0rios0/lockupdate/internal/infrastructure/controllers"
	"github.com/rios0rios0/lockupdate/internal/infrastructure/repositories"
)

// RegisterProviders registers all internal providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// bottom-up: infrastructure repos -> domain commands -> controllers
	if err := repositories.RegisterProviders(container); err != nil {
		return err
	}
	if err := commands.RegisterProviders(container); err != nil {
		return err
	}
	if err := controllers.RegisterProviders(container); err != nil {
		return err
	}

	if err := container.Provide(NewAppInternal); err != nil {
		return err
	}

	return nil
}
