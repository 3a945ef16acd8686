package internal

import "github.com/rios0rios0/lockupdate/internal/domain/entities"

// AppInternal holds everything the CLI entrypoint needs after injection.
type AppInternal struct {
	controllers []entities.Controller
}

func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns the controllers in registration order.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
