package app

import (
	"fmt"

	ticketHTTP "github.com/allisson/ticketoffice/internal/ticket/http"
	ticketRepository "github.com/allisson/ticketoffice/internal/ticket/repository"
	ticketService "github.com/allisson/ticketoffice/internal/ticket/service"
	ticketUsecase "github.com/allisson/ticketoffice/internal/ticket/usecase"
)

// TicketRepository returns the ticket repository instance.
func (c *Container) TicketRepository() (ticketUsecase.TicketRepository, error) {
	var err error
	c.ticketRepoInit.Do(func() {
		c.ticketRepo, err = c.initTicketRepository()
		if err != nil {
			c.initErrors["ticketRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ticketRepo"]; exists {
		return nil, storedErr
	}
	return c.ticketRepo, nil
}

// PasswordService returns the ticket password service instance.
func (c *Container) PasswordService() (ticketService.PasswordService, error) {
	var err error
	c.passwordServiceInit.Do(func() {
		c.passwordService, err = c.initPasswordService()
		if err != nil {
			c.initErrors["passwordService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.passwordService, nil
}

// TicketUseCase returns the ticket use case instance.
func (c *Container) TicketUseCase() (ticketUsecase.UseCase, error) {
	var err error
	c.ticketUseCaseInit.Do(func() {
		c.ticketUseCase, err = c.initTicketUseCase()
		if err != nil {
			c.initErrors["ticketUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ticketUseCase"]; exists {
		return nil, storedErr
	}
	return c.ticketUseCase, nil
}

// TicketHandler returns the HTTP handler for ticket administration.
func (c *Container) TicketHandler() (*ticketHTTP.TicketHandler, error) {
	var err error
	c.ticketHandlerInit.Do(func() {
		c.ticketHandler, err = c.initTicketHandler()
		if err != nil {
			c.initErrors["ticketHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ticketHandler"]; exists {
		return nil, storedErr
	}
	return c.ticketHandler, nil
}

// initTicketRepository creates the ticket repository instance.
func (c *Container) initTicketRepository() (ticketUsecase.TicketRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for ticket repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return ticketRepository.NewMySQLTicketRepository(db), nil
	case "postgres":
		return ticketRepository.NewPostgreSQLTicketRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPasswordService creates the password service from the configured generator bounds.
func (c *Container) initPasswordService() (ticketService.PasswordService, error) {
	service, err := ticketService.NewPasswordService(ticketService.GeneratorConfig{
		MinLength: c.config.PasswordMinLength,
		MaxLength: c.config.PasswordMaxLength,
		Alphabet:  ticketService.DefaultAlphabet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create password service: %w", err)
	}
	return service, nil
}

// initTicketUseCase creates the ticket use case with all its dependencies.
func (c *Container) initTicketUseCase() (ticketUsecase.UseCase, error) {
	ticketRepo, err := c.TicketRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket repository for ticket use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for ticket use case: %w", err)
	}

	useCase := ticketUsecase.NewTicketUseCase(ticketRepo, passwordService)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for ticket use case: %w", err)
	}

	return ticketUsecase.NewTicketUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initTicketHandler creates the ticket HTTP handler with all its dependencies.
func (c *Container) initTicketHandler() (*ticketHTTP.TicketHandler, error) {
	useCase, err := c.TicketUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket use case for ticket handler: %w", err)
	}

	return ticketHTTP.NewTicketHandler(useCase, c.Logger()), nil
}
