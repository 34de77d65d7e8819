package app

import (
	"fmt"
	"sync"

	accessHTTP "github.com/allisson/mediavault/internal/access/http"
	accessRepository "github.com/allisson/mediavault/internal/access/repository"
	accessService "github.com/allisson/mediavault/internal/access/service"
	accessUseCase "github.com/allisson/mediavault/internal/access/usecase"
	"github.com/allisson/mediavault/internal/config"
)

// accessComponents holds the playback token pipeline.
type accessComponents struct {
	tokenService    accessService.TokenService
	tokenRepository accessUseCase.TokenRepository
	tokenUseCase    accessUseCase.TokenUseCase
	tokenHandler    *accessHTTP.TokenHandler

	tokenServiceInit    sync.Once
	tokenRepositoryInit sync.Once
	tokenUseCaseInit    sync.Once
	tokenHandlerInit    sync.Once
}

// TokenService returns the playback token generator.
func (c *Container) TokenService() accessService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = accessService.NewTokenService()
	})
	return c.tokenService
}

// TokenRepository returns the token repository selected by TOKEN_STORE_DRIVER.
func (c *Container) TokenRepository() (accessUseCase.TokenRepository, error) {
	var err error
	c.tokenRepositoryInit.Do(func() {
		c.tokenRepository, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepository"]; exists {
		return nil, storedErr
	}
	return c.tokenRepository, nil
}

// TokenUseCase returns the playback token use case.
func (c *Container) TokenUseCase() (accessUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// TokenHandler returns the token HTTP handler.
func (c *Container) TokenHandler() (*accessHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.initErrors["tokenHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// KeyHandler returns a handler for access key checks and reloads.
func (c *Container) KeyHandler(keys accessHTTP.KeyManager) *accessHTTP.KeyHandler {
	return accessHTTP.NewKeyHandler(keys, c.Logger())
}

// initTokenRepository creates the token repository for the configured driver.
func (c *Container) initTokenRepository() (accessUseCase.TokenRepository, error) {
	switch c.config.TokenStoreDriver {
	case config.TokenStoreMemory:
		c.Logger().Warn("playback tokens are kept in memory and are lost on restart")
		return accessRepository.NewMemoryTokenRepository(), nil
	case config.TokenStorePostgres:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for token repository: %w", err)
		}
		return accessRepository.NewPostgreSQLTokenRepository(db), nil
	case config.TokenStoreMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for token repository: %w", err)
		}
		return accessRepository.NewMySQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported token store driver: %s", c.config.TokenStoreDriver)
	}
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (accessUseCase.TokenUseCase, error) {
	// Tokens are only issued for resources that exist.
	resources, err := c.MediaUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get media use case for token use case: %w", err)
	}

	tokenRepository, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	baseUseCase := accessUseCase.NewTokenUseCase(resources, tokenRepository, c.TokenService())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		return accessUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initTokenHandler creates the token HTTP handler.
func (c *Container) initTokenHandler() (*accessHTTP.TokenHandler, error) {
	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for token handler: %w", err)
	}
	return accessHTTP.NewTokenHandler(tokenUseCase, c.Logger()), nil
}
