package app

import (
	"fmt"

	auditRepository "github.com/allisson/emoticare/internal/audit/repository"
	auditUseCase "github.com/allisson/emoticare/internal/audit/usecase"
)

// AuditEventRepository returns the audit repository for the configured driver.
func (c *Container) AuditEventRepository() (auditUseCase.AuditEventRepository, error) {
	var err error
	c.auditRepositoryInit.Do(func() {
		c.auditRepository, err = c.initAuditEventRepository()
		if err != nil {
			c.initErrors["auditRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepository"]; exists {
		return nil, storedErr
	}
	return c.auditRepository, nil
}

// AuditRecorder returns the asynchronous audit recorder. Shutdown drains it.
func (c *Container) AuditRecorder() (*auditUseCase.AsyncRecorder, error) {
	var err error
	c.auditRecorderInit.Do(func() {
		var repo auditUseCase.AuditEventRepository
		repo, err = c.AuditEventRepository()
		if err != nil {
			err = fmt.Errorf("failed to get audit repository for recorder: %w", err)
			c.initErrors["auditRecorder"] = err
			return
		}
		c.auditRecorder = auditUseCase.NewAsyncRecorder(repo, c.config.AuditQueueSize, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRecorder"]; exists {
		return nil, storedErr
	}
	return c.auditRecorder, nil
}

// AuditEventUseCase returns the audit query and retention use case.
func (c *Container) AuditEventUseCase() (auditUseCase.AuditEventUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		var repo auditUseCase.AuditEventRepository
		repo, err = c.AuditEventRepository()
		if err != nil {
			err = fmt.Errorf("failed to get audit repository for use case: %w", err)
			c.initErrors["auditUseCase"] = err
			return
		}
		c.auditUseCase = auditUseCase.NewAuditEventUseCase(repo)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

func (c *Container) initAuditEventRepository() (auditUseCase.AuditEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLAuditEventRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLAuditEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
