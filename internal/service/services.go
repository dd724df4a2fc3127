package service

import (
	"github.com/MKhiriev/go-tours/internal/adapter"
	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/crypto"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/models"
)

type Services struct {
	TokenService         TokenService
	AuthService          AuthService
	PasswordResetService PasswordResetService
	UserService          UserService
	AppInfoService       AppInfoService
	HealthService        HealthService

	Tours       ResourceService[models.Tour]
	TourReports TourReportService
	Reviews     ResourceService[models.Review]
	Users       ResourceService[models.User]
}

func NewServices(storages *store.Storages, notifier adapter.Notifier, hasher crypto.PasswordHasher,
	cfg config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	tokens := NewTokenService(cfg.App)

	return &Services{
		TokenService:         tokens,
		AuthService:          NewAuthService(storages.Users, hasher, tokens, logger),
		PasswordResetService: NewPasswordResetService(storages.Users, hasher, tokens, notifier, cfg.App, logger),
		UserService:          NewUserService(storages.Users, storages.UsersResource, logger),
		AppInfoService:       appInfo,
		HealthService:        NewHealthService(map[string]Pinger{"storage": storages}),

		Tours:       NewTourService(storages.Tours, storages.Reviews, logger),
		TourReports: NewTourReportService(storages.Tours),
		Reviews:     NewReviewService(storages.Reviews, storages.Tours, logger),
		Users:       NewUserAdminService(storages.UsersResource, logger),
	}, nil
}
