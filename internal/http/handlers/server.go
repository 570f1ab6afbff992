package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/steel-quoter/internal/repo"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

var (
	customerRepo   repo.CustomerRepository
	materialRepo   repo.MaterialRepository
	attachmentRepo repo.AttachmentRepository
	quoteService   *service.Service

	logger      logrus.FieldLogger = logrus.StandardLogger()
	healthCheck func(ctx context.Context) error
)

func SetCustomerRepo(r repo.CustomerRepository) {
	customerRepo = r
}

func SetMaterialRepo(r repo.MaterialRepository) {
	materialRepo = r
}

func SetAttachmentRepo(r repo.AttachmentRepository) {
	attachmentRepo = r
}

func SetService(s *service.Service) {
	quoteService = s
}

func SetLogger(l logrus.FieldLogger) {
	logger = l
}

// SetHealthCheck installs the probe used by /healthz, usually a database ping.
func SetHealthCheck(check func(ctx context.Context) error) {
	healthCheck = check
}
