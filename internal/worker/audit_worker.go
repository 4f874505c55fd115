package worker

import (
	"github.com/spec-kit/genre-sales-api/internal/service"
)

// StartAuditWorker subscribes the audit trail to login events.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
