package worker

import (
	"github.com/oasis-hotel/portal/internal/service"
)

// StartAuditWorker registers the session audit handlers.
func StartAuditWorker(audit *service.AuditService) {
	if audit == nil {
		return
	}
	audit.RegisterHandlers()
}
