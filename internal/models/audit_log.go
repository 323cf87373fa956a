// internal/models/audit_log.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog keeps a history of admin trust decisions. Approval status is
// freely reversible, so the log is the only record of past states.
type AuditLog struct {
	BaseModel
	ActorID      uuid.UUID  `json:"actor_id" gorm:"type:uuid;not null;index"`
	Action       string     `json:"action" gorm:"size:100;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:50;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	OldValues    JSONB      `json:"old_values" gorm:"type:jsonb"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
}
