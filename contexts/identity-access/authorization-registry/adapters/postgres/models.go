package postgresadapter

import (
	"time"

	"voyago/contexts/identity-access/authorization-registry/domain/entities"
)

type grantModel struct {
	Caller     string    `gorm:"column:caller;primaryKey"`
	Authorized bool      `gorm:"column:authorized"`
	GrantedBy  string    `gorm:"column:granted_by"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (grantModel) TableName() string {
	return "authz_caller_grants"
}

func (m grantModel) toEntity() entities.CallerGrant {
	return entities.CallerGrant{
		Caller:     m.Caller,
		Authorized: m.Authorized,
		GrantedBy:  m.GrantedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func grantModelFromEntity(grant entities.CallerGrant) grantModel {
	return grantModel{
		Caller:     grant.Caller,
		Authorized: grant.Authorized,
		GrantedBy:  grant.GrantedBy,
		CreatedAt:  grant.CreatedAt,
		UpdatedAt:  grant.UpdatedAt,
	}
}

type outboxModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "authz_outbox"
}
