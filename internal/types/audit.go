package types

import (
	"time"

	"github.com/google/uuid"
)

// Audit carries the common identity and soft-delete fields shared by every
// entity. Deletes are row updates; repositories filter is_deleted by default.
type Audit struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"createdAt"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updatedAt"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updatedBy,omitempty"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
	DeletedBy *uuid.UUID `gorm:"type:uuid" json:"-"`
}

// Versioned adds point-in-time fields for entities whose historical shape
// must stay resolvable (taxonomy, test templates). Rows are immutable
// snapshots; exactly one row per logical entity has IsCurrent set.
type Versioned struct {
	Version       int        `gorm:"not null;default:1" json:"version"`
	EffectiveFrom time.Time  `gorm:"not null;default:now()" json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
	IsCurrent     bool       `gorm:"not null;default:true;index" json:"isCurrent"`
}

// SoftDelete stamps the audit fields for a delete without removing the row.
func (a *Audit) SoftDelete(by *uuid.UUID) {
	now := time.Now().UTC()
	a.IsDeleted = true
	a.DeletedAt = &now
	a.DeletedBy = by
	a.UpdatedAt = now
}
