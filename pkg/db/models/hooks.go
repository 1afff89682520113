package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are generated app-side so the models behave the same on postgres
// and on the sqlite backend used in development and tests.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error              { ensureID(&u.ID); return nil }
func (a *Address) BeforeCreate(tx *gorm.DB) error           { ensureID(&a.ID); return nil }
func (c *PaymentCard) BeforeCreate(tx *gorm.DB) error       { ensureID(&c.ID); return nil }
func (p *Product) BeforeCreate(tx *gorm.DB) error           { ensureID(&p.ID); return nil }
func (c *CartRecord) BeforeCreate(tx *gorm.DB) error        { ensureID(&c.ID); return nil }
func (i *CartItem) BeforeCreate(tx *gorm.DB) error          { ensureID(&i.ID); return nil }
func (o *Order) BeforeCreate(tx *gorm.DB) error             { ensureID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error         { ensureID(&i.ID); return nil }
func (e *PointsLedgerEntry) BeforeCreate(tx *gorm.DB) error { ensureID(&e.ID); return nil }
func (p *Post) BeforeCreate(tx *gorm.DB) error              { ensureID(&p.ID); return nil }
func (e *Event) BeforeCreate(tx *gorm.DB) error             { ensureID(&e.ID); return nil }
func (r *Review) BeforeCreate(tx *gorm.DB) error            { ensureID(&r.ID); return nil }
