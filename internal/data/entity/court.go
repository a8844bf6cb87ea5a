package entity

import (
	"github.com/google/uuid"
)

type Court struct {
	BaseNoDelete
	ClubID            uuid.UUID `db:"club_id"`
	Name              string    `db:"name"`
	Surface           string    `db:"surface"`
	PricePerHourCents int64     `db:"price_per_hour_cents"`
	IsActive          bool      `db:"is_active"`
}

type Club struct {
	BaseNoDelete
	OrganizationID uuid.UUID `db:"organization_id"`
	Name           string    `db:"name"`
	Timezone       string    `db:"timezone"`
}

type Organization struct {
	BaseNoDelete
	Name string `db:"name"`
}
