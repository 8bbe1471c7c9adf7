package types

import "time"

// Farm ids are caller-supplied external identifiers, so the primary key stays
// a plain string rather than a generated uuid. Farms are created lazily and
// never updated or deleted by this service.
type Farm struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Location  *string   `gorm:"column:location" json:"location"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Farm) TableName() string {
	return "farms"
}
