package model

// Supplement is master data for vitamins and similar intakes.
type Supplement struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"column:supplement_name;not null" json:"supplement_name"`
	DefaultAmount float64 `gorm:"default:1" json:"default_amount"`
}

// TableName returns the table name for the Supplement model
func (Supplement) TableName() string {
	return "supplements"
}

// SupplementIntakeEvent records an amount of a supplement taken at a time.
type SupplementIntakeEvent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Timestamp    Timestamp `gorm:"type:varchar(19);not null;index:idx_supplement_intake_timestamp" json:"timestamp"`
	SupplementID uint      `gorm:"not null;index" json:"supplement_id"`
	Amount       float64   `gorm:"column:supplement_amount;not null" json:"supplement_amount"`
}

// TableName returns the table name for the SupplementIntakeEvent model
func (SupplementIntakeEvent) TableName() string {
	return "supplement_intake"
}

// SupplementIntakeView joins the master supplement name.
type SupplementIntakeView struct {
	SupplementIntakeEvent
	SupplementName string `json:"supplement_name"`
}
