package model

// GlucoseReading is one blood glucose measurement in mg/dL.
type GlucoseReading struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp Timestamp `gorm:"type:varchar(19);not null;index:idx_glucose_timestamp" json:"timestamp"`
	Level     int       `gorm:"not null" json:"level"`
}

// TableName returns the table name for the GlucoseReading model
func (GlucoseReading) TableName() string {
	return "glucose"
}

// InsulinDose is one insulin injection in units.
type InsulinDose struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp Timestamp `gorm:"type:varchar(19);not null;index:idx_insulin_timestamp" json:"timestamp"`
	Level     float64   `gorm:"not null" json:"level"`
}

// TableName returns the table name for the InsulinDose model
func (InsulinDose) TableName() string {
	return "insulin"
}

// LifeEvent is a free-form note such as exercise or illness.
type LifeEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp Timestamp `gorm:"type:varchar(19);not null;index:idx_event_timestamp" json:"timestamp"`
	Name      string    `gorm:"column:event_name;not null" json:"event_name"`
	Notes     string    `gorm:"column:event_notes" json:"event_notes"`
}

// TableName returns the table name for the LifeEvent model
func (LifeEvent) TableName() string {
	return "event"
}
