package model

import (
	"errors"
	"fmt"
)

// ErrInvalidWeight is returned for nutrition items whose reference weight is not positive.
var ErrInvalidWeight = errors.New("weight must be greater than zero")

// NutritionItem is master data: kcal contained in a reference weight of food.
type NutritionItem struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Name   string  `gorm:"column:nutrition_name;not null" json:"nutrition_name"`
	Kcal   float64 `gorm:"not null" json:"kcal"`
	Weight float64 `gorm:"not null" json:"weight"`
}

// TableName returns the table name for the NutritionItem model
func (NutritionItem) TableName() string {
	return "nutrition"
}

// KcalPerGram is derived from kcal and weight; zero for an invalid weight.
func (n NutritionItem) KcalPerGram() float64 {
	if n.Weight <= 0 {
		return 0
	}
	return n.Kcal / n.Weight
}

// Validate checks the weight invariant.
func (n NutritionItem) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("nutrition_name is required")
	}
	if n.Weight <= 0 {
		return ErrInvalidWeight
	}
	return nil
}

// NutritionItemView is the wire form of a NutritionItem.
type NutritionItemView struct {
	NutritionItem
	KcalPerGram float64 `json:"kcal_per_gram"`
}

// View attaches the derived ratio.
func (n NutritionItem) View() NutritionItemView {
	return NutritionItemView{NutritionItem: n, KcalPerGram: n.KcalPerGram()}
}

// NutritionEvent records an amount of one nutrition item eaten at a time.
// Several rows may share a timestamp when a meal is logged together.
type NutritionEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	NutritionID uint      `gorm:"not null;index:idx_intake_nutrition_id" json:"nutrition_id"`
	Timestamp   Timestamp `gorm:"type:varchar(19);not null;index:idx_intake_timestamp" json:"timestamp"`
	AmountGrams float64   `gorm:"column:nutrition_amount;not null" json:"nutrition_amount"`
	// kcal at the time of logging
	Kcal float64 `gorm:"column:nutrition_kcal;not null" json:"nutrition_kcal"`
}

// TableName returns the table name for the NutritionEvent model
func (NutritionEvent) TableName() string {
	return "intake"
}

// NutritionEventView joins the master item name; an empty name marks an orphan.
type NutritionEventView struct {
	NutritionEvent
	NutritionName string `json:"nutrition_name"`
}
