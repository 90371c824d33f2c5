package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Base struct {
	ID        string         `gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Array is a slice stored as a JSON column.
type Array[T any] []T

func (a *Array[T]) Scan(obj any) error {
	switch t := obj.(type) {
	case string:
		return json.Unmarshal([]byte(t), a)
	case []byte:
		return json.Unmarshal(t, a)
	}

	return fmt.Errorf("cannot scan invalid data type %T", obj)
}

func (a Array[T]) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Map is a free-form object stored as a JSON column.
type Map map[string]any

func (m *Map) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), m)
	case []byte:
		return json.Unmarshal(t, m)
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (m Map) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Reward{},
		&UserReward{},
		&Collective{},
		&CollectiveReward{},
		&CollectiveUnlocked{},
		&NotificationEvent{},
		&PrizeCategory{},
		&PrizeTier{},
		&PrizeCatalog{},
		&PrizeAward{},
		&PrizeRedemption{},
		&RedemptionStatusHistory{},
		&MysteryBoxEvent{},
		&Feedback{},
	)
}
