package entity

import "time"

type User struct {
	Base

	Email       string `gorm:"uniqueIndex"`
	DisplayName string
	EmployeeID  string
	JobCode     string
	Department  string
	HiredAt     *time.Time
	Groups      Array[string]
	Programs    Array[string]

	// Attributes holds free-form profile fields such as birthday used by
	// eligibility rules.
	Attributes Map

	IsActive bool `gorm:"default:true"`
}
