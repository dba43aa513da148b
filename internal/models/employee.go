package models

import "time"

type Employee struct {
	ID        uint       `gorm:"primaryKey"`
	FirstName string     `gorm:"type:varchar(100);not null"`
	LastName  string     `gorm:"type:varchar(100);not null"`
	Email     string     `gorm:"type:varchar(200);uniqueIndex"`
	BirthDate *time.Time `gorm:"type:date"`
	Position  string     `gorm:"type:varchar(200)"`
	Salary    int        `gorm:"not null"`
	Created   time.Time  `gorm:"not null"`
	Address   *Address   `gorm:"foreignKey:EmployeeID;references:ID"`
}
