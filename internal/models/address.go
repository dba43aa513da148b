package models

// Address is owned by exactly one employee; the unique index on EmployeeID
// enforces the one-to-one relationship at the storage layer.
type Address struct {
	ID         uint   `gorm:"primaryKey"`
	City       string `gorm:"type:varchar(100);not null"`
	PostCode   string `gorm:"type:varchar(6);not null"`
	Street     string `gorm:"type:varchar(100);not null"`
	Number     int    `gorm:"not null"`
	EmployeeID uint   `gorm:"not null;uniqueIndex"`
}
