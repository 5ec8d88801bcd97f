package models

import "time"

type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SupplierID  uint      `json:"supplier_id" gorm:"not null;index"`
	Supplier    User      `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    string    `json:"category" gorm:"index"`
	Stock       int       `json:"stock" gorm:"default:0"`
	Unit        string    `json:"unit"` // e.g. "bag", "ton", "sq ft"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
