package entity

import "time"

// Unit представляет учебный раздел — верхний уровень каталога
type Unit struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:1000;not null;default:''" json:"description"`
	Position    int        `gorm:"not null;default:0" json:"position"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	Categories  []Category `gorm:"foreignKey:UnitID" json:"categories,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Unit) TableName() string {
	return "units"
}
