package models

// Ingredient is a catalog entry recipes refer to through Composition.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:150;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:50;not null" json:"measurement_unit"`
}

// Tag labels recipes. Color is a #RRGGBB hex string.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:150;not null" json:"name"`
	Color string `gorm:"size:7;not null;default:'#FFFFFF'" json:"color"`
	Slug  string `gorm:"size:150;not null;uniqueIndex" json:"slug"`
}
