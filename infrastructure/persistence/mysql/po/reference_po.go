package po

import "time"

// BusinessPO and DepartmentPO map the pre-existing reference tables. This
// service only reads them (department name for the aggregation join); their
// lifecycle is owned elsewhere.

type BusinessPO struct {
	ID                 string    `gorm:"primaryKey;size:36"`
	Name               string    `gorm:"size:255;not null"`
	RegistrationNumber string    `gorm:"size:64"`
	Address            string    `gorm:"size:512"`
	IsActive           bool      `gorm:"default:true"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
}

func (BusinessPO) TableName() string {
	return "businesses"
}

type DepartmentPO struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Name       string    `gorm:"size:255;not null"`
	HeadName   string    `gorm:"size:255"`
	HeadEmail  string    `gorm:"size:255"`
	BusinessID string    `gorm:"size:36;index;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (DepartmentPO) TableName() string {
	return "departments"
}
