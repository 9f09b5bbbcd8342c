package mysql

import (
	"duplo-orders/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for development environments.
// The unique index on orders.order_number comes from here; without it the
// saga's collision handling has nothing to collide against. Production
// schemas are managed by external migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&po.OrderPO{},
		&po.BusinessPO{},
		&po.DepartmentPO{},
	)
}
