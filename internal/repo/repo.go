package repo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type GormRepo struct {
	DB *gorm.DB
}
