package service

import (
	"github.com/arenaretail/pos/internal/domain"
)

// Order errors - use domain.ENOTFOUND / domain.ECONFLICT
var (
	ErrOrderNotFound   = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
	ErrProductNotFound = domain.Errorf(domain.ENOTFOUND, "", "Product not found")
)
