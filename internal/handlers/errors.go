package handlers

import (
	"errors"
	"fmt"
)

var (
	errCategoryNotFound = errors.New("Category not found or inactive")
	errCartEmpty        = errors.New("Cart is empty")
	errInvalidAddress   = errors.New("Invalid address")
)

// outOfStockError names the offending product so the whole order can be
// rejected with a useful message.
type outOfStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e outOfStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s", e.ProductName)
}

type productInactiveError struct {
	ProductName string
}

func (e productInactiveError) Error() string {
	return fmt.Sprintf("Product %s is no longer available", e.ProductName)
}

// couponError carries the business-rule message for a failed coupon
// check; the same type backs checkout and the preview endpoint.
type couponError struct {
	Reason string
	Status int
}

func (e couponError) Error() string { return e.Reason }
