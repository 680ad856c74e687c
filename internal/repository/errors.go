package repository

import "errors"

var (
	ErrNotFound       = errors.New("entity not found")
	ErrAlreadyExists  = errors.New("entity already exists")
	ErrUpdateFailed   = errors.New("update failed")
	ErrOptimisticLock = errors.New("optimistic lock conflict: data was modified by another process")
	ErrQueryFailed    = errors.New("database query failed")
)
