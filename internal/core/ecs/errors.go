package ecs

import "errors"

var (
	// Registry errors

	ErrDuplicateType = errors.New("component type already registered")
	ErrInvalidType   = errors.New("invalid component type")
	ErrUnknownType   = errors.New("unknown component type")

	// Entity errors

	ErrEntityNotFound = errors.New("entity not found")
	ErrSelfParent     = errors.New("entity cannot be its own parent")
	ErrParentCycle    = errors.New("parent assignment would create a cycle")

	// Component errors

	ErrComponentNotFound = errors.New("component not found")
)
