package domain

import "errors"

var (
	// ErrPatternNotFound is returned when a referenced pattern no longer exists.
	ErrPatternNotFound = errors.New("pattern not found")
	// ErrEquipmentNotFound is returned when equipment cannot be located.
	ErrEquipmentNotFound = errors.New("equipment not found")
)
