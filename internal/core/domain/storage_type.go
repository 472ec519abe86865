package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StorageObjectType is the type of an object in a storage system.
// Only the major version of a "Name-Major.Minor" type string is retained.
type StorageObjectType struct {
	// StorageCode identifies the storage system.
	StorageCode string

	// Type is the type name without module version.
	Type string

	// Version is the major version. Nil when the type is unversioned.
	Version *int
}

// ParseStorageObjectType parses a "Name-Major.Minor" type string.
func ParseStorageObjectType(storageCode, typeString string) (StorageObjectType, error) {
	name, ver, ok := strings.Cut(typeString, "-")
	if !ok || name == "" {
		return StorageObjectType{}, fmt.Errorf("%w: type string %q", ErrInvalidInput, typeString)
	}
	major, _, _ := strings.Cut(ver, ".")
	v, err := strconv.Atoi(major)
	if err != nil {
		return StorageObjectType{}, fmt.Errorf("%w: type string %q has bad version", ErrInvalidInput, typeString)
	}
	return StorageObjectType{StorageCode: storageCode, Type: name, Version: &v}, nil
}

// String renders the type as CODE:Name-Major.
func (t StorageObjectType) String() string {
	s := t.StorageCode + ":" + t.Type
	if t.Version != nil {
		s += "-" + strconv.Itoa(*t.Version)
	}
	return s
}

// ResolvedReference is a reference found in an object, resolved to the
// canonical location of its target along with the target's type and save time.
type ResolvedReference struct {
	// Reference is the reference as it was found.
	Reference GUID

	// ResolvedRef is the canonical, versioned location of the target.
	ResolvedRef GUID

	// Type is the target's storage object type.
	Type StorageObjectType

	// Timestamp is when the target was saved.
	Timestamp time.Time
}
