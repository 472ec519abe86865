package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// GUID locates an object, optionally a specific version and sub-object,
// within a storage system identified by its storage code.
type GUID struct {
	// StorageCode identifies the storage system (e.g., "WS").
	StorageCode string

	// AccessGroupID is the container (workspace) id.
	AccessGroupID int

	// ObjectID is the object id within the container.
	ObjectID string

	// Version is the object version. Nil means unversioned.
	Version *int

	// SubObjectType is the type of the sub-object, if any.
	SubObjectType *string

	// SubObjectID is the id of the sub-object, if any.
	SubObjectID *string
}

// NewGUID creates a versioned GUID without a sub-object.
func NewGUID(storageCode string, accessGroupID int, objectID string, version int) GUID {
	return GUID{
		StorageCode:   storageCode,
		AccessGroupID: accessGroupID,
		ObjectID:      objectID,
		Version:       &version,
	}
}

// Equal reports whether two GUIDs identify the same location.
func (g GUID) Equal(o GUID) bool {
	return g.StorageCode == o.StorageCode &&
		g.AccessGroupID == o.AccessGroupID &&
		g.ObjectID == o.ObjectID &&
		equalPtr(g.Version, o.Version) &&
		equalPtr(g.SubObjectType, o.SubObjectType) &&
		equalPtr(g.SubObjectID, o.SubObjectID)
}

// RefString renders the reference within the storage system: ag/obj[/ver].
func (g GUID) RefString() string {
	ref := strconv.Itoa(g.AccessGroupID) + "/" + g.ObjectID
	if g.Version != nil {
		ref += "/" + strconv.Itoa(*g.Version)
	}
	return ref
}

// String renders the GUID as CODE:ag/obj[/ver][:subtype/subid].
func (g GUID) String() string {
	s := g.StorageCode + ":" + g.RefString()
	if g.SubObjectType != nil && g.SubObjectID != nil {
		s += ":" + *g.SubObjectType + "/" + *g.SubObjectID
	}
	return s
}

// ParseGUID parses the output of GUID.String.
func ParseGUID(s string) (GUID, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || parts[0] == "" {
		return GUID{}, fmt.Errorf("%w: guid %q missing storage code", ErrInvalidInput, s)
	}

	g := GUID{StorageCode: parts[0]}

	ref := strings.Split(parts[1], "/")
	if len(ref) < 2 || len(ref) > 3 || ref[1] == "" {
		return GUID{}, fmt.Errorf("%w: guid %q has bad reference", ErrInvalidInput, s)
	}
	ag, err := strconv.Atoi(ref[0])
	if err != nil || ag < 1 {
		return GUID{}, fmt.Errorf("%w: guid %q has bad access group id", ErrInvalidInput, s)
	}
	g.AccessGroupID = ag
	g.ObjectID = ref[1]
	if len(ref) == 3 {
		ver, err := strconv.Atoi(ref[2])
		if err != nil || ver < 1 {
			return GUID{}, fmt.Errorf("%w: guid %q has bad version", ErrInvalidInput, s)
		}
		g.Version = &ver
	}

	if len(parts) == 3 {
		sub := strings.SplitN(parts[2], "/", 2)
		if len(sub) != 2 || sub[0] == "" || sub[1] == "" {
			return GUID{}, fmt.Errorf("%w: guid %q has bad sub-object", ErrInvalidInput, s)
		}
		g.SubObjectType = &sub[0]
		g.SubObjectID = &sub[1]
	}

	return g, nil
}

// Ptr returns a pointer to v. Handy for the optional fields of domain types.
func Ptr[T any](v T) *T {
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
