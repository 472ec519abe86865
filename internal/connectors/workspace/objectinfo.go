package workspace

import (
	"encoding/json"
	"fmt"
	"time"
)

// dateLayout is the workspace save-date format, e.g. 2020-01-02T03:04:05+0000.
// Fractional seconds are accepted when parsing without being in the layout.
const dateLayout = "2006-01-02T15:04:05-0700"

// ParseDate parses a workspace timestamp such as 2020-01-02T03:04:05.678+0000.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		// some deployments emit RFC 3339 with a colon in the offset
		t2, err2 := time.Parse(time.RFC3339Nano, s)
		if err2 != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
		}
		return t2, nil
	}
	return t, nil
}

// ObjectInfo is the workspace's 11-element object information tuple.
type ObjectInfo struct {
	ObjectID      int64
	Name          string
	TypeString    string
	SaveDate      string
	Version       int
	SavedBy       string
	WorkspaceID   int
	WorkspaceName string
	Checksum      string
	Size          int64
	Metadata      map[string]string
}

// UnmarshalJSON decodes the tuple form.
func (o *ObjectInfo) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("object info: %w", err)
	}
	if len(raw) != 11 {
		return fmt.Errorf("object info: expected 11 elements, got %d", len(raw))
	}
	return decodeTuple(raw,
		&o.ObjectID, &o.Name, &o.TypeString, &o.SaveDate, &o.Version, &o.SavedBy,
		&o.WorkspaceID, &o.WorkspaceName, &o.Checksum, &o.Size, &o.Metadata)
}

// MarshalJSON encodes the tuple form.
func (o ObjectInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		o.ObjectID, o.Name, o.TypeString, o.SaveDate, o.Version, o.SavedBy,
		o.WorkspaceID, o.WorkspaceName, o.Checksum, o.Size, o.Metadata,
	})
}

// WorkspaceInfo is the workspace's 9-element workspace information tuple.
type WorkspaceInfo struct {
	ID             int
	Name           string
	Owner          string
	ModDate        string
	MaxObjectID    int64
	UserPermission string
	GlobalRead     string
	LockStatus     string
	Metadata       map[string]string
}

// UnmarshalJSON decodes the tuple form.
func (w *WorkspaceInfo) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("workspace info: %w", err)
	}
	if len(raw) != 9 {
		return fmt.Errorf("workspace info: expected 9 elements, got %d", len(raw))
	}
	return decodeTuple(raw,
		&w.ID, &w.Name, &w.Owner, &w.ModDate, &w.MaxObjectID,
		&w.UserPermission, &w.GlobalRead, &w.LockStatus, &w.Metadata)
}

// MarshalJSON encodes the tuple form.
func (w WorkspaceInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		w.ID, w.Name, w.Owner, w.ModDate, w.MaxObjectID,
		w.UserPermission, w.GlobalRead, w.LockStatus, w.Metadata,
	})
}

func decodeTuple(raw []json.RawMessage, dst ...any) error {
	for i, d := range dst {
		if err := json.Unmarshal(raw[i], d); err != nil {
			return fmt.Errorf("tuple element %d: %w", i, err)
		}
	}
	return nil
}

// ObjectSpecification selects an object by reference string or by ids.
type ObjectSpecification struct {
	Ref   string `json:"ref,omitempty"`
	WsID  int    `json:"wsid,omitempty"`
	ObjID int64  `json:"objid,omitempty"`
	Ver   int    `json:"ver,omitempty"`
}

// ProvenanceAction describes how an object was produced.
type ProvenanceAction struct {
	Service    *string     `json:"service"`
	Method     *string     `json:"method"`
	ServiceVer *string     `json:"service_ver"`
	SubActions []SubAction `json:"subactions"`
}

// SubAction is a step within a provenance action.
type SubAction struct {
	Name   *string `json:"name"`
	Ver    *string `json:"ver"`
	Commit *string `json:"commit"`
}

// ObjectData is one element of a getObjects response.
type ObjectData struct {
	Data                   json.RawMessage    `json:"data"`
	Info                   ObjectInfo         `json:"info"`
	Provenance             []ProvenanceAction `json:"provenance"`
	Creator                *string            `json:"creator"`
	Copied                 *string            `json:"copied"`
	CopySourceInaccessible int                `json:"copy_source_inaccessible"`
}
