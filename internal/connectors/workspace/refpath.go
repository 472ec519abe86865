package workspace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

// RefTriple is one segment of a workspace reference path.
type RefTriple struct {
	WorkspaceID int
	ObjectID    string
	Version     *int
}

// checkStorageCode rejects anything that is not a workspace item.
func checkStorageCode(code string) error {
	if code != StorageCode {
		return fmt.Errorf("%w: this handler only accepts %s events, got %q",
			domain.ErrStorageCodeMismatch, StorageCode, code)
	}
	return nil
}

// ToRefPath renders a chain of GUIDs as a workspace reference path,
// ws/obj/ver segments joined by ';'. Order is preserved.
func ToRefPath(guids []domain.GUID) (string, error) {
	segments := make([]string, 0, len(guids))
	for _, g := range guids {
		if g.StorageCode != StorageCode {
			return "", fmt.Errorf("%w: GUID %s is not a workspace object",
				domain.ErrStorageCodeMismatch, g)
		}
		segments = append(segments, g.RefString())
	}
	return strings.Join(segments, ";"), nil
}

// refPrefix returns the path prefix for references reached through refPath:
// empty for no path, otherwise the path followed by ';'.
func refPrefix(refPath []domain.GUID) (string, error) {
	if len(refPath) == 0 {
		return "", nil
	}
	p, err := ToRefPath(refPath)
	if err != nil {
		return "", err
	}
	return p + ";", nil
}

// ParseRefPath parses a reference path produced by ToRefPath.
func ParseRefPath(path string) ([]RefTriple, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidRefPath)
	}
	segments := strings.Split(path, ";")
	triples := make([]RefTriple, 0, len(segments))
	for _, seg := range segments {
		parts := strings.Split(strings.TrimSpace(seg), "/")
		if len(parts) < 2 || len(parts) > 3 || parts[1] == "" {
			return nil, fmt.Errorf("%w: segment %q", ErrInvalidRefPath, seg)
		}
		ws, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("%w: segment %q has bad workspace id", ErrInvalidRefPath, seg)
		}
		t := RefTriple{WorkspaceID: ws, ObjectID: parts[1]}
		if len(parts) == 3 {
			ver, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, fmt.Errorf("%w: segment %q has bad version", ErrInvalidRefPath, seg)
			}
			t.Version = &ver
		}
		triples = append(triples, t)
	}
	return triples, nil
}

// GUIDs converts parsed triples back into workspace GUIDs.
func GUIDs(triples []RefTriple) []domain.GUID {
	guids := make([]domain.GUID, 0, len(triples))
	for _, t := range triples {
		guids = append(guids, domain.GUID{
			StorageCode:   StorageCode,
			AccessGroupID: t.WorkspaceID,
			ObjectID:      t.ObjectID,
			Version:       t.Version,
		})
	}
	return guids
}
