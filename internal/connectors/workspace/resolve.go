package workspace

import (
	"context"
	"fmt"
	"strconv"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

// BuildReferencePaths returns the workspace reference path of each ref when
// reached through refPath, keyed by the ref's GUID string.
func (h *Handler) BuildReferencePaths(refPath []domain.GUID, refs []domain.GUID) (map[string]string, error) {
	prefix, err := refPrefix(refPath)
	if err != nil {
		return nil, err
	}
	paths := make(map[string]string, len(refs))
	for _, r := range refs {
		if err := checkStorageCode(r.StorageCode); err != nil {
			return nil, err
		}
		paths[r.String()] = prefix + r.RefString()
	}
	return paths, nil
}

// ResolveReferences resolves refs reached through refPath with a single
// batched getObjectInfo call. Results are in the order of refs.
// Versioned references are immutable, so their resolutions are cached.
func (h *Handler) ResolveReferences(
	ctx context.Context, refPath []domain.GUID, refs []domain.GUID,
) ([]domain.ResolvedReference, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	// may need to split into batches for very large reference sets
	prefix, err := refPrefix(refPath)
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.ResolvedReference, len(refs))
	paths := make([]string, len(refs))
	var specs []ObjectSpecification
	var pending []int
	for i, r := range refs {
		if err := checkStorageCode(r.StorageCode); err != nil {
			return nil, err
		}
		paths[i] = prefix + r.RefString()
		if rr, ok := h.cached(paths[i]); ok {
			rr.Reference = r
			resolved[i] = rr
			continue
		}
		specs = append(specs, ObjectSpecification{Ref: paths[i]})
		pending = append(pending, i)
	}

	if len(specs) > 0 {
		infos, err := getObjectInfo(ctx, h.client, specs)
		if err != nil {
			return nil, err
		}
		if len(infos) != len(specs) {
			return nil, domain.NewUnprocessableEventError(fmt.Sprintf(
				"workspace returned %d object infos for %d references", len(infos), len(specs)), nil)
		}
		for j, idx := range pending {
			rr, err := newResolvedReference(refs[idx], infos[j])
			if err != nil {
				return nil, err
			}
			resolved[idx] = rr
			if refs[idx].Version != nil && h.cache != nil {
				h.cache.Add(paths[idx], rr)
			}
		}
	}

	return resolved, nil
}

func (h *Handler) cached(path string) (domain.ResolvedReference, bool) {
	if h.cache == nil {
		return domain.ResolvedReference{}, false
	}
	return h.cache.Get(path)
}

func newResolvedReference(ref domain.GUID, info ObjectInfo) (domain.ResolvedReference, error) {
	st, err := domain.ParseStorageObjectType(StorageCode, info.TypeString)
	if err != nil {
		return domain.ResolvedReference{}, domain.NewUnprocessableEventError(
			"malformed object info from workspace: "+err.Error(), err)
	}
	ts, err := ParseDate(info.SaveDate)
	if err != nil {
		return domain.ResolvedReference{}, domain.NewUnprocessableEventError(
			"malformed object info from workspace: "+err.Error(), err)
	}
	return domain.ResolvedReference{
		Reference: ref,
		ResolvedRef: domain.NewGUID(StorageCode, info.WorkspaceID,
			strconv.FormatInt(info.ObjectID, 10), info.Version),
		Type:      st,
		Timestamp: ts,
	}, nil
}
