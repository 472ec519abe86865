package workspace

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

// LoadOne loads the data of a single object. See Load.
func (h *Handler) LoadOne(ctx context.Context, guid domain.GUID, file string) (*domain.SourceData, error) {
	return h.Load(ctx, []domain.GUID{guid}, file)
}

// Load fetches the data and provenance of the object at the end of the
// reference chain guids. The response is spooled through file by a fresh
// client: the spool binding is per-call state and must not be shared
// between concurrent loads.
func (h *Handler) Load(ctx context.Context, guids []domain.GUID, file string) (*domain.SourceData, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	if len(guids) == 0 {
		return nil, fmt.Errorf("%w: no object to load", domain.ErrInvalidInput)
	}
	if file == "" {
		return nil, fmt.Errorf("%w: no response file to load into", domain.ErrInvalidInput)
	}
	ref, err := ToRefPath(guids)
	if err != nil {
		return nil, err
	}

	wc, err := h.client.WithResponseFile(file)
	if err != nil {
		return nil, err
	}

	data, err := getObjects(ctx, wc, []ObjectSpecification{{Ref: ref}})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.NewUnprocessableEventError("workspace returned no data for "+ref, nil)
	}
	return buildSourceData(data[0]), nil
}

func buildSourceData(obj ObjectData) *domain.SourceData {
	// assumes at most one provenance action; revisit if that stops holding
	var pa *ProvenanceAction
	if len(obj.Provenance) > 0 {
		pa = &obj.Provenance[0]
	}

	copier := &obj.Info.SavedBy
	if obj.Copied == nil && obj.CopySourceInaccessible == 0 {
		copier = nil
	}

	b := domain.NewSourceDataBuilder(obj.Data, obj.Info.Name).
		WithTypeString(obj.Info.TypeString).
		WithCreator(obj.Creator).
		WithCopier(copier)

	if pa != nil {
		b.WithModule(pa.Service).
			WithMethod(pa.Method).
			WithVersion(pa.ServiceVer)
		if commit := commitHash(pa); commit != nil {
			b.WithCommitHash(commit)
		}
	}
	return b.Build()
}

// commitHash relies on the execution engine recording the called method as a
// sub-action named "<service>.<method>". Nothing else identifies the commit,
// so this is a narrow heuristic. The last matching sub-action wins.
func commitHash(pa *ProvenanceAction) *string {
	if pa.Service == nil || pa.Method == nil || len(pa.SubActions) == 0 {
		return nil
	}
	modmeth := *pa.Service + "." + *pa.Method
	var commit *string
	for _, sa := range pa.SubActions {
		if sa.Name != nil && *sa.Name == modmeth {
			commit = sa.Commit
		}
	}
	return commit
}
