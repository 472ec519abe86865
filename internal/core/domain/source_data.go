package domain

import "encoding/json"

// SourceData is the payload and provenance of one object version, as loaded
// for indexing.
type SourceData struct {
	// Data is the raw object data as JSON.
	Data json.RawMessage

	// Name is the object name.
	Name string

	// TypeString is the declared type, e.g. "Module.Type-1.0".
	TypeString string

	// Creator is the user who first saved the object.
	Creator *string

	// Copier is the user who copied the object, nil if it was not copied.
	Copier *string

	// Module is the service that produced the object.
	Module *string

	// Method is the service method that produced the object.
	Method *string

	// Version is the service version that produced the object.
	Version *string

	// CommitHash is the source commit of the producing service.
	CommitHash *string
}

// SourceDataBuilder incrementally assembles a SourceData.
type SourceDataBuilder struct {
	sd SourceData
}

// NewSourceDataBuilder starts a SourceData with its required fields.
func NewSourceDataBuilder(data json.RawMessage, name string) *SourceDataBuilder {
	return &SourceDataBuilder{sd: SourceData{Data: data, Name: name}}
}

// WithTypeString sets the declared object type.
func (b *SourceDataBuilder) WithTypeString(t string) *SourceDataBuilder {
	b.sd.TypeString = t
	return b
}

// WithCreator sets the creator. Nil or empty leaves it unset.
func (b *SourceDataBuilder) WithCreator(s *string) *SourceDataBuilder {
	b.sd.Creator = nonEmpty(s)
	return b
}

// WithCopier sets the copier. Nil or empty leaves it unset.
func (b *SourceDataBuilder) WithCopier(s *string) *SourceDataBuilder {
	b.sd.Copier = nonEmpty(s)
	return b
}

// WithModule sets the producing module.
func (b *SourceDataBuilder) WithModule(s *string) *SourceDataBuilder {
	b.sd.Module = nonEmpty(s)
	return b
}

// WithMethod sets the producing method.
func (b *SourceDataBuilder) WithMethod(s *string) *SourceDataBuilder {
	b.sd.Method = nonEmpty(s)
	return b
}

// WithVersion sets the producing service version.
func (b *SourceDataBuilder) WithVersion(s *string) *SourceDataBuilder {
	b.sd.Version = nonEmpty(s)
	return b
}

// WithCommitHash sets the producing commit hash.
func (b *SourceDataBuilder) WithCommitHash(s *string) *SourceDataBuilder {
	b.sd.CommitHash = nonEmpty(s)
	return b
}

// Build returns the assembled SourceData. The builder may not be reused.
func (b *SourceDataBuilder) Build() *SourceData {
	sd := b.sd
	return &sd
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
