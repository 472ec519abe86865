// Package workspace implements the event handler for the workspace object
// store.
//
// The handler turns coarse workspace events (a workspace was copied,
// published, unpublished or deleted; an object's versions all changed) into
// per-object or per-version events, loads object data with provenance, and
// resolves references found in object data to canonical, versioned
// locations.
//
// # Architecture
//
// The handler implements [driven.EventHandler]. It comprises:
//
//   - Handler: expansion, loading and reference resolution
//   - Client: the administrative command surface of the workspace service
//   - RPCClient: JSON-RPC 1.1 over HTTP with token auth and rate limiting
//   - Config: parses and validates handler configuration
//
// # Expansion
//
//	NEW_ALL_VERSIONS        one NEW_VERSION per version in the object history
//	COPY_ACCESS_GROUP       one NEW_VERSION per object version, paged listing
//	PUBLISH_ACCESS_GROUP    one PUBLISH_ALL_VERSIONS per object id
//	UNPUBLISH_ACCESS_GROUP  one UNPUBLISH_ALL_VERSIONS per object id
//	DELETE_ACCESS_GROUP     one DELETE_ALL_VERSIONS per object id, no remote call
//
// Any other event type is returned unchanged.
//
// # Errors
//
// Every failure of a remote call is classified once, where it is observed,
// into a [domain.IndexingError]. Layers above propagate it unchanged.
package workspace
