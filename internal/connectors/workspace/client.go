package workspace

import (
	"context"

	"github.com/custodia-labs/sercha-indexer/internal/logger"
)

// Client is the part of the workspace RPC surface the handler needs.
// All calls go through the administrative command interface.
type Client interface {
	// Administer runs an administrative command and decodes its result into out.
	// Errors are raw: transport errors, *ServerError or *UnauthorizedError.
	Administer(ctx context.Context, command string, params any, out any) error

	// WithResponseFile returns a fresh client, sharing no connection state
	// with this one, that spools its next response body through path.
	WithResponseFile(path string) (Client, error)
}

const (
	cmdListObjects      = "listObjects"
	cmdGetObjectInfo    = "getObjectInfo"
	cmdGetObjectHistory = "getObjectHistory"
	cmdGetObjects       = "getObjects"
	cmdGetWorkspaceInfo = "getWorkspaceInfo"
)

type listObjectsParams struct {
	IDs             []int `json:"ids"`
	MinObjectID     int64 `json:"minObjectID"`
	ShowHidden      int   `json:"showHidden"`
	ShowAllVersions int   `json:"showAllVersions"`
	Limit           int   `json:"limit,omitempty"`
}

type getObjectInfoParams struct {
	Objects []ObjectSpecification `json:"objects"`
}

type getObjectInfoResults struct {
	Infos []ObjectInfo `json:"infos"`
}

type objectIdentity struct {
	WsID  int   `json:"wsid"`
	ObjID int64 `json:"objid"`
}

type getObjectsParams struct {
	Objects []ObjectSpecification `json:"objects"`
}

type getObjectsResults struct {
	Data []ObjectData `json:"data"`
}

type workspaceIdentity struct {
	ID int `json:"id"`
}

// The helpers below classify every failure; callers propagate the result unchanged.

// listObjects lists objects of one workspace with ids >= minObjectID,
// including hidden objects and all versions. The workspace sorts the result
// by workspace asc, object id asc, version desc.
func listObjects(ctx context.Context, c Client, wsID int, minObjectID int64, limit int) ([]ObjectInfo, error) {
	logger.Debug("workspace: listObjects ws=%d min=%d limit=%d", wsID, minObjectID, limit)
	var infos []ObjectInfo
	err := c.Administer(ctx, cmdListObjects, listObjectsParams{
		IDs:             []int{wsID},
		MinObjectID:     minObjectID,
		ShowHidden:      1,
		ShowAllVersions: 1,
		Limit:           limit,
	}, &infos)
	if err != nil {
		return nil, classify(err)
	}
	return infos, nil
}

// getObjectInfo fetches object information, preserving input order.
func getObjectInfo(ctx context.Context, c Client, specs []ObjectSpecification) ([]ObjectInfo, error) {
	logger.Debug("workspace: getObjectInfo %d objects", len(specs))
	var res getObjectInfoResults
	if err := c.Administer(ctx, cmdGetObjectInfo, getObjectInfoParams{Objects: specs}, &res); err != nil {
		return nil, classify(err)
	}
	return res.Infos, nil
}

// getObjectHistory fetches information on every version of an object.
func getObjectHistory(ctx context.Context, c Client, wsID int, objID int64) ([]ObjectInfo, error) {
	logger.Debug("workspace: getObjectHistory ws=%d obj=%d", wsID, objID)
	var infos []ObjectInfo
	if err := c.Administer(ctx, cmdGetObjectHistory, objectIdentity{WsID: wsID, ObjID: objID}, &infos); err != nil {
		return nil, classify(err)
	}
	return infos, nil
}

// getObjects fetches object data and provenance.
func getObjects(ctx context.Context, c Client, specs []ObjectSpecification) ([]ObjectData, error) {
	logger.Debug("workspace: getObjects %d objects", len(specs))
	var res getObjectsResults
	if err := c.Administer(ctx, cmdGetObjects, getObjectsParams{Objects: specs}, &res); err != nil {
		return nil, classify(err)
	}
	return res.Data, nil
}

// getWorkspaceInfo fetches workspace metadata including its max object id.
func getWorkspaceInfo(ctx context.Context, c Client, wsID int) (*WorkspaceInfo, error) {
	logger.Debug("workspace: getWorkspaceInfo ws=%d", wsID)
	var info WorkspaceInfo
	if err := c.Administer(ctx, cmdGetWorkspaceInfo, workspaceIdentity{ID: wsID}, &info); err != nil {
		return nil, classify(err)
	}
	return &info, nil
}
