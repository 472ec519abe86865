package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// fakeObject is one version of an object in the fake workspace.
type fakeObject struct {
	wsID    int
	objID   int64
	version int
	name    string
	typ     string
	date    string
}

func (o fakeObject) info() ObjectInfo {
	return ObjectInfo{
		ObjectID:      o.objID,
		Name:          o.name,
		TypeString:    o.typ,
		SaveDate:      o.date,
		Version:       o.version,
		SavedBy:       "saver",
		WorkspaceID:   o.wsID,
		WorkspaceName: fmt.Sprintf("ws%d", o.wsID),
		Checksum:      "abc",
		Size:          10,
	}
}

// fakeCall records one Administer call.
type fakeCall struct {
	command string
	params  any
}

// fakeClient is an in-memory workspace honouring the listing sort order
// and page limit of the real service.
type fakeClient struct {
	mu sync.Mutex

	objects    []fakeObject
	workspaces map[int]WorkspaceInfo
	data       map[string]ObjectData

	// errs fails the named command with the given raw error.
	errs map[string]error

	calls         []fakeCall
	responseFiles []string
}

func newFakeClient(objects ...fakeObject) *fakeClient {
	return &fakeClient{
		objects:    objects,
		workspaces: map[int]WorkspaceInfo{},
		data:       map[string]ObjectData{},
		errs:       map[string]error{},
	}
}

// versions returns versions 1..n of an object.
func versions(wsID int, objID int64, n int) []fakeObject {
	out := make([]fakeObject, 0, n)
	for v := 1; v <= n; v++ {
		out = append(out, fakeObject{
			wsID:    wsID,
			objID:   objID,
			version: v,
			name:    fmt.Sprintf("obj%d", objID),
			typ:     "KBaseGenomes.Genome-14.2",
			date:    fmt.Sprintf("2020-01-02T03:04:%02d+0000", v%60),
		})
	}
	return out
}

func (c *fakeClient) commands() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.calls))
	for _, call := range c.calls {
		out = append(out, call.command)
	}
	return out
}

func (c *fakeClient) WithResponseFile(path string) (Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseFiles = append(c.responseFiles, path)
	return c, nil
}

func (c *fakeClient) Administer(_ context.Context, command string, params any, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, fakeCall{command: command, params: params})
	if err := c.errs[command]; err != nil {
		return err
	}

	var result any
	switch command {
	case cmdListObjects:
		result = c.list(params.(listObjectsParams))
	case cmdGetObjectInfo:
		infos, err := c.infos(params.(getObjectInfoParams).Objects)
		if err != nil {
			return err
		}
		result = getObjectInfoResults{Infos: infos}
	case cmdGetObjectHistory:
		id := params.(objectIdentity)
		var infos []ObjectInfo
		for _, o := range c.objects {
			if o.wsID == id.WsID && o.objID == id.ObjID {
				infos = append(infos, o.info())
			}
		}
		result = infos
	case cmdGetObjects:
		var data []ObjectData
		for _, spec := range params.(getObjectsParams).Objects {
			if d, ok := c.data[spec.Ref]; ok {
				data = append(data, d)
			}
		}
		result = getObjectsResults{Data: data}
	case cmdGetWorkspaceInfo:
		info, ok := c.workspaces[params.(workspaceIdentity).ID]
		if !ok {
			msg := "No workspace with id " + strconv.Itoa(params.(workspaceIdentity).ID) + " exists"
			return &ServerError{Name: "JSONRPCError", Code: -32500, Message: &msg}
		}
		result = &info
	default:
		return fmt.Errorf("unknown command %s", command)
	}

	// round trip through JSON like the real client
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (c *fakeClient) list(p listObjectsParams) []ObjectInfo {
	var sel []fakeObject
	for _, o := range c.objects {
		if len(p.IDs) > 0 && o.wsID != p.IDs[0] {
			continue
		}
		if o.objID < p.MinObjectID {
			continue
		}
		sel = append(sel, o)
	}
	sort.Slice(sel, func(i, j int) bool {
		if sel[i].wsID != sel[j].wsID {
			return sel[i].wsID < sel[j].wsID
		}
		if sel[i].objID != sel[j].objID {
			return sel[i].objID < sel[j].objID
		}
		return sel[i].version > sel[j].version
	})
	if p.Limit > 0 && len(sel) > p.Limit {
		sel = sel[:p.Limit]
	}
	infos := make([]ObjectInfo, 0, len(sel))
	for _, o := range sel {
		infos = append(infos, o.info())
	}
	return infos
}

func (c *fakeClient) infos(specs []ObjectSpecification) ([]ObjectInfo, error) {
	infos := make([]ObjectInfo, 0, len(specs))
	for _, spec := range specs {
		wsID, objID, ver := spec.WsID, spec.ObjID, spec.Ver
		if spec.Ref != "" {
			// the target is the last segment of the path
			segs := strings.Split(spec.Ref, ";")
			triples, err := ParseRefPath(segs[len(segs)-1])
			if err != nil {
				return nil, err
			}
			wsID = triples[0].WorkspaceID
			objID, _ = strconv.ParseInt(triples[0].ObjectID, 10, 64)
			ver = 0
			if triples[0].Version != nil {
				ver = *triples[0].Version
			}
		}
		found, ok := c.find(wsID, objID, ver)
		if !ok {
			msg := fmt.Sprintf("Object %d/%d/%d does not exist", wsID, objID, ver)
			return nil, &ServerError{Name: "JSONRPCError", Code: -32500, Message: &msg}
		}
		infos = append(infos, found.info())
	}
	return infos, nil
}

// find returns the given version, or the latest when ver is 0.
func (c *fakeClient) find(wsID int, objID int64, ver int) (fakeObject, bool) {
	var best fakeObject
	ok := false
	for _, o := range c.objects {
		if o.wsID != wsID || o.objID != objID {
			continue
		}
		if ver == 0 && (!ok || o.version > best.version) {
			best, ok = o, true
		}
		if ver != 0 && o.version == ver {
			return o, true
		}
	}
	return best, ok
}
