package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/eino-contrib/jsonschema"
)

// registryTool adapts one registry entry to eino's InvokableTool.
type registryTool struct {
	reg  *Registry
	info *schema.ToolInfo
}

// EinoTools returns every registered tool as an eino tool that calls
// straight into the registry, skipping the MCP hop.
func (r *Registry) EinoTools() ([]tool.BaseTool, error) {
	specs := r.List()
	out := make([]tool.BaseTool, 0, len(specs))
	for _, spec := range specs {
		params, err := paramsFromSchema(spec.Schema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", spec.Name, err)
		}
		out = append(out, &registryTool{
			reg: r,
			info: &schema.ToolInfo{
				Name:        spec.Name,
				Desc:        spec.Description,
				ParamsOneOf: params,
			},
		})
	}
	return out, nil
}

func (t *registryTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return t.info, nil
}

func (t *registryTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	return t.reg.CallJSON(ctx, t.info.Name, json.RawMessage(argumentsInJSON))
}

// paramsFromSchema hands the raw argument schema to eino unchanged.
func paramsFromSchema(raw json.RawMessage) (*schema.ParamsOneOf, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if s.Type != string(schema.Object) {
		return nil, fmt.Errorf("arguments schema must be an object, got %q", s.Type)
	}
	return schema.NewParamsOneOfByJSONSchema(&s), nil
}
