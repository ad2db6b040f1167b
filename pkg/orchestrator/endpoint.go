package orchestrator

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-tugboat/pkg/model"
)

// EndpointOverride replaces the action URL and, optionally, the method of the
// form built for OperationID. Hosts use it to point the form at their own
// route instead of the OpenAPI path.
type EndpointOverride struct {
	OperationID string
	Endpoint    string
	Method      string
}

// WithEndpointOverrides registers endpoint overrides applied after building.
func WithEndpointOverrides(overrides ...EndpointOverride) Option {
	return func(o *Orchestrator) {
		for _, override := range overrides {
			override.OperationID = strings.TrimSpace(override.OperationID)
			override.Endpoint = strings.TrimSpace(override.Endpoint)
			override.Method = strings.ToUpper(strings.TrimSpace(override.Method))
			if override.OperationID == "" || override.Endpoint == "" {
				o.initialiseErr = fmt.Errorf("orchestrator: endpoint override requires operation id and endpoint")
				return
			}
			if o.endpointOverrides == nil {
				o.endpointOverrides = make(map[string]EndpointOverride)
			}
			o.endpointOverrides[override.OperationID] = override
		}
	}
}

func (o *Orchestrator) applyEndpointOverride(operationID string, form *model.FormModel) {
	override, ok := o.endpointOverrides[operationID]
	if !ok || form == nil {
		return
	}
	form.Endpoint = override.Endpoint
	if override.Method != "" {
		form.Method = override.Method
	}
}
