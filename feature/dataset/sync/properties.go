package sync

import (
	"ceiba/core/warehouse"
	"ceiba/feature/dataset/models"
)

// reconcileProperties merges declared dataset properties with the remote
// resource under an explicit remote-precedence policy:
//
//   - description: the remote one wins when present, else the declared one
//     is retained;
//   - labels: declared labels form the base, non-reserved remote labels
//     overlay them (remote wins on key collision).
//
// Reserved labels never enter the merge; they belong to the cache. Returns
// nil when the merge yields neither a description nor any labels.
func reconcileProperties(remote *warehouse.DatasetInfo, declared *models.Properties) *models.Properties {
	out := models.Properties{}

	if remote != nil && remote.Description != nil && *remote.Description != "" {
		out.Description = models.StrPtr(*remote.Description)
	} else if declared != nil && declared.Description != nil {
		out.Description = models.StrPtr(*declared.Description)
	}

	if declared != nil {
		for k, v := range StripReserved(declared.Labels) {
			if out.Labels == nil {
				out.Labels = make(map[string]string)
			}
			out.Labels[k] = v
		}
	}
	if remote != nil {
		for k, v := range StripReserved(remote.Labels) {
			if out.Labels == nil {
				out.Labels = make(map[string]string)
			}
			out.Labels[k] = v
		}
	}

	if out.Description == nil && len(out.Labels) == 0 {
		return nil
	}
	return &out
}
