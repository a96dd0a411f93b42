package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"planguard/internal/attr"
	"planguard/internal/change"
)

// Document is the subset of a Terraform JSON plan that the normalization
// adapter reads. Everything else in the artifact (configuration, provider
// schemas, outputs) is ignored; the engine consumes only the normalized
// change batch.
type Document struct {
	FormatVersion    string           `json:"format_version"`
	TerraformVersion string           `json:"terraform_version"`
	ResourceChanges  []resourceChange `json:"resource_changes"`
}

type resourceChange struct {
	Address string     `json:"address"`
	Mode    string     `json:"mode"`
	Type    string     `json:"type"`
	Name    string     `json:"name"`
	Index   any        `json:"index"`
	Change  changeBody `json:"change"`
}

type changeBody struct {
	Actions []string `json:"actions"`
	Before  any      `json:"before"`
	After   any      `json:"after"`
}

// MalformedChangeError reports a resource change carrying neither a before
// nor an after state. It is fatal for the batch: normalization rejects the
// input before any evaluation starts.
type MalformedChangeError struct {
	Address string
}

func (e *MalformedChangeError) Error() string {
	return fmt.Sprintf("malformed resource change %q: neither before nor after state present", e.Address)
}

// Load reads and normalizes a Terraform JSON plan from path. "-" reads from
// stdin.
func Load(path string) ([]change.ResourceChange, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open plan: %w", err)
		}
		defer f.Close()
		r = f
	}
	return Read(r)
}

// Read decodes a Terraform JSON plan and normalizes its resource changes.
func Read(r io.Reader) ([]change.ResourceChange, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return Normalize(&doc)
}

// Normalize converts a plan document into the ordered resource-change batch
// the engine consumes. No-op and read-only entries are dropped (they mutate
// nothing); data-mode resources are dropped for the same reason. Indexes are
// assigned by position after filtering, which is the stable ordering key for
// violation reports.
func Normalize(doc *Document) ([]change.ResourceChange, error) {
	var out []change.ResourceChange
	for _, rc := range doc.ResourceChanges {
		if rc.Mode != "" && rc.Mode != "managed" {
			continue
		}
		if !mutates(rc.Change.Actions) {
			continue
		}

		c := change.ResourceChange{
			Index:       len(out),
			Type:        rc.Type,
			Address:     rc.Address,
			InstanceKey: instanceKey(rc.Index),
			Before:      attr.FromAny(rc.Change.Before),
			After:       attr.FromAny(rc.Change.After),
		}
		if !c.Valid() {
			return nil, &MalformedChangeError{Address: rc.Address}
		}
		out = append(out, c)
	}
	return out, nil
}

func mutates(actions []string) bool {
	for _, a := range actions {
		switch a {
		case "create", "update", "delete":
			return true
		}
	}
	return false
}

// instanceKey flattens a Terraform for_each string key or count integer
// index into the normalized form.
func instanceKey(idx any) string {
	switch t := idx.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%d", int64(t))
	default:
		return fmt.Sprintf("%v", t)
	}
}
