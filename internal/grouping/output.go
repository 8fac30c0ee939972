package grouping

import (
	"fmt"

	"github.com/lumen-data/multiphase/internal/model"
)

// StaticName is the sentinel group identifier for apertures with no
// dynamic group assignment.
const StaticName = "static_apertures"

// GroupRecord is one persisted aperture group: the generated group
// identifier and its member aperture identifiers.
type GroupRecord struct {
	Identifier string   `json:"identifier"`
	Apertures  []string `json:"apertures"`
}

// Output names the groups of a grouping result and returns the persisted
// records plus the aperture-to-group map. Room-based results are named
// "{room}_ApertureGroup_{i}" with the index restarting per room and the
// room part taken from the sanitized display name; global results are
// named "ApertureGroup_{i}". Indices follow production order.
func Output(res *Result) ([]GroupRecord, map[string]string) {
	var records []GroupRecord
	assign := make(map[string]string)

	if res.RoomBased {
		for _, rg := range res.ByRoom {
			room := model.CleanID(rg.RoomName)
			for i, grp := range rg.Groups {
				name := fmt.Sprintf("%s_ApertureGroup_%d", room, i)
				records = append(records, record(name, grp, assign))
			}
		}
		return records, assign
	}

	for i, grp := range res.Global {
		name := fmt.Sprintf("ApertureGroup_%d", i)
		records = append(records, record(name, grp, assign))
	}
	return records, assign
}

func record(name string, grp Group, assign map[string]string) GroupRecord {
	ids := make([]string, len(grp))
	for k, ap := range grp {
		ids[k] = ap.Identifier
		assign[ap.Identifier] = name
	}
	return GroupRecord{Identifier: name, Apertures: ids}
}

// Apply writes group assignments back onto the model's apertures, the
// same tagging the persisted dynamic_group_identifiers map describes.
func Apply(m *model.Model, assign map[string]string) {
	for _, ap := range m.Apertures() {
		if name, ok := assign[ap.Identifier]; ok {
			ap.DynamicGroupIdentifier = name
		}
	}
}
