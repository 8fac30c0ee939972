package grouping

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lumen-data/multiphase/internal/geom"
	"github.com/lumen-data/multiphase/internal/model"
)

func TestOutput_RoomBasedNaming(t *testing.T) {
	res := &Result{
		RoomBased: true,
		ByRoom: []RoomGroups{
			{
				RoomIdentifier: "room_a",
				RoomName:       "Room A",
				Groups: []Group{
					{apertureFacing("a1", geom.Vector3{X: 1}, 0), apertureFacing("a2", geom.Vector3{X: 1}, 0)},
					{apertureFacing("a3", geom.Vector3{Y: 1}, 0)},
				},
			},
			{
				RoomIdentifier: "room_b",
				RoomName:       "Room B",
				Groups: []Group{
					{apertureFacing("b1", geom.Vector3{X: 1}, 0)},
				},
			},
		},
	}

	records, assign := Output(res)
	wantRecords := []GroupRecord{
		{Identifier: "Room_A_ApertureGroup_0", Apertures: []string{"a1", "a2"}},
		{Identifier: "Room_A_ApertureGroup_1", Apertures: []string{"a3"}},
		{Identifier: "Room_B_ApertureGroup_0", Apertures: []string{"b1"}},
	}
	if diff := cmp.Diff(wantRecords, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	wantAssign := map[string]string{
		"a1": "Room_A_ApertureGroup_0",
		"a2": "Room_A_ApertureGroup_0",
		"a3": "Room_A_ApertureGroup_1",
		"b1": "Room_B_ApertureGroup_0",
	}
	if diff := cmp.Diff(wantAssign, assign); diff != "" {
		t.Errorf("assignment mismatch (-want +got):\n%s", diff)
	}
}

func TestOutput_GlobalNaming(t *testing.T) {
	res := &Result{
		Global: []Group{
			{apertureFacing("x", geom.Vector3{X: 1}, 0)},
			{apertureFacing("y", geom.Vector3{Y: 1}, 0), apertureFacing("z", geom.Vector3{Y: 1}, 0)},
		},
	}
	records, assign := Output(res)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Identifier != "ApertureGroup_0" || records[1].Identifier != "ApertureGroup_1" {
		t.Errorf("global names wrong: %q, %q", records[0].Identifier, records[1].Identifier)
	}
	if assign["y"] != "ApertureGroup_1" || assign["z"] != "ApertureGroup_1" {
		t.Errorf("assignment wrong: %v", assign)
	}
}

func TestOutput_SanitizesRoomNames(t *testing.T) {
	res := &Result{
		RoomBased: true,
		ByRoom: []RoomGroups{{
			RoomIdentifier: "r1",
			RoomName:       "Café / Lounge 2",
			Groups:         []Group{{apertureFacing("ap", geom.Vector3{X: 1}, 0)}},
		}},
	}
	records, _ := Output(res)
	// The accent, spaces, and slash each become an underscore.
	want := "Caf____Lounge_2_ApertureGroup_0"
	if records[0].Identifier != want {
		t.Errorf("identifier = %q, want %q", records[0].Identifier, want)
	}
}

func TestApply_TagsModelApertures(t *testing.T) {
	ap := apertureFacing("win", geom.Vector3{X: 1}, 0)
	m := &model.Model{
		Identifier: "m",
		Rooms: []*model.Room{{
			Identifier: "r",
			Faces: []*model.Face{{
				Identifier: "f",
				FaceType:   model.FaceTypeWall,
				Geometry:   ap.Geometry,
				BoundaryCondition: model.BoundaryCondition{
					Type: model.BoundaryOutdoors,
				},
				Apertures: []*model.Aperture{ap},
			}},
		}},
	}
	Apply(m, map[string]string{"win": "ApertureGroup_0", "ghost": "ApertureGroup_1"})
	if ap.DynamicGroupIdentifier != "ApertureGroup_0" {
		t.Errorf("aperture not tagged: %q", ap.DynamicGroupIdentifier)
	}
}
