package mastery

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestLevels_Order(t *testing.T) {
	want := []Level{None, Trained, Expert, Master, Legendary}
	got := Levels()
	if len(got) != len(want) {
		t.Fatalf("got %d levels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Levels()[%d] = %q, want %q", i, got[i], want[i])
		}
		if got[i].Rank() != i {
			t.Errorf("%q.Rank() = %d, want %d", got[i], got[i].Rank(), i)
		}
	}
}

func TestLevels_ReturnsCopy(t *testing.T) {
	got := Levels()
	got[0] = "Broken"
	if Levels()[0] != None {
		t.Error("mutating the returned slice changed the enumeration")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"None", None, false},
		{"Trained", Trained, false},
		{"Expert", Expert, false},
		{"Master", Master, false},
		{"Legendary", Legendary, false},
		{"master", "", true},
		{"Legend", "", true},
		{"Train", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			var unknown *ErrUnknownLevel
			if !errors.As(err, &unknown) {
				t.Errorf("Parse(%q) err = %v, want *ErrUnknownLevel", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLess(t *testing.T) {
	if !None.Less(Trained) || !Master.Less(Legendary) {
		t.Error("expected ascending order")
	}
	if Legendary.Less(Expert) {
		t.Error("Legendary should not rank below Expert")
	}
	if Level("bogus").Valid() {
		t.Error("bogus level reported valid")
	}
}

func TestLevel_JSON(t *testing.T) {
	var body struct {
		Mastery Level `json:"mastery"`
	}
	if err := json.Unmarshal([]byte(`{"mastery":"Expert"}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Mastery != Expert {
		t.Errorf("got %q, want Expert", body.Mastery)
	}

	if err := json.Unmarshal([]byte(`{"mastery":"Godlike"}`), &body); err == nil {
		t.Error("expected error for unknown level")
	}

	out, err := json.Marshal(struct {
		Mastery Level `json:"mastery"`
	}{Master})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"mastery":"Master"}` {
		t.Errorf("marshal = %s", out)
	}
}
