package league

import "testing"

func TestFilter(t *testing.T) {
	catalogue := []League{
		{ID: 39, Name: "Premier League"},
		{ID: 140, Name: "La Liga"},
		{ID: 135, Name: "Serie A"},
	}

	all, err := Filter(catalogue, nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected full catalogue, got=%v err=%v", all, err)
	}

	got, err := Filter(catalogue, []string{"135", "premier league"})
	if err != nil {
		t.Fatalf("filter leagues: %v", err)
	}
	if len(got) != 2 || got[0].ID != 39 || got[1].ID != 135 {
		t.Fatalf("expected catalogue order [39 135], got %+v", got)
	}

	if _, err := Filter(catalogue, []string{"eredivisie"}); err == nil {
		t.Fatalf("expected error for unknown league")
	}
}

func TestLeague_Validate(t *testing.T) {
	if err := (League{ID: 39, Name: "Premier League"}).Validate(); err != nil {
		t.Fatalf("expected valid league, got %v", err)
	}
	if err := (League{ID: 0, Name: "x"}).Validate(); err == nil {
		t.Fatalf("expected error for zero id")
	}
	if err := (League{ID: 1, Name: " "}).Validate(); err == nil {
		t.Fatalf("expected error for blank name")
	}
}
