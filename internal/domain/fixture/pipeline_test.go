package fixture

import (
	"reflect"
	"testing"
)

func fixtureWithStatus(id int64, status StatusCode) Fixture {
	return Fixture{
		ID:     id,
		Status: Status{Short: status},
		Teams: Teams{
			Home: Participant{ID: 100 + id, Name: "Home"},
			Away: Participant{ID: 200 + id, Name: "Away"},
		},
	}
}

func TestSplit_PartitionsByStatus(t *testing.T) {
	items := []Fixture{
		fixtureWithStatus(1, StatusNotStarted),
		fixtureWithStatus(2, StatusFirstHalf),
		fixtureWithStatus(3, StatusFullTime),
		fixtureWithStatus(4, StatusPostponed),
		fixtureWithStatus(5, StatusTBD),
	}

	upcoming, pastOrLive := Split(items)

	if got := ids(upcoming); !reflect.DeepEqual(got, []int64{1, 4, 5}) {
		t.Fatalf("unexpected upcoming ids: %v", got)
	}
	if got := ids(pastOrLive); !reflect.DeepEqual(got, []int64{2, 3}) {
		t.Fatalf("unexpected past-or-live ids: %v", got)
	}
}

func TestSplit_UnknownStatusIsPastOrLive(t *testing.T) {
	upcoming, pastOrLive := Split([]Fixture{fixtureWithStatus(9, NormalizeStatus("xyz"))})
	if len(upcoming) != 0 || len(pastOrLive) != 1 {
		t.Fatalf("expected unknown status to be enriched, upcoming=%d pastOrLive=%d", len(upcoming), len(pastOrLive))
	}
}

func TestDedupe_FirstWinsAndIdempotent(t *testing.T) {
	first := Enriched{Fixture: fixtureWithStatus(1, StatusFullTime), Detailed: true}
	first.Detail = Detail{Events: []Event{{Type: "Goal"}}}
	dup := Enriched{Fixture: fixtureWithStatus(1, StatusFullTime), Detail: EmptyDetail()}
	second := Plain(fixtureWithStatus(2, StatusNotStarted))

	input := []Enriched{first, second, dup, second}
	once := Dedupe(input)

	if len(once) != 2 {
		t.Fatalf("expected 2 distinct fixtures, got %d", len(once))
	}
	if once[0].Fixture.ID != 1 || len(once[0].Detail.Events) != 1 {
		t.Fatalf("expected first occurrence of fixture 1 to be kept, got %+v", once[0])
	}
	if once[1].Fixture.ID != 2 {
		t.Fatalf("expected fixture 2 second, got %d", once[1].Fixture.ID)
	}

	twice := Dedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedupe is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestDetail_NormalizeNeverNil(t *testing.T) {
	d := Detail{}.Normalize()
	if d.Events == nil || d.Statistics == nil || d.Players == nil {
		t.Fatalf("expected empty collections, got %+v", d)
	}
	if !d.IsEmpty() {
		t.Fatalf("expected normalized zero detail to be empty")
	}
}

func TestFixture_Validate(t *testing.T) {
	valid := fixtureWithStatus(1, StatusNotStarted)
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid fixture, got %v", err)
	}

	same := valid
	same.Teams.Away.ID = same.Teams.Home.ID
	if err := same.Validate(); err == nil {
		t.Fatalf("expected error when home and away are the same participant")
	}

	missing := valid
	missing.Teams.Away = Participant{}
	if err := missing.Validate(); err == nil {
		t.Fatalf("expected error when a participant is missing")
	}
}

func TestStatusCode_Classification(t *testing.T) {
	if !NormalizeStatus(" ft ").IsFinished() {
		t.Fatalf("expected FT to be finished")
	}
	if !StatusHalfTime.IsLive() {
		t.Fatalf("expected HT to be live")
	}
	if NormalizeStatus("") != StatusTBD {
		t.Fatalf("expected empty status to normalize to TBD")
	}
}

func ids(items []Fixture) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
