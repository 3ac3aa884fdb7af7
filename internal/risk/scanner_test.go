package risk

import (
	"strings"
	"testing"
)

func TestScanEntry_Benign(t *testing.T) {
	score, detected := ScanEntry("watered the tomatoes, lovely weather today")
	if score != 1 {
		t.Fatalf("benign score = %d, want 1", score)
	}
	if len(detected) != 0 {
		t.Fatalf("benign detected = %v, want none", detected)
	}
}

func TestScanEntry_DistressPhraseHitsCap(t *testing.T) {
	score, detected := ScanEntry("I am scared and need help")
	if len(detected) < 2 {
		t.Fatalf("detected = %v, want at least 2 keywords", detected)
	}
	if score != MaxScore {
		t.Fatalf("score = %d, want capped %d (detected %v)", score, MaxScore, detected)
	}
}

func TestScanEntry_NeverExceedsCap(t *testing.T) {
	// Every keyword in one text must still cap at MaxScore.
	all := strings.Join(keywords, " ")
	score, detected := ScanEntry(all)
	if len(detected) != len(keywords) {
		t.Fatalf("detected %d keywords, want %d", len(detected), len(keywords))
	}
	if score != MaxScore {
		t.Fatalf("score = %d, want %d", score, MaxScore)
	}
}

func TestScanEntry_CaseInsensitive(t *testing.T) {
	lowerScore, _ := ScanEntry("there is danger here")
	upperScore, _ := ScanEntry("THERE IS DANGER HERE")
	if lowerScore != upperScore {
		t.Fatalf("case sensitivity: %d vs %d", lowerScore, upperScore)
	}
	if lowerScore != 2 {
		t.Fatalf("single keyword score = %d, want 2", lowerScore)
	}
}

func TestScanEntry_SubstringMatch(t *testing.T) {
	// "hurting" contains "hurt"; substring semantics are deliberate.
	score, detected := ScanEntry("he keeps hurting me")
	if score != 2 || len(detected) != 1 || detected[0] != "hurt" {
		t.Fatalf("score=%d detected=%v, want 2/[hurt]", score, detected)
	}
}

func TestJournalLevel_Bands(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{1, "GREEN"}, {4, "GREEN"}, {5, "YELLOW"}, {7, "YELLOW"}, {8, "RED"}, {10, "RED"},
	}
	for _, tc := range cases {
		if got := JournalLevel(tc.score); string(got) != tc.want {
			t.Fatalf("JournalLevel(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
