package game

import (
	"strings"
	"testing"
	"time"
)

func TestSimLog_QueryAndCount(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(time.Second, "H0", "sensor", "gained_sight", "abc at 4.0m", 4)
	sl.Add(2*time.Second, "H0", "planner", "destination", "(1.0,0.0,2.0) behind crate-a", 12)
	sl.Add(3*time.Second, "H1", "planner", "destination", "(5.0,0.0,5.0) behind crate-b", 9)
	sl.AddVerbose(3*time.Second, "H1", "planner", "rejected", "crate-c", 0)

	if n := len(sl.Entries()); n != 3 {
		t.Fatalf("verbose entry recorded on a quiet log: %d entries", n)
	}
	if n := sl.CountCategory("planner", "destination"); n != 2 {
		t.Fatalf("expected 2 destinations, got %d", n)
	}
	if n := sl.Count(LogQuery{Actor: "H1", Category: "planner"}); n != 1 {
		t.Fatalf("expected 1 planner entry for H1, got %d", n)
	}
	got := sl.Select(LogQuery{Key: "destination", Contains: "crate-b"})
	if len(got) != 1 || got[0].Actor != "H1" {
		t.Fatalf("unexpected selection %+v", got)
	}
	if !sl.HasEntry("", "", "4.0m") || sl.HasEntry("sensor", "lost_sight", "") {
		t.Fatal("HasEntry mismatch")
	}
}

func TestSimLog_Format(t *testing.T) {
	sl := NewSimLog(true)
	sl.Add(12250*time.Millisecond, "H0", "planner", "destination", "(18.9,0.0,21.5)", 0)
	sl.AddVerbose(13*time.Second, "H0", "sensor", "probe_miss", "", 0)

	lines := strings.Split(strings.TrimSpace(sl.Format()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), sl.Format())
	}
	if !strings.HasPrefix(lines[0], "[T=0012.25s] H0   planner") {
		t.Fatalf("unexpected line %q", lines[0])
	}
}

func TestTeeLog_VerboseOnlyReachesVerboseSinks(t *testing.T) {
	sl := NewSimLog(true)
	tl := NewThoughtLog()
	tee := teeLog{sl, tl, nil}

	tee.Add(time.Second, "H0", "sensor", "gained_sight", "", 0)
	tee.AddVerbose(2*time.Second, "H0", "sensor", "probe_miss", "", 0)

	if len(sl.Entries()) != 2 {
		t.Fatalf("sim log should keep both entries, got %d", len(sl.Entries()))
	}
	if n := len(tl.Recent()); n != 1 {
		t.Fatalf("thought log should drop verbose entries, got %d", n)
	}
}

func TestThoughtLog_KeepsNewest(t *testing.T) {
	tl := NewThoughtLog()
	for i := 0; i < logMaxEntries+5; i++ {
		tl.Add(time.Duration(i)*time.Second, "H0", "planner", "cycle", "", 0)
	}
	got := tl.Recent()
	if len(got) != logMaxEntries {
		t.Fatalf("expected %d entries, got %d", logMaxEntries, len(got))
	}
	if got[0].At != 5*time.Second || got[len(got)-1].At != time.Duration(logMaxEntries+4)*time.Second {
		t.Fatalf("wrong window: first %v last %v", got[0].At, got[len(got)-1].At)
	}
	tl.Clear()
	if len(tl.Recent()) != 0 {
		t.Fatal("Clear left entries behind")
	}
}
