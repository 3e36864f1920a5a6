package processor

import "testing"

func TestErrorLogRecordsInOrder(t *testing.T) {
	log := NewErrorLog(3)
	log.Record(SeverityInfo, "one", RecommendNone)
	log.Record(SeverityWarning, "two", RecommendRetry)
	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "one" || entries[1].Message != "two" {
		t.Errorf("expected chronological order, got %+v", entries)
	}
}

func TestErrorLogWrapsAtCapacity(t *testing.T) {
	log := NewErrorLog(2)
	log.Record(SeverityInfo, "one", RecommendNone)
	log.Record(SeverityInfo, "two", RecommendNone)
	log.Record(SeverityInfo, "three", RecommendNone) // overwrites "one"

	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected capacity-bounded length 2, got %d", len(entries))
	}
	if entries[0].Message != "two" || entries[1].Message != "three" {
		t.Errorf("expected oldest-first order after wraparound, got %+v", entries)
	}
}

func TestErrorLogNilReceiverIsSafe(t *testing.T) {
	var log *ErrorLog
	log.Record(SeverityError, "should not panic", RecommendNone)
	if entries := log.Entries(); entries != nil {
		t.Errorf("expected nil entries from a nil log, got %v", entries)
	}
}

func TestNewErrorLogDefaultsCapacity(t *testing.T) {
	log := NewErrorLog(0)
	if log.cap != 256 {
		t.Errorf("expected default capacity 256, got %d", log.cap)
	}
}
