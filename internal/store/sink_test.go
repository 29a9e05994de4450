package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nutripick/nutripick/internal/insight"
)

// fakeWriter records saved insights.
type fakeWriter struct {
	mu    sync.Mutex
	saved []*insight.NutritionInsight
}

func (f *fakeWriter) SaveInsight(_ context.Context, ins *insight.NutritionInsight) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, ins)
	return nil
}

func (f *fakeWriter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func testInsight(barcode string) *insight.NutritionInsight {
	return &insight.NutritionInsight{
		ID:       uuid.New(),
		Barcode:  barcode,
		ImageID:  1,
		Language: "fr",
		Priority: insight.PriorityMentionOnly,
	}
}

func TestSinkFlushOnStop(t *testing.T) {
	writer := &fakeWriter{}
	sink := NewSink(SinkConfig{Writer: writer, BatchSize: 100, FlushInterval: time.Hour})
	sink.Start(context.Background())

	sink.Send(testInsight("a"))
	sink.Send(testInsight("b"))
	sink.Send(nil) // nil insights are ignored
	sink.Stop()

	if got := writer.count(); got != 2 {
		t.Errorf("saved = %d, want 2", got)
	}
}

func TestSinkFlushOnBatchSize(t *testing.T) {
	writer := &fakeWriter{}
	sink := NewSink(SinkConfig{Writer: writer, BatchSize: 2, FlushInterval: time.Hour})
	sink.Start(context.Background())
	defer sink.Stop()

	sink.Send(testInsight("a"))
	sink.Send(testInsight("b"))

	deadline := time.Now().Add(2 * time.Second)
	for writer.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := writer.count(); got != 2 {
		t.Errorf("saved = %d, want 2 after batch-size flush", got)
	}
}

func TestSinkSendAfterStop(t *testing.T) {
	writer := &fakeWriter{}
	sink := NewSink(SinkConfig{Writer: writer})
	sink.Start(context.Background())
	sink.Stop()

	// Must not panic; the insight is dropped with a warning.
	sink.Send(testInsight("late"))

	if got := writer.count(); got != 0 {
		t.Errorf("saved = %d, want 0", got)
	}
}
