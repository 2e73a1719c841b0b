package prometheus

import (
	"testing"
	"time"

	"github.com/Y-Gwork/go-task-system/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsExporter_RecordMethods(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("tasksystem", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	exporter.RecordTaskDuration(1, 250*time.Millisecond)
	exporter.RecordTaskDuration(core.MainWorkerID, 10*time.Millisecond)
	exporter.RecordTaskPanic(1)
	exporter.RecordTaskStolen(1, 3)
	exporter.RecordQueueDepth(0, 7)

	panicTotal := testutil.ToFloat64(exporter.taskPanicTotal.WithLabelValues("1"))
	if panicTotal != 1 {
		t.Fatalf("panic total = %v, want 1", panicTotal)
	}

	stolen := testutil.ToFloat64(exporter.tasksStolenTotal.WithLabelValues("1", "3"))
	if stolen != 1 {
		t.Fatalf("stolen total = %v, want 1", stolen)
	}

	queueDepth := testutil.ToFloat64(exporter.queueDepth.WithLabelValues("main"))
	if queueDepth != 7 {
		t.Fatalf("queue depth = %v, want 7", queueDepth)
	}

	histCount, err := histogramSampleCount(exporter.taskDurationSeconds.WithLabelValues("main"))
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if histCount != 1 {
		t.Fatalf("duration sample count = %d, want 1", histCount)
	}
}

func TestMetricsExporter_AlreadyRegisteredReuse(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewMetricsExporter("tasksystem", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("first NewMetricsExporter failed: %v", err)
	}
	second, err := NewMetricsExporter("tasksystem", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("second NewMetricsExporter failed: %v", err)
	}

	first.RecordTaskPanic(2)
	second.RecordTaskPanic(2)

	got := testutil.ToFloat64(first.taskPanicTotal.WithLabelValues("2"))
	if got != 2 {
		t.Fatalf("shared panic counter = %v, want 2", got)
	}
}

func TestMetricsExporter_DrivenBySystem(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("tasksystem", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	logger := core.NewNoOpLogger()
	s := core.NewTaskSystemWithConfig(2, &core.SystemConfig{
		Logger:  logger,
		Metrics: exporter,
	})

	task, fut := core.NewReadyTask(func() (int, error) { return 1, nil })
	s.Push(task)
	if _, err := fut.Get(); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	s.Close()

	count, err := histogramSampleCountAny(exporter.taskDurationSeconds)
	if err != nil {
		t.Fatalf("histogramSampleCountAny failed: %v", err)
	}
	if count < 1 {
		t.Fatalf("duration sample count = %d, want >= 1", count)
	}
}

func histogramSampleCount(observer prom.Observer) (uint64, error) {
	collector, ok := observer.(prom.Collector)
	if !ok {
		return 0, nil
	}

	metricCh := make(chan prom.Metric, 1)
	collector.Collect(metricCh)
	close(metricCh)
	for metric := range metricCh {
		msg := &dto.Metric{}
		if err := metric.Write(msg); err != nil {
			return 0, err
		}
		if msg.Histogram != nil {
			return msg.Histogram.GetSampleCount(), nil
		}
	}
	return 0, nil
}

func histogramSampleCountAny(vec *prom.HistogramVec) (uint64, error) {
	metricCh := make(chan prom.Metric, 16)
	vec.Collect(metricCh)
	close(metricCh)

	var total uint64
	for metric := range metricCh {
		msg := &dto.Metric{}
		if err := metric.Write(msg); err != nil {
			return 0, err
		}
		if msg.Histogram != nil {
			total += msg.Histogram.GetSampleCount()
		}
	}
	return total, nil
}
