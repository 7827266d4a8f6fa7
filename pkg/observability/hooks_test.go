package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGatherHooks{}
	g.OnFetchStart(ctx, "a.example", "http://a.example/")
	g.OnFetchComplete(ctx, "a.example", "http://a.example/", 0, time.Second)
	g.OnHostBackoff(ctx, "a.example", time.Second)
	g.OnQueueDrop(ctx, "a.example", "http://a.example/x", "quota")

	i := NoopIndexHooks{}
	i.OnStageStart(ctx, "mkgraph", 100)
	i.OnStageComplete(ctx, "mkgraph", 90, time.Second, nil)
	i.OnInconsistency(ctx, "labelsort", "missing card")

	f := NoopFilterHooks{}
	f.OnVerdict(ctx, "accept", "root")
	f.OnMissingVerdict(ctx)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Gather().(NoopGatherHooks); !ok {
		t.Error("Gather() should return NoopGatherHooks by default")
	}
	if _, ok := Index().(NoopIndexHooks); !ok {
		t.Error("Index() should return NoopIndexHooks by default")
	}
	if _, ok := Filter().(NoopFilterHooks); !ok {
		t.Error("Filter() should return NoopFilterHooks by default")
	}

	customGather := &testGatherHooks{}
	SetGatherHooks(customGather)
	if Gather() != customGather {
		t.Error("SetGatherHooks should set custom hooks")
	}

	customIndex := &testIndexHooks{}
	SetIndexHooks(customIndex)
	if Index() != customIndex {
		t.Error("SetIndexHooks should set custom hooks")
	}

	customFilter := &testFilterHooks{}
	SetFilterHooks(customFilter)
	if Filter() != customFilter {
		t.Error("SetFilterHooks should set custom hooks")
	}

	Reset()
	if _, ok := Gather().(NoopGatherHooks); !ok {
		t.Error("Reset() should restore NoopGatherHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGatherHooks{}
	SetGatherHooks(custom)
	SetGatherHooks(nil)

	if Gather() != custom {
		t.Error("SetGatherHooks(nil) should be ignored")
	}

	Reset()
}

type testGatherHooks struct{ NoopGatherHooks }
type testIndexHooks struct{ NoopIndexHooks }
type testFilterHooks struct{ NoopFilterHooks }
