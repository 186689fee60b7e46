// Package workloads contributes the replica set overview to the dock.
package workloads

import (
	"fmt"
	"strings"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/fp"
	"github.com/lensdock/injectable/internal/dock"
	"github.com/lensdock/injectable/internal/kube"
	"github.com/lensdock/injectable/reactive"
)

// StatusCounts counts owners by the worst status of the pods they own.
type StatusCounts struct {
	Running int
	Pending int
	Failed  int
}

// Total returns the number of owners counted.
func (s StatusCounts) Total() int {
	return s.Running + s.Pending + s.Failed
}

const (
	statusRunning = "running"
	statusPending = "pending"
	statusFailed  = "failed"
)

func podStatus(p kube.Pod) string {
	switch p.Phase() {
	case kube.PodFailed:
		return statusFailed
	case kube.PodPending, kube.PodUnknown:
		return statusPending
	default:
		return statusRunning
	}
}

// ownerStatus is failed if any pod failed, pending if any pod is pending,
// running otherwise. An owner without pods is running.
func ownerStatus(pods []kube.Pod) string {
	status := statusRunning
	for _, p := range pods {
		switch podStatus(p) {
		case statusFailed:
			return statusFailed
		case statusPending:
			status = statusPending
		}
	}
	return status
}

// ComputeStatusCountsForOwners counts owners by the status of their pods.
// Called inside a derivation, it tracks the pod store.
type ComputeStatusCountsForOwners func(owners []kube.ObjectMeta) StatusCounts

var ComputeStatusCountsForOwnersInjectable = injectable.Define("compute-status-counts-for-owners", func(ctx *injectable.ResolveCtx) (ComputeStatusCountsForOwners, error) {
	pods, err := injectable.Inject(ctx, kube.PodStoreInjectable)
	if err != nil {
		return nil, err
	}

	return func(owners []kube.ObjectMeta) StatusCounts {
		all := pods.Items()
		var counts StatusCounts
		for _, owner := range owners {
			owned := fp.Filter(func(p kube.Pod) bool { return p.Metadata.OwnedBy(owner.UID) })(all)
			switch ownerStatus(owned) {
			case statusFailed:
				counts.Failed++
			case statusPending:
				counts.Pending++
			default:
				counts.Running++
			}
		}
		return counts
	}, nil
})

// ReplicaSetStatusCountsInjectable counts the replica sets of the selected
// namespaces.
var ReplicaSetStatusCountsInjectable = injectable.Define("status-counts-for-all-replica-sets-in-selected-namespaces", func(ctx *injectable.ResolveCtx) (*reactive.Computed[StatusCounts], error) {
	store, err := injectable.Inject(ctx, kube.ReplicaSetStoreInjectable)
	if err != nil {
		return nil, err
	}
	compute, err := injectable.Inject(ctx, ComputeStatusCountsForOwnersInjectable)
	if err != nil {
		return nil, err
	}

	return injectable.NewComputed(ctx, func() (StatusCounts, error) {
		replicaSets, err := store.ContextItems()
		if err != nil {
			return StatusCounts{}, err
		}
		return fp.Pipe2(
			replicaSets,
			fp.Map(kube.ReplicaSet.Meta),
			compute,
		), nil
	}, reactive.Named("replica-set-status-counts")), nil
})

// TabInjectable shows the counts and the replica sets in context.
var TabInjectable = dock.DefineTab(dock.TabSpec{
	ID:    "workloads",
	Title: "Workloads",
	Type:  dock.TabType{ID: "workloads-overview", Title: "Workloads"},
	Flag:  "workloads",
	Content: func(ctx *injectable.ResolveCtx) (*reactive.Computed[string], error) {
		counts, err := injectable.Inject(ctx, ReplicaSetStatusCountsInjectable)
		if err != nil {
			return nil, err
		}
		store, err := injectable.Inject(ctx, kube.ReplicaSetStoreInjectable)
		if err != nil {
			return nil, err
		}

		return injectable.NewComputed(ctx, func() (string, error) {
			c, err := counts.Get()
			if err != nil {
				return "", err
			}
			replicaSets, err := store.ContextItems()
			if err != nil {
				return "", err
			}
			return renderOverview(c, replicaSets), nil
		}, reactive.Named("workloads-content")), nil
	},
})

func renderOverview(counts StatusCounts, replicaSets []kube.ReplicaSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Replica sets: %d   running %d   pending %d   failed %d\n",
		counts.Total(), counts.Running, counts.Pending, counts.Failed)
	if len(replicaSets) == 0 {
		b.WriteString("\nNo replica sets in the selected namespaces.")
		return b.String()
	}

	fmt.Fprintf(&b, "\n%-20s %-32s %s\n", "NAMESPACE", "NAME", "READY")
	for _, rs := range replicaSets {
		fmt.Fprintf(&b, "%-20s %-32s %d/%d\n",
			rs.Metadata.Namespace, rs.Metadata.Name, rs.Status.ReadyReplicas, rs.Spec.Replicas)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Module bundles the workload definitions.
var Module = injectable.NewModule("workloads",
	ComputeStatusCountsForOwnersInjectable,
	ReplicaSetStatusCountsInjectable,
	TabInjectable,
)
