package kube

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/internal/config"
	"github.com/lensdock/injectable/internal/logging"
	"github.com/lensdock/injectable/reactive"
)

// DecodeCluster parses a cluster file.
func DecodeCluster(data []byte) (Cluster, error) {
	var c Cluster
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Cluster{}, fmt.Errorf("decoding cluster: %w", err)
	}
	c.fillUIDs()
	return c, nil
}

// Source loads a cluster file into the stores.
type Source struct {
	path        string
	graph       *reactive.Graph
	namespaces  *Store[Namespace]
	replicaSets *Store[ReplicaSet]
	pods        *Store[Pod]
	logger      *slog.Logger
}

// Path returns the cluster file, "" when none is configured.
func (s *Source) Path() string {
	return s.path
}

// Reload reads the cluster file again and replaces the content of every
// store in one batch.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading cluster file: %w", err)
	}
	cluster, err := DecodeCluster(data)
	if err != nil {
		return err
	}

	s.graph.Batch(func() {
		s.namespaces.Replace(cluster.Namespaces)
		s.replicaSets.Replace(cluster.ReplicaSets)
		s.pods.Replace(cluster.Pods)
	})
	s.logger.Debug("cluster reloaded",
		"path", s.path,
		"namespaces", len(cluster.Namespaces),
		"replicaSets", len(cluster.ReplicaSets),
		"pods", len(cluster.Pods))
	return nil
}

// SourceInjectable loads the configured cluster file once on resolution.
var SourceInjectable = injectable.Define("cluster-source", func(ctx *injectable.ResolveCtx) (*Source, error) {
	cfg, err := injectable.Inject(ctx, config.StateInjectable)
	if err != nil {
		return nil, err
	}
	namespaces, err := injectable.Inject(ctx, NamespaceStoreInjectable)
	if err != nil {
		return nil, err
	}
	replicaSets, err := injectable.Inject(ctx, ReplicaSetStoreInjectable)
	if err != nil {
		return nil, err
	}
	pods, err := injectable.Inject(ctx, PodStoreInjectable)
	if err != nil {
		return nil, err
	}

	s := &Source{
		path:        cfg.Peek().ClusterFile,
		graph:       ctx.Graph(),
		namespaces:  namespaces,
		replicaSets: replicaSets,
		pods:        pods,
		logger:      logging.For(ctx, "kube"),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
})

// Module bundles the cluster definitions.
var Module = injectable.NewModule("kube",
	SelectedNamespacesInjectable,
	NamespaceStoreInjectable,
	ReplicaSetStoreInjectable,
	PodStoreInjectable,
	SourceInjectable,
	WatcherInjectable,
)
