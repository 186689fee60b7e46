// Package kube holds the cluster objects shown by the dock tabs and the
// reactive stores that serve them.
package kube

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OwnerReference points from a dependent object to its owner.
type OwnerReference struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
	UID  string `yaml:"uid"`
}

// ObjectMeta is the metadata shared by every object.
type ObjectMeta struct {
	UID               string            `yaml:"uid"`
	Name              string            `yaml:"name"`
	Namespace         string            `yaml:"namespace"`
	Labels            map[string]string `yaml:"labels"`
	Annotations       map[string]string `yaml:"annotations"`
	CreationTimestamp time.Time         `yaml:"creationTimestamp"`
	OwnerReferences   []OwnerReference  `yaml:"ownerReferences"`
}

// Object is implemented by every kind the stores hold.
type Object interface {
	Meta() ObjectMeta
}

// LabelList returns the labels as sorted "key=value" strings.
func (m ObjectMeta) LabelList() []string {
	out := make([]string, 0, len(m.Labels))
	for _, k := range slices.Sorted(maps.Keys(m.Labels)) {
		out = append(out, k+"="+m.Labels[k])
	}
	return out
}

// OwnedBy reports whether uid is one of the object's owners.
func (m ObjectMeta) OwnedBy(uid string) bool {
	for _, ref := range m.OwnerReferences {
		if ref.UID == uid {
			return true
		}
	}
	return false
}

// Age formats the time since creation the way kubectl does.
func (m ObjectMeta) Age(now time.Time) string {
	if m.CreationTimestamp.IsZero() {
		return "<unknown>"
	}
	d := now.Sub(m.CreationTimestamp)
	switch {
	case d < 0:
		return "0s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// subnamespaceOfAnnotation marks namespaces created through a parent
// namespace by the hierarchical namespace controller.
const subnamespaceOfAnnotation = "hnc.x-k8s.io/subnamespace-of"

// Namespace is a cluster scoped object.
type Namespace struct {
	Metadata ObjectMeta `yaml:"metadata"`
	Status   struct {
		Phase string `yaml:"phase"`
	} `yaml:"status"`
}

func (n Namespace) Meta() ObjectMeta { return n.Metadata }

// Phase returns the namespace phase, "Active" when unset.
func (n Namespace) Phase() string {
	if n.Status.Phase == "" {
		return "Active"
	}
	return n.Status.Phase
}

// IsSubnamespace reports whether the namespace was created as the child of
// another namespace.
func (n Namespace) IsSubnamespace() bool {
	_, ok := n.Metadata.Annotations[subnamespaceOfAnnotation]
	return ok
}

// SearchFields returns the strings a list filter matches against.
func (n Namespace) SearchFields() []string {
	return append([]string{n.Metadata.Name, n.Phase()}, n.Metadata.LabelList()...)
}

// ReplicaSet owns a set of pods.
type ReplicaSet struct {
	Metadata ObjectMeta `yaml:"metadata"`
	Spec     struct {
		Replicas int `yaml:"replicas"`
	} `yaml:"spec"`
	Status struct {
		ReadyReplicas int `yaml:"readyReplicas"`
	} `yaml:"status"`
}

func (r ReplicaSet) Meta() ObjectMeta { return r.Metadata }

// Pod phases as reported by the cluster.
const (
	PodPending   = "Pending"
	PodRunning   = "Running"
	PodSucceeded = "Succeeded"
	PodFailed    = "Failed"
	PodUnknown   = "Unknown"
)

// Pod is the unit the status counts are computed from.
type Pod struct {
	Metadata ObjectMeta `yaml:"metadata"`
	Status   struct {
		Phase string `yaml:"phase"`
	} `yaml:"status"`
}

func (p Pod) Meta() ObjectMeta { return p.Metadata }

// Phase returns the pod phase, Unknown when unset.
func (p Pod) Phase() string {
	if p.Status.Phase == "" {
		return PodUnknown
	}
	return p.Status.Phase
}

// Cluster is the decoded content of a cluster file.
type Cluster struct {
	Namespaces  []Namespace  `yaml:"namespaces"`
	ReplicaSets []ReplicaSet `yaml:"replicaSets"`
	Pods        []Pod        `yaml:"pods"`
}

// fillUIDs gives every object without a uid a random one, so that owner
// lookups never match two objects by accident.
func (c *Cluster) fillUIDs() {
	for i := range c.Namespaces {
		fillUID(&c.Namespaces[i].Metadata)
	}
	for i := range c.ReplicaSets {
		fillUID(&c.ReplicaSets[i].Metadata)
	}
	for i := range c.Pods {
		fillUID(&c.Pods[i].Metadata)
	}
}

func fillUID(m *ObjectMeta) {
	if strings.TrimSpace(m.UID) == "" {
		m.UID = uuid.NewString()
	}
}
