// Package aggregator merges service instances from several discovery backends.
// Each backend is wrapped in a named Source; sources are queried in order and
// their instances concatenated, so one DiscoveryClient can front many backends.
// Instances can be filtered per source by service id:
// - Source.ExcludedServiceIDs: service ids to drop
// - Source.IncludedServiceIDs: if specified, only keep these service ids
package aggregator

import (
	"context"
	"errors"
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/cloudpilot-ai/svcdiscovery/pkg/apis/discovery/v1alpha1"
	"github.com/cloudpilot-ai/svcdiscovery/pkg/discoverer"
)

// Source is a named DiscoveryService taking part in aggregation
type Source struct {
	// Name identifies the source in logs and errors
	Name string
	// Service is queried on every DiscoverInstances call
	Service discoverer.DiscoveryService

	// IncludedServiceIDs is a list of service ids that should be kept.
	// If specified, instances without a service id are dropped as well.
	// +optional
	IncludedServiceIDs []string

	// ExcludedServiceIDs is a list of service ids that should be dropped.
	// Exclusion takes precedence over inclusion.
	// +optional
	ExcludedServiceIDs []string
}

func (s *Source) ToIncludedServiceIDSet() sets.Set[string] {
	return sets.New(s.IncludedServiceIDs...)
}

func (s *Source) ToExcludedServiceIDSet() sets.Set[string] {
	return sets.New(s.ExcludedServiceIDs...)
}

// ShouldExcludeInstance determines whether an instance reported by this source is dropped.
// It evaluates the rules in the following order:
//  1. The service id is explicitly excluded
//  2. The service id is missing or not in the included list (if IncludedServiceIDs is specified)
//
// Parameters accept pre-computed sets for efficient O(1) lookups.
func (s *Source) ShouldExcludeInstance(instance *v1alpha1.ServiceInstance, excludedIDs, includedIDs *sets.Set[string]) bool {
	serviceID := instance.ServiceID()

	if serviceID != nil && excludedIDs.Has(*serviceID) {
		return true
	}

	if includedIDs.Len() > 0 && (serviceID == nil || !includedIDs.Has(*serviceID)) {
		return true
	}

	return false
}

// InstanceAggregator aggregates instances from multiple sources. It is itself
// a DiscoveryService and is safe for concurrent use when its sources are.
type InstanceAggregator struct {
	sources []Source
}

var _ discoverer.DiscoveryService = &InstanceAggregator{}

var errNoDiscoveryService = errors.New("no discovery service configured")

// NewInstanceAggregator creates a new InstanceAggregator over the given sources
func NewInstanceAggregator(sources ...Source) *InstanceAggregator {
	return &InstanceAggregator{
		sources: append([]Source(nil), sources...),
	}
}

// DiscoverInstances collects instances from all sources in order. A failing
// source, or one without a Service, is skipped; an error is returned only if
// every source was skipped.
func (ia *InstanceAggregator) DiscoverInstances(ctx context.Context) ([]v1alpha1.ServiceInstance, error) {
	results := []v1alpha1.ServiceInstance{}
	var errs []error

	for i := range ia.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source := &ia.sources[i]
		if source.Service == nil {
			klog.Warningf("Source %s has no discovery service, skipping", source.Name)
			errs = append(errs, fmt.Errorf("source %s: %w", source.Name, errNoDiscoveryService))
			continue
		}

		instances, err := source.Service.DiscoverInstances(ctx)
		if err != nil {
			klog.Warningf("Failed to discover instances from source %s: %v", source.Name, err)
			errs = append(errs, fmt.Errorf("source %s: %w", source.Name, err))
			continue
		}

		excludedIDs := source.ToExcludedServiceIDSet()
		includedIDs := source.ToIncludedServiceIDSet()

		kept := 0
		for j := range instances {
			if source.ShouldExcludeInstance(&instances[j], &excludedIDs, &includedIDs) {
				klog.V(4).Infof("Instance %s from source %s excluded", instances[j], source.Name)
				continue
			}
			results = append(results, instances[j])
			kept++
		}

		klog.V(4).Infof("Aggregated %d of %d instances from source %s", kept, len(instances), source.Name)
	}

	if len(ia.sources) > 0 && len(errs) == len(ia.sources) {
		return nil, utilerrors.NewAggregate(errs)
	}

	return results, nil
}
