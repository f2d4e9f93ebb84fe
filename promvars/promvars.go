// Package promvars exports transaction and listener counts from vars as
// Prometheus metrics.
package promvars

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "vars").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vars",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer implements vars.Observer on top of Prometheus collectors.
type Observer struct {
	commits             prometheus.Counter
	rollbacks           prometheus.Counter
	listenerInvocations prometheus.Counter
	members             prometheus.Histogram
	commitDuration      prometheus.Histogram
}

// New registers the collectors and returns an observer for vars.SetObserver.
// It panics if the collectors are already registered with the registry.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Observer{
		commits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "txn_commits_total",
			Help:        "Total number of committed transactions",
			ConstLabels: config.ConstLabels,
		}),
		rollbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "txn_rollbacks_total",
			Help:        "Total number of rolled back transactions",
			ConstLabels: config.ConstLabels,
		}),
		listenerInvocations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listener_invocations_total",
			Help:        "Total number of listener invocations in post-commit passes",
			ConstLabels: config.ConstLabels,
		}),
		members: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "txn_members",
			Help:        "Number of members per committed transaction",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		}),
		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "txn_commit_duration_seconds",
			Help:        "Time from transaction begin to the end of its commit phase",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
	}
}

func (o *Observer) TxnCommitted(members int, elapsed time.Duration) {
	o.commits.Inc()
	o.members.Observe(float64(members))
	o.commitDuration.Observe(elapsed.Seconds())
}

func (o *Observer) TxnRolledBack(int, error) {
	o.rollbacks.Inc()
}

func (o *Observer) ListenersFired(count int) {
	o.listenerInvocations.Add(float64(count))
}
