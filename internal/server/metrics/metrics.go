// Package metrics collects Prometheus metrics for the credential server and
// serves them, together with a health probe, over HTTP.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	pb "github.com/dmitrijs2005/profilekeeper/internal/proto"
)

const namespace = "profilekeeper"

// OutcomeOK labels calls that returned no error. Failed calls are labelled
// with their gRPC status code.
const OutcomeOK = "ok"

type Metrics struct {
	registry *prometheus.Registry

	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	presigns      *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec

	outcomes map[string]*prometheus.CounterVec
}

// New registers the server metrics on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome",
		}, []string{"outcome"}),

		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),

		presigns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "avatar_presigns_total",
			Help:      "Avatar upload URL requests by outcome",
		}, []string{"outcome"}),

		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Unary RPC handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}

	m.outcomes = map[string]*prometheus.CounterVec{
		pb.CredentialService_Register_FullMethodName:      m.registrations,
		pb.CredentialService_Login_FullMethodName:         m.logins,
		pb.CredentialService_PresignAvatar_FullMethodName: m.presigns,
	}
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// UnaryInterceptor times every call and counts the outcome of the
// account and avatar calls.
func (m *Metrics) UnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err).String()
	m.rpcDuration.WithLabelValues(info.FullMethod, code).Observe(time.Since(start).Seconds())

	if c, ok := m.outcomes[info.FullMethod]; ok {
		outcome := OutcomeOK
		if err != nil {
			outcome = code
		}
		c.WithLabelValues(outcome).Inc()
	}

	return resp, err
}
