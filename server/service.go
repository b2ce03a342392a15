package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rhartert/compression-routing/allocation"
	"github.com/rhartert/compression-routing/fragments"
	"github.com/rhartert/compression-routing/routing"
	"github.com/rhartert/sparsesets"
)

// Service implements the logic of every endpoint. It only reads the network
// and the compression set, so a single Service serves concurrent requests.
type Service struct {
	network      *routing.Network
	compressible *sparsesets.Set
	opts         []routing.Option
}

// NewService returns a service answering route queries on network n.
func NewService(n *routing.Network, compressible *sparsesets.Set, opts ...routing.Option) *Service {
	return &Service{
		network:      n,
		compressible: compressible,
		opts:         opts,
	}
}

// ComputeRoute - Compute the best route between two routers
func (s *Service) ComputeRoute(ctx context.Context, req RouteRequest) (ImplResponse, error) {
	src, err := s.network.Lookup(req.Source)
	if err != nil {
		routeQueryTotal.WithLabelValues("unknown_node").Inc()
		return Response(http.StatusBadRequest, nil), err
	}
	dst, err := s.network.Lookup(req.Destination)
	if err != nil {
		routeQueryTotal.WithLabelValues("unknown_node").Inc()
		return Response(http.StatusBadRequest, nil), err
	}

	r, err := routing.Search(s.network, s.compressible, src, dst, s.opts...)
	switch {
	case errors.Is(err, routing.ErrNoPath):
		routeQueryTotal.WithLabelValues("no_path").Inc()
		return Response(http.StatusNotFound, nil), err
	case errors.Is(err, routing.ErrSearchBudget):
		routeQueryTotal.WithLabelValues("budget").Inc()
		return Response(http.StatusUnprocessableEntity, nil), err
	case err != nil:
		return Response(http.StatusInternalServerError, nil), err
	}

	routeQueryTotal.WithLabelValues("ok").Inc()
	routeQueryPops.Observe(float64(r.Pops))
	routeQueryRelaxations.Observe(float64(r.Relaxations))

	return Response(http.StatusOK, RouteResult{
		Latency:      r.Latency,
		Path:         r.Names(s.network),
		CompressedAt: r.CompressedAt(s.network),
	}), nil
}

// Allocate - Distribute fragments over data centers
func (s *Service) Allocate(ctx context.Context, req AllocationRequest) (ImplResponse, error) {
	p, err := allocation.Distribute(req.BaseRisks, req.Fragments)
	if err != nil {
		return Response(http.StatusBadRequest, nil), err
	}
	return Response(http.StatusOK, AllocationResult{
		MaxRisk:   p.MaxRisk.String(),
		Fragments: p.Fragments,
	}), nil
}

// Reconstruct - Validate fragments and reassemble their data
func (s *Service) Reconstruct(ctx context.Context, req ReconstructionRequest) (ImplResponse, error) {
	frags := make(map[int]fragments.Fragment, len(req.Fragments))
	for k, f := range req.Fragments {
		frags[k] = fragments.Fragment{Data: f.Data, Checksum: f.Checksum}
	}

	data, err := fragments.Reconstruct(frags)
	if err != nil {
		var fe *fragments.FragmentError
		if errors.As(err, &fe) {
			kind := fragmentErrorKind(fe)
			fragmentErrorsTotal.WithLabelValues(kind).Inc()
			key := fe.Key
			return Response(http.StatusUnprocessableEntity, ErrorResult{
				Error: err.Error(),
				Kind:  kind,
				Key:   &key,
			}), err
		}
		return Response(http.StatusInternalServerError, nil), err
	}

	return Response(http.StatusOK, ReconstructionResult{Data: data}), nil
}

func fragmentErrorKind(fe *fragments.FragmentError) string {
	if errors.Is(fe, fragments.ErrMissingFragment) {
		return "missing_fragment"
	}
	return "integrity_check_failed"
}
